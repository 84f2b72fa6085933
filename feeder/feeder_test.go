package feeder_test

import (
	"context"
	"testing"

	"linkhive/feeder"
)

func TestFetchFeedItems(t *testing.T) {
	if testing.Short() {
		t.Skip("network test")
	}
	items, err := feeder.FetchFeedItems(context.Background(), "https://tech.kakao.com/feed/", 10)
	if err != nil {
		t.Fatal(err)
	}
	t.Log(items)
}
