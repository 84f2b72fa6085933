package feeder

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

type FeedItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

// lenient http client: some subscribed blogs serve broken cert chains
var feedClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	},
}

// FetchFeedItems fetches a subscribed feed and returns its entries in feed
// order. If limit is greater than 0, at most limit items are returned.
func FetchFeedItems(ctx context.Context, feedURL string, limit int) ([]FeedItem, error) {
	fp := gofeed.NewParser()
	fp.Client = feedClient

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if limit > 0 && len(items) == limit {
			break
		}
		published := time.Time{}
		switch {
		case entry.PublishedParsed != nil:
			published = *entry.PublishedParsed
		case entry.UpdatedParsed != nil:
			published = *entry.UpdatedParsed
		}
		items = append(items, FeedItem{
			Title:       entry.Title,
			Link:        entry.Link,
			PublishedAt: published,
		})
	}

	return items, nil
}
