package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkhive/config"
	"linkhive/eventbus"
	"linkhive/events"
	"linkhive/feeder"
	"linkhive/models"
	"linkhive/services"
)

type fakeImporter struct {
	mu   sync.Mutex
	seen map[string]primitive.ObjectID
}

func (f *fakeImporter) UpsertByUserAndURL(ctx context.Context, b *models.Bookmark) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]primitive.ObjectID)
	}
	k := b.UserID + "|" + b.URL
	if id, ok := f.seen[k]; ok {
		b.ID = id
		return false, nil
	}
	b.ID = primitive.NewObjectID()
	f.seen[k] = b.ID
	return true, nil
}

type fakeHTMLWriter struct {
	mu     sync.Mutex
	stored map[primitive.ObjectID]string
}

func (f *fakeHTMLWriter) UpsertByBookmark(ctx context.Context, h *models.BookmarkHTML) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		f.stored = make(map[primitive.ObjectID]string)
	}
	f.stored[h.BookmarkID] = h.RawHTML
	return nil
}

type fakeBus struct {
	mu        sync.Mutex
	published []eventbus.Event
}

func (f *fakeBus) Publish(ctx context.Context, topic string, event eventbus.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(ctx context.Context, groupID string, topic eventbus.Topic, handler eventbus.EventHandler) error {
	return nil
}

func (f *fakeBus) StartRetryReinjector(ctx context.Context, groupID string, topic eventbus.Topic) error {
	return nil
}

func (f *fakeBus) Close() {}

func TestSyncAllImportsNewItems(t *testing.T) {
	feeds := []config.FeedSource{
		{Name: "blog-a", FeedURL: "https://a.example/feed", UserID: "user-1", Limit: 10},
		{Name: "blog-b", FeedURL: "https://b.example/feed", UserID: "user-1", Limit: 10},
	}
	fetch := func(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error) {
		switch feedURL {
		case "https://a.example/feed":
			return []feeder.FeedItem{
				{Title: "One", Link: "https://a.example/1", PublishedAt: time.Now()},
				{Title: "Two", Link: "https://a.example/2", PublishedAt: time.Now()},
			}, nil
		case "https://b.example/feed":
			return []feeder.FeedItem{
				{Title: "Three", Link: "https://b.example/3", PublishedAt: time.Now()},
			}, nil
		}
		return nil, errors.New("unknown feed")
	}
	render := func(ctx context.Context, url string) (string, error) {
		return "<html><body>" + url + "</body></html>", nil
	}

	importer := &fakeImporter{}
	htmls := &fakeHTMLWriter{}
	bus := &fakeBus{}
	svc := services.NewFeedSyncService(feeds, fetch, render, importer, htmls, bus)

	require.NoError(t, svc.SyncAll(context.Background()))

	assert.Len(t, importer.seen, 3)
	assert.Len(t, htmls.stored, 3)
	require.Len(t, bus.published, 1)

	payload, err := eventbus.DecodeJSON[events.SyncCompletedEvent](bus.published[0])
	require.NoError(t, err)
	assert.Equal(t, events.SyncCompleted, payload.Type)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, 3, payload.ImportedNew)
	assert.Equal(t, 3, payload.TotalScanned)
}

func TestSyncAllSkipsKnownItemsAndBrokenFeeds(t *testing.T) {
	feeds := []config.FeedSource{
		{Name: "ok", FeedURL: "https://ok.example/feed", UserID: "user-1"},
		{Name: "down", FeedURL: "https://down.example/feed", UserID: "user-1"},
	}
	fetch := func(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error) {
		if feedURL == "https://down.example/feed" {
			return nil, errors.New("connection refused")
		}
		return []feeder.FeedItem{
			{Title: "Known", Link: "https://ok.example/known"},
			{Title: "Fresh", Link: "https://ok.example/fresh"},
		}, nil
	}

	importer := &fakeImporter{}
	// mark one item as already imported
	_, err := importer.UpsertByUserAndURL(context.Background(), &models.Bookmark{UserID: "user-1", URL: "https://ok.example/known"})
	require.NoError(t, err)

	bus := &fakeBus{}
	svc := services.NewFeedSyncService(feeds, fetch, nil, importer, &fakeHTMLWriter{}, bus)

	require.NoError(t, svc.SyncAll(context.Background()))

	require.Len(t, bus.published, 1)
	payload, err := eventbus.DecodeJSON[events.SyncCompletedEvent](bus.published[0])
	require.NoError(t, err)
	assert.Equal(t, 1, payload.ImportedNew)
	assert.Equal(t, 2, payload.TotalScanned)
}

func TestSyncAllNoNewItemsPublishesNothing(t *testing.T) {
	feeds := []config.FeedSource{{Name: "ok", FeedURL: "https://ok.example/feed", UserID: "user-1"}}
	fetch := func(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error) {
		return []feeder.FeedItem{{Title: "Known", Link: "https://ok.example/known"}}, nil
	}

	importer := &fakeImporter{}
	_, err := importer.UpsertByUserAndURL(context.Background(), &models.Bookmark{UserID: "user-1", URL: "https://ok.example/known"})
	require.NoError(t, err)

	bus := &fakeBus{}
	svc := services.NewFeedSyncService(feeds, fetch, nil, importer, &fakeHTMLWriter{}, bus)

	require.NoError(t, svc.SyncAll(context.Background()))
	assert.Empty(t, bus.published)
}

func TestSyncAllToleratesRenderFailure(t *testing.T) {
	feeds := []config.FeedSource{{Name: "ok", FeedURL: "https://ok.example/feed", UserID: "user-1"}}
	fetch := func(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error) {
		return []feeder.FeedItem{{Title: "Fresh", Link: "https://ok.example/fresh"}}, nil
	}
	render := func(ctx context.Context, url string) (string, error) {
		return "", errors.New("chrome crashed")
	}

	importer := &fakeImporter{}
	htmls := &fakeHTMLWriter{}
	svc := services.NewFeedSyncService(feeds, fetch, render, importer, htmls, &fakeBus{})

	require.NoError(t, svc.SyncAll(context.Background()))

	assert.Len(t, importer.seen, 1, "bookmark is saved even when rendering fails")
	assert.Empty(t, htmls.stored)
}
