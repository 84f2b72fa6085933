package services

import (
	"context"
	"time"

	"linkhive/config"
	"linkhive/eventbus"
	"linkhive/events"
	"linkhive/feeder"
	"linkhive/logger"
	"linkhive/models"
)

// FeedFetcher fetches entries from one external feed. feeder.FetchFeedItems
// is the production implementation.
type FeedFetcher func(ctx context.Context, feedURL string, limit int) ([]feeder.FeedItem, error)

// HTMLRenderer returns the rendered HTML of a page. renderer.FetchHTML is
// the production implementation.
type HTMLRenderer func(ctx context.Context, url string) (string, error)

// BookmarkImporter is the subset of the bookmark store the importer
// needs.
type BookmarkImporter interface {
	UpsertByUserAndURL(ctx context.Context, b *models.Bookmark) (bool, error)
}

// HTMLWriter persists rendered page HTML for later analysis.
type HTMLWriter interface {
	UpsertByBookmark(ctx context.Context, h *models.BookmarkHTML) error
}

// FeedSyncService imports bookmarks from subscribed feeds. New items are
// saved as pending and their HTML is prefetched so the analysis run does
// not have to render pages itself.
type FeedSyncService struct {
	feeds     []config.FeedSource
	fetch     FeedFetcher
	render    HTMLRenderer
	bookmarks BookmarkImporter
	htmls     HTMLWriter
	bus       eventbus.EventBus
}

func NewFeedSyncService(
	feeds []config.FeedSource,
	fetch FeedFetcher,
	render HTMLRenderer,
	bookmarks BookmarkImporter,
	htmls HTMLWriter,
	bus eventbus.EventBus,
) *FeedSyncService {
	return &FeedSyncService{
		feeds:     feeds,
		fetch:     fetch,
		render:    render,
		bookmarks: bookmarks,
		htmls:     htmls,
		bus:       bus,
	}
}

// SyncAll imports every configured feed and publishes one SyncCompleted
// event per user that received new bookmarks. A broken feed is logged
// and skipped; the remaining feeds still sync.
func (s *FeedSyncService) SyncAll(ctx context.Context) error {
	type userCount struct {
		imported int
		scanned  int
	}
	perUser := make(map[string]*userCount)

	for _, src := range s.feeds {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := s.fetch(ctx, src.FeedURL, src.Limit)
		if err != nil {
			logger.Log.Errorf("failed to fetch feed %s (%s): %v", src.Name, src.FeedURL, err)
			continue
		}

		uc, ok := perUser[src.UserID]
		if !ok {
			uc = &userCount{}
			perUser[src.UserID] = uc
		}

		for _, item := range items {
			uc.scanned++
			inserted, err := s.importItem(ctx, src.UserID, item)
			if err != nil {
				logger.Log.Errorf("failed to import %s from feed %s: %v", item.Link, src.Name, err)
				continue
			}
			if inserted {
				uc.imported++
			}
		}
		logger.Log.Infof("feed %s synced: %d items scanned", src.Name, len(items))
	}

	for userID, uc := range perUser {
		if uc.imported == 0 {
			continue
		}
		s.publishSyncCompleted(ctx, userID, uc.imported, uc.scanned)
	}
	return nil
}

// importItem saves one feed entry as a pending bookmark and, for new
// entries, prefetches the page HTML. Render failures are tolerated: the
// analysis falls back to URL-direct mode.
func (s *FeedSyncService) importItem(ctx context.Context, userID string, item feeder.FeedItem) (bool, error) {
	bm := &models.Bookmark{
		UserID:             userID,
		URL:                item.Link,
		Title:              item.Title,
		AIProcessingStatus: models.AIStatusPending,
	}
	inserted, err := s.bookmarks.UpsertByUserAndURL(ctx, bm)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	if s.render != nil {
		start := time.Now()
		html, err := s.render(ctx, item.Link)
		if err != nil {
			logger.Log.Warnf("failed to render %s, analysis will use the URL only: %v", item.Link, err)
			return true, nil
		}
		if err := s.htmls.UpsertByBookmark(ctx, &models.BookmarkHTML{
			BookmarkID:      bm.ID,
			RawHTML:         html,
			FetchedAt:       time.Now(),
			FetchDurationMs: time.Since(start).Milliseconds(),
			HTMLSizeBytes:   int64(len(html)),
		}); err != nil {
			logger.Log.Warnf("failed to store HTML for %s: %v", item.Link, err)
		}
	}
	return true, nil
}

func (s *FeedSyncService) publishSyncCompleted(ctx context.Context, userID string, imported, scanned int) {
	if s.bus == nil {
		return
	}
	payload := events.SyncCompletedEvent{
		BaseEvent: events.BaseEvent{
			Type:      events.SyncCompleted,
			Timestamp: time.Now(),
			Source:    "worker",
			Version:   "1.0",
		},
		UserID:       userID,
		ImportedNew:  imported,
		TotalScanned: scanned,
	}
	evt, err := eventbus.NewJSONEvent("", payload, 0)
	if err != nil {
		logger.Log.Errorf("failed to build sync completed event: %v", err)
		return
	}
	if err := s.bus.Publish(ctx, eventbus.TopicBookmarkEvents.Base(), evt); err != nil {
		logger.Log.Errorf("failed to publish sync completed event: %v", err)
		return
	}
	logger.Log.Infof("sync completed for user %s: %d new of %d scanned", userID, imported, scanned)
}
