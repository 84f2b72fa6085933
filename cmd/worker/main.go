package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"linkhive/config"
	"linkhive/contentproc"
	"linkhive/db"
	"linkhive/eventbus"
	"linkhive/events"
	"linkhive/feeder"
	"linkhive/llm"
	"linkhive/logger"
	"linkhive/renderer"
	"linkhive/repositories"
	"linkhive/services"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}

	brokers := eventbus.GetBrokers()
	if err := eventbus.EnsureTopics(brokers, eventbus.TopicBookmarkEvents, 3); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
	}
	bus, err := eventbus.NewKafkaEventBus(brokers)
	if err != nil {
		logger.Log.Errorf("failed to create event bus: %v", err)
		os.Exit(1)
	}
	defer bus.Close()

	llmClient, err := llm.NewGeminiClient(cfg.LLM)
	if err != nil {
		logger.Log.Errorf("failed to create completion client: %v", err)
		os.Exit(1)
	}

	bookmarks := repositories.NewBookmarkRepository(db.Database())
	htmls := repositories.NewBookmarkHTMLRepository(db.Database())
	insights := repositories.NewInsightRepository(db.Database())
	tags := repositories.NewTagRepository(db.Database())
	links := repositories.NewBookmarkTagRepository(db.Database())
	aiLogs := repositories.NewAILogRepository(db.Database())
	settings := repositories.NewSettingRepository(db.Database())

	processor := services.NewAIProcessor(
		cfg.Pipeline,
		bookmarks,
		htmls,
		insights,
		tags,
		links,
		aiLogs,
		contentproc.NewProcessor(llmClient, settings),
		llm.IsRateLimitError,
	)

	feedSync := services.NewFeedSyncService(
		cfg.Feeds,
		feeder.FetchFeedItems,
		renderer.FetchHTML,
		bookmarks,
		htmls,
		bus,
	)

	var wg sync.WaitGroup
	pipeline := cfg.Pipeline

	// startup pass: recover bookmarks orphaned in processing by a dead
	// run, then drain after a short delay so dependencies settle
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-time.After(pipeline.StartupDelay()):
		case <-ctx.Done():
			return
		}
		if _, err := processor.RecoverStale(ctx); err != nil {
			logger.Log.Errorf("stale recovery failed: %v", err)
		}
		if err := processor.DrainPending(ctx, ""); err != nil && err != context.Canceled {
			logger.Log.Errorf("startup drain failed: %v", err)
		}
	}()

	// passive scheduler
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(pipeline.Tick())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := processor.RecoverStale(ctx); err != nil && err != context.Canceled {
					logger.Log.Errorf("stale recovery failed: %v", err)
				}
				if err := processor.DrainPending(ctx, ""); err != nil && err != context.Canceled {
					logger.Log.Errorf("scheduled drain failed: %v", err)
				}
			}
		}
	}()

	// feed importer
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(pipeline.FeedSyncInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := feedSync.SyncAll(ctx); err != nil && err != context.Canceled {
					logger.Log.Errorf("feed sync failed: %v", err)
				}
			}
		}
	}()

	// event subscriber: drains on sync completion, re-queues failures on
	// reprocess requests
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := bus.Subscribe(ctx, eventbus.GetGroupID(), eventbus.TopicBookmarkEvents, func(ctx context.Context, ev eventbus.Event) error {
			var peek struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(ev.Payload, &peek); err != nil {
				return err
			}
			switch events.EventType(peek.Type) {
			case events.BookmarkCreated:
				v, err := eventbus.DecodeJSON[events.BookmarkCreatedEvent](ev)
				if err != nil {
					return err
				}
				logger.Log.Infof("bookmark created event for %s", v.URL)
				return processor.DrainPending(ctx, v.UserID)
			case events.SyncCompleted:
				v, err := eventbus.DecodeJSON[events.SyncCompletedEvent](ev)
				if err != nil {
					return err
				}
				return processor.ProcessAfterSync(ctx, v.UserID)
			case events.ReprocessRequested:
				v, err := eventbus.DecodeJSON[events.ReprocessRequestedEvent](ev)
				if err != nil {
					return err
				}
				_, err = processor.RetriggerFailed(ctx, v.UserID)
				return err
			default:
				// event meant for another service, commit and move on
				return nil
			}
		})
		if err != nil && err != context.Canceled {
			logger.Log.Errorf("eventbus subscribe error: %v", err)
		}
	}()

	logger.InfoWithFields("worker started", logger.Fields{
		"batch_size":      pipeline.GetBatchSize(),
		"max_concurrency": pipeline.GetMaxConcurrency(),
		"tick":            pipeline.Tick().String(),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down worker...")

	cancel()
	wg.Wait()
	logger.Log.Info("worker stopped")
}
