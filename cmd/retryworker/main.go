package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"linkhive/config"
	"linkhive/eventbus"
	"linkhive/logger"
)

// The retry worker moves delayed events from the retry topics back onto
// the base topic once their delay has elapsed. It runs separately from
// the main worker so a slow drain cannot starve reinjection.
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	groupID := eventbus.GetGroupID() + "-reinjector"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bus.StartRetryReinjector(ctx, groupID, eventbus.TopicBookmarkEvents); err != nil && err != context.Canceled {
			logger.Log.Errorf("retry reinjector error: %v", err)
		}
	}()

	logger.Log.Info("retry worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Log.Info("received shutdown signal, shutting down retry worker...")

	cancel()
	wg.Wait()
	logger.Log.Info("retry worker stopped")
}
