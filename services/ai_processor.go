package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkhive/config"
	"linkhive/contentproc"
	"linkhive/logger"
	"linkhive/models"
	"linkhive/tagnorm"
)

// Storage contracts consumed by the processor. The mongo repositories
// satisfy them; tests substitute in-memory fakes.

type BookmarkStore interface {
	ClaimPending(ctx context.Context, userID string) (*models.Bookmark, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.AIStatus) error
	SetInsightSnapshot(ctx context.Context, id primitive.ObjectID, snap models.InsightSnapshot, readingTimeMinutes int) error
	ResetFailed(ctx context.Context, userID string) (int64, error)
	ResetStaleProcessing(ctx context.Context, olderThan time.Time) (int64, error)
}

type HTMLStore interface {
	FindByBookmarkID(ctx context.Context, bookmarkID primitive.ObjectID) (*models.BookmarkHTML, error)
}

type InsightStore interface {
	UpsertByBookmark(ctx context.Context, in *models.Insight) error
}

type TagStore interface {
	GetByKey(ctx context.Context, key string) (*models.Tag, error)
	Create(ctx context.Context, name string, typ models.TagType) (*models.Tag, error)
	IncrementUsage(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type LinkStore interface {
	Add(ctx context.Context, bookmarkID, tagID primitive.ObjectID) (bool, error)
}

type AILogStore interface {
	Insert(ctx context.Context, log models.AILog) (primitive.ObjectID, error)
}

// InsightGenerator is the analysis contract; contentproc.Processor is
// the production implementation.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, url, content string, depthLevel int, customPrompt string) (*contentproc.InsightResult, error)
}

// RateLimitClassifier reports whether an error is an upstream throttle
// response.
type RateLimitClassifier func(error) bool

// AIProcessor drains pending bookmarks through the analysis pipeline
// with bounded concurrency and a rate-limit circuit breaker. One
// instance owns the single-flight guard for the whole process.
type AIProcessor struct {
	cfg         config.PipelineConfig
	bookmarks   BookmarkStore
	htmls       HTMLStore
	insights    InsightStore
	tags        TagStore
	links       LinkStore
	aiLogs      AILogStore
	gen         InsightGenerator
	isRateLimit RateLimitClassifier

	draining atomic.Bool
}

func NewAIProcessor(
	cfg config.PipelineConfig,
	bookmarks BookmarkStore,
	htmls HTMLStore,
	insights InsightStore,
	tags TagStore,
	links LinkStore,
	aiLogs AILogStore,
	gen InsightGenerator,
	isRateLimit RateLimitClassifier,
) *AIProcessor {
	if isRateLimit == nil {
		isRateLimit = func(error) bool { return false }
	}
	return &AIProcessor{
		cfg:         cfg,
		bookmarks:   bookmarks,
		htmls:       htmls,
		insights:    insights,
		tags:        tags,
		links:       links,
		aiLogs:      aiLogs,
		gen:         gen,
		isRateLimit: isRateLimit,
	}
}

// DrainPending claims and processes pending bookmarks until none remain.
// A call that arrives while a drain is already running is a no-op: a
// second concurrent drain would race the claim query for the same rows,
// so correctness wins over throughput here.
func (p *AIProcessor) DrainPending(ctx context.Context, userID string) error {
	if !p.draining.CompareAndSwap(false, true) {
		logger.Log.Info("drain already in progress, skipping")
		return nil
	}
	defer p.draining.Store(false)

	batchSize := p.cfg.GetBatchSize()
	coolDown := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, claimErr := p.claimBatch(ctx, userID, batchSize)
		if len(batch) == 0 {
			// a nil claimErr means the pending set is drained
			return claimErr
		}

		// a cooldown owed by the previous batch is only paid once the
		// next claim proves there is more work to slow down for
		if coolDown {
			logger.Log.Warnf("rate-limit burst in previous batch, cooling down for %s", p.cfg.Cooldown())
			select {
			case <-time.After(p.cfg.Cooldown()):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		rateLimited := p.processBatch(ctx, batch)

		// rows claimed before a failed claim have reached a terminal
		// state above, so the error can surface without stranding them
		// in processing
		if claimErr != nil {
			return claimErr
		}

		coolDown = rateLimited > int64(p.cfg.GetRateLimitTrip())
	}
}

// ProcessAfterSync runs a drain right after an external import so fresh
// bookmarks do not wait for the next scheduler tick.
func (p *AIProcessor) ProcessAfterSync(ctx context.Context, userID string) error {
	logger.Log.Infof("sync completed, draining pending bookmarks (user=%q)", userID)
	return p.DrainPending(ctx, userID)
}

// RetriggerFailed flips failed bookmarks back to pending and drains.
// This is the only path that retries failures: the passive scheduler
// leaves them alone so a permanently broken item cannot burn quota
// forever.
func (p *AIProcessor) RetriggerFailed(ctx context.Context, userID string) (int64, error) {
	n, err := p.bookmarks.ResetFailed(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	logger.Log.Infof("re-triggered %d failed bookmarks", n)
	return n, p.DrainPending(ctx, userID)
}

// RecoverStale returns bookmarks stuck in processing by a dead previous
// run to pending so the startup drain can pick them up.
func (p *AIProcessor) RecoverStale(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-p.cfg.StaleProcessingAge())
	n, err := p.bookmarks.ResetStaleProcessing(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Warnf("reset %d stale processing bookmarks to pending", n)
	}
	return n, nil
}

// claimBatch atomically claims up to n pending bookmarks. Each claim is
// a single status flip, so rows claimed here are invisible to any other
// drain pass.
func (p *AIProcessor) claimBatch(ctx context.Context, userID string, n int) ([]models.Bookmark, error) {
	batch := make([]models.Bookmark, 0, n)
	for len(batch) < n {
		bm, err := p.bookmarks.ClaimPending(ctx, userID)
		if err != nil {
			return batch, fmt.Errorf("claim pending bookmark: %w", err)
		}
		if bm == nil {
			break
		}
		batch = append(batch, *bm)
	}
	return batch, nil
}

// processBatch fans the claimed batch out under the concurrency cap and
// fans in before returning. The return value is the number of
// rate-limit errors observed.
func (p *AIProcessor) processBatch(ctx context.Context, batch []models.Bookmark) int64 {
	sem := make(chan struct{}, p.cfg.GetMaxConcurrency())
	var wg sync.WaitGroup
	var rateLimited int64

	for i := range batch {
		bm := batch[i]
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := p.processOne(ctx, &bm); err != nil {
				logger.Log.Errorf("failed to process bookmark %s (%s): %v", bm.ID.Hex(), bm.URL, err)
				if p.isRateLimit(err) {
					atomic.AddInt64(&rateLimited, 1)
				}
			}
		}()
	}
	wg.Wait()
	return atomic.LoadInt64(&rateLimited)
}

// processOne runs the full analysis for a single claimed bookmark and
// always leaves it in a terminal state. Errors are returned for
// accounting but never abort the batch.
func (p *AIProcessor) processOne(ctx context.Context, bm *models.Bookmark) error {
	var rawHTML string
	stored, err := p.htmls.FindByBookmarkID(ctx, bm.ID)
	if err != nil {
		logger.Log.Warnf("failed to load stored HTML for %s, falling back to URL analysis: %v", bm.URL, err)
	} else if stored != nil {
		rawHTML = stored.RawHTML
	}

	processed := contentproc.ProcessContent(rawHTML)

	result, err := p.gen.GenerateInsights(ctx, bm.URL, processed.Text, p.cfg.GetDepthLevel(), "")
	if err != nil {
		p.markFailed(ctx, bm.ID)
		return err
	}

	var aiLogID primitive.ObjectID
	if result.Log != nil {
		aiLogID, err = p.aiLogs.Insert(ctx, models.AILog{
			ModelName:      result.Log.ModelName,
			ModelVersion:   result.Log.ModelVersion,
			InputTokens:    result.Log.TokenUsage.InputTokens,
			OutputTokens:   result.Log.TokenUsage.OutputTokens,
			TotalTokens:    result.Log.TokenUsage.TotalTokens,
			DurationMs:     result.Log.LatencyMs,
			InputPrompt:    result.Log.Prompt,
			OutputResponse: result.Log.Response,
			RequestedAt:    result.Log.GeneratedAt.Add(-time.Duration(result.Log.LatencyMs) * time.Millisecond),
			CompletedAt:    result.Log.GeneratedAt,
		})
		if err != nil {
			// monitoring only, not worth failing the item
			logger.Log.Warnf("failed to insert AI log for %s: %v", bm.URL, err)
		}
	}

	if err := p.insights.UpsertByBookmark(ctx, &models.Insight{
		BookmarkID:   bm.ID,
		AILogID:      aiLogID,
		Summary:      result.Summary,
		Sentiment:    result.Sentiment,
		DepthLevel:   result.DepthLevel,
		Tags:         result.Tags,
		RelatedLinks: result.RelatedLinks,
		ModelName:    result.ModelName,
		GeneratedAt:  result.GeneratedAt,
	}); err != nil {
		p.markFailed(ctx, bm.ID)
		return fmt.Errorf("persist insight: %w", err)
	}

	if err := p.attachTags(ctx, bm.ID, result.Tags); err != nil {
		p.markFailed(ctx, bm.ID)
		return fmt.Errorf("persist tags: %w", err)
	}

	snap := models.InsightSnapshot{
		Summary:      result.Summary,
		Sentiment:    result.Sentiment,
		DepthLevel:   result.DepthLevel,
		Tags:         result.Tags,
		RelatedLinks: result.RelatedLinks,
		ModelName:    result.ModelName,
		GeneratedAt:  result.GeneratedAt,
	}
	if err := p.bookmarks.SetInsightSnapshot(ctx, bm.ID, snap, processed.ReadingTimeMinutes); err != nil {
		p.markFailed(ctx, bm.ID)
		return fmt.Errorf("persist insight snapshot: %w", err)
	}

	if err := p.bookmarks.UpdateStatus(ctx, bm.ID, models.AIStatusCompleted); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	logger.Log.Infof("bookmark %s analyzed (%d tags, sentiment %d)", bm.URL, len(result.Tags), result.Sentiment)
	return nil
}

// attachTags upserts vocabulary entries for the normalized tag names and
// links them to the bookmark, bumping usage only for new associations.
func (p *AIProcessor) attachTags(ctx context.Context, bookmarkID primitive.ObjectID, names []string) error {
	for _, name := range names {
		tag, err := p.tags.GetByKey(ctx, tagnorm.Key(name))
		if err != nil {
			return err
		}
		if tag == nil {
			tag, err = p.tags.Create(ctx, name, models.TagTypeSystem)
			if err != nil {
				return err
			}
		}
		added, err := p.links.Add(ctx, bookmarkID, tag.ID)
		if err != nil {
			return err
		}
		if added {
			if err := p.tags.IncrementUsage(ctx, tag.ID, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *AIProcessor) markFailed(ctx context.Context, id primitive.ObjectID) {
	if err := p.bookmarks.UpdateStatus(ctx, id, models.AIStatusFailed); err != nil {
		logger.Log.Errorf("failed to mark bookmark %s as failed: %v", id.Hex(), err)
	}
}
