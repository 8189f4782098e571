package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"
	"menshub/internal/socialapi"

	"go.uber.org/zap"
)

// Poster is the slice of the social API manager the queue needs.
type Poster interface {
	PostToPlatform(ctx context.Context, platform string, content socialapi.PostContent) socialapi.PostResult
}

// BackoffPolicy computes the reschedule delay after the given attempt
// (1-based). Kept as a function so the policy is configurable, not inline
// arithmetic.
type BackoffPolicy func(attempt int) time.Duration

// DefaultBackoff doubles a 5 minute base per attempt: 5, 10, 20 minutes.
func DefaultBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 3 {
		attempt = 3
	}
	return 5 * time.Minute << (attempt - 1)
}

const (
	queueBatchSize   = 10
	queueMaxAttempts = 3
)

// Queue drains the persisted post queue: claim due items, format content,
// generate a tracking URL, post through the manager, record the outcome, and
// retry failures with backoff up to the attempt cap.
type Queue struct {
	queue    repository.SocialQueueRepo
	posts    repository.SocialPostRepo
	articles repository.ArticleRepo
	poster   Poster
	tracking *TrackingService

	backoff     BackoffPolicy
	maxAttempts int
	batchSize   int
	now         func() time.Time

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

func NewQueue(
	queue repository.SocialQueueRepo,
	posts repository.SocialPostRepo,
	articles repository.ArticleRepo,
	poster Poster,
	tracking *TrackingService,
) *Queue {
	return &Queue{
		queue:       queue,
		posts:       posts,
		articles:    articles,
		poster:      poster,
		tracking:    tracking,
		backoff:     DefaultBackoff,
		maxAttempts: queueMaxAttempts,
		batchSize:   queueBatchSize,
		now:         time.Now,
	}
}

// WithBackoff swaps the retry policy.
func (q *Queue) WithBackoff(p BackoffPolicy) *Queue {
	q.backoff = p
	return q
}

// StartProcessing drains the queue once immediately, then every interval.
func (q *Queue) StartProcessing(interval time.Duration) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.stop = make(chan struct{})
	stop := q.stop
	q.mu.Unlock()

	logger.Log.Info("social post queue started", zap.Duration("interval", interval))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		q.runBatch()
		for {
			select {
			case <-ticker.C:
				q.runBatch()
			case <-stop:
				return
			}
		}
	}()
}

func (q *Queue) StopProcessing() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return
	}
	close(q.stop)
	q.running = false
	logger.Log.Info("social post queue stopped")
}

func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

func (q *Queue) runBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := q.ProcessQueue(ctx); err != nil {
		logger.Log.Error("queue batch failed", zap.Error(err))
	}
}

// ProcessQueue claims and works one batch of due items, ordered by priority
// then scheduled time. Returns how many items completed successfully.
func (q *Queue) ProcessQueue(ctx context.Context) (int, error) {
	items, err := q.queue.ClaimDue(ctx, q.batchSize)
	if err != nil {
		return 0, err
	}

	// RETURNING does not preserve the claim subselect's order.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		return items[i].ScheduledFor.Before(items[j].ScheduledFor)
	})

	completed := 0
	for _, it := range items {
		if err := q.processItem(ctx, it); err != nil {
			logger.Log.Warn("queue item did not complete",
				zap.Int64("queue_id", it.ID),
				zap.String("platform", it.Platform),
				zap.Int("attempts", it.Attempts),
				zap.Error(err),
			)
			continue
		}
		completed++
	}
	return completed, nil
}

// processItem runs one claimed item end to end. The item arrives with
// status=processing and attempts already incremented by the claim.
func (q *Queue) processItem(ctx context.Context, it *models.QueueItem) error {
	article, err := q.articles.GetByID(ctx, it.ArticleID)
	if err != nil {
		return q.handleFailure(ctx, it, fmt.Sprintf("article %d not found: %v", it.ArticleID, err))
	}

	link := q.tracking.TrackingURL(ctx, article, it.Platform)
	content := FormatForPlatform(article, it.Platform, link)

	res := q.poster.PostToPlatform(ctx, it.Platform, content)
	if !res.Success {
		return q.handleFailure(ctx, it, res.Error)
	}

	postedAt := q.now()
	post := &models.SocialPost{
		ArticleID: it.ArticleID,
		Platform:  it.Platform,
		Content:   content.Text,
		PostID:    res.PostID,
		PostURL:   res.PostURL,
		ShortURL:  link,
		Status:    models.PostStatusPosted,
		PostedAt:  &postedAt,
	}
	if err := q.posts.Upsert(ctx, post); err != nil {
		return q.handleFailure(ctx, it, fmt.Sprintf("record post: %v", err))
	}

	if err := q.queue.MarkCompleted(ctx, it.ID); err != nil {
		return err
	}

	logger.Log.Info("article posted",
		zap.Int64("article_id", it.ArticleID),
		zap.String("platform", it.Platform),
		zap.String("post_url", res.PostURL),
	)
	return nil
}

// handleFailure reschedules with backoff below the attempt cap and marks the
// item permanently failed once the cap is reached, keeping the last error
// for operator inspection.
func (q *Queue) handleFailure(ctx context.Context, it *models.QueueItem, msg string) error {
	if it.Attempts < q.maxAttempts {
		at := q.now().Add(q.backoff(it.Attempts))
		if err := q.queue.Reschedule(ctx, it.ID, at, msg); err != nil {
			return err
		}
		return fmt.Errorf("attempt %d failed, rescheduled: %s", it.Attempts, msg)
	}

	if err := q.queue.MarkFailed(ctx, it.ID, msg); err != nil {
		return err
	}
	if err := q.posts.MarkFailed(ctx, it.ArticleID, it.Platform, msg); err != nil {
		logger.Log.Error("failed to record failed post",
			zap.Int64("article_id", it.ArticleID), zap.Error(err))
	}
	return fmt.Errorf("permanently failed after %d attempts: %s", it.Attempts, msg)
}

func (q *Queue) Status(ctx context.Context) (*models.QueueStatusCounts, error) {
	return q.queue.CountsByStatus(ctx)
}

// Retry resets a failed item so the next batch picks it up again.
func (q *Queue) Retry(ctx context.Context, id int64) error {
	return q.queue.ResetForRetry(ctx, id)
}

// Cleanup deletes completed items older than daysOld days.
func (q *Queue) Cleanup(ctx context.Context, daysOld int) (int64, error) {
	cutoff := q.now().AddDate(0, 0, -daysOld)
	n, err := q.queue.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("queue cleanup", zap.Int64("deleted", n), zap.Int("days_old", daysOld))
	}
	return n, nil
}
