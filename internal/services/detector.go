package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

// Detector polls for newly published articles, matches them against the
// automation rules and enqueues one queue item per remaining platform.
// Explicitly constructed and started; there is no ambient singleton.
type Detector struct {
	articles  repository.ArticleRepo
	posts     repository.SocialPostRepo
	queue     repository.SocialQueueRepo
	platforms repository.PlatformRepo
	rules     *AutomationService

	highPriority map[string]struct{}
	now          func() time.Time

	mu        sync.Mutex
	running   bool
	stop      chan struct{}
	lastCheck time.Time
}

type DetectorStatus struct {
	Running       bool      `json:"running"`
	LastCheckTime time.Time `json:"last_check_time"`
}

func NewDetector(
	articles repository.ArticleRepo,
	posts repository.SocialPostRepo,
	queue repository.SocialQueueRepo,
	platforms repository.PlatformRepo,
	rules *AutomationService,
	highPriorityCategories map[string]struct{},
) *Detector {
	d := &Detector{
		articles:     articles,
		posts:        posts,
		queue:        queue,
		platforms:    platforms,
		rules:        rules,
		highPriority: highPriorityCategories,
		now:          time.Now,
	}
	d.lastCheck = d.now()
	return d
}

// StartMonitoring fires one check immediately, then every interval.
func (d *Detector) StartMonitoring(interval time.Duration) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.stop = make(chan struct{})
	stop := d.stop
	d.mu.Unlock()

	logger.Log.Info("article detector started", zap.Duration("interval", interval))

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		d.runCheck()
		for {
			select {
			case <-ticker.C:
				d.runCheck()
			case <-stop:
				return
			}
		}
	}()
}

func (d *Detector) StopMonitoring() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	close(d.stop)
	d.running = false
	logger.Log.Info("article detector stopped")
}

func (d *Detector) Status() DetectorStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectorStatus{Running: d.running, LastCheckTime: d.lastCheck}
}

func (d *Detector) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := d.CheckForNewArticles(ctx); err != nil {
		logger.Log.Error("detector check failed", zap.Error(err))
	}
}

// CheckForNewArticles processes articles published since the last check.
// Per-article failures are logged and skipped; lastCheck only advances after
// the whole batch completes, so a failed batch is retried on the next tick.
func (d *Detector) CheckForNewArticles(ctx context.Context) (int, error) {
	d.mu.Lock()
	since := d.lastCheck
	d.mu.Unlock()

	batchStart := d.now()

	articles, err := d.articles.PublishedSince(ctx, since)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, a := range articles {
		n, err := d.processArticle(ctx, a)
		if err != nil {
			logger.Log.Error("failed to process new article",
				zap.Int64("article_id", a.ID), zap.Error(err))
			continue
		}
		enqueued += n
	}

	d.mu.Lock()
	d.lastCheck = batchStart
	d.mu.Unlock()

	if len(articles) > 0 {
		logger.Log.Info("detector batch complete",
			zap.Int("articles", len(articles)), zap.Int("enqueued", enqueued))
	}
	return enqueued, nil
}

// DetectArticle triggers single-article processing on demand.
func (d *Detector) DetectArticle(ctx context.Context, articleID int64) (int, error) {
	a, err := d.articles.GetByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	return d.processArticle(ctx, a)
}

func (d *Detector) processArticle(ctx context.Context, a *models.Article) (int, error) {
	match, err := d.rules.TestArticle(ctx, a)
	if err != nil {
		return 0, err
	}
	if len(match.Platforms) == 0 {
		return 0, nil
	}

	posted, err := d.posts.PlatformsForArticle(ctx, a.ID)
	if err != nil {
		return 0, err
	}
	postedSet := make(map[string]struct{}, len(posted))
	for _, p := range posted {
		postedSet[p] = struct{}{}
	}

	active, err := d.platforms.ActivePlatforms(ctx)
	if err != nil {
		return 0, err
	}

	priority := d.priorityFor(a)
	enqueued := 0
	for _, platform := range match.Platforms {
		if _, already := postedSet[platform]; already {
			continue
		}
		if !active[platform] {
			continue
		}

		slot, err := d.nextSlot(ctx, platform)
		if err != nil {
			return enqueued, err
		}

		id, err := d.queue.Enqueue(ctx, &models.QueueItem{
			ArticleID:    a.ID,
			Platform:     platform,
			Priority:     priority,
			ScheduledFor: slot,
		})
		if err != nil {
			return enqueued, err
		}
		enqueued++

		logger.Log.Info("article queued for posting",
			zap.Int64("queue_id", id),
			zap.Int64("article_id", a.ID),
			zap.String("platform", platform),
			zap.Int("priority", priority),
			zap.Time("scheduled_for", slot),
		)
	}
	return enqueued, nil
}

// priorityFor is the additive posting-priority heuristic.
func (d *Detector) priorityFor(a *models.Article) int {
	priority := 0
	if a.HasTag("featured") {
		priority += 10
	}
	if _, ok := d.highPriority[a.Category]; ok {
		priority += 5
	}
	if WordCount(a.Content) > 1000 {
		priority += 3
	}
	return priority
}

// nextSlot picks the next free slot from the platform's weekly schedule.
// No schedule: now + 15 minutes. Every upcoming slot in the next week taken
// at that exact timestamp: now + 1 hour.
func (d *Detector) nextSlot(ctx context.Context, platform string) (time.Time, error) {
	now := d.now()

	slots, err := d.platforms.ScheduleForPlatform(ctx, platform)
	if err != nil {
		return time.Time{}, err
	}
	if len(slots) == 0 {
		return now.Add(15 * time.Minute), nil
	}

	var candidates []time.Time
	for offset := 0; offset < 7; offset++ {
		day := now.AddDate(0, 0, offset)
		for _, s := range slots {
			if int(day.Weekday()) != s.DayOfWeek {
				continue
			}
			t := time.Date(day.Year(), day.Month(), day.Day(), s.Hour, s.Minute, 0, 0, now.Location())
			if t.After(now) {
				candidates = append(candidates, t)
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })

	for _, t := range candidates {
		taken, err := d.queue.ExistsScheduledAt(ctx, platform, t)
		if err != nil {
			return time.Time{}, err
		}
		if !taken {
			return t, nil
		}
	}

	return now.Add(time.Hour), nil
}
