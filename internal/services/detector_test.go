package services

import (
	"context"
	"testing"
	"time"

	"menshub/internal/models"
)

func newTestDetector(articles *mockArticleRepo, queue *mockQueueRepo, posts *mockPostRepo, platforms *mockPlatformRepo, rules *mockRuleRepo) *Detector {
	return NewDetector(articles, posts, queue, platforms,
		NewAutomationService(rules),
		map[string]struct{}{"fitness": {}, "nutrition": {}})
}

func matchAllRule(platforms ...string) *models.AutomationRule {
	return &models.AutomationRule{ID: 1, Name: "all", IsActive: true, Platforms: platforms}
}

func publishedArticle(id int64, publishedAt time.Time) *models.Article {
	return &models.Article{
		ID:          id,
		Title:       "Test article",
		Content:     "<p>short body</p>",
		Category:    "gear",
		Status:      models.ArticleStatusPublished,
		PublishedAt: &publishedAt,
	}
}

func TestDetectArticleQueuesActivePlatformsOnly(t *testing.T) {
	articles := newMockArticleRepo()
	queue := newMockQueueRepo()
	posts := newMockPostRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter, models.PlatformFacebook)
	rules := &mockRuleRepo{rules: []*models.AutomationRule{
		matchAllRule(models.PlatformTwitter, models.PlatformFacebook, models.PlatformReddit),
	}}

	a := publishedArticle(1, time.Now())
	articles.articles[1] = a

	d := newTestDetector(articles, queue, posts, platforms, rules)
	n, err := d.DetectArticle(context.Background(), 1)
	if err != nil {
		t.Fatalf("DetectArticle: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 queued (reddit inactive), got %d", n)
	}
}

func TestDetectArticleSkipsAlreadyPosted(t *testing.T) {
	articles := newMockArticleRepo()
	queue := newMockQueueRepo()
	posts := newMockPostRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter, models.PlatformFacebook)
	rules := &mockRuleRepo{rules: []*models.AutomationRule{
		matchAllRule(models.PlatformTwitter, models.PlatformFacebook),
	}}

	a := publishedArticle(1, time.Now())
	articles.articles[1] = a

	now := time.Now()
	_ = posts.Upsert(context.Background(), &models.SocialPost{
		ArticleID: 1, Platform: models.PlatformTwitter,
		Status: models.PostStatusPosted, PostedAt: &now,
	})

	d := newTestDetector(articles, queue, posts, platforms, rules)
	n, err := d.DetectArticle(context.Background(), 1)
	if err != nil {
		t.Fatalf("DetectArticle: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only facebook queued, got %d", n)
	}
}

func TestDetectArticleIdempotent(t *testing.T) {
	articles := newMockArticleRepo()
	queue := newMockQueueRepo()
	posts := newMockPostRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter)
	rules := &mockRuleRepo{rules: []*models.AutomationRule{matchAllRule(models.PlatformTwitter)}}

	a := publishedArticle(1, time.Now())
	articles.articles[1] = a

	d := newTestDetector(articles, queue, posts, platforms, rules)
	if _, err := d.DetectArticle(context.Background(), 1); err != nil {
		t.Fatalf("first detect: %v", err)
	}
	if _, err := d.DetectArticle(context.Background(), 1); err != nil {
		t.Fatalf("second detect: %v", err)
	}

	if len(queue.items) != 1 {
		t.Fatalf("repeat detection must not duplicate queue rows, got %d", len(queue.items))
	}
}

func TestEnqueueRefreshesExistingRow(t *testing.T) {
	queue := newMockQueueRepo()

	first := time.Now().Add(time.Hour).Truncate(time.Second)
	id1, err := queue.Enqueue(context.Background(), &models.QueueItem{
		ArticleID: 1, Platform: models.PlatformTwitter, Priority: 3, ScheduledFor: first,
	})
	if err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	second := first.Add(30 * time.Minute)
	id2, err := queue.Enqueue(context.Background(), &models.QueueItem{
		ArticleID: 1, Platform: models.PlatformTwitter, Priority: 8, ScheduledFor: second,
	})
	if err != nil {
		t.Fatalf("second enqueue: %v", err)
	}

	if id1 != id2 {
		t.Fatalf("same (article, platform) must reuse the row: got ids %d and %d", id1, id2)
	}
	if len(queue.items) != 1 {
		t.Fatalf("queue holds %d rows, want 1", len(queue.items))
	}
	it := queue.items[id1]
	if it.Priority != 8 {
		t.Errorf("priority = %d, want 8", it.Priority)
	}
	if !it.ScheduledFor.Equal(second) {
		t.Errorf("scheduled_for = %v, want %v", it.ScheduledFor, second)
	}
}

func TestPriorityHeuristic(t *testing.T) {
	d := newTestDetector(newMockArticleRepo(), newMockQueueRepo(), newMockPostRepo(),
		newMockPlatformRepo(), &mockRuleRepo{})

	long := make([]byte, 0, 7000)
	for i := 0; i < 1100; i++ {
		long = append(long, []byte("word ")...)
	}

	cases := []struct {
		name    string
		article *models.Article
		want    int
	}{
		{"plain", &models.Article{Category: "gear", Content: "<p>short</p>"}, 0},
		{"featured tag", &models.Article{Category: "gear", Tags: []string{"featured"}, Content: "short"}, 10},
		{"high priority category", &models.Article{Category: "fitness", Content: "short"}, 5},
		{"long body", &models.Article{Category: "gear", Content: string(long)}, 3},
		{"everything", &models.Article{Category: "nutrition", Tags: []string{"featured"}, Content: string(long)}, 18},
	}

	for _, tc := range cases {
		if got := d.priorityFor(tc.article); got != tc.want {
			t.Errorf("%s: expected priority %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestNextSlotNoScheduleFallsBack(t *testing.T) {
	queue := newMockQueueRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter)
	d := newTestDetector(newMockArticleRepo(), queue, newMockPostRepo(), platforms, &mockRuleRepo{})

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // a Monday
	d.now = func() time.Time { return base }

	slot, err := d.nextSlot(context.Background(), models.PlatformTwitter)
	if err != nil {
		t.Fatalf("nextSlot: %v", err)
	}
	if !slot.Equal(base.Add(15 * time.Minute)) {
		t.Errorf("expected now+15m fallback, got %v", slot)
	}
}

func TestNextSlotPicksEarliestFreeSlot(t *testing.T) {
	queue := newMockQueueRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter)
	platforms.schedules[models.PlatformTwitter] = []*models.ScheduleSlot{
		{DayOfWeek: 1, Hour: 9, Minute: 0},  // Monday morning, already past
		{DayOfWeek: 1, Hour: 18, Minute: 0}, // Monday evening
		{DayOfWeek: 3, Hour: 9, Minute: 0},  // Wednesday
	}
	d := newTestDetector(newMockArticleRepo(), queue, newMockPostRepo(), platforms, &mockRuleRepo{})

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // Monday noon
	d.now = func() time.Time { return base }

	slot, err := d.nextSlot(context.Background(), models.PlatformTwitter)
	if err != nil {
		t.Fatalf("nextSlot: %v", err)
	}
	want := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if !slot.Equal(want) {
		t.Errorf("expected Monday 18:00, got %v", slot)
	}
}

func TestNextSlotSkipsTakenSlot(t *testing.T) {
	queue := newMockQueueRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter)
	platforms.schedules[models.PlatformTwitter] = []*models.ScheduleSlot{
		{DayOfWeek: 1, Hour: 18, Minute: 0},
		{DayOfWeek: 3, Hour: 9, Minute: 0},
	}
	d := newTestDetector(newMockArticleRepo(), queue, newMockPostRepo(), platforms, &mockRuleRepo{})

	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }

	monday := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	queue.scheduled[schedKey(models.PlatformTwitter, monday)] = true

	slot, err := d.nextSlot(context.Background(), models.PlatformTwitter)
	if err != nil {
		t.Fatalf("nextSlot: %v", err)
	}
	want := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	if !slot.Equal(want) {
		t.Errorf("expected Wednesday 09:00, got %v", slot)
	}
}

func TestCheckForNewArticlesAdvancesLastCheck(t *testing.T) {
	articles := newMockArticleRepo()
	queue := newMockQueueRepo()
	platforms := newMockPlatformRepo(models.PlatformTwitter)
	rules := &mockRuleRepo{rules: []*models.AutomationRule{matchAllRule(models.PlatformTwitter)}}

	d := newTestDetector(articles, queue, newMockPostRepo(), platforms, rules)

	published := time.Now().Add(time.Minute)
	articles.articles[1] = publishedArticle(1, published)

	before := d.Status().LastCheckTime
	n, err := d.CheckForNewArticles(context.Background())
	if err != nil {
		t.Fatalf("CheckForNewArticles: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 enqueued, got %d", n)
	}
	if !d.Status().LastCheckTime.After(before) && !d.Status().LastCheckTime.Equal(before) {
		t.Error("lastCheck must advance after a successful batch")
	}
}
