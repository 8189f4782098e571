package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"menshub/internal/models"
	"menshub/internal/socialapi"
)

func newTestQueue(t *testing.T) (*Queue, *mockQueueRepo, *mockPostRepo, *mockArticleRepo, *mockPoster) {
	t.Helper()
	queueRepo := newMockQueueRepo()
	postRepo := newMockPostRepo()
	articleRepo := newMockArticleRepo()
	poster := newMockPoster()
	tracking := NewTrackingService(postRepo, "https://menshub.example.com", "")
	q := NewQueue(queueRepo, postRepo, articleRepo, poster, tracking)
	return q, queueRepo, postRepo, articleRepo, poster
}

func enqueueDue(t *testing.T, queueRepo *mockQueueRepo, articleID int64, platform string) int64 {
	t.Helper()
	id, err := queueRepo.Enqueue(context.Background(), &models.QueueItem{
		ArticleID:    articleID,
		Platform:     platform,
		ScheduledFor: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return id
}

func TestDefaultBackoffSeries(t *testing.T) {
	cases := map[int]time.Duration{
		1: 5 * time.Minute,
		2: 10 * time.Minute,
		3: 20 * time.Minute,
	}
	for attempt, want := range cases {
		if got := DefaultBackoff(attempt); got != want {
			t.Errorf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
}

func TestProcessQueuePostsAndCompletes(t *testing.T) {
	q, queueRepo, postRepo, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Test", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})
	itemID := enqueueDue(t, queueRepo, a.ID, models.PlatformTwitter)

	poster.script(models.PlatformTwitter, socialapi.PostResult{
		Success: true, PostID: "tw-1", PostURL: "https://twitter.com/i/status/tw-1",
	})

	n, err := q.ProcessQueue(context.Background())
	if err != nil {
		t.Fatalf("ProcessQueue: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 completed, got %d", n)
	}

	it, _ := queueRepo.GetByID(context.Background(), itemID)
	if it.Status != models.QueueStatusCompleted {
		t.Errorf("expected item completed, got %s", it.Status)
	}

	post, err := postRepo.GetByArticleAndPlatform(context.Background(), a.ID, models.PlatformTwitter)
	if err != nil {
		t.Fatalf("post row missing: %v", err)
	}
	if post.Status != models.PostStatusPosted || post.PostID != "tw-1" {
		t.Errorf("unexpected post row: %+v", post)
	}
	if !strings.Contains(post.ShortURL, "utm_source=twitter") {
		t.Errorf("expected UTM fallback link, got %q", post.ShortURL)
	}
}

func TestProcessQueueRetriesWithBackoff(t *testing.T) {
	q, queueRepo, _, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Test", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})
	itemID := enqueueDue(t, queueRepo, a.ID, models.PlatformFacebook)

	poster.script(models.PlatformFacebook, socialapi.PostResult{Success: false, Error: "rate limited"})

	base := time.Now()
	q.now = func() time.Time { return base }

	if n, err := q.ProcessQueue(context.Background()); err != nil || n != 0 {
		t.Fatalf("expected failed batch (n=0), got n=%d err=%v", n, err)
	}

	it, _ := queueRepo.GetByID(context.Background(), itemID)
	if it.Status != models.QueueStatusPending {
		t.Fatalf("expected reschedule to pending, got %s", it.Status)
	}
	if it.Attempts != 1 {
		t.Errorf("expected attempts=1 after first claim, got %d", it.Attempts)
	}
	want := base.Add(5 * time.Minute)
	if !it.ScheduledFor.Equal(want) {
		t.Errorf("expected reschedule at %v, got %v", want, it.ScheduledFor)
	}
	if it.ErrorMessage == nil || *it.ErrorMessage != "rate limited" {
		t.Errorf("expected error message preserved, got %v", it.ErrorMessage)
	}
}

func TestProcessQueueFailsPermanentlyAfterMaxAttempts(t *testing.T) {
	q, queueRepo, postRepo, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Test", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})
	itemID := enqueueDue(t, queueRepo, a.ID, models.PlatformReddit)

	poster.script(models.PlatformReddit,
		socialapi.PostResult{Success: false, Error: "boom 1"},
		socialapi.PostResult{Success: false, Error: "boom 2"},
		socialapi.PostResult{Success: false, Error: "boom 3"},
	)

	for i := 0; i < 3; i++ {
		// make the backoff irrelevant so the next batch claims it again
		if _, err := q.ProcessQueue(context.Background()); err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
		it, _ := queueRepo.GetByID(context.Background(), itemID)
		if it.Status == models.QueueStatusPending {
			it.ScheduledFor = time.Now().Add(-time.Second)
		}
	}

	it, _ := queueRepo.GetByID(context.Background(), itemID)
	if it.Status != models.QueueStatusFailed {
		t.Fatalf("expected permanent failure after 3 attempts, got %s", it.Status)
	}
	if it.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", it.Attempts)
	}

	post, err := postRepo.GetByArticleAndPlatform(context.Background(), a.ID, models.PlatformReddit)
	if err != nil {
		t.Fatalf("failed post row missing: %v", err)
	}
	if post.Status != models.PostStatusFailed {
		t.Errorf("expected post row marked failed, got %s", post.Status)
	}
}

func TestProcessQueueFailTwiceThenSucceed(t *testing.T) {
	q, queueRepo, postRepo, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Test", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})
	itemID := enqueueDue(t, queueRepo, a.ID, models.PlatformTwitter)

	poster.script(models.PlatformTwitter,
		socialapi.PostResult{Success: false, Error: "timeout"},
		socialapi.PostResult{Success: false, Error: "timeout"},
		socialapi.PostResult{Success: true, PostID: "tw-2", PostURL: "https://twitter.com/i/status/tw-2"},
	)

	for i := 0; i < 3; i++ {
		if _, err := q.ProcessQueue(context.Background()); err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
		it, _ := queueRepo.GetByID(context.Background(), itemID)
		if it.Status == models.QueueStatusPending {
			it.ScheduledFor = time.Now().Add(-time.Second)
		}
	}

	it, _ := queueRepo.GetByID(context.Background(), itemID)
	if it.Status != models.QueueStatusCompleted {
		t.Fatalf("expected completion on third attempt, got %s", it.Status)
	}

	post, _ := postRepo.GetByArticleAndPlatform(context.Background(), a.ID, models.PlatformTwitter)
	if post == nil || post.Status != models.PostStatusPosted {
		t.Errorf("expected posted row, got %+v", post)
	}
}

func TestRetryResetsFailedItem(t *testing.T) {
	q, queueRepo, _, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Test", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})
	itemID := enqueueDue(t, queueRepo, a.ID, models.PlatformTwitter)

	it, _ := queueRepo.GetByID(context.Background(), itemID)
	it.Status = models.QueueStatusFailed
	it.Attempts = 3

	if err := q.Retry(context.Background(), itemID); err != nil {
		t.Fatalf("Retry: %v", err)
	}

	poster.script(models.PlatformTwitter, socialapi.PostResult{Success: true, PostID: "tw-3"})
	n, err := q.ProcessQueue(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected retried item to post, n=%d err=%v", n, err)
	}
}

func TestStartStopProcessing(t *testing.T) {
	q, _, _, _, _ := newTestQueue(t)

	q.StartProcessing(time.Hour)
	if !q.Running() {
		t.Fatal("expected queue running after start")
	}
	q.StartProcessing(time.Hour) // second start is a no-op
	q.StopProcessing()
	if q.Running() {
		t.Fatal("expected queue stopped")
	}
	q.StopProcessing() // second stop is a no-op
}

func TestProcessQueueOrdersBatchByPriority(t *testing.T) {
	q, queueRepo, _, articleRepo, poster := newTestQueue(t)

	a, _ := articleRepo.Create(context.Background(), &models.Article{
		Title: "Ordered", Content: "<p>body</p>", Status: models.ArticleStatusPublished,
	})

	// Claimed rows arrive in no particular order; the batch must still be
	// worked highest priority first, earliest slot breaking ties.
	base := time.Now().Add(-time.Hour)
	for _, it := range []*models.QueueItem{
		{ArticleID: a.ID, Platform: models.PlatformTwitter, Priority: 0, ScheduledFor: base},
		{ArticleID: a.ID, Platform: models.PlatformFacebook, Priority: 10, ScheduledFor: base.Add(time.Minute)},
		{ArticleID: a.ID, Platform: models.PlatformReddit, Priority: 5, ScheduledFor: base.Add(2 * time.Minute)},
		{ArticleID: a.ID, Platform: models.PlatformInstagram, Priority: 5, ScheduledFor: base.Add(time.Minute)},
	} {
		if _, err := queueRepo.Enqueue(context.Background(), it); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	n, err := q.ProcessQueue(context.Background())
	if err != nil {
		t.Fatalf("ProcessQueue: %v", err)
	}
	if n != 4 {
		t.Fatalf("completed = %d, want 4", n)
	}

	want := []string{
		models.PlatformFacebook,
		models.PlatformInstagram,
		models.PlatformReddit,
		models.PlatformTwitter,
	}
	if len(poster.calls) != len(want) {
		t.Fatalf("posted %d items, want %d", len(poster.calls), len(want))
	}
	for i, platform := range want {
		if poster.calls[i] != platform {
			t.Errorf("post %d went to %s, want %s", i, poster.calls[i], platform)
		}
	}
}
