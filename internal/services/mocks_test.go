package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"menshub/internal/models"
	"menshub/internal/socialapi"
)

// In-memory fakes shared by the service tests.

type mockArticleRepo struct {
	articles map[int64]*models.Article
	nextID   int64
	byURL    map[string]bool
}

func newMockArticleRepo() *mockArticleRepo {
	return &mockArticleRepo{articles: map[int64]*models.Article{}, byURL: map[string]bool{}}
}

func (m *mockArticleRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.articles[a.ID] = a
	if a.SourceURL != "" {
		m.byURL[a.SourceURL] = true
	}
	return a, nil
}

func (m *mockArticleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	a, ok := m.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d not found", id)
	}
	return a, nil
}

func (m *mockArticleRepo) List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range m.articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockArticleRepo) Update(ctx context.Context, a *models.Article) error {
	m.articles[a.ID] = a
	return nil
}

func (m *mockArticleRepo) Delete(ctx context.Context, id int64) error {
	delete(m.articles, id)
	return nil
}

func (m *mockArticleRepo) SetStatus(ctx context.Context, id int64, status string) error {
	a, ok := m.articles[id]
	if !ok {
		return fmt.Errorf("article %d not found", id)
	}
	a.Status = status
	return nil
}

func (m *mockArticleRepo) PublishedSince(ctx context.Context, since time.Time) ([]*models.Article, error) {
	var out []*models.Article
	for _, a := range m.articles {
		if a.IsPublished() && a.PublishedAt != nil && a.PublishedAt.After(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArticleRepo) ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	return m.byURL[sourceURL], nil
}

type mockRuleRepo struct {
	rules []*models.AutomationRule
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *models.AutomationRule) (int64, error) {
	rule.ID = int64(len(m.rules) + 1)
	m.rules = append(m.rules, rule)
	return rule.ID, nil
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id int64) (*models.AutomationRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("rule %d not found", id)
}

func (m *mockRuleRepo) List(ctx context.Context) ([]*models.AutomationRule, error) {
	return m.rules, nil
}

func (m *mockRuleRepo) ListActive(ctx context.Context) ([]*models.AutomationRule, error) {
	var out []*models.AutomationRule
	for _, r := range m.rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRuleRepo) Update(ctx context.Context, rule *models.AutomationRule) error { return nil }
func (m *mockRuleRepo) Delete(ctx context.Context, id int64) error                    { return nil }

type mockQueueRepo struct {
	mu        sync.Mutex
	items     map[int64]*models.QueueItem
	nextID    int64
	scheduled map[string]bool // platform|timestamp
}

func newMockQueueRepo() *mockQueueRepo {
	return &mockQueueRepo{items: map[int64]*models.QueueItem{}, scheduled: map[string]bool{}}
}

func schedKey(platform string, at time.Time) string {
	return platform + "|" + at.Format(time.RFC3339)
}

func (m *mockQueueRepo) Enqueue(ctx context.Context, item *models.QueueItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// unique (article_id, platform): replace pending rows like the
	// ON CONFLICT clause does
	for _, it := range m.items {
		if it.ArticleID == item.ArticleID && it.Platform == item.Platform {
			it.Priority = item.Priority
			it.ScheduledFor = item.ScheduledFor
			return it.ID, nil
		}
	}
	m.nextID++
	item.ID = m.nextID
	item.Status = models.QueueStatusPending
	item.CreatedAt = time.Now()
	m.items[item.ID] = item
	m.scheduled[schedKey(item.Platform, item.ScheduledFor)] = true
	return item.ID, nil
}

func (m *mockQueueRepo) GetByID(ctx context.Context, id int64) (*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d not found", id)
	}
	return it, nil
}

func (m *mockQueueRepo) ClaimDue(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QueueItem
	now := time.Now()
	for _, it := range m.items {
		if len(out) >= limit {
			break
		}
		if it.Status == models.QueueStatusPending && !it.ScheduledFor.After(now) {
			it.Status = models.QueueStatusProcessing
			it.Attempts++
			copied := *it
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockQueueRepo) Reschedule(ctx context.Context, id int64, at time.Time, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.items[id]
	it.Status = models.QueueStatusPending
	it.ScheduledFor = at
	it.ErrorMessage = &errMsg
	return nil
}

func (m *mockQueueRepo) MarkCompleted(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].Status = models.QueueStatusCompleted
	return nil
}

func (m *mockQueueRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.items[id]
	it.Status = models.QueueStatusFailed
	it.ErrorMessage = &errMsg
	return nil
}

func (m *mockQueueRepo) ResetForRetry(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.items[id]
	it.Status = models.QueueStatusPending
	it.Attempts = 0
	it.ScheduledFor = time.Now().Add(-time.Second)
	return nil
}

func (m *mockQueueRepo) CountsByStatus(ctx context.Context) (*models.QueueStatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c models.QueueStatusCounts
	for _, it := range m.items {
		switch it.Status {
		case models.QueueStatusPending:
			c.Pending++
		case models.QueueStatusProcessing:
			c.Processing++
		case models.QueueStatusCompleted:
			c.Completed++
		case models.QueueStatusFailed:
			c.Failed++
		}
	}
	return &c, nil
}

func (m *mockQueueRepo) ExistsScheduledAt(ctx context.Context, platform string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled[schedKey(platform, at)], nil
}

func (m *mockQueueRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, it := range m.items {
		if it.Status == models.QueueStatusCompleted && it.CreatedAt.Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

type mockPostRepo struct {
	mu     sync.Mutex
	posts  map[string]*models.SocialPost // articleID|platform
	nextID int64
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: map[string]*models.SocialPost{}}
}

func postKey(articleID int64, platform string) string {
	return fmt.Sprintf("%d|%s", articleID, platform)
}

func (m *mockPostRepo) CreatePlaceholder(ctx context.Context, articleID int64, platform string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := postKey(articleID, platform)
	if p, ok := m.posts[key]; ok {
		return p.ID, nil
	}
	m.nextID++
	m.posts[key] = &models.SocialPost{
		ID:        m.nextID,
		ArticleID: articleID,
		Platform:  platform,
		Status:    models.PostStatusPending,
	}
	return m.nextID, nil
}

func (m *mockPostRepo) Upsert(ctx context.Context, post *models.SocialPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := postKey(post.ArticleID, post.Platform)
	if existing, ok := m.posts[key]; ok {
		post.ID = existing.ID
	} else {
		m.nextID++
		post.ID = m.nextID
	}
	m.posts[key] = post
	return nil
}

func (m *mockPostRepo) MarkFailed(ctx context.Context, articleID int64, platform, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := postKey(articleID, platform)
	p, ok := m.posts[key]
	if !ok {
		m.nextID++
		p = &models.SocialPost{ID: m.nextID, ArticleID: articleID, Platform: platform}
		m.posts[key] = p
	}
	p.Status = models.PostStatusFailed
	p.ErrorMessage = &errMsg
	return nil
}

func (m *mockPostRepo) GetByArticleAndPlatform(ctx context.Context, articleID int64, platform string) (*models.SocialPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postKey(articleID, platform)]
	if !ok {
		return nil, fmt.Errorf("post not found")
	}
	return p, nil
}

func (m *mockPostRepo) PlatformsForArticle(ctx context.Context, articleID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.posts {
		if p.ArticleID == articleID && p.Status == models.PostStatusPosted {
			out = append(out, p.Platform)
		}
	}
	return out, nil
}

func (m *mockPostRepo) ListPosted(ctx context.Context, limit int) ([]*models.SocialPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.SocialPost
	for _, p := range m.posts {
		if p.Status == models.PostStatusPosted && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) UpdateEngagement(ctx context.Context, id int64, likes, shares, comments int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			p.Likes, p.Shares, p.Comments = likes, shares, comments
		}
	}
	return nil
}

func (m *mockPostRepo) SetShortURL(ctx context.Context, id int64, shortURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			p.ShortURL = shortURL
		}
	}
	return nil
}

type mockPlatformRepo struct {
	active    map[string]bool
	schedules map[string][]*models.ScheduleSlot
}

func newMockPlatformRepo(active ...string) *mockPlatformRepo {
	m := &mockPlatformRepo{active: map[string]bool{}, schedules: map[string][]*models.ScheduleSlot{}}
	for _, p := range active {
		m.active[p] = true
	}
	return m
}

func (m *mockPlatformRepo) GetCredentials(ctx context.Context, platform string) (*models.PlatformCredentials, error) {
	return &models.PlatformCredentials{Platform: platform, IsActive: m.active[platform]}, nil
}

func (m *mockPlatformRepo) ListPlatforms(ctx context.Context) ([]*models.PlatformCredentials, error) {
	return nil, nil
}

func (m *mockPlatformRepo) ActivePlatforms(ctx context.Context) (map[string]bool, error) {
	return m.active, nil
}

func (m *mockPlatformRepo) UpsertCredentials(ctx context.Context, platform string, creds map[string]string, active bool) error {
	m.active[platform] = active
	return nil
}

func (m *mockPlatformRepo) SetActive(ctx context.Context, platform string, active bool) error {
	m.active[platform] = active
	return nil
}

func (m *mockPlatformRepo) RecordLastPost(ctx context.Context, platform string) error { return nil }

func (m *mockPlatformRepo) ScheduleForPlatform(ctx context.Context, platform string) ([]*models.ScheduleSlot, error) {
	return m.schedules[platform], nil
}

func (m *mockPlatformRepo) ReplaceSchedule(ctx context.Context, platform string, slots []*models.ScheduleSlot) error {
	m.schedules[platform] = slots
	return nil
}

// mockPoster scripts per-platform results and records calls.
type mockPoster struct {
	mu      sync.Mutex
	results map[string][]socialapi.PostResult // popped in order
	calls   []string
}

func newMockPoster() *mockPoster {
	return &mockPoster{results: map[string][]socialapi.PostResult{}}
}

func (m *mockPoster) script(platform string, results ...socialapi.PostResult) {
	m.results[platform] = append(m.results[platform], results...)
}

func (m *mockPoster) PostToPlatform(ctx context.Context, platform string, content socialapi.PostContent) socialapi.PostResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, platform)
	queue := m.results[platform]
	if len(queue) == 0 {
		return socialapi.PostResult{Success: true, PostID: "auto", PostURL: "https://example.com/auto"}
	}
	res := queue[0]
	m.results[platform] = queue[1:]
	return res
}
