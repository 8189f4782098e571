// Package socialapi holds the per-platform posting adapters and the manager
// that owns their lifecycle. Adapters report outcomes as structured results
// instead of errors so callers can branch without exception handling.
package socialapi

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// PostContent is the platform-ready payload produced by the formatter.
type PostContent struct {
	Text     string
	LinkURL  string
	ImageURL string
}

type PostResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	PostURL string `json:"post_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Engagement struct {
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
}

type EngagementResult struct {
	Success    bool       `json:"success"`
	Engagement Engagement `json:"engagement"`
	Error      string     `json:"error,omitempty"`
}

type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// API is the uniform adapter contract.
type API interface {
	Platform() string
	Post(ctx context.Context, content PostContent) PostResult
	DeletePost(ctx context.Context, postID string) PostResult
	GetEngagement(ctx context.Context, postID string) EngagementResult
	ValidateCredentials(ctx context.Context) bool
	RateLimitStatus() RateLimit
}

func failure(msg string) PostResult { return PostResult{Success: false, Error: msg} }

// rateWindow is a fixed-window request counter. Each adapter carries one so
// the manager can refuse to post once the window is exhausted.
type rateWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	count   int
	resetAt time.Time
	now     func() time.Time
}

func newRateWindow(limit int, window time.Duration) *rateWindow {
	return &rateWindow{limit: limit, window: window, now: time.Now}
}

func (w *rateWindow) status() RateLimit {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.roll()
	return RateLimit{Limit: w.limit, Remaining: w.limit - w.count, ResetAt: w.resetAt}
}

func (w *rateWindow) record() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.roll()
	w.count++
}

func (w *rateWindow) roll() {
	now := w.now()
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(w.window)
	}
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
