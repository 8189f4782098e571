package socialapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"menshub/internal/logger"
	"menshub/internal/models"
	"menshub/internal/repository"

	"go.uber.org/zap"
)

// Factory builds an adapter from a credential bag. Overridable in tests.
type Factory func(platform string, creds map[string]string) (API, error)

func DefaultFactory(platform string, creds map[string]string) (API, error) {
	switch platform {
	case models.PlatformFacebook:
		return NewFacebookAPI(creds), nil
	case models.PlatformTwitter:
		return NewTwitterAPI(creds), nil
	case models.PlatformReddit:
		return NewRedditAPI(creds), nil
	case models.PlatformInstagram:
		return NewInstagramAPI(creds), nil
	default:
		return nil, fmt.Errorf("unknown platform %q", platform)
	}
}

// Manager lazily instantiates and validates one adapter per platform from
// stored credentials, gates posting on the rate limit, and records the
// last-posted time.
type Manager struct {
	platforms repository.PlatformRepo
	factory   Factory

	mu         sync.Mutex
	adapters   map[string]API
	lastPosted map[string]time.Time
}

func NewManager(platforms repository.PlatformRepo) *Manager {
	return &Manager{
		platforms:  platforms,
		factory:    DefaultFactory,
		adapters:   make(map[string]API),
		lastPosted: make(map[string]time.Time),
	}
}

// WithFactory swaps the adapter factory; used in tests.
func (m *Manager) WithFactory(f Factory) *Manager {
	m.factory = f
	return m
}

// adapter returns the cached adapter for the platform, initializing and
// validating it on first use.
func (m *Manager) adapter(ctx context.Context, platform string) (API, error) {
	m.mu.Lock()
	if a, ok := m.adapters[platform]; ok {
		m.mu.Unlock()
		return a, nil
	}
	m.mu.Unlock()

	creds, err := m.platforms.GetCredentials(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("load credentials for %s: %w", platform, err)
	}
	if !creds.IsActive {
		return nil, fmt.Errorf("platform %s is disabled", platform)
	}

	a, err := m.factory(platform, creds.Credentials)
	if err != nil {
		return nil, err
	}
	if !a.ValidateCredentials(ctx) {
		return nil, fmt.Errorf("credential validation failed for %s", platform)
	}

	m.mu.Lock()
	m.adapters[platform] = a
	m.mu.Unlock()

	logger.Log.Info("social adapter initialized", zap.String("platform", platform))
	return a, nil
}

// PostToPlatform refuses to post when the platform's rate window has no
// remaining requests, surfacing a descriptive error instead.
func (m *Manager) PostToPlatform(ctx context.Context, platform string, content PostContent) PostResult {
	a, err := m.adapter(ctx, platform)
	if err != nil {
		return PostResult{Success: false, Error: err.Error()}
	}

	rl := a.RateLimitStatus()
	if rl.Remaining <= 0 {
		return PostResult{
			Success: false,
			Error: fmt.Sprintf("rate limit exhausted for %s: %d/%d used, resets at %s",
				platform, rl.Limit, rl.Limit, rl.ResetAt.Format(time.RFC3339)),
		}
	}

	res := a.Post(ctx, content)
	if res.Success {
		m.mu.Lock()
		m.lastPosted[platform] = time.Now()
		m.mu.Unlock()
		if err := m.platforms.RecordLastPost(ctx, platform); err != nil {
			logger.Log.Warn("failed to record last post time",
				zap.String("platform", platform), zap.Error(err))
		}
	}
	return res
}

func (m *Manager) GetEngagement(ctx context.Context, platform, postID string) EngagementResult {
	a, err := m.adapter(ctx, platform)
	if err != nil {
		return EngagementResult{Error: err.Error()}
	}
	return a.GetEngagement(ctx, postID)
}

func (m *Manager) DeletePost(ctx context.Context, platform, postID string) PostResult {
	a, err := m.adapter(ctx, platform)
	if err != nil {
		return PostResult{Success: false, Error: err.Error()}
	}
	return a.DeletePost(ctx, postID)
}

// TestCredentials builds a fresh adapter from the given bag and runs
// validation, without touching the cache. Backs the admin "test" endpoint.
func (m *Manager) TestCredentials(ctx context.Context, platform string, creds map[string]string) (bool, error) {
	a, err := m.factory(platform, creds)
	if err != nil {
		return false, err
	}
	return a.ValidateCredentials(ctx), nil
}

// Invalidate drops the cached adapter so the next post re-reads credentials.
func (m *Manager) Invalidate(platform string) {
	m.mu.Lock()
	delete(m.adapters, platform)
	m.mu.Unlock()
}

// RateLimits reports the current window per initialized adapter.
func (m *Manager) RateLimits() map[string]RateLimit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RateLimit, len(m.adapters))
	for p, a := range m.adapters {
		out[p] = a.RateLimitStatus()
	}
	return out
}

// LastPosted returns the in-process last-post time for the platform.
func (m *Manager) LastPosted(platform string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.lastPosted[platform]
	return t, ok
}
