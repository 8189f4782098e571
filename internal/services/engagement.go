package services

import (
	"context"

	"menshub/internal/logger"
	"menshub/internal/repository"
	"menshub/internal/socialapi"

	"go.uber.org/zap"
)

// EngagementFetcher is the slice of the manager the syncer needs.
type EngagementFetcher interface {
	GetEngagement(ctx context.Context, platform, postID string) socialapi.EngagementResult
}

// EngagementSyncer refreshes like/share/comment counts for posted items.
type EngagementSyncer struct {
	posts   repository.SocialPostRepo
	fetcher EngagementFetcher
	limit   int
}

func NewEngagementSyncer(posts repository.SocialPostRepo, fetcher EngagementFetcher) *EngagementSyncer {
	return &EngagementSyncer{posts: posts, fetcher: fetcher, limit: 100}
}

// Sync walks recent posted rows and pulls fresh metrics. Per-post failures
// are logged and skipped.
func (s *EngagementSyncer) Sync(ctx context.Context) (int, error) {
	posts, err := s.posts.ListPosted(ctx, s.limit)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range posts {
		if p.PostID == "" {
			continue
		}
		res := s.fetcher.GetEngagement(ctx, p.Platform, p.PostID)
		if !res.Success {
			logger.Log.Warn("engagement sync failed for post",
				zap.Int64("post_id", p.ID),
				zap.String("platform", p.Platform),
				zap.String("error", res.Error),
			)
			continue
		}
		e := res.Engagement
		if err := s.posts.UpdateEngagement(ctx, p.ID, e.Likes, e.Shares, e.Comments); err != nil {
			logger.Log.Error("engagement update failed", zap.Int64("post_id", p.ID), zap.Error(err))
			continue
		}
		updated++
	}

	logger.Log.Info("engagement sync complete", zap.Int("updated", updated), zap.Int("total", len(posts)))
	return updated, nil
}
