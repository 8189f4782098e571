package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo interface {
	ContentStats(ctx context.Context) (*models.ContentStats, error)
}

type statsRepo struct{ db *pgxpool.Pool }

func NewStatsRepo(db *pgxpool.Pool) StatsRepo { return &statsRepo{db: db} }

func (r *statsRepo) ContentStats(ctx context.Context) (*models.ContentStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM articles WHERE status = 'draft'),
			(SELECT COUNT(*) FROM articles WHERE status = 'published'),
			(SELECT COUNT(*) FROM ads WHERE is_active = TRUE),
			(SELECT COALESCE(SUM(clicks), 0) FROM ads),
			(SELECT COUNT(*) FROM import_sources),
			(SELECT COUNT(*) FROM keyword_links),
			(SELECT COUNT(*) FROM social_post_queue WHERE status = 'pending'),
			(SELECT COUNT(*) FROM social_post_queue WHERE status = 'failed'),
			(SELECT COUNT(*) FROM social_posts WHERE status = 'posted'),
			(SELECT COUNT(*) FROM social_posts WHERE status = 'failed')
	`

	var s models.ContentStats
	err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalArticles, &s.DraftArticles, &s.PublishedArticles,
		&s.ActiveAds, &s.TotalAdClicks, &s.ImportSources, &s.KeywordLinks,
		&s.QueuePending, &s.QueueFailed, &s.PostsPosted, &s.PostsFailed,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
