package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SocialPostRepo interface {
	CreatePlaceholder(ctx context.Context, articleID int64, platform string) (int64, error)
	Upsert(ctx context.Context, post *models.SocialPost) error
	MarkFailed(ctx context.Context, articleID int64, platform, errMsg string) error
	GetByArticleAndPlatform(ctx context.Context, articleID int64, platform string) (*models.SocialPost, error)
	PlatformsForArticle(ctx context.Context, articleID int64) ([]string, error)
	ListPosted(ctx context.Context, limit int) ([]*models.SocialPost, error)
	UpdateEngagement(ctx context.Context, id int64, likes, shares, comments int) error
	SetShortURL(ctx context.Context, id int64, shortURL string) error
}

type socialPostRepo struct{ db *pgxpool.Pool }

func NewSocialPostRepo(db *pgxpool.Pool) SocialPostRepo { return &socialPostRepo{db: db} }

const postColumns = `id, article_id, platform, content, post_id, post_url, short_url, status, error_message, likes, shares, comments, posted_at, created_at`

func scanPost(row interface{ Scan(...any) error }) (*models.SocialPost, error) {
	var p models.SocialPost
	err := row.Scan(
		&p.ID, &p.ArticleID, &p.Platform, &p.Content, &p.PostID, &p.PostURL, &p.ShortURL,
		&p.Status, &p.ErrorMessage, &p.Likes, &p.Shares, &p.Comments, &p.PostedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlaceholder inserts (or revives) a pending row so the tracking URL
// can embed a stable post id before the actual platform call.
func (r *socialPostRepo) CreatePlaceholder(ctx context.Context, articleID int64, platform string) (int64, error) {
	const q = `
		INSERT INTO social_posts (article_id, platform, content, status)
		VALUES ($1,$2,'','pending')
		ON CONFLICT (article_id, platform)
		DO UPDATE SET status = CASE WHEN social_posts.status = 'posted' THEN social_posts.status ELSE 'pending' END
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q, articleID, platform).Scan(&id)
	return id, err
}

// Upsert is keyed on the unique (article_id, platform) pair: at most one
// live post per article per platform.
func (r *socialPostRepo) Upsert(ctx context.Context, post *models.SocialPost) error {
	const q = `
		INSERT INTO social_posts (article_id, platform, content, post_id, post_url, short_url, status, error_message, posted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (article_id, platform)
		DO UPDATE SET
			content = EXCLUDED.content,
			post_id = EXCLUDED.post_id,
			post_url = EXCLUDED.post_url,
			short_url = EXCLUDED.short_url,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			posted_at = EXCLUDED.posted_at
	`
	_, err := r.db.Exec(ctx, q,
		post.ArticleID, post.Platform, post.Content, post.PostID, post.PostURL,
		post.ShortURL, post.Status, post.ErrorMessage, post.PostedAt,
	)
	return err
}

func (r *socialPostRepo) MarkFailed(ctx context.Context, articleID int64, platform, errMsg string) error {
	const q = `
		INSERT INTO social_posts (article_id, platform, content, status, error_message)
		VALUES ($1,$2,'','failed',$3)
		ON CONFLICT (article_id, platform)
		DO UPDATE SET status = 'failed', error_message = EXCLUDED.error_message
	`
	_, err := r.db.Exec(ctx, q, articleID, platform, errMsg)
	return err
}

func (r *socialPostRepo) GetByArticleAndPlatform(ctx context.Context, articleID int64, platform string) (*models.SocialPost, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM social_posts WHERE article_id = $1 AND platform = $2`,
		articleID, platform,
	)
	return scanPost(row)
}

// PlatformsForArticle lists platforms that already hold a posted row, so the
// detector does not enqueue duplicates.
func (r *socialPostRepo) PlatformsForArticle(ctx context.Context, articleID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT platform FROM social_posts WHERE article_id = $1 AND status = 'posted'`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *socialPostRepo) ListPosted(ctx context.Context, limit int) ([]*models.SocialPost, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+postColumns+` FROM social_posts WHERE status = 'posted' ORDER BY posted_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.SocialPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *socialPostRepo) UpdateEngagement(ctx context.Context, id int64, likes, shares, comments int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE social_posts SET likes = $1, shares = $2, comments = $3 WHERE id = $4`,
		likes, shares, comments, id,
	)
	return err
}

func (r *socialPostRepo) SetShortURL(ctx context.Context, id int64, shortURL string) error {
	_, err := r.db.Exec(ctx, `UPDATE social_posts SET short_url = $1 WHERE id = $2`, shortURL, id)
	return err
}
