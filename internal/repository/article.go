package repository

import (
	"context"
	"encoding/json"
	"time"

	"menshub/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error)
	Update(ctx context.Context, a *models.Article) error
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) error
	PublishedSince(ctx context.Context, since time.Time) ([]*models.Article, error)
	ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error)
}

type articleRepo struct{ db *pgxpool.Pool }

func NewArticleRepo(db *pgxpool.Pool) ArticleRepo { return &articleRepo{db: db} }

const articleColumns = `id, title, excerpt, content, category, tags, featured_image, status, source_url, published_at, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var tagsRaw []byte
	err := row.Scan(
		&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Category, &tagsRaw,
		&a.FeaturedImage, &a.Status, &a.SourceURL, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(tagsRaw, &a.Tags)
	return &a, nil
}

func (r *articleRepo) Create(ctx context.Context, a *models.Article) (*models.Article, error) {
	tagsJSON, _ := json.Marshal(a.Tags)

	const q = `
		INSERT INTO articles (title, excerpt, content, category, tags, featured_image, status, source_url, published_at)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8, CASE WHEN $7 = 'published' THEN NOW() ELSE NULL END)
		RETURNING ` + articleColumns

	row := r.db.QueryRow(ctx, q,
		a.Title, a.Excerpt, a.Content, a.Category, tagsJSON, a.FeaturedImage, a.Status, a.SourceURL,
	)
	return scanArticle(row)
}

func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	row := r.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	return scanArticle(row)
}

// List applies the optional filters. Built with squirrel because the filter
// combination is dynamic.
func (r *articleRepo) List(ctx context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	b := sq.Select(articleColumns).
		From("articles").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.Category != "" {
		b = b.Where(sq.Eq{"category": f.Category})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"title": like}, sq.ILike{"excerpt": like}})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	tagsJSON, _ := json.Marshal(a.Tags)

	const q = `
		UPDATE articles
		SET title = $1, excerpt = $2, content = $3, category = $4, tags = $5::jsonb,
		    featured_image = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, q, a.Title, a.Excerpt, a.Content, a.Category, tagsJSON, a.FeaturedImage, a.ID)
	return err
}

func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return err
}

func (r *articleRepo) SetStatus(ctx context.Context, id int64, status string) error {
	const q = `
		UPDATE articles
		SET status = $1,
		    published_at = CASE WHEN $1 = 'published' AND published_at IS NULL THEN NOW() ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, q, status, id)
	return err
}

// PublishedSince feeds the detector: published articles that appeared after
// the last check.
func (r *articleRepo) PublishedSince(ctx context.Context, since time.Time) ([]*models.Article, error) {
	const q = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE status = 'published' AND created_at > $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *articleRepo) ExistsBySourceURL(ctx context.Context, sourceURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE source_url = $1)`, sourceURL,
	).Scan(&exists)
	return exists, err
}
