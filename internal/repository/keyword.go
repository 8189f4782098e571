package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type KeywordRepo interface {
	Create(ctx context.Context, k *models.KeywordLink) (int64, error)
	List(ctx context.Context) ([]*models.KeywordLink, error)
	ListActive(ctx context.Context) ([]*models.KeywordLink, error)
	Update(ctx context.Context, k *models.KeywordLink) error
	Delete(ctx context.Context, id int64) error
}

type keywordRepo struct{ db *pgxpool.Pool }

func NewKeywordRepo(db *pgxpool.Pool) KeywordRepo { return &keywordRepo{db: db} }

func (r *keywordRepo) Create(ctx context.Context, k *models.KeywordLink) (int64, error) {
	const q = `
		INSERT INTO keyword_links (keyword, url, kind, max_per_article, is_active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q, k.Keyword, k.URL, k.Kind, k.MaxPerArticle, k.IsActive).Scan(&id)
	return id, err
}

func (r *keywordRepo) List(ctx context.Context) ([]*models.KeywordLink, error) {
	return r.list(ctx, `SELECT id, keyword, url, kind, max_per_article, is_active, created_at FROM keyword_links ORDER BY keyword`)
}

func (r *keywordRepo) ListActive(ctx context.Context) ([]*models.KeywordLink, error) {
	return r.list(ctx, `SELECT id, keyword, url, kind, max_per_article, is_active, created_at FROM keyword_links WHERE is_active = TRUE ORDER BY keyword`)
}

func (r *keywordRepo) list(ctx context.Context, q string) ([]*models.KeywordLink, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.KeywordLink
	for rows.Next() {
		var k models.KeywordLink
		if err := rows.Scan(&k.ID, &k.Keyword, &k.URL, &k.Kind, &k.MaxPerArticle, &k.IsActive, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &k)
	}
	return out, rows.Err()
}

func (r *keywordRepo) Update(ctx context.Context, k *models.KeywordLink) error {
	const q = `
		UPDATE keyword_links
		SET keyword = $1, url = $2, kind = $3, max_per_article = $4, is_active = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, q, k.Keyword, k.URL, k.Kind, k.MaxPerArticle, k.IsActive, k.ID)
	return err
}

func (r *keywordRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM keyword_links WHERE id = $1`, id)
	return err
}
