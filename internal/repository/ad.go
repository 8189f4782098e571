package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdRepo interface {
	Create(ctx context.Context, ad *models.Ad) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Ad, error)
	List(ctx context.Context) ([]*models.Ad, error)
	ListActive(ctx context.Context, placement string) ([]*models.Ad, error)
	Update(ctx context.Context, ad *models.Ad) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	RecordImpression(ctx context.Context, id int64) error
	RecordClick(ctx context.Context, id int64) error
}

type adRepo struct{ db *pgxpool.Pool }

func NewAdRepo(db *pgxpool.Pool) AdRepo { return &adRepo{db: db} }

const adColumns = `id, name, placement, html_snippet, target_url, is_active, starts_at, ends_at, impressions, clicks, created_at, updated_at`

func scanAd(row interface{ Scan(...any) error }) (*models.Ad, error) {
	var ad models.Ad
	err := row.Scan(
		&ad.ID, &ad.Name, &ad.Placement, &ad.HTMLSnippet, &ad.TargetURL, &ad.IsActive,
		&ad.StartsAt, &ad.EndsAt, &ad.Impressions, &ad.Clicks, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepo) Create(ctx context.Context, ad *models.Ad) (int64, error) {
	const q = `
		INSERT INTO ads (name, placement, html_snippet, target_url, is_active, starts_at, ends_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q,
		ad.Name, ad.Placement, ad.HTMLSnippet, ad.TargetURL, ad.IsActive, ad.StartsAt, ad.EndsAt,
	).Scan(&id)
	return id, err
}

func (r *adRepo) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	row := r.db.QueryRow(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	return scanAd(row)
}

func (r *adRepo) List(ctx context.Context) ([]*models.Ad, error) {
	rows, err := r.db.Query(ctx, `SELECT `+adColumns+` FROM ads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}

func (r *adRepo) ListActive(ctx context.Context, placement string) ([]*models.Ad, error) {
	const q = `
		SELECT ` + adColumns + `
		FROM ads
		WHERE is_active = TRUE
		  AND placement = $1
		  AND (starts_at IS NULL OR starts_at <= NOW())
		  AND (ends_at IS NULL OR ends_at >= NOW())
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, q, placement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ad)
	}
	return out, rows.Err()
}

func (r *adRepo) Update(ctx context.Context, ad *models.Ad) error {
	const q = `
		UPDATE ads
		SET name = $1, placement = $2, html_snippet = $3, target_url = $4,
		    is_active = $5, starts_at = $6, ends_at = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, q,
		ad.Name, ad.Placement, ad.HTMLSnippet, ad.TargetURL, ad.IsActive, ad.StartsAt, ad.EndsAt, ad.ID,
	)
	return err
}

func (r *adRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM ads WHERE id = $1`, id)
	return err
}

func (r *adRepo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE ads SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	return err
}

func (r *adRepo) RecordImpression(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE ads SET impressions = impressions + 1 WHERE id = $1`, id)
	return err
}

func (r *adRepo) RecordClick(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE ads SET clicks = clicks + 1 WHERE id = $1`, id)
	return err
}
