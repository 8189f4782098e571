package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ImportSourceRepo interface {
	Create(ctx context.Context, s *models.ImportSource) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ImportSource, error)
	List(ctx context.Context) ([]*models.ImportSource, error)
	ListActive(ctx context.Context) ([]*models.ImportSource, error)
	Update(ctx context.Context, s *models.ImportSource) error
	Delete(ctx context.Context, id int64) error
	TouchLastRun(ctx context.Context, id int64) error
}

type importSourceRepo struct{ db *pgxpool.Pool }

func NewImportSourceRepo(db *pgxpool.Pool) ImportSourceRepo { return &importSourceRepo{db: db} }

const importSourceColumns = `id, name, kind, url, category, is_active, title_selector, body_selector, image_selector, last_run_at, created_at`

func scanImportSource(row interface{ Scan(...any) error }) (*models.ImportSource, error) {
	var s models.ImportSource
	err := row.Scan(
		&s.ID, &s.Name, &s.Kind, &s.URL, &s.Category, &s.IsActive,
		&s.TitleSelector, &s.BodySelector, &s.ImageSelector, &s.LastRunAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *importSourceRepo) Create(ctx context.Context, s *models.ImportSource) (int64, error) {
	const q = `
		INSERT INTO import_sources (name, kind, url, category, is_active, title_selector, body_selector, image_selector)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q,
		s.Name, s.Kind, s.URL, s.Category, s.IsActive, s.TitleSelector, s.BodySelector, s.ImageSelector,
	).Scan(&id)
	return id, err
}

func (r *importSourceRepo) GetByID(ctx context.Context, id int64) (*models.ImportSource, error) {
	row := r.db.QueryRow(ctx, `SELECT `+importSourceColumns+` FROM import_sources WHERE id = $1`, id)
	return scanImportSource(row)
}

func (r *importSourceRepo) List(ctx context.Context) ([]*models.ImportSource, error) {
	return r.list(ctx, `SELECT `+importSourceColumns+` FROM import_sources ORDER BY created_at DESC`)
}

func (r *importSourceRepo) ListActive(ctx context.Context) ([]*models.ImportSource, error) {
	return r.list(ctx, `SELECT `+importSourceColumns+` FROM import_sources WHERE is_active = TRUE ORDER BY created_at DESC`)
}

func (r *importSourceRepo) list(ctx context.Context, q string) ([]*models.ImportSource, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ImportSource
	for rows.Next() {
		s, err := scanImportSource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *importSourceRepo) Update(ctx context.Context, s *models.ImportSource) error {
	const q = `
		UPDATE import_sources
		SET name = $1, kind = $2, url = $3, category = $4, is_active = $5,
		    title_selector = $6, body_selector = $7, image_selector = $8
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, q,
		s.Name, s.Kind, s.URL, s.Category, s.IsActive, s.TitleSelector, s.BodySelector, s.ImageSelector, s.ID,
	)
	return err
}

func (r *importSourceRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM import_sources WHERE id = $1`, id)
	return err
}

func (r *importSourceRepo) TouchLastRun(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE import_sources SET last_run_at = NOW() WHERE id = $1`, id)
	return err
}
