package repository

import (
	"context"
	"encoding/json"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlatformRepo interface {
	GetCredentials(ctx context.Context, platform string) (*models.PlatformCredentials, error)
	ListPlatforms(ctx context.Context) ([]*models.PlatformCredentials, error)
	ActivePlatforms(ctx context.Context) (map[string]bool, error)
	UpsertCredentials(ctx context.Context, platform string, creds map[string]string, active bool) error
	SetActive(ctx context.Context, platform string, active bool) error
	RecordLastPost(ctx context.Context, platform string) error
	ScheduleForPlatform(ctx context.Context, platform string) ([]*models.ScheduleSlot, error)
	ReplaceSchedule(ctx context.Context, platform string, slots []*models.ScheduleSlot) error
}

type platformRepo struct{ db *pgxpool.Pool }

func NewPlatformRepo(db *pgxpool.Pool) PlatformRepo { return &platformRepo{db: db} }

func (r *platformRepo) GetCredentials(ctx context.Context, platform string) (*models.PlatformCredentials, error) {
	const q = `
		SELECT id, platform, credentials, is_active, last_post_at, created_at
		FROM social_platforms WHERE platform = $1
	`
	var p models.PlatformCredentials
	var credsRaw []byte
	err := r.db.QueryRow(ctx, q, platform).Scan(
		&p.ID, &p.Platform, &credsRaw, &p.IsActive, &p.LastPostAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(credsRaw, &p.Credentials)
	return &p, nil
}

func (r *platformRepo) ListPlatforms(ctx context.Context) ([]*models.PlatformCredentials, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, platform, credentials, is_active, last_post_at, created_at FROM social_platforms ORDER BY platform`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PlatformCredentials
	for rows.Next() {
		var p models.PlatformCredentials
		var credsRaw []byte
		if err := rows.Scan(&p.ID, &p.Platform, &credsRaw, &p.IsActive, &p.LastPostAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(credsRaw, &p.Credentials)
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *platformRepo) ActivePlatforms(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.Query(ctx, `SELECT platform FROM social_platforms WHERE is_active = TRUE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = true
	}
	return out, rows.Err()
}

func (r *platformRepo) UpsertCredentials(ctx context.Context, platform string, creds map[string]string, active bool) error {
	credsJSON, _ := json.Marshal(creds)

	const q = `
		INSERT INTO social_platforms (platform, credentials, is_active)
		VALUES ($1,$2::jsonb,$3)
		ON CONFLICT (platform)
		DO UPDATE SET credentials = EXCLUDED.credentials, is_active = EXCLUDED.is_active
	`
	_, err := r.db.Exec(ctx, q, platform, credsJSON, active)
	return err
}

func (r *platformRepo) SetActive(ctx context.Context, platform string, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE social_platforms SET is_active = $1 WHERE platform = $2`, active, platform)
	return err
}

func (r *platformRepo) RecordLastPost(ctx context.Context, platform string) error {
	_, err := r.db.Exec(ctx, `UPDATE social_platforms SET last_post_at = NOW() WHERE platform = $1`, platform)
	return err
}

func (r *platformRepo) ScheduleForPlatform(ctx context.Context, platform string) ([]*models.ScheduleSlot, error) {
	const q = `
		SELECT id, platform, day_of_week, hour, minute
		FROM social_schedule WHERE platform = $1
		ORDER BY day_of_week, hour, minute
	`
	rows, err := r.db.Query(ctx, q, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ScheduleSlot
	for rows.Next() {
		var s models.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.Platform, &s.DayOfWeek, &s.Hour, &s.Minute); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *platformRepo) ReplaceSchedule(ctx context.Context, platform string, slots []*models.ScheduleSlot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM social_schedule WHERE platform = $1`, platform); err != nil {
		return err
	}
	for _, s := range slots {
		_, err := tx.Exec(ctx,
			`INSERT INTO social_schedule (platform, day_of_week, hour, minute) VALUES ($1,$2,$3,$4)`,
			platform, s.DayOfWeek, s.Hour, s.Minute,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
