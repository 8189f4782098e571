package repository

import (
	"context"
	"time"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SocialQueueRepo interface {
	Enqueue(ctx context.Context, item *models.QueueItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.QueueItem, error)
	ClaimDue(ctx context.Context, limit int) ([]*models.QueueItem, error)
	Reschedule(ctx context.Context, id int64, at time.Time, errMsg string) error
	MarkCompleted(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	ResetForRetry(ctx context.Context, id int64) error
	CountsByStatus(ctx context.Context) (*models.QueueStatusCounts, error)
	ExistsScheduledAt(ctx context.Context, platform string, at time.Time) (bool, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type socialQueueRepo struct{ db *pgxpool.Pool }

func NewSocialQueueRepo(db *pgxpool.Pool) SocialQueueRepo { return &socialQueueRepo{db: db} }

const queueColumns = `id, article_id, platform, priority, status, attempts, scheduled_for, error_message, created_at`

func scanQueueItem(row interface{ Scan(...any) error }) (*models.QueueItem, error) {
	var it models.QueueItem
	err := row.Scan(
		&it.ID, &it.ArticleID, &it.Platform, &it.Priority, &it.Status,
		&it.Attempts, &it.ScheduledFor, &it.ErrorMessage, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Enqueue inserts a pending item, or refreshes the existing row for the same
// (article_id, platform) instead of queueing the article twice. Relies on the
// unique index over (article_id, platform).
func (r *socialQueueRepo) Enqueue(ctx context.Context, item *models.QueueItem) (int64, error) {
	const q = `
		INSERT INTO social_post_queue (article_id, platform, priority, status, scheduled_for)
		VALUES ($1,$2,$3,'pending',$4)
		ON CONFLICT (article_id, platform) DO UPDATE
		SET priority = EXCLUDED.priority, scheduled_for = EXCLUDED.scheduled_for
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, q, item.ArticleID, item.Platform, item.Priority, item.ScheduledFor).Scan(&id)
	return id, err
}

func (r *socialQueueRepo) GetByID(ctx context.Context, id int64) (*models.QueueItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+queueColumns+` FROM social_post_queue WHERE id = $1`, id)
	return scanQueueItem(row)
}

// ClaimDue atomically claims up to limit due pending items, flipping them to
// processing and bumping attempts in the same statement. SKIP LOCKED keeps
// concurrent workers from double-claiming a row.
func (r *socialQueueRepo) ClaimDue(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	const q = `
		UPDATE social_post_queue
		SET status = 'processing', attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM social_post_queue
			WHERE status = 'pending' AND scheduled_for <= NOW()
			ORDER BY priority DESC, scheduled_for ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + queueColumns

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.QueueItem
	for rows.Next() {
		it, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *socialQueueRepo) Reschedule(ctx context.Context, id int64, at time.Time, errMsg string) error {
	const q = `
		UPDATE social_post_queue
		SET status = 'pending', scheduled_for = $1, error_message = $2
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, q, at, errMsg, id)
	return err
}

func (r *socialQueueRepo) MarkCompleted(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE social_post_queue SET status = 'completed', error_message = NULL WHERE id = $1`, id)
	return err
}

func (r *socialQueueRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := r.db.Exec(ctx, `UPDATE social_post_queue SET status = 'failed', error_message = $1 WHERE id = $2`, errMsg, id)
	return err
}

// ResetForRetry puts a failed item back on the queue with a clean attempt
// counter, for the operator retry endpoint.
func (r *socialQueueRepo) ResetForRetry(ctx context.Context, id int64) error {
	const q = `
		UPDATE social_post_queue
		SET status = 'pending', attempts = 0, scheduled_for = NOW(), error_message = NULL
		WHERE id = $1 AND status = 'failed'
	`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

func (r *socialQueueRepo) CountsByStatus(ctx context.Context) (*models.QueueStatusCounts, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM social_post_queue
	`
	var c models.QueueStatusCounts
	err := r.db.QueryRow(ctx, q).Scan(&c.Pending, &c.Processing, &c.Completed, &c.Failed)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *socialQueueRepo) ExistsScheduledAt(ctx context.Context, platform string, at time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM social_post_queue WHERE platform = $1 AND scheduled_for = $2)`,
		platform, at,
	).Scan(&exists)
	return exists, err
}

func (r *socialQueueRepo) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM social_post_queue WHERE status = 'completed' AND created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
