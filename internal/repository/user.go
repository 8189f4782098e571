package repository

import (
	"context"

	"menshub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
}

type userRepo struct{ db *pgxpool.Pool }

func NewUserRepository(db *pgxpool.Pool) UserRepo { return &userRepo{db: db} }

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT id, username, full_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE username = $1
	`
	var u models.User
	err := r.db.QueryRow(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	const q = `
		SELECT id, username, full_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = $1
	`
	var u models.User
	err := r.db.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) SaveRefreshToken(ctx context.Context, userID int, token string) error {
	const q = `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, q, userID, token)
	return err
}

func (r *userRepo) IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, q, userID, token).Scan(&exists)
	return exists, err
}

func (r *userRepo) DeleteRefreshToken(ctx context.Context, userID int, token string) error {
	const q = `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, q, userID, token)
	return err
}
