package postgres

import (
	"context"
	"database/sql"
	"errors"
	"teamplan/internal/models"
	"teamplan/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type userRepository struct {
	repository.BaseRepository
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, email, username, password_hash, email_verified, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $6
		)
		RETURNING created_at, updated_at`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()

	err := r.DB().QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.Password,
		user.EmailVerified,
		now,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_email_key":
			return repository.ErrEmailExists
		case "users_username_key":
			return repository.ErrUsernameExists
		}
		return repository.ErrDuplicateEntry
	}

	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "email = $1", email)
}

func (r *userRepository) get(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, email_verified, created_at, updated_at
		FROM users
		WHERE ` + where

	var user models.User
	err := r.DB().QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Password,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.DB().ExecContext(ctx, query, id, hashedPassword)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (r *userRepository) VerifyEmail(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET email_verified = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.DB().ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
