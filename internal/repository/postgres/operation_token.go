package postgres

import (
	"context"
	"database/sql"
	"teamplan/internal/models"
	"teamplan/internal/repository"
	"time"

	"github.com/google/uuid"
)

type operationTokenRepository struct {
	repository.BaseRepository
}

// NewOperationTokenRepository creates a new PostgreSQL operation token repository
func NewOperationTokenRepository(db *sql.DB) repository.OperationTokenRepository {
	return &operationTokenRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *operationTokenRepository) Create(ctx context.Context, token *models.OperationToken) error {
	query := `
		INSERT INTO operation_tokens (
			id, user_id, operation_type, expires_at
		) VALUES (
			$1, $2, $3, $4
		)
		RETURNING created_at`

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	return r.DB().QueryRowContext(ctx, query,
		token.ID,
		token.UserID,
		token.OperationType,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
}

// Claim marks the token consumed with a single conditional UPDATE.
// The consumed_at IS NULL predicate is the compare-and-set: of two
// concurrent claims exactly one sees a row, the other falls through to
// the lookup below and reports not-found or already-consumed.
func (r *operationTokenRepository) Claim(ctx context.Context, id uuid.UUID) (*models.OperationToken, error) {
	query := `
		UPDATE operation_tokens
		SET consumed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND consumed_at IS NULL
		RETURNING id, user_id, operation_type, expires_at, consumed_at, created_at`

	var token models.OperationToken
	err := r.DB().QueryRowContext(ctx, query, id).Scan(
		&token.ID,
		&token.UserID,
		&token.OperationType,
		&token.ExpiresAt,
		&token.ConsumedAt,
		&token.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, r.classifyFailedClaim(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if token.Expired(time.Now()) {
		return nil, repository.ErrTokenExpired
	}

	return &token, nil
}

// classifyFailedClaim distinguishes a missing token from one that was
// already consumed, so callers can surface the right error.
func (r *operationTokenRepository) classifyFailedClaim(ctx context.Context, id uuid.UUID) error {
	var consumedAt *time.Time
	err := r.DB().QueryRowContext(ctx,
		`SELECT consumed_at FROM operation_tokens WHERE id = $1`, id).Scan(&consumedAt)

	if err == sql.ErrNoRows {
		return repository.ErrTokenNotFound
	}
	if err != nil {
		return err
	}
	if consumedAt != nil {
		return repository.ErrTokenConsumed
	}

	// The row existed but the conditional update matched nothing and it
	// is not consumed: another claim deleted it mid-flight. Treat as gone.
	return repository.ErrTokenNotFound
}

func (r *operationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx,
		`DELETE FROM operation_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
