package postgres

import (
	"context"
	"database/sql"
	"teamplan/internal/models"
	"teamplan/internal/repository"
	"time"

	"github.com/google/uuid"
)

type challengeRepository struct {
	repository.BaseRepository
}

// NewChallengeRepository creates a new PostgreSQL challenge repository
func NewChallengeRepository(db *sql.DB) repository.ChallengeRepository {
	return &challengeRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

// Create inserts a challenge, superseding any outstanding one for the
// same (subject, operation_type) pair in a single transaction.
func (r *challengeRepository) Create(ctx context.Context, challenge *models.VerificationChallenge) error {
	tx, err := r.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM verification_challenges
		WHERE subject = $1 AND operation_type = $2`,
		challenge.Subject, challenge.OperationType,
	)
	if err != nil {
		return err
	}

	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO verification_challenges (
			id, subject, operation_type, code_hash, attempt_count, expires_at
		) VALUES (
			$1, $2, $3, $4, 0, $5
		)
		RETURNING created_at`,
		challenge.ID,
		challenge.Subject,
		challenge.OperationType,
		challenge.CodeHash,
		challenge.ExpiresAt,
	).Scan(&challenge.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *challengeRepository) GetActive(ctx context.Context, subject string, opType models.OperationType) (*models.VerificationChallenge, error) {
	query := `
		SELECT id, subject, operation_type, code_hash, attempt_count, expires_at, created_at
		FROM verification_challenges
		WHERE subject = $1 AND operation_type = $2`

	var challenge models.VerificationChallenge
	err := r.DB().QueryRowContext(ctx, query, subject, opType).Scan(
		&challenge.ID,
		&challenge.Subject,
		&challenge.OperationType,
		&challenge.CodeHash,
		&challenge.AttemptCount,
		&challenge.ExpiresAt,
		&challenge.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}

	// Expiry is enforced lazily at read time
	if challenge.Expired(time.Now()) {
		return nil, repository.ErrChallengeExpired
	}

	return &challenge, nil
}

func (r *challengeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE verification_challenges
		SET attempt_count = attempt_count + 1
		WHERE id = $1
		RETURNING attempt_count`

	var count int
	err := r.DB().QueryRowContext(ctx, query, id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, repository.ErrChallengeNotFound
	}
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *challengeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB().ExecContext(ctx,
		`DELETE FROM verification_challenges WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrChallengeNotFound
	}

	return nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB().ExecContext(ctx,
		`DELETE FROM verification_challenges WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
