package repository

import (
	"context"
	"teamplan/internal/models"
	"time"

	"github.com/google/uuid"
)

// ChallengeRepository defines the interface for verification challenge
// storage. At most one active challenge exists per (subject, operation
// type) pair; Create supersedes any prior one.
type ChallengeRepository interface {
	Repository
	// Create stores a new challenge, replacing any active challenge for
	// the same (subject, operationType) pair.
	Create(ctx context.Context, challenge *models.VerificationChallenge) error
	// GetActive returns the unexpired challenge for the pair, or
	// ErrChallengeNotFound.
	GetActive(ctx context.Context, subject string, opType models.OperationType) (*models.VerificationChallenge, error)
	// IncrementAttempts bumps the attempt counter and returns the new value.
	IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error)
	// Delete removes a challenge (successful use or attempt exhaustion).
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes challenges past their TTL. Returns rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
