package repository

import (
	"context"
	"teamplan/internal/models"
	"time"

	"github.com/google/uuid"
)

// OperationTokenRepository defines the interface for operation token
// storage. Claim is the only mutation and must be atomic: a conditional
// update on consumed_at so concurrent redemptions cannot both win.
type OperationTokenRepository interface {
	Repository
	Create(ctx context.Context, token *models.OperationToken) error
	// Claim atomically marks the token consumed and returns it.
	// Returns ErrTokenNotFound if no such token exists, ErrTokenConsumed
	// if the conditional update lost a race, ErrTokenExpired if the
	// token is past its TTL (the claim is still burned in that case).
	Claim(ctx context.Context, id uuid.UUID) (*models.OperationToken, error)
	// DeleteExpired removes tokens past their TTL. Returns rows removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
