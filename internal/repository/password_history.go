package repository

import (
	"context"
	"teamplan/internal/models"

	"github.com/google/uuid"
)

// PasswordHistoryRepository defines the interface for password history
// operations. History is append-only and pruned to the most recent N.
type PasswordHistoryRepository interface {
	Repository
	Add(ctx context.Context, userID uuid.UUID, passwordHash string) error
	// GetRecent returns up to limit entries, most recent first.
	GetRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.PasswordHistory, error)
	// Prune removes all but the keep most recent entries for the user.
	Prune(ctx context.Context, userID uuid.UUID, keep int) error
}
