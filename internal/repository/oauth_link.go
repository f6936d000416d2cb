package repository

import (
	"context"
	"teamplan/internal/models"

	"github.com/google/uuid"
)

// OAuthLinkRepository defines the interface for external provider link
// storage. The (user, provider) pair is unique.
type OAuthLinkRepository interface {
	Repository
	Create(ctx context.Context, link *models.OAuthLink) error
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*models.OAuthLink, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OAuthLink, error)
	Delete(ctx context.Context, userID uuid.UUID, provider string) error
}
