package repository

import (
	"context"
	"teamplan/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Repository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	VerifyEmail(ctx context.Context, id uuid.UUID) error
}
