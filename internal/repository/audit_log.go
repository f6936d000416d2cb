package repository

import (
	"context"
	"teamplan/internal/models"
	"time"

	"github.com/google/uuid"
)

// AuditLogRepository defines the interface for security audit log operations
type AuditLogRepository interface {
	Repository
	Create(ctx context.Context, log *models.CreateAuditLogRequest) error
	GetByUserID(ctx context.Context, userID uuid.UUID, filter AuditLogFilter) ([]models.AuditLog, error)
	CleanupOld(ctx context.Context, olderThan time.Duration) error
}

// AuditLogFilter defines the filter options for listing audit logs
type AuditLogFilter struct {
	Actions       []models.AuditAction // Filter by actions
	EntityTypes   []string             // Filter by entity types
	CreatedBefore *time.Time           // Filter by creation time
	CreatedAfter  *time.Time           // Filter by creation time
	OrderDesc     bool                 // Order descending
	Limit         *int                 // Limit results
}
