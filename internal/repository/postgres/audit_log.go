package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"teamplan/internal/models"
	"teamplan/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type auditLogRepository struct {
	repository.BaseRepository
}

// NewAuditLogRepository creates a new PostgreSQL audit log repository
func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *models.CreateAuditLogRequest) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, action, entity_type, entity_id,
			description, metadata, ip_address, user_agent,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	_, err := r.DB().ExecContext(ctx, query,
		uuid.New(),
		log.UserID,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.Description,
		log.Metadata,
		log.IPAddress,
		log.UserAgent,
		time.Now(),
	)

	return err
}

func (r *auditLogRepository) GetByUserID(ctx context.Context, userID uuid.UUID, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	if len(filter.Actions) > 0 {
		actions := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			actions[i] = string(a)
		}
		args = append(args, pq.Array(actions))
		conditions = append(conditions, fmt.Sprintf("action = ANY($%d)", len(args)))
	}
	if len(filter.EntityTypes) > 0 {
		args = append(args, pq.Array(filter.EntityTypes))
		conditions = append(conditions, fmt.Sprintf("entity_type = ANY($%d)", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		conditions = append(conditions, fmt.Sprintf("created_at > $%d", len(args)))
	}
	if filter.CreatedBefore != nil {
		args = append(args, *filter.CreatedBefore)
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `
		SELECT id, user_id, action, entity_type, entity_id,
		       description, metadata, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE ` + strings.Join(conditions, " AND ")

	if filter.OrderDesc {
		query += " ORDER BY created_at DESC"
	} else {
		query += " ORDER BY created_at"
	}
	if filter.Limit != nil {
		args = append(args, *filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var log models.AuditLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.EntityType,
			&log.EntityID,
			&log.Description,
			&log.Metadata,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func (r *auditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := r.DB().ExecContext(ctx,
		`DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	return err
}
