package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of security event recorded
type AuditAction string

const (
	AuditActionChallengeIssued   AuditAction = "challenge_issued"
	AuditActionChallengeVerified AuditAction = "challenge_verified"
	AuditActionAttemptsExhausted AuditAction = "attempts_exhausted"
	AuditActionTokenConsumed     AuditAction = "token_consumed"
	AuditActionScopeMismatch     AuditAction = "scope_mismatch"
	AuditActionPasswordChanged   AuditAction = "password_changed"
	AuditActionProviderLinked    AuditAction = "provider_linked"
	AuditActionProviderUnlinked  AuditAction = "provider_unlinked"
	AuditActionAccountCreated    AuditAction = "account_created"
)

// AuditLog represents a record of security-relevant activity
type AuditLog struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      *uuid.UUID  `json:"user_id" db:"user_id"` // Optional: subject may not resolve to an account
	Action      AuditAction `json:"action" db:"action"`
	EntityType  string      `json:"entity_type" db:"entity_type"` // e.g. "challenge", "token", "oauth_link"
	EntityID    string      `json:"entity_id" db:"entity_id"`
	Description string      `json:"description" db:"description"`
	Metadata    string      `json:"metadata" db:"metadata"` // JSON string containing additional context
	IPAddress   string      `json:"ip_address" db:"ip_address"`
	UserAgent   string      `json:"user_agent" db:"user_agent"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// CreateAuditLogRequest represents the request to create a new audit log entry
type CreateAuditLogRequest struct {
	UserID      *uuid.UUID  `json:"user_id"`
	Action      AuditAction `json:"action" binding:"required"`
	EntityType  string      `json:"entity_type" binding:"required"`
	EntityID    string      `json:"entity_id"`
	Description string      `json:"description" binding:"required"`
	Metadata    string      `json:"metadata"`
	IPAddress   string      `json:"ip_address"`
	UserAgent   string      `json:"user_agent"`
}
