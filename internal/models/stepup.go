package models

import (
	"time"

	"github.com/google/uuid"
)

// OperationType identifies the sensitive account action a challenge or
// operation token is scoped to. The set is closed: OperationExecutor
// dispatches over it exhaustively.
type OperationType string

const (
	OperationPasswordChange   OperationType = "password_change"
	OperationPasswordReset    OperationType = "password_reset"
	OperationUsernameRecovery OperationType = "username_recovery"
	OperationEmailVerify      OperationType = "email_verification"
	OperationProviderLink     OperationType = "provider_link"
	OperationProviderUnlink   OperationType = "provider_unlink"
)

// OperationTypes lists every supported operation type.
var OperationTypes = []OperationType{
	OperationPasswordChange,
	OperationPasswordReset,
	OperationUsernameRecovery,
	OperationEmailVerify,
	OperationProviderLink,
	OperationProviderUnlink,
}

// Valid reports whether t is one of the supported operation types.
func (t OperationType) Valid() bool {
	for _, known := range OperationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// VerificationChallenge represents an outstanding email code challenge.
// Only the SHA-256 hash of the code is stored, never the code itself.
type VerificationChallenge struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	Subject       string        `json:"subject" db:"subject"`
	OperationType OperationType `json:"operation_type" db:"operation_type"`
	CodeHash      string        `json:"-" db:"code_hash"`
	AttemptCount  int           `json:"attempt_count" db:"attempt_count"`
	ExpiresAt     time.Time     `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Expired reports whether the challenge is past its TTL at the given time.
func (c *VerificationChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// OperationToken represents a single-use credential minted after a
// successful code verification, scoped to exactly one operation type.
type OperationToken struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	OperationType OperationType `json:"operation_type" db:"operation_type"`
	ExpiresAt     time.Time     `json:"expires_at" db:"expires_at"`
	ConsumedAt    *time.Time    `json:"consumed_at,omitempty" db:"consumed_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Expired reports whether the token is past its TTL at the given time.
func (t *OperationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
