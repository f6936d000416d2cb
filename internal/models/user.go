package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system. Email is the verified
// address challenges are delivered to and is stored case-normalized.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Username      string    `json:"username" db:"username"`
	Password      string    `json:"-" db:"password_hash"`
	EmailVerified bool      `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// HasPassword reports whether the account has a usable password.
// Accounts created through a provider link may not have one.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// PasswordHistory represents a prior password hash kept for reuse checks
type PasswordHistory struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
