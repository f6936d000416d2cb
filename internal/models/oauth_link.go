package models

import (
	"time"

	"github.com/google/uuid"
)

// OAuthLink represents an external identity provider linked to an
// account as an alternative sign-in method. At most one link exists
// per (user, provider) pair.
type OAuthLink struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	Provider           string    `json:"provider" db:"provider"`
	ProviderIdentifier string    `json:"provider_identifier" db:"provider_identifier"`
	LinkedAt           time.Time `json:"linked_at" db:"linked_at"`
}
