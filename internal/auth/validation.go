package auth

import (
	"net/mail"
	"strings"
)

// IsValidEmail checks if the provided email address is valid
func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// NormalizeSubject lowercases and trims an email subject so challenges
// and lookups agree on a single canonical form.
func NormalizeSubject(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
