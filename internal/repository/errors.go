package repository

import "errors"

var (
	// Common errors
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// User errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")

	// Challenge errors
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeExpired  = errors.New("challenge expired")

	// Operation token errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenConsumed = errors.New("token already consumed")

	// Password history errors
	ErrPasswordReuse = errors.New("password was recently used")

	// OAuth link errors
	ErrLinkNotFound = errors.New("provider link not found")
	ErrLinkExists   = errors.New("provider already linked")
)
