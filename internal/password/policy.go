// Package password implements the password strength and reuse policy
// consulted when a gated operation sets a new password.
package password

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"teamplan/internal/auth"
	"teamplan/internal/repository"
	"unicode"

	"github.com/google/uuid"
)

// Strength bounds. The upper bound rejects absurdly long input and
// keeps candidates inside bcrypt's 72-byte limit.
const (
	MinLength = 8
	MaxLength = 72
)

// Violation identifies one failed policy rule
type Violation string

const (
	ViolationTooShort  Violation = "too_short"
	ViolationTooLong   Violation = "too_long"
	ViolationNoUpper   Violation = "missing_uppercase"
	ViolationNoLower   Violation = "missing_lowercase"
	ViolationNoDigit   Violation = "missing_digit"
	ViolationNoSymbol  Violation = "missing_symbol"
	ViolationReused    Violation = "recently_used"
	ViolationUnchanged Violation = "same_as_current"
)

// PolicyError reports every violated rule so the client can correct
// them all at once.
type PolicyError struct {
	Violations []Violation
}

func (e *PolicyError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = string(v)
	}
	return "password policy violation: " + strings.Join(parts, ", ")
}

// IsPolicyError returns the PolicyError when err is one
func IsPolicyError(err error) (*PolicyError, bool) {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Engine validates candidates against strength rules and per-user
// password history, and commits accepted passwords.
type Engine struct {
	users        repository.UserRepository
	history      repository.PasswordHistoryRepository
	hasher       auth.Hasher
	historyDepth int
}

// NewEngine creates a policy engine. historyDepth is how many prior
// hashes the reuse check covers and how many history rows survive a
// commit.
func NewEngine(users repository.UserRepository, history repository.PasswordHistoryRepository, hasher auth.Hasher, historyDepth int) *Engine {
	return &Engine{
		users:        users,
		history:      history,
		hasher:       hasher,
		historyDepth: historyDepth,
	}
}

// ValidateStrength checks the candidate against the strength rules.
// Every rule is evaluated; all violations come back together.
func ValidateStrength(candidate string) []Violation {
	var violations []Violation

	if len(candidate) < MinLength {
		violations = append(violations, ViolationTooShort)
	}
	if len(candidate) > MaxLength {
		violations = append(violations, ViolationTooLong)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range candidate {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		violations = append(violations, ViolationNoUpper)
	}
	if !hasLower {
		violations = append(violations, ViolationNoLower)
	}
	if !hasDigit {
		violations = append(violations, ViolationNoDigit)
	}
	if !hasSymbol {
		violations = append(violations, ViolationNoSymbol)
	}

	return violations
}

// Validate runs the strength rules plus the reuse checks for the user.
// Returns a PolicyError listing every violated rule, or nil.
func (e *Engine) Validate(ctx context.Context, userID uuid.UUID, candidate string) error {
	violations := ValidateStrength(candidate)

	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.HasPassword() && e.hasher.Compare(user.Password, candidate) == nil {
		violations = append(violations, ViolationUnchanged)
	}

	entries, err := e.history.GetRecent(ctx, userID, e.historyDepth)
	if err != nil {
		return fmt.Errorf("failed to load password history: %w", err)
	}
	for _, entry := range entries {
		if e.hasher.Compare(entry.PasswordHash, candidate) == nil {
			violations = append(violations, ViolationReused)
			break
		}
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}

// ValidateAndCommit validates the candidate and, when it passes, hashes
// it, stores it on the user, appends it to the history and prunes the
// history to the configured depth.
func (e *Engine) ValidateAndCommit(ctx context.Context, userID uuid.UUID, candidate string) error {
	if err := e.Validate(ctx, userID, candidate); err != nil {
		return err
	}

	hash, err := e.hasher.Hash(candidate)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := e.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := e.history.Add(ctx, userID, hash); err != nil {
		return err
	}
	return e.history.Prune(ctx, userID, e.historyDepth)
}
