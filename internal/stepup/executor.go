package stepup

import (
	"context"
	"errors"
	"teamplan/internal/models"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"

	"github.com/google/uuid"
)

// RedeemPayload carries the operation-specific inputs for a redemption.
// Unused fields stay empty.
type RedeemPayload struct {
	NewPassword string
	Provider    string
}

// Redemption outcomes
const (
	ResultPasswordChanged  = "password_changed"
	ResultRecoverySent     = "recovery_sent"
	ResultEmailVerified    = "email_verified"
	ResultProviderUnlinked = "provider_unlinked"
)

// RedeemResult is the outcome of a successful redemption
type RedeemResult struct {
	Outcome string
}

// Redeem atomically claims the operation token, verifies its scope
// against the requested operation type, and dispatches to the
// operation-specific handler. A claimed token is burned even when the
// handler fails: redemption never retries, the caller restarts the
// whole challenge flow.
func (s *Service) Redeem(ctx context.Context, tokenID uuid.UUID, opType models.OperationType, payload RedeemPayload, meta RequestMeta) (*RedeemResult, error) {
	token, err := s.tokens.Claim(ctx, tokenID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenNotFound):
			return nil, ErrTokenNotFound
		case errors.Is(err, repository.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, repository.ErrTokenConsumed):
			return nil, ErrTokenConsumed
		}
		return nil, err
	}

	if token.OperationType != opType {
		// Fail closed and leave a trace: a token minted for one
		// operation must never authorize another.
		s.recordAudit(ctx, &token.UserID, models.AuditActionScopeMismatch, "token", token.ID.String(),
			"Token minted for "+string(token.OperationType)+" presented for "+string(opType), meta)
		return nil, ErrScopeMismatch
	}

	s.recordAudit(ctx, &token.UserID, models.AuditActionTokenConsumed, "token", token.ID.String(),
		"Operation token consumed for "+string(opType), meta)

	switch opType {
	case models.OperationPasswordChange, models.OperationPasswordReset:
		return s.redeemPasswordSet(ctx, token, payload, meta)
	case models.OperationUsernameRecovery:
		return s.redeemUsernameRecovery(ctx, token)
	case models.OperationEmailVerify:
		return s.redeemEmailVerification(ctx, token)
	case models.OperationProviderUnlink:
		return s.redeemProviderUnlink(ctx, token, payload, meta)
	case models.OperationProviderLink:
		// Linking is additive and authorized by the provider credential
		// alone; there is nothing to redeem.
		return nil, ErrUnsupportedOperation
	}

	return nil, ErrUnsupportedOperation
}

func (s *Service) redeemPasswordSet(ctx context.Context, token *models.OperationToken, payload RedeemPayload, meta RequestMeta) (*RedeemResult, error) {
	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.checkLimit(ctx, ratelimit.ClassPasswordUpdate, user.Email, meta); err != nil {
		return nil, err
	}

	if err := s.policy.ValidateAndCommit(ctx, token.UserID, payload.NewPassword); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, &token.UserID, models.AuditActionPasswordChanged, "user", token.UserID.String(),
		"Password changed via verified "+string(token.OperationType), meta)

	return &RedeemResult{Outcome: ResultPasswordChanged}, nil
}

func (s *Service) redeemUsernameRecovery(ctx context.Context, token *models.OperationToken) (*RedeemResult, error) {
	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, err
	}

	// The username travels over the verified channel only; the caller
	// gets a uniform acknowledgement regardless.
	if err := s.notifier.SendUsernameRecovery(user.Email, user.Username); err != nil {
		return nil, err
	}

	return &RedeemResult{Outcome: ResultRecoverySent}, nil
}

func (s *Service) redeemEmailVerification(ctx context.Context, token *models.OperationToken) (*RedeemResult, error) {
	if err := s.users.VerifyEmail(ctx, token.UserID); err != nil {
		return nil, err
	}
	return &RedeemResult{Outcome: ResultEmailVerified}, nil
}

func (s *Service) redeemProviderUnlink(ctx context.Context, token *models.OperationToken, payload RedeemPayload, meta RequestMeta) (*RedeemResult, error) {
	if err := s.links.Unlink(ctx, token.UserID, payload.Provider); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, &token.UserID, models.AuditActionProviderUnlinked, "oauth_link", payload.Provider,
		"Provider "+payload.Provider+" unlinked", meta)

	return &RedeemResult{Outcome: ResultProviderUnlinked}, nil
}
