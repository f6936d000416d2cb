// Package stepup implements the operation token protocol that gates
// sensitive account actions behind proof of control of the verified
// email address: a short-lived numeric challenge, rate-limited
// verification, and exactly-once redemption of the minted token.
package stepup

import (
	"context"
	"log"
	"teamplan/internal/config"
	"teamplan/internal/email"
	"teamplan/internal/models"
	"teamplan/internal/oauthlink"
	"teamplan/internal/password"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"

	"github.com/google/uuid"
)

// Service orchestrates challenge issuance, code verification and
// operation token redemption. All methods are safe for concurrent use;
// the two race-sensitive mutations (token claim, rate limit increment)
// are atomic inside their stores.
type Service struct {
	cfg        config.StepUpConfig
	users      repository.UserRepository
	challenges repository.ChallengeRepository
	tokens     repository.OperationTokenRepository
	audit      repository.AuditLogRepository
	limiter    *ratelimit.Limiter
	notifier   email.Notifier
	policy     *password.Engine
	links      *oauthlink.Coordinator
}

// NewService creates the step-up service
func NewService(
	cfg config.StepUpConfig,
	users repository.UserRepository,
	challenges repository.ChallengeRepository,
	tokens repository.OperationTokenRepository,
	audit repository.AuditLogRepository,
	limiter *ratelimit.Limiter,
	notifier email.Notifier,
	policy *password.Engine,
	links *oauthlink.Coordinator,
) *Service {
	return &Service{
		cfg:        cfg,
		users:      users,
		challenges: challenges,
		tokens:     tokens,
		audit:      audit,
		limiter:    limiter,
		notifier:   notifier,
		policy:     policy,
		links:      links,
	}
}

// RequestMeta carries transport facts used for rate limit keys and the
// audit trail.
type RequestMeta struct {
	Origin    string // client network origin, e.g. IP address
	UserAgent string
}

func (s *Service) checkLimit(ctx context.Context, class, subject string, meta RequestMeta) error {
	decision, err := s.limiter.Check(ctx, class, ratelimit.Key(meta.Origin, subject))
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return &ThrottledError{RetryAfter: decision.RetryAfter}
	}
	return nil
}

// recordAudit writes a security event. Audit failures are logged and
// never fail the request.
func (s *Service) recordAudit(ctx context.Context, userID *uuid.UUID, action models.AuditAction, entityType, entityID, description string, meta RequestMeta) {
	err := s.audit.Create(ctx, &models.CreateAuditLogRequest{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   meta.Origin,
		UserAgent:   meta.UserAgent,
	})
	if err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
}
