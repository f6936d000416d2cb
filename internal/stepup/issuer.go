package stepup

import (
	"context"
	"errors"
	"log"
	"teamplan/internal/auth"
	"teamplan/internal/models"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"
	"time"
)

// IssueChallenge generates a fresh challenge code for (subject,
// operationType), supersedes any outstanding one, and dispatches the
// code to the subject's verified address. The return is uniform whether
// or not the subject resolves to an account: a nil error means
// "accepted", never "the account exists".
func (s *Service) IssueChallenge(ctx context.Context, subject string, opType models.OperationType, meta RequestMeta) error {
	subject = auth.NormalizeSubject(subject)

	if err := s.checkLimit(ctx, ratelimit.ClassChallengeIssuance, subject, meta); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown subject: swallow into the uniform accepted shape
			return nil
		}
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	challenge := &models.VerificationChallenge{
		Subject:       subject,
		OperationType: opType,
		CodeHash:      HashCode(code),
		ExpiresAt:     time.Now().Add(s.cfg.CodeTTL),
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return err
	}

	s.recordAudit(ctx, &user.ID, models.AuditActionChallengeIssued, "challenge", challenge.ID.String(),
		"Verification challenge issued for "+string(opType), meta)

	// Dispatch goes to the stored verified address only. A delivery
	// failure is logged, not surfaced: the response shape must not
	// depend on anything past the subject lookup.
	if err := s.notifier.SendOperationCode(user.Email, user.Username, opType, code); err != nil {
		log.Printf("Failed to deliver challenge code: %v", err)
	}

	return nil
}
