package stepup

import (
	"context"
	"errors"
	"teamplan/internal/auth"
	"teamplan/internal/models"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"
	"time"
)

// VerifyCode checks a submitted code against the active challenge for
// (subject, operationType). On a match the challenge is consumed and an
// operation token scoped to operationType is minted; the token id is
// the only artifact returned. On a mismatch the attempt counter is
// bumped and, once the bound is reached, the challenge is invalidated.
func (s *Service) VerifyCode(ctx context.Context, subject string, opType models.OperationType, code string, meta RequestMeta) (*models.OperationToken, error) {
	subject = auth.NormalizeSubject(subject)

	if err := s.checkLimit(ctx, ratelimit.ClassCodeVerification, subject, meta); err != nil {
		return nil, err
	}

	challenge, err := s.challenges.GetActive(ctx, subject, opType)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrChallengeNotFound):
			return nil, ErrChallengeNotFound
		case errors.Is(err, repository.ErrChallengeExpired):
			return nil, ErrChallengeExpired
		}
		return nil, err
	}

	// The attempt bound is enforced before the comparison as well, so a
	// challenge left at the bound by a concurrent attempt stays dead
	// even for the correct code.
	if challenge.AttemptCount >= s.cfg.MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	if !CodeMatches(challenge.CodeHash, code) {
		count, err := s.challenges.IncrementAttempts(ctx, challenge.ID)
		if err != nil && !errors.Is(err, repository.ErrChallengeNotFound) {
			return nil, err
		}
		if count >= s.cfg.MaxAttempts {
			if err := s.challenges.Delete(ctx, challenge.ID); err != nil && !errors.Is(err, repository.ErrChallengeNotFound) {
				return nil, err
			}
			s.recordAudit(ctx, nil, models.AuditActionAttemptsExhausted, "challenge", challenge.ID.String(),
				"Challenge invalidated after too many wrong codes", meta)
			return nil, ErrAttemptsExhausted
		}
		return nil, ErrCodeMismatch
	}

	// Single successful use: the challenge dies with the match
	if err := s.challenges.Delete(ctx, challenge.ID); err != nil && !errors.Is(err, repository.ErrChallengeNotFound) {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}

	token := &models.OperationToken{
		UserID:        user.ID,
		OperationType: opType,
		ExpiresAt:     time.Now().Add(s.cfg.TokenTTL),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, &user.ID, models.AuditActionChallengeVerified, "token", token.ID.String(),
		"Code verified, operation token minted for "+string(opType), meta)

	return token, nil
}
