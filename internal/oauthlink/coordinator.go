package oauthlink

import (
	"context"
	"errors"
	"fmt"
	"teamplan/internal/models"
	"teamplan/internal/repository"

	"github.com/google/uuid"
)

// ErrLastAuthMethod indicates an unlink that would leave the account
// with no usable sign-in path.
var ErrLastAuthMethod = errors.New("cannot remove the last authentication method")

// Coordinator performs provider-agnostic linking and unlinking. Linking
// is additive and needs only a valid provider credential; unlinking is
// gated upstream by a provider_unlink operation token and additionally
// re-verified here against the last-method invariant.
type Coordinator struct {
	registry *Registry
	links    repository.OAuthLinkRepository
	users    repository.UserRepository
}

// NewCoordinator creates a link coordinator
func NewCoordinator(registry *Registry, links repository.OAuthLinkRepository, users repository.UserRepository) *Coordinator {
	return &Coordinator{
		registry: registry,
		links:    links,
		users:    users,
	}
}

// Link validates the credential with the named provider and records the
// link. At most one link exists per (user, provider).
func (c *Coordinator) Link(ctx context.Context, userID uuid.UUID, provider, credential string) (*models.OAuthLink, error) {
	p, err := c.registry.Get(provider)
	if err != nil {
		return nil, err
	}

	if _, err := c.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	identifier, err := p.ValidateCredential(ctx, credential)
	if err != nil {
		return nil, err
	}

	link := &models.OAuthLink{
		UserID:             userID,
		Provider:           p.Name(),
		ProviderIdentifier: identifier,
	}
	if err := c.links.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// Unlink removes the (user, provider) link after re-verifying that at
// least one other authentication method remains. A password counts as
// a method; so does any other provider link.
func (c *Coordinator) Unlink(ctx context.Context, userID uuid.UUID, provider string) error {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := c.links.GetByUserAndProvider(ctx, userID, provider); err != nil {
		return err
	}

	remaining, err := c.AuthMethodCount(ctx, user)
	if err != nil {
		return err
	}
	if remaining <= 1 {
		return ErrLastAuthMethod
	}

	return c.links.Delete(ctx, userID, provider)
}

// AuthMethodCount returns the number of usable sign-in paths for the
// account: the password, if set, plus every linked provider.
func (c *Coordinator) AuthMethodCount(ctx context.Context, user *models.User) (int, error) {
	links, err := c.links.ListByUser(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list provider links: %w", err)
	}

	count := len(links)
	if user.HasPassword() {
		count++
	}
	return count, nil
}
