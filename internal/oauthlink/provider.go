// Package oauthlink implements provider-agnostic linking and unlinking
// of external identity providers as alternative sign-in methods.
package oauthlink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrUnknownProvider indicates no validator is registered for the name
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrInvalidCredential indicates the provider rejected the credential
	ErrInvalidCredential = errors.New("invalid provider credential")
)

// Provider validates credentials for one external identity system.
// Implementations are stateless and safe for concurrent use.
type Provider interface {
	// Name returns the registry key for this provider, e.g. "google".
	Name() string
	// ValidateCredential checks the raw credential with the provider and
	// returns the external account identifier it belongs to.
	ValidateCredential(ctx context.Context, raw string) (string, error)
}

// Registry holds the supported providers keyed by name
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a registry with the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider. A later registration under the same name
// replaces the earlier one.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}
