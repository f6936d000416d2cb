package oauthlink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider validates Google OAuth access tokens against the
// OpenID userinfo endpoint.
type GoogleProvider struct {
	client      *http.Client
	userinfoURL string
}

// NewGoogleProvider creates a Google provider. baseURL overrides the
// userinfo endpoint; empty selects the production endpoint.
func NewGoogleProvider(baseURL string) *GoogleProvider {
	if baseURL == "" {
		baseURL = googleUserinfoURL
	}
	return &GoogleProvider{
		client:      &http.Client{Timeout: 10 * time.Second},
		userinfoURL: baseURL,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) ValidateCredential(ctx context.Context, raw string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+raw)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach google userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInvalidCredential
	}

	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode google userinfo response: %w", err)
	}

	// Prefer the verified email as the human-readable identifier; fall
	// back to the stable subject id.
	if info.Email != "" && info.EmailVerified {
		return info.Email, nil
	}
	if info.Sub == "" {
		return "", ErrInvalidCredential
	}
	return info.Sub, nil
}
