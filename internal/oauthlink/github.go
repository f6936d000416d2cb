package oauthlink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const githubUserURL = "https://api.github.com/user"

// GitHubProvider validates GitHub OAuth access tokens against the
// authenticated-user endpoint.
type GitHubProvider struct {
	client  *http.Client
	userURL string
}

// NewGitHubProvider creates a GitHub provider. baseURL overrides the
// user endpoint; empty selects api.github.com.
func NewGitHubProvider(baseURL string) *GitHubProvider {
	if baseURL == "" {
		baseURL = githubUserURL
	}
	return &GitHubProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		userURL: baseURL,
	}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) ValidateCredential(ctx context.Context, raw string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+raw)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach github user endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInvalidCredential
	}

	var info struct {
		Login string `json:"login"`
		ID    int64  `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to decode github user response: %w", err)
	}

	if info.Login == "" {
		return "", ErrInvalidCredential
	}
	return info.Login, nil
}
