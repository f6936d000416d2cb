package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"teamplan/internal/models"
	"teamplan/internal/oauthlink"
	"teamplan/internal/repository"
	"teamplan/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider accepts a single known credential
type stubProvider struct {
	name       string
	credential string
	identifier string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) ValidateCredential(_ context.Context, raw string) (string, error) {
	if raw != p.credential {
		return "", oauthlink.ErrInvalidCredential
	}
	return p.identifier, nil
}

func registerStub(tc *testutil.TestContext, name string) *stubProvider {
	p := &stubProvider{name: name, credential: "valid-token", identifier: name + ":someone"}
	tc.Registry.Register(p)
	return p
}

func TestLink_Success(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "google")

	user := tc.CreateTestUser("kim", "kim@example.com", "Sunny!day42")

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/link", models.LinkProviderRequest{
		UserID:     user.ID,
		Provider:   "google",
		Credential: "valid-token",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Linked)

	link, err := tc.LinkRepo.GetByUserAndProvider(context.Background(), user.ID, "google")
	require.NoError(t, err)
	assert.Equal(t, "google:someone", link.ProviderIdentifier)
}

func TestLink_UnknownProvider(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)

	user := tc.CreateTestUser("leo", "leo@example.com", "Sunny!day42")

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/link", models.LinkProviderRequest{
		UserID:     user.ID,
		Provider:   "myspace",
		Credential: "whatever",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLink_InvalidCredential(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "github")

	user := tc.CreateTestUser("mia", "mia@example.com", "Sunny!day42")

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/link", models.LinkProviderRequest{
		UserID:     user.ID,
		Provider:   "github",
		Credential: "stolen-token",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLink_Duplicate(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "google")

	user := tc.CreateTestUser("nina", "nina@example.com", "Sunny!day42")

	req := models.LinkProviderRequest{
		UserID:     user.ID,
		Provider:   "google",
		Credential: "valid-token",
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/link", req)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/providers/link", req)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUnlink_Success(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "google")

	user := tc.CreateTestUser("olga", "olga@example.com", "Sunny!day42")
	_, err := tc.Coordinator.Link(context.Background(), user.ID, "google", "valid-token")
	require.NoError(t, err)

	token := tc.MintToken(user, models.OperationProviderUnlink)

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/unlink", models.UnlinkProviderRequest{
		Provider:       "google",
		OperationToken: token.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UnlinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Unlinked)

	_, err = tc.LinkRepo.GetByUserAndProvider(context.Background(), user.ID, "google")
	require.ErrorIs(t, err, repository.ErrLinkNotFound)
}

func TestUnlink_NoSuchLink(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)

	user := tc.CreateTestUser("pete", "pete@example.com", "Sunny!day42")
	token := tc.MintToken(user, models.OperationProviderUnlink)

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/unlink", models.UnlinkProviderRequest{
		Provider:       "google",
		OperationToken: token.ID.String(),
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlink_LastAuthMethod(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "github")

	// Provider-only account: no password, one link
	user := &models.User{Email: "quinn@example.com", Username: "quinn"}
	require.NoError(t, tc.UserRepo.Create(context.Background(), user))
	_, err := tc.Coordinator.Link(context.Background(), user.ID, "github", "valid-token")
	require.NoError(t, err)

	token := tc.MintToken(user, models.OperationProviderUnlink)

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/unlink", models.UnlinkProviderRequest{
		Provider:       "github",
		OperationToken: token.ID.String(),
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// The link survives
	_, err = tc.LinkRepo.GetByUserAndProvider(context.Background(), user.ID, "github")
	require.NoError(t, err)
}

func TestUnlink_TokenSingleUse(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newRouter(tc)
	registerStub(tc, "google")
	registerStub(tc, "github")

	user := tc.CreateTestUser("rosa", "rosa@example.com", "Sunny!day42")
	for _, provider := range []string{"google", "github"} {
		_, err := tc.Coordinator.Link(context.Background(), user.ID, provider, "valid-token")
		require.NoError(t, err)
	}

	token := tc.MintToken(user, models.OperationProviderUnlink)

	w := doJSON(t, router, http.MethodPost, "/api/v1/providers/unlink", models.UnlinkProviderRequest{
		Provider:       "google",
		OperationToken: token.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// One token never covers two unlinks
	w = doJSON(t, router, http.MethodPost, "/api/v1/providers/unlink", models.UnlinkProviderRequest{
		Provider:       "github",
		OperationToken: token.ID.String(),
	})
	require.Equal(t, http.StatusConflict, w.Code)
}
