// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"teamplan/internal/api/handlers"
	"teamplan/internal/auth"
	"teamplan/internal/config"
	"teamplan/internal/models"
	"teamplan/internal/oauthlink"
	"teamplan/internal/password"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"
	"teamplan/internal/repository/postgres"
	"teamplan/internal/stepup"
	"teamplan/internal/testutil/db"
	"teamplan/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads the test configuration
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return db.LoadTestConfig(t)
}

// TestContext holds common test dependencies
type TestContext struct {
	T              *testing.T
	DB             *sql.DB
	Config         *config.Config
	UserRepo       repository.UserRepository
	ChallengeRepo  repository.ChallengeRepository
	TokenRepo      repository.OperationTokenRepository
	HistoryRepo    repository.PasswordHistoryRepository
	LinkRepo       repository.OAuthLinkRepository
	RateLimitRepo  repository.RateLimitRepository
	AuditRepo      repository.AuditLogRepository
	Hasher         auth.Hasher
	Notifier       *MockNotifier
	Limiter        *ratelimit.Limiter
	Policy         *password.Engine
	Registry       *oauthlink.Registry
	Coordinator    *oauthlink.Coordinator
	StepUpService  *stepup.Service
	StepUpHandler  *handlers.StepUpHandler
	AccountHandler *handlers.AccountHandler
	LinkHandler    *handlers.LinkHandler
}

// MockNotifier is an in-memory Notifier that records deliveries so
// tests can read back the issued codes.
type MockNotifier struct {
	mu         sync.Mutex
	codes      map[string]string // keyed by recipient address
	recoveries []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{codes: make(map[string]string)}
}

func (m *MockNotifier) SendOperationCode(to, username string, opType models.OperationType, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *MockNotifier) SendUsernameRecovery(to, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recoveries = append(m.recoveries, to)
	return nil
}

// CodeFor returns the last code delivered to the given address
func (m *MockNotifier) CodeFor(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

// RecoveryCount returns how many recovery notices were delivered
func (m *MockNotifier) RecoveryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recoveries)
}

// NewTestContext creates a new test context with all dependencies
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Initialize()

	cfg := LoadTestConfig(t)

	testDB := db.SetupTestDB(t, &cfg.Database)

	userRepo := postgres.NewUserRepository(testDB)
	challengeRepo := postgres.NewChallengeRepository(testDB)
	tokenRepo := postgres.NewOperationTokenRepository(testDB)
	historyRepo := postgres.NewPasswordHistoryRepository(testDB)
	linkRepo := postgres.NewOAuthLinkRepository(testDB)
	rateLimitRepo := postgres.NewRateLimitRepository(testDB)
	auditRepo := postgres.NewAuditLogRepository(testDB)

	hasher := auth.NewBcryptHasher(cfg.StepUp.BcryptCost)
	notifier := NewMockNotifier()
	limiter := ratelimit.NewLimiter(rateLimitRepo, cfg.Limits)
	policy := password.NewEngine(userRepo, historyRepo, hasher, cfg.StepUp.PasswordHistoryDepth)
	registry := oauthlink.NewRegistry()
	coordinator := oauthlink.NewCoordinator(registry, linkRepo, userRepo)

	stepupService := stepup.NewService(
		cfg.StepUp,
		userRepo,
		challengeRepo,
		tokenRepo,
		auditRepo,
		limiter,
		notifier,
		policy,
		coordinator,
	)

	tc := &TestContext{
		T:              t,
		DB:             testDB,
		Config:         cfg,
		UserRepo:       userRepo,
		ChallengeRepo:  challengeRepo,
		TokenRepo:      tokenRepo,
		HistoryRepo:    historyRepo,
		LinkRepo:       linkRepo,
		RateLimitRepo:  rateLimitRepo,
		AuditRepo:      auditRepo,
		Hasher:         hasher,
		Notifier:       notifier,
		Limiter:        limiter,
		Policy:         policy,
		Registry:       registry,
		Coordinator:    coordinator,
		StepUpService:  stepupService,
		StepUpHandler:  handlers.NewStepUpHandler(stepupService, cfg),
		AccountHandler: handlers.NewAccountHandler(userRepo, historyRepo, auditRepo, hasher, limiter, stepupService, cfg),
		LinkHandler:    handlers.NewLinkHandler(coordinator, stepupService, auditRepo),
	}

	t.Cleanup(func() {
		tc.cleanup()
	})

	return tc
}

// cleanup performs necessary cleanup after tests
func (tc *TestContext) cleanup() {
	if tc.DB != nil {
		if err := db.CleanupTestDB(tc.DB); err != nil {
			tc.T.Errorf("Failed to cleanup test database: %v", err)
		}
		tc.DB.Close()
	}
}

// CreateTestUser creates a test user with the given details and returns the created user
func (tc *TestContext) CreateTestUser(username, emailAddr, plainPassword string) *models.User {
	tc.T.Helper()

	hashedPassword, err := tc.Hasher.Hash(plainPassword)
	require.NoError(tc.T, err, "Failed to hash password")

	user := &models.User{
		Email:    auth.NormalizeSubject(emailAddr),
		Username: username,
		Password: hashedPassword,
	}
	err = tc.UserRepo.Create(context.Background(), user)
	require.NoError(tc.T, err, "Failed to create test user")

	err = tc.HistoryRepo.Add(context.Background(), user.ID, hashedPassword)
	require.NoError(tc.T, err, "Failed to seed password history")

	return user
}

// MarkEmailVerified marks a user's email as verified
func (tc *TestContext) MarkEmailVerified(userID uuid.UUID) {
	tc.T.Helper()
	err := tc.UserRepo.VerifyEmail(context.Background(), userID)
	require.NoError(tc.T, err, "Failed to mark email as verified")
}

// MintToken verifies the full challenge flow out of band and returns a
// fresh operation token for the user's address and operation type.
func (tc *TestContext) MintToken(user *models.User, opType models.OperationType) *models.OperationToken {
	tc.T.Helper()

	meta := stepup.RequestMeta{Origin: "127.0.0.1", UserAgent: "testutil"}
	err := tc.StepUpService.IssueChallenge(context.Background(), user.Email, opType, meta)
	require.NoError(tc.T, err, "Failed to issue challenge")

	code := tc.Notifier.CodeFor(user.Email)
	require.NotEmpty(tc.T, code, "No code delivered")

	token, err := tc.StepUpService.VerifyCode(context.Background(), user.Email, opType, code, meta)
	require.NoError(tc.T, err, "Failed to verify code")

	return token
}
