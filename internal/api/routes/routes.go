// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	_ "teamplan/docs" // Import swagger docs
	"teamplan/internal/api/handlers"
	"teamplan/internal/api/middleware"
	"teamplan/internal/auth"
	"teamplan/internal/config"
	"teamplan/internal/email"
	"teamplan/internal/oauthlink"
	"teamplan/internal/password"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository/postgres"
	"teamplan/internal/stepup"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB) *gin.Engine {
	// Create router
	r := gin.Default()

	// Apply compression middleware globally
	r.Use(middleware.Gzip(middleware.DefaultGzipConfig()))

	// Initialize health handler for basic routes
	healthHandler := handlers.NewHealthHandler(db)

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply the per-IP edge limit to all other routes
	r.Use(middleware.NewRateLimiter(cfg).Middleware())

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	challengeRepo := postgres.NewChallengeRepository(db)
	tokenRepo := postgres.NewOperationTokenRepository(db)
	historyRepo := postgres.NewPasswordHistoryRepository(db)
	linkRepo := postgres.NewOAuthLinkRepository(db)
	rateLimitRepo := postgres.NewRateLimitRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)

	// Initialize services
	hasher := auth.NewBcryptHasher(cfg.StepUp.BcryptCost)
	notifier := email.NewService(cfg.Email)
	limiter := ratelimit.NewLimiter(rateLimitRepo, cfg.Limits)
	policy := password.NewEngine(userRepo, historyRepo, hasher, cfg.StepUp.PasswordHistoryDepth)
	registry := oauthlink.NewRegistry(
		oauthlink.NewGoogleProvider(""),
		oauthlink.NewGitHubProvider(""),
	)
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

	// Initialize handlers
	stepupHandler := handlers.NewStepUpHandler(stepupService, cfg)
	accountHandler := handlers.NewAccountHandler(userRepo, historyRepo, auditRepo, hasher, limiter, stepupService, cfg)
	linkHandler := handlers.NewLinkHandler(coordinator, stepupService, auditRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		v1.POST("/register", accountHandler.Register)

		challenges := v1.Group("/challenges")
		{
			challenges.POST("", stepupHandler.IssueChallenge)
			challenges.POST("/verify", stepupHandler.VerifyCode)
		}

		v1.POST("/operations", stepupHandler.Redeem)

		providers := v1.Group("/providers")
		{
			providers.POST("/link", linkHandler.Link)
			providers.POST("/unlink", linkHandler.Unlink)
		}
	}

	return r
}
