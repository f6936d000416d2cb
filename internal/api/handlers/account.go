package handlers

import (
	"errors"
	"log"
	"net/http"

	"teamplan/internal/auth"
	"teamplan/internal/config"
	"teamplan/internal/models"
	"teamplan/internal/password"
	"teamplan/internal/ratelimit"
	"teamplan/internal/repository"
	"teamplan/internal/stepup"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles HTTP requests for account registration
type AccountHandler struct {
	userRepo    repository.UserRepository
	historyRepo repository.PasswordHistoryRepository
	auditRepo   repository.AuditLogRepository
	hasher      auth.Hasher
	limiter     *ratelimit.Limiter
	stepup      *stepup.Service
	config      *config.Config
}

// NewAccountHandler creates a new account handler with the given dependencies
func NewAccountHandler(
	userRepo repository.UserRepository,
	historyRepo repository.PasswordHistoryRepository,
	auditRepo repository.AuditLogRepository,
	hasher auth.Hasher,
	limiter *ratelimit.Limiter,
	stepupService *stepup.Service,
	config *config.Config,
) *AccountHandler {
	return &AccountHandler{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		auditRepo:   auditRepo,
		hasher:      hasher,
		limiter:     limiter,
		stepup:      stepupService,
		config:      config,
	}
}

// Register godoc
// @Summary Register new account
// @Description Create a new account and issue an email verification challenge to the supplied address
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration details"
// @Success 201 {object} models.User "Account created"
// @Failure 400 {object} models.ErrorResponse "Invalid request format or password policy violation"
// @Failure 409 {object} models.ErrorResponse "Email or username already taken"
// @Failure 429 {object} models.ThrottledResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	subject := auth.NormalizeSubject(req.Email)

	decision, err := h.limiter.Check(c.Request.Context(), ratelimit.ClassAccountCreation, ratelimit.Key(c.ClientIP(), subject))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process registration"})
		return
	}
	if !decision.Allowed {
		throttled(c, &stepup.ThrottledError{RetryAfter: decision.RetryAfter})
		return
	}

	if violations := password.ValidateStrength(req.Password); len(violations) > 0 {
		pe := &password.PolicyError{Violations: violations}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: pe.Error()})
		return
	}

	hashedPassword, err := h.hasher.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process registration"})
		return
	}

	user := &models.User{
		Email:         subject,
		Username:      req.Username,
		Password:      hashedPassword,
		EmailVerified: false,
	}
	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already exists"})
		case errors.Is(err, repository.ErrUsernameExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "username already exists"})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create account"})
		}
		return
	}

	// Seed the reuse history with the initial hash
	if err := h.historyRepo.Add(c.Request.Context(), user.ID, hashedPassword); err != nil {
		log.Printf("Failed to seed password history: %v", err)
	}

	auditLog := &models.CreateAuditLogRequest{
		UserID:      &user.ID,
		Action:      models.AuditActionAccountCreated,
		EntityType:  "user",
		EntityID:    user.ID.String(),
		Description: "Account " + user.Username + " registered",
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	}
	if err := h.auditRepo.Create(c.Request.Context(), auditLog); err != nil {
		// Don't fail registration if audit log fails
		log.Printf("Failed to create audit log: %v", err)
	}

	// Kick off address verification. Delivery problems never fail the
	// registration itself.
	meta := stepup.RequestMeta{Origin: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if err := h.stepup.IssueChallenge(c.Request.Context(), subject, models.OperationEmailVerify, meta); err != nil {
		log.Printf("Failed to issue verification challenge: %v", err)
	}

	c.JSON(http.StatusCreated, user)
}
