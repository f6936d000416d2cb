package handlers

import (
	"errors"
	"log"
	"net/http"

	"teamplan/internal/models"
	"teamplan/internal/oauthlink"
	"teamplan/internal/repository"
	"teamplan/internal/stepup"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LinkHandler handles HTTP requests for external provider links
type LinkHandler struct {
	coordinator *oauthlink.Coordinator
	stepup      *stepup.Service
	auditRepo   repository.AuditLogRepository
}

// NewLinkHandler creates a new provider link handler with the given dependencies
func NewLinkHandler(coordinator *oauthlink.Coordinator, stepupService *stepup.Service, auditRepo repository.AuditLogRepository) *LinkHandler {
	return &LinkHandler{
		coordinator: coordinator,
		stepup:      stepupService,
		auditRepo:   auditRepo,
	}
}

// Link godoc
// @Summary Link an external provider
// @Description Attach an external identity provider to the account as an additional sign-in method. Linking is additive and authorized by the provider credential alone.
// @Tags providers
// @Accept json
// @Produce json
// @Param request body models.LinkProviderRequest true "Link details"
// @Success 200 {object} models.LinkResponse "Provider linked"
// @Failure 400 {object} models.ErrorResponse "Invalid request format or unknown provider"
// @Failure 401 {object} models.ErrorResponse "Provider rejected the credential"
// @Failure 409 {object} models.ErrorResponse "Provider already linked"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /providers/link [post]
func (h *LinkHandler) Link(c *gin.Context) {
	var req models.LinkProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	link, err := h.coordinator.Link(c.Request.Context(), req.UserID, req.Provider, req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, oauthlink.ErrUnknownProvider):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown provider"})
		case errors.Is(err, oauthlink.ErrInvalidCredential):
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "provider rejected the credential"})
		case errors.Is(err, repository.ErrLinkExists):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "provider already linked"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown account"})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to link provider"})
		}
		return
	}

	auditLog := &models.CreateAuditLogRequest{
		UserID:      &req.UserID,
		Action:      models.AuditActionProviderLinked,
		EntityType:  "oauth_link",
		EntityID:    link.ID.String(),
		Description: "Provider " + req.Provider + " linked",
		IPAddress:   c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
	}
	if err := h.auditRepo.Create(c.Request.Context(), auditLog); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}

	c.JSON(http.StatusOK, models.LinkResponse{Linked: true})
}

// Unlink godoc
// @Summary Unlink an external provider
// @Description Remove a linked provider. Unlinking is a gated operation: it requires a valid operation token minted for provider unlinking. The last remaining authentication method can never be removed.
// @Tags providers
// @Accept json
// @Produce json
// @Param request body models.UnlinkProviderRequest true "Unlink details"
// @Success 200 {object} models.UnlinkResponse "Provider unlinked"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 401 {object} models.ErrorResponse "Unknown or expired operation token"
// @Failure 403 {object} models.ErrorResponse "Token scope mismatch"
// @Failure 404 {object} models.ErrorResponse "Provider link not found"
// @Failure 409 {object} models.ErrorResponse "Token already used or last authentication method"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /providers/unlink [post]
func (h *LinkHandler) Unlink(c *gin.Context) {
	var req models.UnlinkProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	tokenID, err := uuid.Parse(req.OperationToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid operation token format"})
		return
	}

	payload := stepup.RedeemPayload{Provider: req.Provider}
	_, err = h.stepup.Redeem(c.Request.Context(), tokenID, models.OperationProviderUnlink, payload, requestMeta(c))
	if err != nil {
		writeUnlinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UnlinkResponse{Unlinked: true})
}

func writeUnlinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, stepup.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid operation token"})
	case errors.Is(err, stepup.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "operation token has expired"})
	case errors.Is(err, stepup.ErrTokenConsumed):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "operation token has already been used"})
	case errors.Is(err, stepup.ErrScopeMismatch):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "operation token not valid for this operation"})
	case errors.Is(err, oauthlink.ErrLastAuthMethod):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "cannot remove the last authentication method"})
	case errors.Is(err, repository.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "provider link not found"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to unlink provider"})
	}
}
