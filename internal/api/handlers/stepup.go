package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"teamplan/internal/config"
	"teamplan/internal/models"
	"teamplan/internal/oauthlink"
	"teamplan/internal/password"
	"teamplan/internal/repository"
	"teamplan/internal/stepup"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StepUpHandler handles HTTP requests for the challenge and operation
// token flow
type StepUpHandler struct {
	service *stepup.Service
	config  *config.Config
}

// NewStepUpHandler creates a new step-up handler with the given dependencies
func NewStepUpHandler(service *stepup.Service, config *config.Config) *StepUpHandler {
	return &StepUpHandler{
		service: service,
		config:  config,
	}
}

func requestMeta(c *gin.Context) stepup.RequestMeta {
	return stepup.RequestMeta{
		Origin:    c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// throttled writes the 429 response for a hit rate ceiling
func throttled(c *gin.Context, te *stepup.ThrottledError) {
	retryAfter := int(te.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, models.ThrottledResponse{
		Error:      "rate limit exceeded",
		RetryAfter: retryAfter,
	})
}

// IssueChallenge godoc
// @Summary Request a verification code
// @Description Issue a verification challenge for a sensitive operation. A six digit code is sent to the subject's email address. The response is identical whether or not the subject corresponds to an account.
// @Tags stepup
// @Accept json
// @Produce json
// @Param request body models.IssueChallengeRequest true "Challenge details"
// @Success 202 {object} models.AcceptedResponse "Challenge accepted"
// @Failure 400 {object} models.ErrorResponse "Invalid request format"
// @Failure 429 {object} models.ThrottledResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /challenges [post]
func (h *StepUpHandler) IssueChallenge(c *gin.Context) {
	var req models.IssueChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.service.IssueChallenge(c.Request.Context(), req.Subject, req.OperationType, requestMeta(c))
	if err != nil {
		if te, ok := stepup.IsThrottled(err); ok {
			throttled(c, te)
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to issue challenge"})
		return
	}

	c.JSON(http.StatusAccepted, models.AcceptedResponse{Accepted: true})
}

// VerifyCode godoc
// @Summary Verify a challenge code
// @Description Check a submitted code against the active challenge for the subject and operation type. On success an operation token scoped to that operation is returned.
// @Tags stepup
// @Accept json
// @Produce json
// @Param request body models.VerifyCodeRequest true "Verification details"
// @Success 200 {object} models.VerifyCodeResponse "Operation token minted"
// @Failure 400 {object} models.ErrorResponse "Invalid request format or challenge expired"
// @Failure 401 {object} models.ErrorResponse "Incorrect code"
// @Failure 403 {object} models.ErrorResponse "Attempt limit reached"
// @Failure 404 {object} models.ErrorResponse "No active challenge"
// @Failure 429 {object} models.ThrottledResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /challenges/verify [post]
func (h *StepUpHandler) VerifyCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.service.VerifyCode(c.Request.Context(), req.Subject, req.OperationType, req.Code, requestMeta(c))
	if err != nil {
		if te, ok := stepup.IsThrottled(err); ok {
			throttled(c, te)
			return
		}
		switch {
		case errors.Is(err, stepup.ErrChallengeNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "no active challenge for this operation"})
		case errors.Is(err, stepup.ErrChallengeExpired):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "challenge has expired"})
		case errors.Is(err, stepup.ErrCodeMismatch):
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "incorrect verification code"})
		case errors.Is(err, stepup.ErrAttemptsExhausted):
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "too many incorrect codes, request a new challenge"})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to verify code"})
		}
		return
	}

	c.JSON(http.StatusOK, models.VerifyCodeResponse{
		OperationToken:   token.ID.String(),
		ExpiresInSeconds: int(h.config.StepUp.TokenTTL.Seconds()),
	})
}

// Redeem godoc
// @Summary Redeem an operation token
// @Description Execute the gated operation the token was minted for. Tokens are single use: a token is burned on first presentation even when the operation itself fails.
// @Tags stepup
// @Accept json
// @Produce json
// @Param request body models.RedeemRequest true "Redemption details"
// @Success 200 {object} models.RedeemResponse "Operation executed"
// @Failure 400 {object} models.ErrorResponse "Invalid request, unsupported operation, or password policy violation"
// @Failure 401 {object} models.ErrorResponse "Unknown or expired operation token"
// @Failure 403 {object} models.ErrorResponse "Token scope mismatch"
// @Failure 409 {object} models.ErrorResponse "Token already used or last authentication method"
// @Failure 429 {object} models.ThrottledResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /operations [post]
func (h *StepUpHandler) Redeem(c *gin.Context) {
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	tokenID, err := uuid.Parse(req.OperationToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid operation token format"})
		return
	}

	payload := stepup.RedeemPayload{
		NewPassword: req.NewPassword,
		Provider:    req.Provider,
	}

	result, err := h.service.Redeem(c.Request.Context(), tokenID, req.OperationType, payload, requestMeta(c))
	if err != nil {
		h.writeRedeemError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RedeemResponse{Result: result.Outcome})
}

// writeRedeemError maps redemption failures onto HTTP statuses. Unknown,
// expired and consumed tokens get distinct statuses; none of them leak
// whether the token ever existed beyond what the caller already knows.
func (h *StepUpHandler) writeRedeemError(c *gin.Context, err error) {
	if te, ok := stepup.IsThrottled(err); ok {
		throttled(c, te)
		return
	}
	if pe, ok := password.IsPolicyError(err); ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: pe.Error()})
		return
	}

	switch {
	case errors.Is(err, stepup.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid operation token"})
	case errors.Is(err, stepup.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "operation token has expired"})
	case errors.Is(err, stepup.ErrTokenConsumed):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "operation token has already been used"})
	case errors.Is(err, stepup.ErrScopeMismatch):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "operation token not valid for this operation"})
	case errors.Is(err, stepup.ErrUnsupportedOperation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "operation cannot be redeemed"})
	case errors.Is(err, oauthlink.ErrUnknownProvider):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unknown provider"})
	case errors.Is(err, oauthlink.ErrLastAuthMethod):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "cannot remove the last authentication method"})
	case errors.Is(err, repository.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "provider link not found"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to redeem operation token"})
	}
}
