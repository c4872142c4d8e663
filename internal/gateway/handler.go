package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/archive"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/dialogue"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/orchestration"
)

// Handler handles HTTP requests for the gateway layer
type Handler struct {
	service    *orchestration.Service
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewHandler creates a new gateway handler. A nil jwtManager disables login.
func NewHandler(service *orchestration.Service, jwtManager *auth.JWTManager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if h.jwtManager == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "Authentication is disabled",
			Code:  models.ErrCodeUnavailable,
		})
		return
	}

	ctx := c.Request.Context()
	user, err := h.service.Authenticate(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, orchestration.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Invalid email or password",
			Code:  models.ErrCodeUnauthorized,
		})
		return
	case errors.Is(err, archive.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: "No user store configured",
			Code:  models.ErrCodeUnavailable,
		})
		return
	case err != nil:
		h.writeError(c, err)
		return
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(ctx, user.ID, user.Email, auth.DefaultTokenDuration)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
	})
}

// StartSpecification godoc
// @Summary Start a specification dialogue
// @Description Open a dialogue for a feature idea and return the first question
// @Tags specifications
// @Accept json
// @Produce json
// @Param request body models.StartRequest true "Feature idea"
// @Success 200 {object} models.StartResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /specifications [post]
func (h *Handler) StartSpecification(c *gin.Context) {
	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.CreatedBy) == "" {
		req.CreatedBy = c.GetString(auth.EmailKey)
	}

	resp, err := h.service.StartSpecification(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Record an answer and return either the next question or the completed specification
// @Tags specifications
// @Accept json
// @Produce json
// @Param request body models.AnswerRequest true "Answer with the full dialogue state"
// @Success 200 {object} models.InProgressResponse
// @Success 200 {object} models.CompletedResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /specifications/answer [post]
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req models.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.service.ProcessAnswer(c.Request.Context(), req, auth.UserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Body())
}

// GetSpecification godoc
// @Summary Get an archived specification
// @Description Return a completed specification with its stakeholders and document
// @Tags specifications
// @Produce json
// @Param id path string true "Specification ID"
// @Success 200 {object} models.ArchivedSpecification
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /specifications/{id} [get]
func (h *Handler) GetSpecification(c *gin.Context) {
	specID := c.Param("id")

	spec, err := h.service.GetSpecification(c.Request.Context(), specID)
	if errors.Is(err, archive.ErrNotFound) || errors.Is(err, archive.ErrDisabled) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Specification not found",
			Code:  models.ErrCodeNotFound,
		})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready reports whether the archive is reachable.
func (h *Handler) Ready(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "archive connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: "Invalid request body",
		Code:  models.ErrCodeInvalidRequest,
	})
}

// writeError maps the dialogue error taxonomy onto HTTP.
func (h *Handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, models.ErrorResponse) {
	var validationErr *dialogue.ValidationError
	var generationErr *dialogue.GenerationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, models.ErrorResponse{
			Error:   validationErr.Error(),
			Code:    models.ErrCodeValidationFailed,
			Details: map[string]string{"field": validationErr.Field},
		}
	case errors.As(err, &generationErr):
		return http.StatusBadGateway, models.ErrorResponse{
			Error:   "Text generation failed, the turn can be retried",
			Code:    models.ErrCodeGenerationFailed,
			Details: map[string]string{"stage": generationErr.Stage},
		}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{
			Error: "Internal server error",
			Code:  models.ErrCodeInternalError,
		}
	}
}
