package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

var middlewareTracer = otel.Tracer("auth-middleware")

// Gin context keys set by the middleware.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	ClaimsKey = "claims"
)

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAuth is a Gin middleware that validates JWT tokens. A nil manager
// means auth is disabled and every request passes through anonymously.
func RequireAuth(jwtManager *JWTManager, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		if jwtManager == nil {
			c.Next()
			return
		}

		ctx, span := middlewareTracer.Start(c.Request.Context(), "auth.require_auth_gin")
		defer span.End()

		header := c.GetHeader("Authorization")
		if header == "" {
			// Browsers cannot set headers on a websocket handshake.
			if token := c.Query("token"); token != "" {
				header = "Bearer " + token
			}
		}
		if header == "" {
			span.SetAttributes(attribute.Bool("auth.token_present", false))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Missing authorization header",
				Code:  models.ErrCodeUnauthorized,
			})
			return
		}

		token := extractBearerToken(header)
		if token == "" {
			span.SetAttributes(attribute.Bool("auth.token_present", false))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Invalid authorization header format",
				Code:  models.ErrCodeUnauthorized,
			})
			return
		}
		span.SetAttributes(attribute.Bool("auth.token_present", true))

		claims, err := jwtManager.ValidateToken(ctx, token)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.Bool("auth.token_valid", false))
			logger.Warn("Invalid token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  models.ErrCodeUnauthorized,
			})
			return
		}

		span.SetAttributes(
			attribute.Bool("auth.token_valid", true),
			attribute.String("user.id", claims.UserID),
		)

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(ClaimsKey, claims)

		logger.Debug("User authenticated",
			zap.String("user_id", claims.UserID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		c.Next()
	}
}
