package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("jwt-manager")

const issuer = "spec-elicitor"

// DefaultTokenDuration is how long issued tokens stay valid.
const DefaultTokenDuration = 24 * time.Hour

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	signingKey string
	algorithm  string
	keyID      string
	tracer     trace.Tracer
}

// Claims represents JWT claims for the elicitation API
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager creates a JWT manager signing with secret
func NewJWTManager(secret string) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}

	return &JWTManager{
		signingKey: secret,
		algorithm:  "HS256",
		keyID:      "default",
		tracer:     tracer,
	}, nil
}

// GenerateToken generates a new JWT token
func (jm *JWTManager) GenerateToken(ctx context.Context, userID, email string, duration time.Duration) (string, time.Time, error) {
	_, span := jm.tracer.Start(ctx, "jwt.generate_token")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", userID))

	now := time.Now()
	expiresAt := now.Add(duration)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(jm.algorithm), claims)

	// Key ID header for key rotation support
	token.Header["kid"] = jm.keyID

	tokenString, err := token.SignedString([]byte(jm.signingKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	span.SetAttributes(
		attribute.String("jwt.id", claims.ID),
		attribute.String("jwt.expires_at", claims.ExpiresAt.String()),
	)

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token
func (jm *JWTManager) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	_, span := jm.tracer.Start(ctx, "jwt.validate_token")
	defer span.End()

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jm.algorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		if kid, ok := token.Header["kid"].(string); ok && kid != jm.keyID {
			span.SetAttributes(attribute.String("jwt.kid_mismatch", kid))
		}

		return []byte(jm.signingKey), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	span.SetAttributes(
		attribute.String("user.id", claims.UserID),
		attribute.String("jwt.id", claims.ID),
	)

	return claims, nil
}
