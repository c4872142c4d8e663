package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/archive"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/logging"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

const (
	// MinPasswordLength is the minimum password length requirement
	MinPasswordLength = 8
	// BcryptCost is the cost factor for bcrypt hashing (10 = ~100ms)
	BcryptCost = 10
)

var (
	emailRegex  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

func main() {
	name := flag.String("name", "", "Full name of the user (required)")
	email := flag.String("email", "", "Email address (required)")
	password := flag.String("password", "", "Password (required, min 8 chars)")
	flag.Parse()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), logger, os.Getenv("DATABASE_URL"), *name, *email, *password); err != nil {
		logger.Error("Failed to seed user", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, dsn, name, email, password string) error {
	if err := validateInputs(name, email, password); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if dsn == "" {
		return fmt.Errorf("DATABASE_URL is required to store users")
	}

	store, err := archive.Open(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := createUser(ctx, store, name, email, password)
	if err != nil {
		return err
	}

	logger.Info("Successfully created user",
		zap.String("id", user.ID),
		zap.String("name", user.Name),
		zap.String("email", user.Email))
	return nil
}

// validateInputs validates user input according to security requirements
func validateInputs(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required and cannot be empty")
	}

	if !emailRegex.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("invalid email format: %s", email)
	}

	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	// At least one letter and one number.
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one letter and one number")
	}

	return nil
}

// createUser hashes the password and stores a new user.
func createUser(ctx context.Context, store archive.Archive, name, email, password string) (models.User, error) {
	tracer := otel.Tracer("seed-user")
	ctx, span := tracer.Start(ctx, "create_user")
	defer span.End()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(name),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		HashedPassword: string(hashedPassword),
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		span.RecordError(err)
		return models.User{}, fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return user, nil
}
