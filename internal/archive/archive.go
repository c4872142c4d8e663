// Package archive keeps completed specifications and API users on behalf of
// callers. The dialogue itself never reads from it: state still round-trips
// through the caller on every turn.
package archive

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

var (
	// ErrNotFound is returned when a specification is not archived.
	ErrNotFound = errors.New("specification not found")
	// ErrUserNotFound is returned when no user has the given email.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating a user whose email is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrDisabled is returned by the no-op archive for reads.
	ErrDisabled = errors.New("archive is not configured")
)

// Archive stores completed specifications and API users.
type Archive interface {
	SaveSpecification(ctx context.Context, spec models.ArchivedSpecification) error
	GetSpecification(ctx context.Context, specID string) (*models.ArchivedSpecification, error)
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open selects a backend from dsn: empty disables archiving, a postgres URL
// uses Postgres, and anything else is treated as a SQLite path (an optional
// "sqlite:" prefix is stripped).
func Open(ctx context.Context, dsn string, logger *zap.Logger) (Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch {
	case strings.TrimSpace(dsn) == "":
		logger.Warn("DATABASE_URL not set, completed specifications will not be archived")
		return Nop{}, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		logger.Info("Using Postgres archive")
		return OpenPostgres(ctx, dsn)
	default:
		path := strings.TrimPrefix(dsn, "sqlite:")
		logger.Info("Using SQLite archive", zap.String("path", path))
		return OpenSQLite(ctx, path)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Nop archives nothing. Writes succeed silently; reads report ErrDisabled.
type Nop struct{}

func (Nop) SaveSpecification(context.Context, models.ArchivedSpecification) error { return nil }

func (Nop) GetSpecification(context.Context, string) (*models.ArchivedSpecification, error) {
	return nil, ErrDisabled
}

func (Nop) CreateUser(context.Context, models.User) error { return ErrDisabled }

func (Nop) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, ErrDisabled
}

func (Nop) Ping(context.Context) error { return nil }

func (Nop) Close() error { return nil }
