package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS specifications (
	spec_id           TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	initial_idea      TEXT NOT NULL,
	answers           TEXT NOT NULL,
	stakeholders      TEXT NOT NULL,
	final_document    TEXT NOT NULL,
	completion_reason TEXT NOT NULL,
	created_by        TEXT NOT NULL DEFAULT '',
	completed_at      TEXT NOT NULL
);`

// SQLite archives into a single SQLite file (or ":memory:").
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and creates the tables if needed.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("archive: pragma %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: migration: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveSpecification inserts the specification, replacing an earlier copy.
func (s *SQLite) SaveSpecification(ctx context.Context, spec models.ArchivedSpecification) error {
	encoded, err := encodeSpec(spec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO specifications (spec_id, title, initial_idea, answers, stakeholders,
		                                       final_document, completion_reason, created_by, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, spec.SpecID, spec.Title, spec.InitialIdea, string(encoded.answers), string(encoded.stakeholders),
		spec.FinalDocument, spec.CompletionReason, spec.CreatedBy, spec.CompletedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save specification: %w", err)
	}
	return nil
}

// GetSpecification loads an archived specification.
func (s *SQLite) GetSpecification(ctx context.Context, specID string) (*models.ArchivedSpecification, error) {
	var spec models.ArchivedSpecification
	var answers, stakeholders, completedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT spec_id, title, initial_idea, answers, stakeholders,
		       final_document, completion_reason, created_by, completed_at
		FROM specifications
		WHERE spec_id = ?
	`, specID).Scan(
		&spec.SpecID, &spec.Title, &spec.InitialIdea, &answers, &stakeholders,
		&spec.FinalDocument, &spec.CompletionReason, &spec.CreatedBy, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get specification: %w", err)
	}

	if err := decodeSpec(&spec, []byte(answers), []byte(stakeholders)); err != nil {
		return nil, err
	}
	if spec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return nil, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	return &spec, nil
}

// CreateUser inserts a user.
func (s *SQLite) CreateUser(ctx context.Context, user models.User) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, hashed_password, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Name, normalizeEmail(user.Email), user.HashedPassword, createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by email.
func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, hashed_password, created_at
		FROM users
		WHERE email = ?
	`, normalizeEmail(email)).Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &user, nil
}

// Ping checks the connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
