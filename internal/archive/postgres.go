package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

const uniqueViolation = "23505"

// answers is stored as json, not jsonb, so question order survives.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS specifications (
	spec_id           TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	initial_idea      TEXT NOT NULL,
	answers           JSON NOT NULL,
	stakeholders      JSONB NOT NULL,
	final_document    TEXT NOT NULL,
	completion_reason TEXT NOT NULL,
	created_by        TEXT NOT NULL DEFAULT '',
	completed_at      TIMESTAMPTZ NOT NULL
);`

// Postgres archives into a PostgreSQL database through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, pings and creates the tables if needed.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// SaveSpecification inserts the specification, replacing an earlier copy.
func (p *Postgres) SaveSpecification(ctx context.Context, spec models.ArchivedSpecification) error {
	encoded, err := encodeSpec(spec)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO specifications (spec_id, title, initial_idea, answers, stakeholders,
		                            final_document, completion_reason, created_by, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (spec_id) DO UPDATE SET
			title = EXCLUDED.title,
			initial_idea = EXCLUDED.initial_idea,
			answers = EXCLUDED.answers,
			stakeholders = EXCLUDED.stakeholders,
			final_document = EXCLUDED.final_document,
			completion_reason = EXCLUDED.completion_reason,
			created_by = EXCLUDED.created_by,
			completed_at = EXCLUDED.completed_at
	`, spec.SpecID, spec.Title, spec.InitialIdea, string(encoded.answers), string(encoded.stakeholders),
		spec.FinalDocument, spec.CompletionReason, spec.CreatedBy, spec.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to save specification: %w", err)
	}
	return nil
}

// GetSpecification loads an archived specification.
func (p *Postgres) GetSpecification(ctx context.Context, specID string) (*models.ArchivedSpecification, error) {
	var spec models.ArchivedSpecification
	var answers, stakeholders string

	err := p.pool.QueryRow(ctx, `
		SELECT spec_id, title, initial_idea, answers::text, stakeholders::text,
		       final_document, completion_reason, created_by, completed_at
		FROM specifications
		WHERE spec_id = $1
	`, specID).Scan(
		&spec.SpecID, &spec.Title, &spec.InitialIdea, &answers, &stakeholders,
		&spec.FinalDocument, &spec.CompletionReason, &spec.CreatedBy, &spec.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get specification: %w", err)
	}

	if err := decodeSpec(&spec, []byte(answers), []byte(stakeholders)); err != nil {
		return nil, err
	}
	spec.CompletedAt = spec.CompletedAt.UTC()
	return &spec, nil
}

// CreateUser inserts a user inside a transaction.
func (p *Postgres) CreateUser(ctx context.Context, user models.User) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, name, email, hashed_password)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Name, normalizeEmail(user.Email), user.HashedPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by email.
func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := p.pool.QueryRow(ctx, `
		SELECT id, name, email, hashed_password, created_at
		FROM users
		WHERE email = $1
	`, normalizeEmail(email)).Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Ping checks the connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
