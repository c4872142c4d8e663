package archive

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// postgresTestURL builds the test database URL from POSTGRES_* variables.
// The tests skip unless POSTGRES_HOST is set.
func postgresTestURL(t *testing.T) string {
	t.Helper()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		t.Skip("POSTGRES_HOST not set, skipping Postgres archive tests")
	}
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=prefer",
		get("POSTGRES_USER", "postgres"),
		get("POSTGRES_PASSWORD", "postgres"),
		host,
		get("POSTGRES_PORT", "5432"),
		get("POSTGRES_DB", "spec_elicitor"))
}

func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	p, err := OpenPostgres(context.Background(), postgresTestURL(t))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPostgres_SpecificationRoundTrip(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()

	spec := sampleSpec()
	spec.SpecID = uuid.New().String()
	t.Cleanup(func() {
		p.pool.Exec(context.Background(), `DELETE FROM specifications WHERE spec_id = $1`, spec.SpecID)
	})

	require.NoError(t, p.SaveSpecification(ctx, spec))
	spec.FinalDocument = "# revisado"
	require.NoError(t, p.SaveSpecification(ctx, spec))

	got, err := p.GetSpecification(ctx, spec.SpecID)
	require.NoError(t, err)
	assert.Equal(t, "# revisado", got.FinalDocument)
	assert.Equal(t, spec.History.Questions(), got.History.Questions())
	assert.Equal(t, spec.Stakeholders, got.Stakeholders)
	assert.True(t, spec.CompletedAt.Equal(got.CompletedAt))

	_, err = p.GetSpecification(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_Users(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()

	user := models.User{
		ID:             uuid.New().String(),
		Name:           "Ana",
		Email:          uuid.New().String() + "@example.com",
		HashedPassword: "hash",
	}
	t.Cleanup(func() {
		p.pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, user.ID)
	})

	require.NoError(t, p.CreateUser(ctx, user))
	assert.ErrorIs(t, p.CreateUser(ctx, user), ErrUserExists)

	got, err := p.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = p.GetUserByEmail(ctx, "missing-"+user.Email)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, p.Ping(ctx))
}
