package archive

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSpec() models.ArchivedSpecification {
	history := models.NewHistory(
		models.QAPair{Question: "Zeta: quem usa?", Answer: "Empresas PJ"},
		models.QAPair{Question: "Alfa: qual o limite?", Answer: "R$ 5.000 por dia"},
	)
	return models.ArchivedSpecification{
		SpecificationRecord: models.NewSpecificationRecord("spec-1", "PIX agendado", "Implementar PIX agendado",
			history, time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)),
		Stakeholders: []models.Stakeholder{
			{Area: models.AreaBackend, Reason: "Agendador", Priority: models.PriorityHigh, ValidationFocus: "Idempotência"},
			{Area: models.AreaSuporte, Reason: "FAQ", Priority: models.PriorityLow},
		},
		FinalDocument:    "# SPEC-spec-1",
		CompletionReason: "question_limit",
		CreatedBy:        "ana",
	}
}

func TestSQLite_SpecificationRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	spec := sampleSpec()

	require.NoError(t, s.SaveSpecification(ctx, spec))

	got, err := s.GetSpecification(ctx, "spec-1")
	require.NoError(t, err)

	assert.Equal(t, spec.SpecID, got.SpecID)
	assert.Equal(t, spec.Title, got.Title)
	assert.Equal(t, spec.InitialIdea, got.InitialIdea)
	assert.Equal(t, spec.FinalDocument, got.FinalDocument)
	assert.Equal(t, spec.CompletionReason, got.CompletionReason)
	assert.Equal(t, spec.CreatedBy, got.CreatedBy)
	assert.True(t, spec.CompletedAt.Equal(got.CompletedAt))
	assert.Equal(t, spec.History.Pairs(), got.History.Pairs(), "question order must survive")
	if diff := cmp.Diff(spec.Stakeholders, got.Stakeholders); diff != "" {
		t.Errorf("stakeholders mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLite_SaveReplaces(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	spec := sampleSpec()
	require.NoError(t, s.SaveSpecification(ctx, spec))

	spec.FinalDocument = "# revisado"
	spec.Stakeholders = nil
	require.NoError(t, s.SaveSpecification(ctx, spec))

	got, err := s.GetSpecification(ctx, "spec-1")
	require.NoError(t, err)
	assert.Equal(t, "# revisado", got.FinalDocument)
	assert.Empty(t, got.Stakeholders)
}

func TestSQLite_GetSpecificationNotFound(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetSpecification(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_Users(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	user := models.User{ID: "user-1", Name: "Ana", Email: " Ana@Example.com ", HashedPassword: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "hash", got.HashedPassword)
	assert.False(t, got.CreatedAt.IsZero())

	err = s.CreateUser(ctx, models.User{ID: "user-2", Name: "Outra", Email: "ana@example.com", HashedPassword: "x"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = s.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSQLite_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveSpecification(ctx, sampleSpec()))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetSpecification(ctx, "spec-1")
	require.NoError(t, err)
	assert.Equal(t, "PIX agendado", got.Title)
	assert.NoError(t, reopened.Ping(ctx))
}

func TestOpenSQLite_OpenFailure(t *testing.T) {
	original := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { openDB = original })

	_, err := OpenSQLite(context.Background(), ":memory:")
	assert.ErrorContains(t, err, "boom")
}
