package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/archive"
)

func TestValidateInputs(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		email    string
		password string
		wantErr  string
	}{
		{"valid", "Ana Souza", "ana@example.com", "segredo123", ""},
		{"blank name", "  ", "ana@example.com", "segredo123", "name is required"},
		{"padded email", "Ana", " Ana@Example.com ", "segredo123", ""},
		{"bad email", "Ana", "ana@example", "segredo123", "invalid email format"},
		{"short password", "Ana", "ana@example.com", "abc1", "at least 8 characters"},
		{"no digit", "Ana", "ana@example.com", "segredoooo", "one letter and one number"},
		{"no letter", "Ana", "ana@example.com", "12345678", "one letter and one number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputs(tt.user, tt.email, tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRun_CreatesUser(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "users.db")

	require.NoError(t, run(ctx, zap.NewNop(), dsn, "Ana Souza", " Ana@Example.com ", "segredo123"))

	store, err := archive.Open(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	user, err := store.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", user.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("segredo123")))

	err = run(ctx, zap.NewNop(), dsn, "Ana Souza", "ana@example.com", "segredo123")
	assert.ErrorIs(t, err, archive.ErrUserExists)
}

func TestRun_RequiresDatabase(t *testing.T) {
	err := run(context.Background(), zap.NewNop(), "", "Ana", "ana@example.com", "segredo123")
	assert.ErrorContains(t, err, "DATABASE_URL is required")
}
