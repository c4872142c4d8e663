package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/auth"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/config"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/generation"
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

func mapEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func run(t *testing.T, vars map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(mapEnv(vars))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// fakeAnthropic answers the Messages API according to the requested budget.
func fakeAnthropic(t *testing.T, question string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MaxTokens int `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		text := question
		switch req.MaxTokens {
		case generation.StakeholderMaxTokens:
			text = `{"stakeholders":[{"area":"Compliance","reason":"Regras do Banco Central","priority":"high"}]}`
		case generation.DocumentMaxTokens:
			text = "# PIX agendado"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenCmd(t *testing.T) {
	out, err := run(t, map[string]string{"JWT_SECRET": "cli-secret", "LOG_LEVEL": "error"}, "",
		"token", "--user-id", "user-1", "--email", "ana@example.com")
	require.NoError(t, err)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "user-1", resp.UserID)

	jm, err := auth.NewJWTManager("cli-secret")
	require.NoError(t, err)
	claims, err := jm.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestTokenCmd_Errors(t *testing.T) {
	_, err := run(t, map[string]string{"LOG_LEVEL": "error"}, "", "token", "--user-id", "user-1")
	assert.EqualError(t, err, "JWT_SECRET is not set")

	_, err = run(t, map[string]string{"JWT_SECRET": "cli-secret", "LOG_LEVEL": "error"}, "", "token")
	assert.Error(t, err)
}

func TestTurnCmd_Start(t *testing.T) {
	srv := fakeAnthropic(t, "Como o PIX agendado ajuda o cliente?")
	vars := map[string]string{
		"ANTHROPIC_API_KEY":  "test-key",
		"ANTHROPIC_BASE_URL": srv.URL,
		"LOG_LEVEL":          "error",
	}

	out, err := run(t, vars, "", "turn", "--idea", "Implementar PIX agendado para clientes PJ", "--title", "PIX Agendado")
	require.NoError(t, err)

	var resp models.StartResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "PIX Agendado", resp.Title)
	assert.Equal(t, "Como o PIX agendado ajuda o cliente?", resp.FirstQuestion)
	assert.Equal(t, models.StatusStarted, resp.Status)
}

func TestTurnCmd_AnswerCompletes(t *testing.T) {
	srv := fakeAnthropic(t, "unused")
	vars := map[string]string{
		"ANTHROPIC_API_KEY":  "test-key",
		"ANTHROPIC_BASE_URL": srv.URL,
		"LOG_LEVEL":          "error",
	}
	stdin := `{
		"spec_id": "spec-cli",
		"current_question": "Quem monitora incidentes depois?",
		"answer": "O time de operações acompanha os alertas",
		"previous_answers": {
			"Como esta feature beneficia nossos clientes?": "Clientes PJ agendam pagamentos",
			"Quais integrações técnicas serão necessárias?": "API do SPI",
			"Existem exigências regulatórias envolvidas?": "Regras do Banco Central",
			"Descreva fluxos visuais esperados": "Tela de agendamento"
		},
		"initial_idea": "Implementar PIX agendado para clientes PJ"
	}`

	out, err := run(t, vars, stdin, "turn")
	require.NoError(t, err)

	var resp models.CompletedResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.StatusCompleted, resp.Status)
	assert.Equal(t, 5, resp.TotalQuestions)
	assert.Equal(t, "# PIX agendado", resp.FinalDocument)
	require.Len(t, resp.Stakeholders, 1)
	assert.Equal(t, models.AreaCompliance, resp.Stakeholders[0].Area)
}

func TestTurnCmd_EmptyStdin(t *testing.T) {
	_, err := run(t, map[string]string{"LOG_LEVEL": "error"}, "", "turn")
	assert.ErrorContains(t, err, "expected an answer request on stdin")
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := newGenerator(ctx, config.GeneratorConfig{Provider: config.ProviderAnthropic}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &generation.Bounded{}, gen)

	_, err = newGenerator(ctx, config.GeneratorConfig{Provider: config.ProviderGemini}, zap.NewNop())
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	_, err = newGenerator(ctx, config.GeneratorConfig{Provider: "openai"}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown generator provider "openai"`)
}
