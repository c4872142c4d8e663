package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRepetitive(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		priors    []string
		expected  bool
	}{
		{
			name:      "three of four keywords shared",
			candidate: "Integrações externas necessárias hoje?",
			priors:    []string{"Integrações externas necessárias agora?"},
			expected:  true,
		},
		{
			name:      "no shared keywords",
			candidate: "Qual o limite diário de transferência?",
			priors:    []string{"Como ficam as mensagens de erro na tela?"},
			expected:  false,
		},
		{
			name:      "exactly half is not a repeat",
			candidate: "limite diário valor máximo",
			priors:    []string{"limite diário prazo entrega"},
			expected:  false,
		},
		{
			name:      "stopwords and short words only",
			candidate: "Qual é para onde e como?",
			priors:    []string{"Qual é para onde e como?"},
			expected:  false,
		},
		{
			name:      "prior without keywords is skipped",
			candidate: "Quais integrações serão necessárias?",
			priors:    []string{"E aí?", "Quais integrações serão necessárias?"},
			expected:  true,
		},
		{
			name:      "no priors",
			candidate: "Quais integrações serão necessárias?",
			expected:  false,
		},
		{
			name:      "ratio uses the smaller set",
			candidate: "Monitoramento",
			priors:    []string{"Quem cuida do monitoramento após o lançamento?"},
			expected:  true,
		},
		{
			name:      "punctuation and case ignored",
			candidate: "BIOMETRIA, obrigatória?",
			priors:    []string{"a biometria é obrigatória"},
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRepetitive(tt.candidate, tt.priors))
		})
	}
}

func TestKeywords(t *testing.T) {
	got := keywords("Quando o PIX agendado estará disponível para clientes?")
	assert.Equal(t, map[string]struct{}{
		"agendado":   {},
		"estará":     {},
		"disponível": {},
		"clientes":   {},
	}, got)
}
