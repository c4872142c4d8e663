package finalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

func TestFallbackDocument(t *testing.T) {
	rec := record("PIX agendado",
		models.QAPair{Question: "Quem usa?", Answer: "Clientes PJ"},
		models.QAPair{Question: "Qual o limite?", Answer: "R$ 5.000"},
	)
	stakeholders := []models.Stakeholder{
		{Area: models.AreaBackend, Reason: "Agendador", Priority: models.PriorityHigh},
	}

	doc := FallbackDocument(rec, stakeholders)

	assert.Contains(t, doc, "# SPEC-spec-1: Feature")
	assert.Contains(t, doc, "**Ideia:** PIX agendado")
	assert.Contains(t, doc, "**Perguntas respondidas:** 2")
	assert.Contains(t, doc, "### 1. Quem usa?\nClientes PJ")
	assert.Contains(t, doc, "### 2. Qual o limite?\nR$ 5.000")
	assert.Contains(t, doc, "- **Backend** (high): Agendador")
	assert.Contains(t, doc, "2025-05-01T12:00:00Z")
}
