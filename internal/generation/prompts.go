package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// DefaultOrgName is the organisation the prompts speak for.
const DefaultOrgName = "OKTO Payments"

// Prompts renders the three prompt shapes sent to the generator.
type Prompts struct {
	OrgName string
}

// NewPrompts returns a prompt renderer for orgName.
func NewPrompts(orgName string) Prompts {
	if strings.TrimSpace(orgName) == "" {
		orgName = DefaultOrgName
	}
	return Prompts{OrgName: orgName}
}

func formatHistory(h models.History) string {
	if h.Len() == 0 {
		return "(nenhuma pergunta respondida ainda)"
	}
	var sb strings.Builder
	for i, p := range h.Pairs() {
		fmt.Fprintf(&sb, "%d. P: %s\n   R: %s\n\n", i+1, p.Question, p.Answer)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Question asks for the single next clarifying question, steered by focusHint.
func (p Prompts) Question(idea, focusHint string, history models.History) string {
	return fmt.Sprintf(`Você conduz a especificação de features da %[1]s, uma fintech brasileira.

IDEIA DA FEATURE: %[2]s

PERGUNTAS JÁ RESPONDIDAS:
%[3]s

FOCO DA PRÓXIMA PERGUNTA: %[4]s

Faça a próxima pergunta mais importante para completar a especificação.
- Não repita nem reformule perguntas já respondidas.
- Considere o contexto brasileiro de pagamentos (BACEN, LGPD, PIX).
- Seja específico sobre regras de negócio e integrações.
- Se a especificação já tiver informação suficiente, responda apenas: %[5]s

Responda SOMENTE com a pergunta, sem explicações.`,
		p.OrgName, idea, formatHistory(history), focusHint, CompletionSentinel)
}

func recordJSON(record models.SpecificationRecord) string {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		// History and strings always marshal; keep the prompt usable regardless.
		return fmt.Sprintf("%+v", record)
	}
	return string(data)
}

func areaList() string {
	names := make([]string, len(models.StakeholderAreas))
	for i, a := range models.StakeholderAreas {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

// Stakeholders asks for the areas that must approve the specification, as JSON.
func (p Prompts) Stakeholders(record models.SpecificationRecord) string {
	return fmt.Sprintf(`Com base na especificação abaixo, identifique as áreas da %[1]s que precisam aprovar esta feature.

ESPECIFICAÇÃO:
%[2]s

ÁREAS POSSÍVEIS (use exatamente estes nomes): %[3]s

REGRAS:
- Inclua apenas áreas realmente impactadas.
- Explique por que cada área precisa aprovar.
- priority deve ser high, medium ou low.

Responda SOMENTE com um JSON no formato:
{"stakeholders": [{"area": "Compliance", "reason": "...", "priority": "high", "validation_focus": "..."}]}`,
		p.OrgName, recordJSON(record), areaList())
}

// Document asks for the final markdown specification.
func (p Prompts) Document(record models.SpecificationRecord) string {
	return fmt.Sprintf(`Gere o documento final da especificação abaixo em Markdown para a %[1]s.

DADOS DA ESPECIFICAÇÃO:
%[2]s

ESTRUTURA OBRIGATÓRIA:
# SPEC-%[3]s: %[4]s
## Resumo Executivo
## Objetivos de Negócio
## Personas e Casos de Uso
## Especificação Funcional
## Segurança e Compliance
## Especificação de UX
## Considerações Técnicas
## Cenários de Teste
## Métricas de Sucesso
## Riscos e Mitigações
## Plano de Rollout

Seja específico e completo.`,
		p.OrgName, recordJSON(record), record.SpecID, record.Title)
}
