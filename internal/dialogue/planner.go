package dialogue

// MaxQuestions is the hard cap on answered questions per dialogue.
const MaxQuestions = 5

// Focus hints handed to the question prompt, one per schedule slot.
const (
	hintBusinessBenefit = "Negócio: como a feature beneficia nossos clientes (objetivos, usuários-alvo)"
	hintBusinessValue   = "Negócio: valor e impacto mensurável (métricas de sucesso, receita, retenção)"
	hintTechnical       = "Técnico: integrações necessárias, performance e arquitetura"
	hintCompliance      = "Compliance: regulamentações (BACEN, LGPD), auditoria e segurança"
	hintUX              = "UX: fluxos, validações e mensagens de erro"
	hintOperational     = "Operacional: suporte, monitoramento e rollback"
)

// Decision is the planner's verdict for the next turn.
type Decision struct {
	Complete bool
	Focus    Category
	Hint     string
}

func complete() Decision { return Decision{Complete: true} }

func focus(c Category, hint string) Decision {
	return Decision{Focus: c, Hint: hint}
}

// Plan picks the category the next question should target, or signals that
// the dialogue is complete. The schedule is fixed: business, technical,
// compliance, ux, operational, skipping slots whose category is already
// covered. The cap always wins.
func Plan(coverage CategorySet, turnCount int) Decision {
	switch {
	case turnCount >= MaxQuestions:
		return complete()
	case turnCount == 0:
		return focus(CategoryBusiness, hintBusinessBenefit)
	case turnCount == 1 && !coverage.Has(CategoryBusiness):
		return focus(CategoryBusiness, hintBusinessValue)
	case turnCount <= 2 && !coverage.Has(CategoryTechnical):
		return focus(CategoryTechnical, hintTechnical)
	case turnCount <= 3 && !coverage.Has(CategoryCompliance):
		return focus(CategoryCompliance, hintCompliance)
	case turnCount <= 4 && !coverage.Has(CategoryUX):
		return focus(CategoryUX, hintUX)
	default:
		return focus(CategoryOperational, hintOperational)
	}
}
