package finalization

import (
	"strings"
	"text/template"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

var fallbackDocumentTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`# SPEC-{{.Record.SpecID}}: {{.Record.Title}}

## Resumo Executivo
- **Ideia:** {{.Record.InitialIdea}}
- **Concluída em:** {{.Record.CompletedAt.Format "2006-01-02T15:04:05Z07:00"}}
- **Perguntas respondidas:** {{len .Pairs}}

## Perguntas e Respostas
{{range $i, $p := .Pairs}}
### {{inc $i}}. {{$p.Question}}
{{$p.Answer}}
{{end}}
## Stakeholders
{{range .Stakeholders}}- **{{.Area}}** ({{.Priority}}): {{.Reason}}
{{end}}
> Documento gerado automaticamente a partir das respostas; revise antes de aprovar.
`))

// FallbackDocument renders a plain markdown document straight from the
// record, for when the generator cannot write one.
func FallbackDocument(record models.SpecificationRecord, stakeholders []models.Stakeholder) string {
	var sb strings.Builder
	err := fallbackDocumentTmpl.Execute(&sb, struct {
		Record       models.SpecificationRecord
		Pairs        []models.QAPair
		Stakeholders []models.Stakeholder
	}{record, record.History.Pairs(), stakeholders})
	if err != nil {
		return "# SPEC-" + record.SpecID + ": " + record.Title + "\n\n" + record.InitialIdea + "\n"
	}
	return sb.String()
}
