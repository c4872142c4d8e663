package finalization

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// ParseError reports generator output that was expected to hold structured
// data but did not. It never leaves this package: callers get the fallback.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable %s response: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errNoJSONObject = errors.New("no JSON object found")

// extractJSONObject returns the span from the first '{' to the last '}'.
func extractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoJSONObject
	}
	return text[start : end+1], nil
}

var stakeholderSchema = mustCompileStakeholderSchema()

func mustCompileStakeholderSchema() *gojsonschema.Schema {
	areas := make([]string, len(models.StakeholderAreas))
	for i, a := range models.StakeholderAreas {
		areas[i] = string(a)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]interface{}{
		"type":     "object",
		"required": []string{"area"},
		"properties": map[string]interface{}{
			"area":             map[string]interface{}{"type": "string", "enum": areas},
			"reason":           map[string]interface{}{"type": "string"},
			"priority":         map[string]interface{}{"type": "string"},
			"validation_focus": map[string]interface{}{"type": []string{"string", "null"}},
		},
	}))
	if err != nil {
		panic(fmt.Sprintf("finalization: invalid stakeholder schema: %v", err))
	}
	return schema
}

// rejectedEntry describes a stakeholder entry dropped during parsing.
type rejectedEntry struct {
	Raw    string
	Reason string
}

// parseStakeholders extracts the stakeholder list from a generator response.
// Entries that fail the schema (unknown area, wrong types) are dropped and
// reported in rejected; only a response without a usable envelope is an error.
func parseStakeholders(text string) (kept []models.Stakeholder, rejected []rejectedEntry, err error) {
	object, err := extractJSONObject(text)
	if err != nil {
		return nil, nil, &ParseError{Stage: "stakeholders", Err: err}
	}

	var envelope struct {
		Stakeholders []json.RawMessage `json:"stakeholders"`
	}
	if err := json.Unmarshal([]byte(object), &envelope); err != nil {
		return nil, nil, &ParseError{Stage: "stakeholders", Err: err}
	}

	for _, raw := range envelope.Stakeholders {
		result, err := stakeholderSchema.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			rejected = append(rejected, rejectedEntry{Raw: string(raw), Reason: err.Error()})
			continue
		}
		if !result.Valid() {
			reasons := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				reasons = append(reasons, e.String())
			}
			rejected = append(rejected, rejectedEntry{Raw: string(raw), Reason: strings.Join(reasons, "; ")})
			continue
		}

		var s models.Stakeholder
		if err := json.Unmarshal(raw, &s); err != nil {
			rejected = append(rejected, rejectedEntry{Raw: string(raw), Reason: err.Error()})
			continue
		}
		s.Reason = strings.TrimSpace(s.Reason)
		s.ValidationFocus = strings.TrimSpace(s.ValidationFocus)
		s.Priority = s.Priority.Normalize()
		kept = append(kept, s)
	}
	return kept, rejected, nil
}
