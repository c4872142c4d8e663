package finalization

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

type stakeholderRule struct {
	Area            models.StakeholderArea `yaml:"area"`
	Priority        models.Priority        `yaml:"priority"`
	Reason          string                 `yaml:"reason"`
	ValidationFocus string                 `yaml:"validation_focus"`
	Triggers        []string               `yaml:"triggers"`
}

func (r stakeholderRule) stakeholder() models.Stakeholder {
	return models.Stakeholder{
		Area:            r.Area,
		Reason:          r.Reason,
		Priority:        r.Priority.Normalize(),
		ValidationFocus: r.ValidationFocus,
	}
}

type ruleSet struct {
	Rules  []stakeholderRule `yaml:"rules"`
	Always []stakeholderRule `yaml:"always"`
}

//go:embed stakeholder_rules.yaml
var rulesYAML []byte

var fallbackRules = mustLoadRules(rulesYAML)

func mustLoadRules(data []byte) ruleSet {
	rs, err := parseRules(data)
	if err != nil {
		panic(fmt.Sprintf("finalization: invalid stakeholder rules: %v", err))
	}
	return rs
}

func parseRules(data []byte) (ruleSet, error) {
	var rs ruleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return ruleSet{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	if len(rs.Always) == 0 {
		return ruleSet{}, fmt.Errorf("at least one unconditional stakeholder is required")
	}
	for _, r := range append(append([]stakeholderRule{}, rs.Rules...), rs.Always...) {
		if !r.Area.Valid() {
			return ruleSet{}, fmt.Errorf("unknown area %q", r.Area)
		}
	}
	for i, r := range rs.Rules {
		if len(r.Triggers) == 0 {
			return ruleSet{}, fmt.Errorf("rule for %q has no triggers", r.Area)
		}
		for j, trigger := range r.Triggers {
			rs.Rules[i].Triggers[j] = strings.ToLower(trigger)
		}
	}
	return rs, nil
}

// FallbackStakeholders infers stakeholders from the idea and answers alone.
// It never fails and always includes the unconditional stakeholders.
func FallbackStakeholders(record models.SpecificationRecord) []models.Stakeholder {
	return fallbackRules.infer(record)
}

func (rs ruleSet) infer(record models.SpecificationRecord) []models.Stakeholder {
	var sb strings.Builder
	sb.WriteString(record.InitialIdea)
	for _, p := range record.History.Pairs() {
		sb.WriteString(" ")
		sb.WriteString(p.Answer)
	}
	text := strings.ToLower(sb.String())

	var out []models.Stakeholder
	for _, r := range rs.Rules {
		for _, trigger := range r.Triggers {
			if strings.Contains(text, trigger) {
				out = append(out, r.stakeholder())
				break
			}
		}
	}
	for _, r := range rs.Always {
		out = append(out, r.stakeholder())
	}
	return out
}
