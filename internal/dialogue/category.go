// Package dialogue holds the requirements-elicitation controller: it
// classifies answered questions into coverage categories, plans the focus of
// the next question, guards against repeated questions and decides when a
// dialogue is complete. Every call is a pure function of the state handed in
// by the caller; nothing is kept between turns.
package dialogue

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one of the fixed coverage categories.
type Category string

const (
	CategoryBusiness    Category = "business"
	CategoryTechnical   Category = "technical"
	CategoryCompliance  Category = "compliance"
	CategoryUX          Category = "ux"
	CategoryOperational Category = "operational"
)

// Categories lists the closed category set in schedule order.
var Categories = []Category{
	CategoryBusiness,
	CategoryTechnical,
	CategoryCompliance,
	CategoryUX,
	CategoryOperational,
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

//go:embed keywords.yaml
var keywordsYAML []byte

var keywordTable = mustLoadKeywords(keywordsYAML)

func mustLoadKeywords(data []byte) map[Category][]string {
	table, err := parseKeywords(data)
	if err != nil {
		panic(fmt.Sprintf("dialogue: invalid keyword table: %v", err))
	}
	return table
}

func parseKeywords(data []byte) (map[Category][]string, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse keywords: %w", err)
	}

	table := make(map[Category][]string, len(Categories))
	for name, words := range raw {
		category := Category(name)
		if !category.Valid() {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", name)
		}
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				lowered = append(lowered, w)
			}
		}
		table[category] = lowered
	}

	for _, c := range Categories {
		if _, ok := table[c]; !ok {
			return nil, fmt.Errorf("category %q missing", c)
		}
	}
	return table, nil
}

// CategorySet is an unordered set of categories.
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(categories ...Category) CategorySet {
	s := make(CategorySet, len(categories))
	for _, c := range categories {
		s[c] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Union adds every member of other to s.
func (s CategorySet) Union(other CategorySet) {
	for c := range other {
		s[c] = struct{}{}
	}
}

// Sorted returns the members in schedule order.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return scheduleIndex(out[i]) < scheduleIndex(out[j])
	})
	return out
}

func scheduleIndex(c Category) int {
	for i, known := range Categories {
		if c == known {
			return i
		}
	}
	return len(Categories)
}

// Classify tags a question/answer pair with every category whose keyword
// list matches. No keywords yields an empty set.
func Classify(question, answer string) CategorySet {
	text := strings.ToLower(question + " " + answer)

	found := make(CategorySet)
	for _, c := range Categories {
		for _, kw := range keywordTable[c] {
			if strings.Contains(text, kw) {
				found[c] = struct{}{}
				break
			}
		}
	}
	return found
}
