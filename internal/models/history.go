package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// QAPair is one answered question of a dialogue.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// History is the question→answer log of a dialogue.
// Questions are unique keys: recording an already-asked question replaces
// its answer in place. Insertion order is kept for display and JSON output.
// The zero value is an empty history ready to use.
type History struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewHistory builds a history from pairs, in order.
func NewHistory(pairs ...QAPair) History {
	h := History{m: orderedmap.New[string, string]()}
	for _, p := range pairs {
		h.m.Set(p.Question, p.Answer)
	}
	return h
}

// Upsert returns a copy of h with question answered. h itself is left untouched.
func (h History) Upsert(question, answer string) History {
	out := h.Clone()
	out.m.Set(question, answer)
	return out
}

// Len returns the number of distinct questions answered.
func (h History) Len() int {
	if h.m == nil {
		return 0
	}
	return h.m.Len()
}

// Answer looks up the answer recorded for question.
func (h History) Answer(question string) (string, bool) {
	if h.m == nil {
		return "", false
	}
	return h.m.Get(question)
}

// Pairs returns the pairs in insertion order.
func (h History) Pairs() []QAPair {
	if h.m == nil {
		return nil
	}
	pairs := make([]QAPair, 0, h.m.Len())
	for p := h.m.Oldest(); p != nil; p = p.Next() {
		pairs = append(pairs, QAPair{Question: p.Key, Answer: p.Value})
	}
	return pairs
}

// Questions returns the asked questions in insertion order.
func (h History) Questions() []string {
	pairs := h.Pairs()
	questions := make([]string, len(pairs))
	for i, p := range pairs {
		questions[i] = p.Question
	}
	return questions
}

// Clone returns an independent copy.
func (h History) Clone() History {
	return NewHistory(h.Pairs()...)
}

// MarshalJSON encodes the history as a JSON object keyed by question,
// keeping insertion order.
func (h History) MarshalJSON() ([]byte, error) {
	if h.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(h.m)
}

// UnmarshalJSON decodes a question→answer object, keeping document order.
func (h *History) UnmarshalJSON(data []byte) error {
	h.m = orderedmap.New[string, string]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, h.m); err != nil {
		return fmt.Errorf("failed to decode answers: %w", err)
	}
	return nil
}
