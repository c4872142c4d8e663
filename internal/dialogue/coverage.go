package dialogue

import (
	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// Coverage folds Classify over the whole history. It is recomputed from
// scratch on every call so reordering the history never changes the result.
func Coverage(h models.History) CategorySet {
	covered := make(CategorySet)
	for _, p := range h.Pairs() {
		covered.Union(Classify(p.Question, p.Answer))
	}
	return covered
}
