package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan(t *testing.T) {
	all := NewCategorySet(Categories...)

	tests := []struct {
		name      string
		coverage  CategorySet
		turnCount int
		expected  Decision
	}{
		{"opens on business", NewCategorySet(), 0, focus(CategoryBusiness, hintBusinessBenefit)},
		{"opens on business even if covered", all, 0, focus(CategoryBusiness, hintBusinessBenefit)},
		{"business value when not covered", NewCategorySet(), 1, focus(CategoryBusiness, hintBusinessValue)},
		{"skips to technical once business covered", NewCategorySet(CategoryBusiness), 1, focus(CategoryTechnical, hintTechnical)},
		{"technical at turn two", NewCategorySet(CategoryBusiness), 2, focus(CategoryTechnical, hintTechnical)},
		{"technical slot closed after turn two", NewCategorySet(), 3, focus(CategoryCompliance, hintCompliance)},
		{"ux when compliance covered", NewCategorySet(CategoryCompliance), 3, focus(CategoryUX, hintUX)},
		{"ux at turn four", NewCategorySet(), 4, focus(CategoryUX, hintUX)},
		{"operational when ux covered", NewCategorySet(CategoryUX), 4, focus(CategoryOperational, hintOperational)},
		{"operational catch-all", all, 1, focus(CategoryOperational, hintOperational)},
		{"cap at five with nothing covered", NewCategorySet(), 5, complete()},
		{"cap at five with everything covered", all, 5, complete()},
		{"cap beyond five", NewCategorySet(), 9, complete()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Plan(tt.coverage, tt.turnCount))
		})
	}
}

func TestPlan_CapBoundary(t *testing.T) {
	assert.False(t, Plan(NewCategorySet(), MaxQuestions-1).Complete)
	assert.True(t, Plan(NewCategorySet(), MaxQuestions).Complete)
}

func TestPlan_AlwaysHintsWhenContinuing(t *testing.T) {
	for turn := 0; turn < MaxQuestions; turn++ {
		d := Plan(NewCategorySet(), turn)
		assert.False(t, d.Complete)
		assert.NotEmpty(t, d.Hint)
		assert.True(t, d.Focus.Valid())
	}
}
