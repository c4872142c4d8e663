package models

import (
	"time"
)

// StakeholderArea is an organisational area that can sign off a specification.
type StakeholderArea string

const (
	AreaCompliance      StakeholderArea = "Compliance"
	AreaFinanceiro      StakeholderArea = "Financeiro"
	AreaUX              StakeholderArea = "UX"
	AreaBackend         StakeholderArea = "Backend"
	AreaFrontend        StakeholderArea = "Frontend"
	AreaQA              StakeholderArea = "QA"
	AreaSuporte         StakeholderArea = "Suporte"
	AreaComercial       StakeholderArea = "Comercial"
	AreaRH              StakeholderArea = "RH"
	AreaJuridico        StakeholderArea = "Jurídico"
	AreaInternetBanking StakeholderArea = "Internet Banking"
)

// StakeholderAreas lists every valid area.
var StakeholderAreas = []StakeholderArea{
	AreaCompliance,
	AreaFinanceiro,
	AreaUX,
	AreaBackend,
	AreaFrontend,
	AreaQA,
	AreaSuporte,
	AreaComercial,
	AreaRH,
	AreaJuridico,
	AreaInternetBanking,
}

// Valid reports whether a is one of StakeholderAreas.
func (a StakeholderArea) Valid() bool {
	for _, known := range StakeholderAreas {
		if a == known {
			return true
		}
	}
	return false
}

// Priority ranks how urgently a stakeholder has to review.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Normalize maps unknown priorities to medium.
func (p Priority) Normalize() Priority {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p
	default:
		return PriorityMedium
	}
}

// Stakeholder is an area that must approve the finished specification.
type Stakeholder struct {
	Area            StakeholderArea `json:"area"`
	Reason          string          `json:"reason"`
	Priority        Priority        `json:"priority"`
	ValidationFocus string          `json:"validation_focus,omitempty"`
}

// SpecificationRecord is the terminal artifact of a completed dialogue.
// It is built once at completion and never modified afterwards.
type SpecificationRecord struct {
	SpecID      string    `json:"spec_id"`
	Title       string    `json:"title"`
	InitialIdea string    `json:"initial_idea"`
	History     History   `json:"questions_answers"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewSpecificationRecord snapshots the dialogue into a record.
func NewSpecificationRecord(specID, title, idea string, history History, completedAt time.Time) SpecificationRecord {
	return SpecificationRecord{
		SpecID:      specID,
		Title:       title,
		InitialIdea: idea,
		History:     history.Clone(),
		CompletedAt: completedAt.UTC(),
	}
}

// ArchivedSpecification is a completed specification together with the
// deliverables produced for it.
type ArchivedSpecification struct {
	SpecificationRecord
	Stakeholders     []Stakeholder `json:"stakeholders"`
	FinalDocument    string        `json:"final_document"`
	CompletionReason string        `json:"completion_reason"`
	CreatedBy        string        `json:"created_by,omitempty"`
}
