package archive

import (
	"encoding/json"
	"fmt"

	"github.com/bizmatters/agent-builder/spec-elicitor/internal/models"
)

// encodedSpec is the column form shared by both SQL backends.
type encodedSpec struct {
	answers      []byte
	stakeholders []byte
}

func encodeSpec(spec models.ArchivedSpecification) (encodedSpec, error) {
	answers, err := json.Marshal(spec.History)
	if err != nil {
		return encodedSpec{}, fmt.Errorf("failed to encode answers: %w", err)
	}
	stakeholders := spec.Stakeholders
	if stakeholders == nil {
		stakeholders = []models.Stakeholder{}
	}
	encoded, err := json.Marshal(stakeholders)
	if err != nil {
		return encodedSpec{}, fmt.Errorf("failed to encode stakeholders: %w", err)
	}
	return encodedSpec{answers: answers, stakeholders: encoded}, nil
}

func decodeSpec(spec *models.ArchivedSpecification, answers, stakeholders []byte) error {
	if err := json.Unmarshal(answers, &spec.History); err != nil {
		return err
	}
	if err := json.Unmarshal(stakeholders, &spec.Stakeholders); err != nil {
		return fmt.Errorf("failed to decode stakeholders: %w", err)
	}
	return nil
}
