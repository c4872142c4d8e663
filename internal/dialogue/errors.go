package dialogue

import (
	"fmt"
)

// ValidationError reports a missing or malformed caller field. The dialogue
// does not advance; the caller must correct the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// GenerationError reports that the text generator failed. The turn is
// aborted with the caller's state untouched, so the turn may be retried.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
