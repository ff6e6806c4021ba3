package planning

import (
	"errors"
)

var (
	// ErrConfiguration means a credential or endpoint the generator needs is absent
	ErrConfiguration = errors.New("generator not configured")

	// ErrInvalidProject means the planning request itself cannot be planned
	ErrInvalidProject = errors.New("invalid project data")

	// ErrGeneration means the generator call failed
	ErrGeneration = errors.New("plan generation failed")

	// ErrMalformedResponse means the generator text is not a parseable plan
	ErrMalformedResponse = errors.New("malformed generator response")

	// ErrInvalidPlanStructure means the plan parsed but has no sprints or no tasks
	ErrInvalidPlanStructure = errors.New("invalid plan structure received from AI")
)

// UserMessage returns the text shown to an end user for err
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedResponse):
		return "Failed to parse AI response. Please try again."
	case errors.Is(err, ErrInvalidPlanStructure):
		return "Invalid plan structure received from AI. Please try again."
	case errors.Is(err, ErrConfiguration):
		return "AI generator is not configured."
	case errors.Is(err, ErrGeneration):
		return "Failed to generate project plan. Please try again."
	default:
		return err.Error()
	}
}
