package prompt

import (
	"strings"

	"storycraft/pkg/schema"
)

// Validate reports whether both required fields are non-blank.
func Validate(protagonist, setting string) bool {
	return strings.TrimSpace(protagonist) != "" && strings.TrimSpace(setting) != ""
}

// ValidationError lists the required fields that were left blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required fields missing: " + strings.Join(e.Fields, ", ")
}

// ValidateRequest is Validate with the offending fields named.
func ValidateRequest(req schema.CreationRequest) error {
	if Validate(req.Protagonist, req.Setting) {
		return nil
	}
	var missing []string
	if strings.TrimSpace(req.Protagonist) == "" {
		missing = append(missing, "protagonist")
	}
	if strings.TrimSpace(req.Setting) == "" {
		missing = append(missing, "setting")
	}
	return &ValidationError{Fields: missing}
}
