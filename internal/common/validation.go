package common

import "strings"

// ValidationError collects every violation found while validating a
// profile. Validation never stops at the first problem; all applicable
// violations are reported together.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
