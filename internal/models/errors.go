package models

import (
	"fmt"
	"strings"
)

// ValidationError rejects a creation request before anything is written.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
