package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kewgardenflowers/kgf-orders/validation"
)

// ErrNotFound is returned for unknown or archived records.
var ErrNotFound = errors.New("not found")

// ValidationError reports user input that cannot be accepted.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, code := range e.Violations {
		fields = append(fields, f+"="+code)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
