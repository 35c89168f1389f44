package rulestore

import (
	"errors"
	"fmt"

	"github.com/zielww/apollo/internal/models"
)

var ErrNotFound = errors.New("rule not found")

// a candidate rule that can never be valid as given
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// a candidate rule overlapping an existing rule on the same device
type ConflictError struct {
	Candidate   models.Interval
	Conflicting models.Rule
}

// the conflicting rule's time range, e.g. "07:00 - 08:00"
func (e *ConflictError) Range() string {
	return e.Conflicting.Interval.String()
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time range %s overlaps with an existing schedule (%s), please choose a different time", e.Candidate, e.Range())
}
