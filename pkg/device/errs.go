package device

import "fmt"

// ValidationError reports the first schema violation found while
// constructing an entity from a storage record. Records are rejected
// whole; nothing is partially accepted.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("device: invalid %s: field %q: %s", e.Entity, e.Field, e.Reason)
}

func invalid(entity, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
