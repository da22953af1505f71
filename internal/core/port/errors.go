package port

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound means no tier holds the requested entity. It surfaces as 404
// and is distinct from a tier being unreachable.
var ErrNotFound = errors.New("not found")

// ErrSourceUnavailable means a backing store errored. The resolver recovers
// from it locally by falling through to the next tier; it only reaches a
// caller when every tier that could hold the entity has failed.
var ErrSourceUnavailable = errors.New("source unavailable")

// ErrSyncActive is returned when a sync trigger arrives while another run is
// executing. Runs are serialized globally because a full sync touches the
// whole catalog.
var ErrSyncActive = errors.New("sync run already active")

// ErrAuthoringUnreachable aborts a sync run before import: with the
// authoritative source down there is nothing to pull and no point retrying.
var ErrAuthoringUnreachable = errors.New("authoring store unreachable")

// ValidationError carries field-level detail for bad input and maps to
// HTTP 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
