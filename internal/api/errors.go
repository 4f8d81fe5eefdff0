package api

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelNotFound is returned when no channel ID is available for a run
	ErrChannelNotFound = errors.New("channel not found")

	// ErrMissingField matches every *MissingFieldError via errors.Is
	ErrMissingField = errors.New("missing field")
)

// MissingFieldError reports a response that lacks a field the pipeline needs
type MissingFieldError struct {
	Endpoint string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("youtube %s response: missing field %s", e.Endpoint, e.Field)
}

// Is makes errors.Is(err, ErrMissingField) true for any missing field
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

func missingField(endpoint, field string) error {
	return &MissingFieldError{Endpoint: endpoint, Field: field}
}
