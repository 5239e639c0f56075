package nace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an identifier does not resolve to a code.
var ErrNotFound = errors.New("NACEBEL code not found")

// ValidationError reports a bad caller-supplied parameter.
// Message is the exact text sent back to API clients.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Parameter validation messages returned verbatim by the API.
const (
	MsgInvalidPage  = "Invalid 'page' parameter. Must be a positive number."
	MsgInvalidLimit = "Invalid 'limit' parameter. Must be a positive number up to 500."
	MsgInvalidLevel = "Invalid 'level' parameter. Must be a number between 2 and 5."
	MsgIDRequired   = "Code ID is required."
	MsgInvalidLang  = "Invalid 'lang' parameter. Must be one of en, de, fr, nl."
)

// NotFoundError carries the identifier that failed to resolve. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNotFound.Error(), e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SchemaError means the upstream document lacks one or more required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "dataset schema: missing required column(s): " + strings.Join(e.Missing, ", ")
}

// UpstreamFetchError wraps a failure to retrieve the source document.
// Status is the HTTP status when the source is HTTP based, otherwise 0.
type UpstreamFetchError struct {
	Source string
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch dataset from %s: unexpected status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch dataset from %s: %v", e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}
