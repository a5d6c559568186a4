package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingAPIKey is returned by providers that need a key they were not given.
var ErrMissingAPIKey = errors.New("api key is not configured")

// ValidationError reports every invalid field of a search request.
type ValidationError struct {
	Fields map[string]string // field name -> message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// UpstreamError reports a failed call to an external provider.
type UpstreamError struct {
	Provider ProviderKind
	Err      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider failure: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// InputError reports a caller passing arguments outside a function's contract.
type InputError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Err
}
