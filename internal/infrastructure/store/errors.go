// Package store holds the backend-neutral persistence errors, the translator
// that maps them onto application errors, and the startup connector.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is matched by every not-found error a backend returns.
var ErrDocumentNotFound = errors.New("document not found")

// NotFoundError names the missing resource. It matches ErrDocumentNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrDocumentNotFound }

// NotFound returns a not-found error for resource ("user", "card").
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// CastError reports a value that could not be coerced to the column or id type.
type CastError struct {
	Path  string
	Value string
	Err   error
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to %s failed for value %q", e.Path, e.Value)
}

func (e *CastError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a violated unique constraint.
type DuplicateKeyError struct {
	Key   string
	Value any
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s: %v", e.Key, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// SchemaError reports a document that violates the stored schema. Fields maps
// field path to a message.
type SchemaError struct {
	Fields map[string]string
	Err    error
}

func (e *SchemaError) Error() string {
	if len(e.Fields) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+" "+v)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error { return e.Err }

// CheckID reports a malformed document id as a *CastError. Every backend
// issues UUIDs, so anything else cannot name a stored document.
func CheckID(path, id string) error {
	if err := uuid.Validate(id); err != nil {
		return &CastError{Path: path, Value: id, Err: err}
	}
	return nil
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.NewString()
}
