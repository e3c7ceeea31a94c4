// Package adminkit holds the shared error taxonomy and cache contract of the
// schema-driven admin core. The relation graph lives in package graph, template
// synthesis in compiler/gen and the relation-projection view in projection.
package adminkit

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common failure cases.
var (
	// ErrUnknownTable is returned when a requested table is absent from the schema.
	ErrUnknownTable = errors.New("adminkit: unknown table")

	// ErrSchemaIntegrity is returned when a definition reachable during relation
	// derivation is malformed or missing.
	ErrSchemaIntegrity = errors.New("adminkit: schema integrity violation")
)

// UnknownTableError represents a lookup of a table that the schema does not declare.
type UnknownTableError struct {
	Table string
}

// Error returns the error string.
func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("adminkit: unknown table %q", e.Table)
}

// Is reports whether the target error matches UnknownTableError.
// This allows errors.Is(err, ErrUnknownTable) to return true.
func (e *UnknownTableError) Is(err error) bool {
	return err == ErrUnknownTable
}

// NewUnknownTableError returns a new UnknownTableError for the given table.
func NewUnknownTableError(table string) *UnknownTableError {
	return &UnknownTableError{Table: table}
}

// IsUnknownTable returns true if the error is an UnknownTableError.
func IsUnknownTable(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownTableError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownTable)
}

// SchemaIntegrityError represents a malformed table or field definition.
type SchemaIntegrityError struct {
	Table   string
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaIntegrityError) Error() string {
	var b strings.Builder
	b.WriteString("adminkit: schema integrity error")
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaIntegrityError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaIntegrityError.
func (e *SchemaIntegrityError) Is(target error) bool {
	return target == ErrSchemaIntegrity
}

// NewSchemaIntegrityError creates a new SchemaIntegrityError.
func NewSchemaIntegrityError(table, field, message string, cause error) *SchemaIntegrityError {
	return &SchemaIntegrityError{
		Table:   table,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaIntegrity reports whether the error is a SchemaIntegrityError.
func IsSchemaIntegrity(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaIntegrityError
	return errors.As(err, &e) || errors.Is(err, ErrSchemaIntegrity)
}
