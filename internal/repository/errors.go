// Package repository is the data access layer: it validates and normalizes
// records before they are written and shapes query results on the way out.
// Handlers translate the errors defined here into HTTP status codes.
package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an id has no matching row.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a field that breaks an entity invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DatabaseError wraps a persistence failure (connectivity, constraint
// violation). The driver message is kept for diagnostics.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return "database error: " + e.Err.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func dbError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return &DatabaseError{Op: op, Err: err}
}

// validID reports whether id has the canonical uuid form. Postgres rejects
// anything else in a uuid column, so such ids cannot match a row.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
