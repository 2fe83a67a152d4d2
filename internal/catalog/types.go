package catalog

import (
	"fmt"
	"time"
)

// KeyInfo documents one dispatch key: its name, the module that owns it, and
// what firing it means. The catalog holds definitions only; subscriptions
// live in the dispatch registry.
type KeyInfo struct {
	// Name is the unique key identifier, e.g. "status.connected".
	Name string `json:"name"`
	// Module is the owning module (empty for framework keys).
	Module string `json:"module"`
	// Description is human-readable documentation.
	Description string `json:"description"`
	// Example shows a typical payload.
	Example string `json:"example,omitempty"`
}

// Entry wraps a registered key with registration metadata.
type Entry struct {
	Info         KeyInfo   `json:"info"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ErrorType classifies catalog errors.
type ErrorType string

const (
	ErrorDuplicateRegistration ErrorType = "duplicate_registration"
	ErrorValidationFailed      ErrorType = "validation_failed"
	ErrorKeyNotFound           ErrorType = "key_not_found"
)

// Error represents a structured catalog error.
type Error struct {
	Type    ErrorType `json:"type"`
	Key     string    `json:"key"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("catalog: %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("catalog: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
