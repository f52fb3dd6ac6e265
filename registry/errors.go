package registry

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// CodeSchemaIDConflict means two distinct types computed the same
	// definition name. Configure a different SchemaID strategy.
	CodeSchemaIDConflict ErrorCode = "schema_id_conflict"

	// CodeUnsupportedType means a type reached materialization that can
	// never be a definition body.
	CodeUnsupportedType ErrorCode = "unsupported_type"

	// CodeMissingDefinition means a reference was followed before its
	// definition existed.
	CodeMissingDefinition ErrorCode = "missing_definition"

	// CodeUnknownType means a reference targets a type the catalog lacks.
	CodeUnknownType ErrorCode = "unknown_type"
)

// Error is returned by every fallible registry operation.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf creates a new registry error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
