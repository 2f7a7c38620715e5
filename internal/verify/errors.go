package verify

import (
	"errors"
	"fmt"
)

// TransportError means the classifier call itself failed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("classifier request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError means no structured payload could be extracted from the output.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Reason
}

// SchemaError means the extracted payload violates the expected schema.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: field %q %s", e.Field, e.Reason)
}

// ErrorKind names the failure class of err for logs and audit rows.
// It returns "" for nil.
func ErrorKind(err error) string {
	var transportErr *TransportError
	var parseErr *ParseError
	var schemaErr *SchemaError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "unknown"
	}
}
