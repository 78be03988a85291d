package events

import "fmt"

// ValidationError reports a single field that violated its declared rule on
// an otherwise well-formed payload. The decoder wraps it in a DecodingError
// so stream handling stays uniform; callers can still reach it with
// errors.As for field-level diagnostics.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("events: invalid %s: %s", e.Field, e.Message)
}

func requireField(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Message: "field is required"}
	}
	return nil
}

func requireDelta(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Message: "must not be an empty string"}
	}
	return nil
}
