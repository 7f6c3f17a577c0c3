package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength  = 100
	maxTitleLength = 255
	maxBodyLength  = 64 * 1024
)

// FieldValidationError represents a validation error for a request field
type FieldValidationError struct {
	Field   string
	Message string
}

func (e FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateText checks a free-text field.
// It checks for:
// - Value is not blank
// - Value doesn't contain null bytes
// - Value is valid UTF-8 and at most maxLen runes
func ValidateText(value, fieldName string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return FieldValidationError{Field: fieldName, Message: "cannot be empty"}
	}

	if strings.ContainsRune(value, '\x00') {
		return FieldValidationError{Field: fieldName, Message: "contains invalid characters"}
	}

	if !utf8.ValidString(value) {
		return FieldValidationError{Field: fieldName, Message: "must be valid UTF-8"}
	}

	if n := utf8.RuneCountInString(value); n > maxLen {
		return FieldValidationError{Field: fieldName, Message: fmt.Sprintf("must be at most %d characters (got %d)", maxLen, n)}
	}

	return nil
}

// ValidateID checks a referenced record id
func ValidateID(id int64, fieldName string) error {
	if id <= 0 {
		return FieldValidationError{Field: fieldName, Message: "must be a positive id"}
	}
	return nil
}

// ValidateOptionalID checks a nullable record id; nil is allowed
func ValidateOptionalID(id *int64, fieldName string) error {
	if id == nil {
		return nil
	}
	return ValidateID(*id, fieldName)
}

// firstError returns the first non-nil error
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
