package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxDescriptionLength = 500

var (
	ErrDescriptionRequired = errors.New("goal description is required")
	ErrDescriptionTooLong  = errors.New("goal description is too long (max 500 characters)")
	ErrDescriptionControl  = errors.New("goal description contains control characters")
)

// ValidateDescription validates a goal description
func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)

	if trimmed == "" {
		return ErrDescriptionRequired
	}

	if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	// Newlines would break the one-line announcements
	if strings.IndexFunc(trimmed, unicode.IsControl) >= 0 {
		return ErrDescriptionControl
	}

	return nil
}

// IsDescriptionError reports whether err came from ValidateDescription.
func IsDescriptionError(err error) bool {
	return errors.Is(err, ErrDescriptionRequired) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrDescriptionControl)
}
