package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateName validates a free-text author display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("author is required")
	}

	if utf8.RuneCountInString(trimmed) > 100 {
		return errors.New("author is too long (max 100 characters)")
	}

	return nil
}
