package validation

import (
	"errors"
)

const MinPasswordLength = 6

// ValidatePassword enforces the sign-up form rules.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("email and password are required")
	}

	if len(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}

	// bcrypt silently truncates anything past 72 bytes
	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	return nil
}
