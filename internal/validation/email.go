package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail checks presence, length and RFC 5322 form.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email and password are required")
	}

	// RFC 5321: 254 characters including the @
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".") {
		return errors.New("please enter a valid email")
	}

	return nil
}
