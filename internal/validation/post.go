package validation

import (
	"strings"
)

// FieldError names the form field a validation message belongs to.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidatePost checks the post form. Title, author and content are all
// required; whitespace-only values count as empty.
func ValidatePost(title, author, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(author) == "" || strings.TrimSpace(content) == "" {
		return &FieldError{Message: "Title, author, and content cannot be empty."}
	}

	if err := ValidateName(author); err != nil {
		return &FieldError{Field: "author", Message: err.Error()}
	}

	if len(title) > 200 {
		return &FieldError{Field: "title", Message: "title is too long (max 200 characters)"}
	}

	return nil
}

// ValidateComment requires a body unless an attachment is present.
func ValidateComment(body string, hasAttachment bool) error {
	if strings.TrimSpace(body) == "" && !hasAttachment {
		return &FieldError{Field: "body", Message: "Write a comment or attach an image."}
	}
	return nil
}
