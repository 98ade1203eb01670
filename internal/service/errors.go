package service

import (
	"errors"
)

// Error taxonomy shared by every client-side operation. Controllers match
// on these with errors.Is and show the message inline.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuthRequired = errors.New("you must be signed in")
	ErrForbidden    = errors.New("you can only change your own posts")
	ErrNotFound     = errors.New("not found")
	ErrUpload       = errors.New("attachment upload failed")
	ErrCancelled    = errors.New("cancelled")
)

// ValidationError is detected locally, before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// BackendError wraps a backend or network failure. Its message is the
// backend's own, passed through verbatim.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

// NewBackendError is used by packages outside service that talk to the backend.
func NewBackendError(op string, err error) error {
	return backendError(op, err)
}

// Message is the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be.Error()
	}
	return err.Error()
}
