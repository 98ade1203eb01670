// Package view holds the per-page controllers. Each controller owns its
// transient state and is the only writer of it; callers read snapshots.
package view

import (
	"errors"
	"fmt"

	"github.com/templui/inkpost/internal/routes"
)

// ErrSubmitting is returned when a form is submitted again before the
// previous submission finished.
var ErrSubmitting = errors.New("submission already in progress")

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPopulated
	StatusEmpty
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPopulated:
		return "populated"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Navigator moves the application to another path.
type Navigator interface {
	Navigate(path string) routes.Location
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// DeletePrompt is the confirmation shown before deleting a post.
func DeletePrompt(title string) string {
	return fmt.Sprintf("Delete %q? This cannot be undone.", title)
}
