package scaffold

import (
	"errors"
	"fmt"
)

// Error kinds returned by CreateProject. Match them with errors.Is.
var (
	ErrInvalidName          = errors.New("invalid project name")
	ErrRootUnavailable      = errors.New("workspace root unavailable")
	ErrAlreadyExists        = errors.New("project already exists")
	ErrIncompatibleTemplate = errors.New("incompatible template")
	ErrCopyFailed           = errors.New("copying template failed")
)

// Error describes a failed CreateProject call with the paths involved, so the
// user can act on it by hand.
type Error struct {
	Kind    error  // one of the Err* kinds above
	Name    string // project name
	Path    string // project directory
	Source  string // template entry being copied (CopyFailed only)
	Dest    string // destination being written (CopyFailed only)
	Partial bool   // Path was created and may hold a partial copy
	Err     error  // underlying cause
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrAlreadyExists:
		return fmt.Sprintf("%v: the directory %s already exists", e.Kind, e.Path)
	case ErrRootUnavailable:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case ErrCopyFailed:
		msg := fmt.Sprintf("%v: %s -> %s: %v", e.Kind, e.Source, e.Dest, e.Err)
		if e.Partial {
			msg += fmt.Sprintf(" (partial project left at %s, remove it before retrying)", e.Path)
		}
		return msg
	default:
		if e.Err == nil {
			return fmt.Sprintf("%v: %s", e.Kind, e.Name)
		}
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
