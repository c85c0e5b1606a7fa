package artifact

import (
	"errors"
	"fmt"
)

// Error kinds returned by Save. Match them with errors.Is.
var (
	ErrStagingFailed = errors.New("staging diagram failed")
	ErrMoveFailed    = errors.New("saving diagram failed")
	ErrCleanupFailed = errors.New("removing staged diagram failed")
)

// Error reports a failed step of the save workflow together with the state
// of the files involved, so nothing is lost track of.
type Error struct {
	Kind      error
	TempPath  string // staged file
	FinalPath string // intended destination (MoveFailed only)
	TempLeft  bool   // TempPath still exists on disk
	Err       error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case ErrMoveFailed:
		msg = fmt.Sprintf("%v: %s -> %s: %v", e.Kind, e.TempPath, e.FinalPath, e.Err)
	default:
		if e.TempPath == "" {
			msg = fmt.Sprintf("%v: %v", e.Kind, e.Err)
		} else {
			msg = fmt.Sprintf("%v: %s: %v", e.Kind, e.TempPath, e.Err)
		}
	}
	if e.TempLeft {
		msg += fmt.Sprintf(" (staged copy still at %s)", e.TempPath)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
