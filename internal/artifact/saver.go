package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ecruz165/circuitkit/internal/logging"
	"github.com/ecruz165/circuitkit/internal/platform"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Artifact is a rendered diagram that can be serialized.
type Artifact interface {
	// Ext is the file suffix for the encoded form, including the dot.
	Ext() string
	// Encode writes the serialized artifact to w.
	Encode(w io.Writer) error
}

// Displayer shows a staged artifact to the user.
type Displayer interface {
	Display(path string) error
}

// DisplayFunc adapts a function to Displayer.
type DisplayFunc func(path string) error

// Display calls f(path).
func (f DisplayFunc) Display(path string) error { return f(path) }

// ConfirmFunc asks whether the staged artifact should be kept.
type ConfirmFunc func() (bool, error)

// State is a step of the save workflow.
type State int

const (
	Rendered State = iota
	Staged
	Persisted
	Discarded
)

func (s State) String() string {
	switch s {
	case Rendered:
		return "rendered"
	case Staged:
		return "staged"
	case Persisted:
		return "persisted"
	case Discarded:
		return "discarded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome describes where a Save call ended up.
type Outcome struct {
	State      State
	TempPath   string // staged file; gone unless an error says otherwise
	FinalPath  string // set when State is Persisted
	Bytes      int64
	DisplayErr error // display failed; the decision was still asked for
	CleanupErr error // non-fatal: the staged file could not be removed
}

// Options configures a Saver.
type Options struct {
	TempDir string           // where staged files go; "" means os.TempDir()
	Display Displayer        // nil skips display
	Now     func() time.Time // clock for filenames; defaults to time.Now
	Logger  *zap.Logger
}

// Saver runs the stage, display, decide, persist-or-discard workflow.
type Saver struct {
	opts Options
	log  *zap.Logger
	move func(src, dst string) error
}

// NewSaver returns a Saver for opts.
func NewSaver(opts Options) *Saver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Saver{opts: opts, log: logging.OrNop(opts.Logger), move: platform.MoveFile}
}

// Save stages a, displays it once, calls confirm once, and then moves the
// staged file to outputDir/project_<timestamp>_circuit<ext> or deletes it.
//
// Staging and move failures are returned as *Error. A failed delete on
// discard is not fatal: it is logged and reported in Outcome.CleanupErr.
// An error from confirm is treated as a "no" and returned after cleanup.
func (s *Saver) Save(a Artifact, outputDir string, confirm ConfirmFunc) (*Outcome, error) {
	out := &Outcome{State: Rendered}

	tempPath, n, err := s.stage(a)
	out.TempPath = tempPath
	if err != nil {
		return out, err
	}
	out.State = Staged
	out.Bytes = n

	if s.opts.Display != nil {
		if err := s.opts.Display.Display(tempPath); err != nil {
			s.log.Warn("could not display diagram", zap.String("path", tempPath), zap.Error(err))
			out.DisplayErr = err
		}
	}

	keep := false
	var confirmErr error
	if confirm != nil {
		keep, confirmErr = confirm()
	}

	if confirmErr != nil || !keep {
		s.discard(out)
		if confirmErr != nil {
			return out, fmt.Errorf("reading save decision: %w", confirmErr)
		}
		return out, nil
	}

	return out, s.persist(out, outputDir, a.Ext())
}

// stage writes a to a fresh temp file. On failure the temp file is removed.
func (s *Saver) stage(a Artifact) (string, int64, error) {
	ext := a.Ext()
	if ext == "" {
		ext = DefaultExt
	}

	f, err := os.CreateTemp(s.opts.TempDir, "circuitkit-*"+ext)
	if err != nil {
		return "", 0, &Error{Kind: ErrStagingFailed, Err: err}
	}
	tempPath := f.Name()

	cw := &countingWriter{w: f}
	writeErr := multierr.Append(a.Encode(cw), f.Close())
	if writeErr == nil {
		s.log.Debug("diagram staged", zap.String("path", tempPath), zap.Int64("bytes", cw.n))
		return tempPath, cw.n, nil
	}

	stageErr := &Error{Kind: ErrStagingFailed, TempPath: tempPath, Err: writeErr}
	if rmErr := os.Remove(tempPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		stageErr.TempLeft = true
		stageErr.Err = multierr.Append(writeErr, fmt.Errorf("removing %s: %w", tempPath, rmErr))
	}
	s.log.Error("staging diagram failed",
		zap.String("temp", tempPath),
		zap.Bool("temp_left", stageErr.TempLeft),
		zap.Error(writeErr))
	return tempPath, cw.n, stageErr
}

// discard deletes the staged file. Failure is logged, not returned.
func (s *Saver) discard(out *Outcome) {
	out.State = Discarded
	err := os.Remove(out.TempPath)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		s.log.Debug("diagram discarded", zap.String("temp", out.TempPath))
		return
	}
	out.CleanupErr = &Error{Kind: ErrCleanupFailed, TempPath: out.TempPath, TempLeft: true, Err: err}
	s.log.Warn("could not remove staged diagram", zap.String("temp", out.TempPath), zap.Error(err))
}

// persist moves the staged file into outputDir.
func (s *Saver) persist(out *Outcome, outputDir, ext string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return s.moveFailed(out, outputDir, fmt.Errorf("creating %s: %w", outputDir, err))
	}

	finalPath := filepath.Join(outputDir, Filename(s.opts.Now(), ext))
	if ok, _ := platform.Exists(finalPath); ok {
		// Second-resolution names: a save in the same second replaces the last.
		s.log.Info("replacing diagram saved in the same second", zap.String("path", finalPath))
	}

	if err := s.move(out.TempPath, finalPath); err != nil {
		if !errors.Is(err, platform.ErrSourceNotRemoved) {
			return s.moveFailed(out, finalPath, err)
		}
		// The copy landed; only the staged original is left behind.
		out.CleanupErr = &Error{Kind: ErrCleanupFailed, TempPath: out.TempPath, TempLeft: true, Err: err}
		s.log.Warn("diagram saved but staged copy remains", zap.String("temp", out.TempPath), zap.Error(err))
	}

	// Temp files are created 0600; saved diagrams are ordinary files.
	if err := platform.Chmod(finalPath, 0644); err != nil {
		s.log.Debug("could not relax permissions", zap.String("path", finalPath), zap.Error(err))
	}

	out.State = Persisted
	out.FinalPath = finalPath
	s.log.Info("diagram saved", zap.String("path", finalPath), zap.Int64("bytes", out.Bytes))
	return nil
}

func (s *Saver) moveFailed(out *Outcome, finalPath string, cause error) error {
	left, _ := platform.Exists(out.TempPath)
	s.log.Error("saving diagram failed",
		zap.String("temp", out.TempPath),
		zap.String("final", finalPath),
		zap.Bool("temp_left", left),
		zap.Error(cause))
	return &Error{
		Kind:      ErrMoveFailed,
		TempPath:  out.TempPath,
		FinalPath: finalPath,
		TempLeft:  left,
		Err:       cause,
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
