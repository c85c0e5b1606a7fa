// Package viewer opens staged diagrams in an external image viewer.
package viewer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Disabled is the configured command that turns display off.
const Disabled = "none"

// ErrNoViewer is returned when no viewer is known for the platform.
var ErrNoViewer = errors.New("no image viewer available")

// RunFunc executes a command to completion.
type RunFunc func(name string, args ...string) error

// Viewer displays files by running an external command.
type Viewer struct {
	command []string
	run     RunFunc
	log     *zap.Logger
}

// New returns a Viewer for the configured command. An empty command selects
// the platform default; Disabled turns display into a no-op.
func New(command string, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Viewer{
		command: Command(command, runtime.GOOS),
		run:     runCommand,
		log:     log,
	}
}

// WithRunner replaces the command runner. Used by tests.
func (v *Viewer) WithRunner(run RunFunc) *Viewer {
	v.run = run
	return v
}

// Command resolves the viewer argv prefix for goos. The darwin and windows
// defaults wait for the viewer to close. xdg-open, the default elsewhere,
// hands the file to the desktop's viewer and returns at once, so the save
// question appears while the image is still open; configure a viewer that
// stays in the foreground (e.g. "feh" or "eog") to wait instead.
func Command(configured, goos string) []string {
	configured = strings.TrimSpace(configured)
	if strings.EqualFold(configured, Disabled) {
		return nil
	}
	if configured != "" {
		return strings.Fields(configured)
	}
	switch goos {
	case "darwin":
		return []string{"open", "-W"}
	case "windows":
		return []string{"cmd", "/c", "start", "/wait", ""}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open"}
	}
	return nil
}

// nonBlocking lists launchers known to return before the image is closed.
var nonBlocking = map[string]bool{
	"xdg-open":  true,
	"gio":       true,
	"kde-open":  true,
	"kde-open5": true,
}

// Waits reports whether Display returns only after the viewer is closed.
// A disabled viewer never waits.
func (v *Viewer) Waits() bool {
	return v.Enabled() && !nonBlocking[v.command[0]]
}

// Enabled reports whether Display will run anything.
func (v *Viewer) Enabled() bool { return len(v.command) > 0 }

// Name returns the viewer program, or "" when disabled.
func (v *Viewer) Name() string {
	if !v.Enabled() {
		return ""
	}
	return v.command[0]
}

// Available reports whether the viewer program can be found on PATH.
func (v *Viewer) Available() error {
	if !v.Enabled() {
		return ErrNoViewer
	}
	if _, err := exec.LookPath(v.command[0]); err != nil {
		return fmt.Errorf("%w: %w", ErrNoViewer, err)
	}
	return nil
}

// Display implements artifact.Displayer. It blocks until the viewer exits
// when the command supports waiting; see Waits.
func (v *Viewer) Display(path string) error {
	if !v.Enabled() {
		v.log.Debug("display disabled", zap.String("path", path))
		return nil
	}
	args := append(append([]string{}, v.command[1:]...), path)
	v.log.Debug("opening viewer",
		zap.String("cmd", v.command[0]),
		zap.Strings("args", args),
		zap.Bool("waits", v.Waits()))
	if err := v.run(v.command[0], args...); err != nil {
		return fmt.Errorf("opening %s with %s: %w", path, v.command[0], err)
	}
	return nil
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
