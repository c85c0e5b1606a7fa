package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ecruz165/circuitkit/internal/logging"
	"github.com/ecruz165/circuitkit/internal/platform"
	"github.com/ecruz165/circuitkit/internal/template"
	"go.uber.org/zap"
)

// Replaced in tests.
var chmod = platform.Chmod

// Options configures a Scaffolder.
type Options struct {
	Root          string             // workspace root; created on demand
	Template      fs.FS              // tree cloned into each new project
	TemplateLabel string             // where Template lives, for messages
	Manifest      *template.Manifest // optional; checked against CLIVersion
	CLIVersion    string
	Exclude       []string // exclusion patterns, see Matcher
	Logger        *zap.Logger
}

// Scaffolder creates projects from a template.
type Scaffolder struct {
	opts Options
	log  *zap.Logger
}

// Result holds the outcome of a successful CreateProject.
type Result struct {
	Name    string
	Path    string   // absolute project directory
	Files   []string // copied files, relative to Path, slash-separated
	Dirs    int      // directories created below Path
	Bytes   int64    // total bytes copied
	Skipped []string // entries left out by an exclusion pattern
	Ignored []string // symlinks and special files, which are never copied
}

// New returns a Scaffolder for opts.
func New(opts Options) *Scaffolder {
	if opts.TemplateLabel == "" {
		opts.TemplateLabel = "template"
	}
	return &Scaffolder{
		opts: opts,
		log:  logging.OrNop(opts.Logger),
	}
}

// ValidateName checks that name can be used as a single directory under the
// workspace root.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	case name != strings.TrimSpace(name):
		return fmt.Errorf("%w: %q has leading or trailing whitespace", ErrInvalidName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidName, name)
	}
	return nil
}

// ProjectPath returns the directory a project called name would occupy.
func (s *Scaffolder) ProjectPath(name string) (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// CreateProject clones the template into Root/name.
//
// The workspace root is created if missing. If Root/name already exists the
// call fails with ErrAlreadyExists and leaves it untouched. A copy that fails
// partway returns ErrCopyFailed; whatever was written so far stays on disk
// and the error names the directory.
func (s *Scaffolder) CreateProject(name string) (*Result, error) {
	if err := ValidateName(name); err != nil {
		return nil, &Error{Kind: ErrInvalidName, Name: name, Err: err}
	}

	if s.opts.Template == nil {
		return nil, &Error{Kind: ErrCopyFailed, Name: name, Source: s.opts.TemplateLabel,
			Err: errors.New("no template configured")}
	}

	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, &Error{Kind: ErrRootUnavailable, Name: name,
			Err: fmt.Errorf("resolving %s: %w", s.opts.Root, err)}
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		s.log.Error("workspace root unavailable", zap.String("root", root), zap.Error(err))
		return nil, &Error{Kind: ErrRootUnavailable, Name: name,
			Err: fmt.Errorf("creating %s: %w", root, err)}
	}

	target := filepath.Join(root, name)

	if err := s.opts.Manifest.CheckCompatible(s.opts.CLIVersion); err != nil {
		return nil, &Error{Kind: ErrIncompatibleTemplate, Name: name, Path: target, Err: err}
	}

	exists, err := platform.Exists(target)
	if err != nil {
		return nil, &Error{Kind: ErrRootUnavailable, Name: name, Path: target,
			Err: fmt.Errorf("checking %s: %w", target, err)}
	}
	if exists {
		s.log.Info("project already exists, leaving it untouched", zap.String("path", target))
		return nil, &Error{Kind: ErrAlreadyExists, Name: name, Path: target}
	}

	matcher, err := NewMatcher(s.opts.Exclude)
	if err != nil {
		return nil, &Error{Kind: ErrCopyFailed, Name: name, Path: target,
			Source: s.opts.TemplateLabel, Dest: target, Err: err}
	}

	result := &Result{Name: name, Path: target}
	if err := s.copyTree(matcher, target, result); err != nil {
		var se *Error
		if errors.As(err, &se) {
			se.Name = name
			if se.Kind == ErrCopyFailed {
				s.log.Error("template copy failed",
					zap.String("source", se.Source),
					zap.String("dest", se.Dest),
					zap.Bool("partial", se.Partial),
					zap.Error(se.Err))
			}
		}
		return nil, err
	}

	s.log.Info("project created",
		zap.String("path", target),
		zap.Int("files", len(result.Files)),
		zap.Int("dirs", result.Dirs),
		zap.Int64("bytes", result.Bytes),
		zap.Strings("skipped", result.Skipped))

	return result, nil
}

// copyTree walks the template and recreates it under target.
func (s *Scaffolder) copyTree(matcher *Matcher, target string, result *Result) error {
	fsys := s.opts.Template
	created := false

	fail := func(rel, dest string, cause error) error {
		return &Error{
			Kind:    ErrCopyFailed,
			Path:    target,
			Source:  s.sourcePath(rel),
			Dest:    dest,
			Partial: created,
			Err:     cause,
		}
	}

	return fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, walkErr error) error {
		dest := filepath.Join(target, filepath.FromSlash(rel))
		if walkErr != nil {
			return fail(rel, dest, walkErr)
		}

		if rel == "." {
			perm := dirPerm(d)
			// Mkdir rather than MkdirAll: if target appeared since the
			// existence check, fail instead of merging into it.
			if err := os.Mkdir(target, perm); err != nil {
				if errors.Is(err, fs.ErrExist) {
					return &Error{Kind: ErrAlreadyExists, Path: target}
				}
				return fail(rel, target, err)
			}
			created = true
			if err := chmod(target, perm); err != nil {
				return fail(rel, target, err)
			}
			return nil
		}

		if pat, ok := matcher.Match(rel, d.IsDir()); ok {
			s.log.Debug("excluded", zap.String("entry", rel), zap.String("pattern", pat))
			result.Skipped = append(result.Skipped, rel)
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		switch {
		case d.IsDir():
			perm := dirPerm(d)
			if err := os.Mkdir(dest, perm); err != nil {
				return fail(rel, dest, err)
			}
			if err := chmod(dest, perm); err != nil {
				return fail(rel, dest, err)
			}
			result.Dirs++
		case d.Type().IsRegular():
			n, err := copyEntry(fsys, rel, dest, filePerm(d))
			if err != nil {
				return fail(rel, dest, err)
			}
			result.Files = append(result.Files, rel)
			result.Bytes += n
			s.log.Debug("copied", zap.String("entry", rel), zap.Int64("bytes", n))
		default:
			// Symlinks and other special files are not part of a template.
			s.log.Warn("skipping non-regular template entry",
				zap.String("entry", rel), zap.Stringer("type", d.Type()))
			result.Ignored = append(result.Ignored, rel)
		}
		return nil
	})
}

// copyEntry copies one template file to dest. dest must not exist yet.
func copyEntry(fsys fs.FS, rel, dest string, perm os.FileMode) (int64, error) {
	in, err := fsys.Open(rel)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	return n, chmod(dest, perm)
}

func (s *Scaffolder) sourcePath(rel string) string {
	if rel == "." {
		return s.opts.TemplateLabel
	}
	return path.Join(filepath.ToSlash(s.opts.TemplateLabel), rel)
}

// filePerm keeps the template's permission bits but always lets the owner
// edit the copy; embedded templates report read-only files.
func filePerm(d fs.DirEntry) os.FileMode {
	info, err := d.Info()
	if err != nil {
		return 0644
	}
	return info.Mode().Perm() | 0600
}

func dirPerm(d fs.DirEntry) os.FileMode {
	info, err := d.Info()
	if err != nil {
		return 0755
	}
	return info.Mode().Perm() | 0700
}
