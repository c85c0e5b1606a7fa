package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"github.com/ecruz165/circuitkit/internal/schema"
	"github.com/ecruz165/circuitkit/internal/version"
	"go.yaml.in/yaml/v3"
)

// ManifestFile is the name of the optional manifest at the template root.
const ManifestFile = ".circuitkit-template.yaml"

// DefaultExcludes are always omitted when cloning a template: virtual
// environments, caches, VCS metadata and the template manifest itself.
var DefaultExcludes = []string{
	".venv",
	"venv",
	"env",
	"__pycache__",
	"*.pyc",
	".git",
	"node_modules",
	".DS_Store",
	ManifestFile,
}

// bundledDir is the embedded directory holding the default template.
const bundledDir = "default_project"

//go:embed all:default_project
var bundledFS embed.FS

// ErrIncompatible is returned when the running CLI does not satisfy the
// template's requires constraint.
var ErrIncompatible = errors.New("template requires a different circuitkit version")

// Manifest describes a template.
type Manifest struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Requires    string   `yaml:"requires,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	NextSteps   []string `yaml:"next_steps,omitempty"`
}

// StepData is the data available to next_steps entries.
type StepData struct {
	Name string // project name
	Path string // absolute project directory
}

// Bundled returns the template embedded in the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundledFS, bundledDir)
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(fmt.Sprintf("bundled template: %v", err))
	}
	return sub
}

// Open returns the template rooted at dir, or the bundled template when dir
// is empty. The directory must exist.
func Open(dir string) (fs.FS, string, error) {
	if dir == "" {
		return Bundled(), "<bundled>/" + bundledDir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving template dir %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, "", fmt.Errorf("template dir %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, "", fmt.Errorf("template dir %s is not a directory", abs)
	}
	return os.DirFS(abs), abs, nil
}

// LoadManifest reads and validates ManifestFile from fsys. It returns
// (nil, nil) when the template has no manifest.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}
	return ParseManifest(data)
}

// ParseManifest validates raw manifest YAML against the template schema and
// decodes it.
func ParseManifest(data []byte) (*Manifest, error) {
	result, err := schema.Validate(schema.Template, data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", ManifestFile, err)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	for _, p := range m.Exclude {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q in %s: %w", p, ManifestFile, err)
		}
	}
	return &m, nil
}

// CheckCompatible returns ErrIncompatible when cliVersion does not satisfy
// the manifest's requires constraint. A nil manifest is always compatible.
func (m *Manifest) CheckCompatible(cliVersion string) error {
	if m == nil {
		return nil
	}
	ok, err := version.Satisfies(m.Requires, cliVersion)
	if err != nil {
		return fmt.Errorf("checking template %s: %w", m.Name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s needs %s, running %s", ErrIncompatible, m.Name, m.Requires, cliVersion)
	}
	return nil
}

// ExcludePatterns merges DefaultExcludes, the manifest's exclude list and
// any extra patterns, dropping blanks and duplicates.
func ExcludePatterns(m *Manifest, extra ...string) []string {
	var all []string
	all = append(all, DefaultExcludes...)
	if m != nil {
		all = append(all, m.Exclude...)
	}
	all = append(all, extra...)

	seen := make(map[string]bool, len(all))
	out := make([]string, 0, len(all))
	for _, p := range all {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// RenderNextSteps expands each next_steps entry as a text/template with data.
// Templates without a manifest get the built-in guidance.
func RenderNextSteps(m *Manifest, data StepData) ([]string, error) {
	steps := defaultNextSteps
	if m != nil && len(m.NextSteps) > 0 {
		steps = m.NextSteps
	}

	out := make([]string, 0, len(steps))
	for i, step := range steps {
		tmpl, err := texttemplate.New(fmt.Sprintf("step%d", i)).Option("missingkey=error").Parse(step)
		if err != nil {
			return nil, fmt.Errorf("parsing next step %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing next step %d: %w", i+1, err)
		}
		out = append(out, buf.String())
	}
	return out, nil
}

var defaultNextSteps = []string{
	"Navigate to the project directory: cd {{.Path}}",
	"Run: circuitkit draw to view your circuit diagram",
}
