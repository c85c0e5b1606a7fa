//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	WorkspaceRoot string // where projects are created; not created up front
	TemplateDir   string // on-disk template tree
	TempDir       string // where diagrams are staged
}

// setupTestEnv creates isolated temp directories so scaffolding and saving
// never touch the real home directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := t.TempDir()
	env := &testEnv{
		WorkspaceRoot: filepath.Join(base, "dev", "projects"),
		TemplateDir:   filepath.Join(base, "template"),
		TempDir:       filepath.Join(base, "tmp"),
	}
	if err := os.MkdirAll(env.TempDir, 0755); err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Setenv("HOME", base)

	return env
}

// setupTemplate writes a template tree with a manifest, a circuit, and the
// kinds of clutter that must not be cloned.
func setupTemplate(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, ".circuitkit-template.yaml"), `name: rc
version: "1.0.0"
exclude:
  - "*.bak"
next_steps:
  - "cd {{.Path}}"
`)
	writeFile(t, filepath.Join(dir, "circuit.yaml"), `title: RC
elements:
  - kind: source
    label: V1
  - kind: resistor
    label: R1
    value: 1k
  - kind: capacitor
    label: C1
  - kind: ground
`)
	writeFile(t, filepath.Join(dir, "main.py"), "print('hello')\n")
	writeFile(t, filepath.Join(dir, "requirements.txt"), "matplotlib\n")
	writeFile(t, filepath.Join(dir, "notes.bak"), "old\n")
	writeFile(t, filepath.Join(dir, ".venv", "bin", "python"), "#!/bin/sh\n")
	writeFile(t, filepath.Join(dir, "lib", "__pycache__", "x.pyc"), "bytecode")
	writeFile(t, filepath.Join(dir, "lib", "parts.py"), "PARTS = []\n")
}

// writeFile creates parent directories and writes content to path.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
