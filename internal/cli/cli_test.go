package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ecruz165/circuitkit/internal/artifact"
	"github.com/ecruz165/circuitkit/internal/diagram"
	"github.com/ecruz165/circuitkit/internal/template"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Test Helpers ──────────────────────────────────────────────────

type cliEnv struct {
	home      string
	workspace string
	displayed []string
}

// newCLIEnv isolates HOME and the workspace root, and records display calls
// instead of launching a viewer.
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	env := &cliEnv{home: t.TempDir()}
	env.workspace = filepath.Join(env.home, "projects")

	t.Setenv("HOME", env.home)
	t.Setenv("USERPROFILE", env.home)
	t.Setenv("CIRCUITKIT_WORKSPACE_ROOT", env.workspace)
	t.Setenv("CIRCUITKIT_TEMPLATE_DIR", "")
	t.Setenv("CIRCUITKIT_TEMP_DIR", filepath.Join(env.home))
	t.Setenv("CIRCUITKIT_VIEWER", "none")
	viper.Reset()
	t.Cleanup(viper.Reset)

	prev := newDisplayer
	newDisplayer = func(string) artifact.Displayer {
		return artifact.DisplayFunc(func(path string) error {
			env.displayed = append(env.displayed, path)
			return nil
		})
	}
	t.Cleanup(func() { newDisplayer = prev })
	return env
}

func resetFlags() {
	verbose = false
	newTemplateDir = ""
	drawFile = diagram.DefaultFile
	drawOutputDir = ""
	drawScale = 1
	drawNoView = false
	assetsDir = ""
	versionShort = false
	versionJSON = false
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func savedFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "project_*_circuit.png"))
	require.NoError(t, err)
	return matches
}

// ─── new ───────────────────────────────────────────────────────────

func TestNewFromBundledTemplate(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, "", "new", "lowpass")
	require.NoError(t, err)

	project := filepath.Join(env.workspace, "lowpass")
	assert.Contains(t, out, "Project 'lowpass' created successfully")
	assert.Contains(t, out, "Next Steps")
	assert.Contains(t, out, "cd "+project)

	assert.FileExists(t, filepath.Join(project, diagram.DefaultFile))
	assert.NoFileExists(t, filepath.Join(project, template.ManifestFile))
}

func TestNewPromptsForName(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, "  demo  \n", "new")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter the name of the new project: ")
	assert.DirExists(t, filepath.Join(env.workspace, "demo"))
}

func TestNewEmptyName(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
	}{
		{"blank line", "\n"},
		{"whitespace", "   \n"},
		{"closed input", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)

			out, err := run(t, tt.stdin, "new")
			require.ErrorIs(t, err, errReported)
			assert.Contains(t, out, "Error: Project name cannot be empty.")
			assert.NoDirExists(t, env.workspace)
		})
	}
}

func TestNewExistingProjectUntouched(t *testing.T) {
	env := newCLIEnv(t)
	tmpl := t.TempDir()
	writeFiles(t, tmpl, map[string]string{
		"main.py":          "print('hi')\n",
		"requirements.txt": "matplotlib\n",
	})

	_, err := run(t, "", "new", "demo", "--template", tmpl)
	require.NoError(t, err)

	mainPath := filepath.Join(env.workspace, "demo", "main.py")
	require.NoError(t, os.WriteFile(mainPath, []byte("edited\n"), 0o644))

	out, err := run(t, "", "new", "demo", "--template", tmpl)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "already exists")

	data, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, "edited\n", string(data))
}

func TestNewExcludesConfiguredPatterns(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("CIRCUITKIT_EXCLUDE", "*.log,build/")
	tmpl := t.TempDir()
	writeFiles(t, tmpl, map[string]string{
		"main.py":            "print('hi')\n",
		".venv/bin/python":   "binary",
		"debug.log":          "noise",
		"build/out.o":        "obj",
		"src/__pycache__/x":  "cache",
		"src/circuit_lib.py": "pass\n",
	})

	_, err := run(t, "", "new", "demo", "--template", tmpl)
	require.NoError(t, err)

	project := filepath.Join(env.workspace, "demo")
	assert.FileExists(t, filepath.Join(project, "main.py"))
	assert.FileExists(t, filepath.Join(project, "src", "circuit_lib.py"))
	assert.NoDirExists(t, filepath.Join(project, ".venv"))
	assert.NoFileExists(t, filepath.Join(project, "debug.log"))
	assert.NoDirExists(t, filepath.Join(project, "build"))
	assert.NoDirExists(t, filepath.Join(project, "src", "__pycache__"))
}

func TestNewMissingTemplateDir(t *testing.T) {
	newCLIEnv(t)

	_, err := run(t, "", "new", "demo", "--template", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// ─── draw ──────────────────────────────────────────────────────────

func newProject(t *testing.T, env *cliEnv) string {
	t.Helper()
	_, err := run(t, "", "new", "demo")
	require.NoError(t, err)
	return filepath.Join(env.workspace, "demo")
}

func TestDrawSave(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)
	assets := filepath.Join(project, "assets")

	out, err := run(t, "y\n", "draw",
		"--file", filepath.Join(project, diagram.DefaultFile),
		"--output-dir", assets)
	require.NoError(t, err)

	assert.Contains(t, out, saveQuestion+" (y/n): ")
	assert.Contains(t, out, "Circuit saved to '")
	require.Len(t, env.displayed, 1)
	assert.NoFileExists(t, env.displayed[0])

	saved := savedFiles(t, assets)
	require.Len(t, saved, 1)
	_, ok := artifact.ParseFilename(filepath.Base(saved[0]), time.Local)
	assert.True(t, ok)
}

func TestDrawDiscard(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)
	assets := filepath.Join(project, "assets")

	out, err := run(t, "n\n", "draw",
		"--file", filepath.Join(project, diagram.DefaultFile),
		"--output-dir", assets)
	require.NoError(t, err)

	assert.Contains(t, out, "The circuit diagram was not saved.")
	assert.NoDirExists(t, assets)
	require.Len(t, env.displayed, 1)
	assert.NoFileExists(t, env.displayed[0])
}

func TestDrawRepromptsUntilValid(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)
	assets := filepath.Join(project, "assets")

	out, err := run(t, "x\n\nmaybe\ny\n", "draw",
		"--file", filepath.Join(project, diagram.DefaultFile),
		"--output-dir", assets)
	require.NoError(t, err)

	assert.Equal(t, 4, strings.Count(out, saveQuestion))
	assert.Equal(t, 1, len(env.displayed))
	assert.Len(t, savedFiles(t, assets), 1)
}

func TestDrawInputClosed(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)
	assets := filepath.Join(project, "assets")

	out, err := run(t, "", "draw",
		"--file", filepath.Join(project, diagram.DefaultFile),
		"--output-dir", assets)
	require.ErrorIs(t, err, errReported)

	assert.Contains(t, out, "The circuit diagram was not saved.")
	assert.NoDirExists(t, assets)
	require.Len(t, env.displayed, 1)
	assert.NoFileExists(t, env.displayed[0])
}

func TestDrawNoView(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)

	_, err := run(t, "n\n", "draw", "--no-view",
		"--file", filepath.Join(project, diagram.DefaultFile))
	require.NoError(t, err)
	assert.Empty(t, env.displayed)
}

func TestDrawScaleOutOfRange(t *testing.T) {
	env := newCLIEnv(t)
	project := newProject(t, env)

	for _, scale := range []string{"0", "9", "100000"} {
		_, err := run(t, "y\n", "draw", "--scale", scale,
			"--file", filepath.Join(project, diagram.DefaultFile))
		require.Error(t, err, "scale %s", scale)
		assert.Contains(t, err.Error(), "--scale must be between 1 and 8")
	}
	assert.Empty(t, env.displayed)
	assert.NoDirExists(t, filepath.Join(project, "assets"))
}

func TestDrawMissingCircuit(t *testing.T) {
	newCLIEnv(t)

	_, err := run(t, "y\n", "draw", "--file", filepath.Join(t.TempDir(), diagram.DefaultFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// ─── assets ────────────────────────────────────────────────────────

func TestAssetsLists(t *testing.T) {
	newCLIEnv(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"project_20240309_140507_circuit.png": "a",
		"project_20240310_090000_circuit.png": "bb",
		"notes.txt":                           "x",
	})

	out, err := run(t, "", "assets", "--output-dir", dir)
	require.NoError(t, err)

	newer := strings.Index(out, "project_20240310_090000_circuit.png")
	older := strings.Index(out, "project_20240309_140507_circuit.png")
	require.GreaterOrEqual(t, newer, 0)
	require.GreaterOrEqual(t, older, 0)
	assert.Less(t, newer, older)
	assert.NotContains(t, out, "notes.txt")
}

func TestAssetsEmpty(t *testing.T) {
	newCLIEnv(t)

	out, err := run(t, "", "assets", "--output-dir", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Contains(t, out, "No saved diagrams")
}

// ─── template / config / version / doctor ──────────────────────────

func TestTemplateValidateBundled(t *testing.T) {
	newCLIEnv(t)

	out, err := run(t, "", "template", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ]")
	assert.Contains(t, out, "default_project")
}

func TestTemplateValidateBadManifest(t *testing.T) {
	newCLIEnv(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		template.ManifestFile: "name: x\nunknown_field: true\n",
	})

	_, err := run(t, "", "template", "validate", dir)
	assert.Error(t, err)
}

func TestConfigSetGet(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, "", "config", "set", "assets_dir", "diagrams")
	require.NoError(t, err)
	assert.Contains(t, out, "Set assets_dir = diagrams")
	assert.FileExists(t, filepath.Join(env.home, ".circuitkit", "config.yaml"))

	viper.Reset()
	out, err = run(t, "", "config", "get", "assets_dir")
	require.NoError(t, err)
	assert.Equal(t, "diagrams\n", out)
}

func TestConfigUnknownKey(t *testing.T) {
	newCLIEnv(t)

	_, err := run(t, "", "config", "set", "colour", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")

	_, err = run(t, "", "config", "get", "colour")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	newCLIEnv(t)
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2024-03-09"
	t.Cleanup(func() { buildVersion, buildCommit, buildDate = "", "", "" })

	out, err := run(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = run(t, "", "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "abc123", info["commit"])

	out, err = run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "circuitkit version 1.2.3 (commit: abc123, built: 2024-03-09)\n", out)
}

func TestDoctor(t *testing.T) {
	env := newCLIEnv(t)

	out, err := run(t, "", "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, env.workspace)
	assert.Contains(t, out, "display disabled")
	assert.NotContains(t, out, "[FAIL]")
}

func TestDoctorWorkspaceRootIsFile(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.workspace, []byte("x"), 0o644))

	out, err := run(t, "", "doctor")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "is not a directory")
}
