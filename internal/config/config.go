package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ecruz165/circuitkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyWorkspaceRoot = "workspace_root"
	KeyTemplateDir   = "template_dir"
	KeyExclude       = "exclude"
	KeyAssetsDir     = "assets_dir"
	KeyTempDir       = "temp_dir"
	KeyViewer        = "viewer"
	KeyLogLevel      = "log_level"
)

// Default values for keys that have one.
const (
	DefaultWorkspaceRoot = "~/dev/projects"
	DefaultAssetsDir     = "assets"
	DefaultLogLevel      = "warn"
)

// Keys lists every recognized key in display order.
var Keys = []string{
	KeyWorkspaceRoot,
	KeyTemplateDir,
	KeyExclude,
	KeyAssetsDir,
	KeyTempDir,
	KeyViewer,
	KeyLogLevel,
}

// Dir returns the path to the config directory (~/.circuitkit/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.circuitkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyWorkspaceRoot, DefaultWorkspaceRoot)
	viper.SetDefault(KeyAssetsDir, DefaultAssetsDir)
	viper.SetDefault(KeyLogLevel, DefaultLogLevel)
	viper.SetDefault(KeyExclude, []string{})

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
// The exclude key takes a comma-separated list.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	if key == KeyExclude {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WorkspaceRoot returns the resolved workspace root with ~ expanded.
func WorkspaceRoot() (string, error) {
	root := Get(KeyWorkspaceRoot)
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return ExpandHome(root)
}

// TemplateDir returns the configured template directory, or "" when the
// bundled template should be used.
func TemplateDir() (string, error) {
	dir := Get(KeyTemplateDir)
	if dir == "" {
		return "", nil
	}
	return ExpandHome(dir)
}

// ExcludePatterns returns user-configured exclusion patterns.
func ExcludePatterns() []string {
	var out []string
	for _, p := range viper.GetStringSlice(KeyExclude) {
		out = append(out, splitList(p)...)
	}
	return out
}

// AssetsDir returns the directory, relative to a project, that saved
// diagrams are written to.
func AssetsDir() string {
	if dir := Get(KeyAssetsDir); dir != "" {
		return dir
	}
	return DefaultAssetsDir
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
