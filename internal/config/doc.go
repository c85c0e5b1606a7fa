// Package config manages user-level settings stored at ~/.circuitkit/config.yaml.
// Values can be overridden with CIRCUITKIT_* environment variables. It knows
// where the workspace root lives, which template to clone, which extra paths
// to exclude, and how saved diagrams are displayed and stored.
package config
