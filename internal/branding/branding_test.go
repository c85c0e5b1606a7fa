package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "circuitkit", CLIName())
	assert.Equal(t, ".circuitkit", HomeDir())
	assert.Equal(t, "CIRCUITKIT", EnvPrefix())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "CIRCUITKIT_WORKSPACE_ROOT", EnvVar("workspace_root"))
	assert.Equal(t, "CIRCUITKIT_LOG_LEVEL", EnvVar("LOG_LEVEL"))
}
