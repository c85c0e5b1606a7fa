package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
		wantErr  bool
	}{
		{"older patch", "1.0.0", "1.0.1", -1, false},
		{"older minor", "1.0.0", "1.1.0", -1, false},
		{"equal", "1.2.3", "1.2.3", 0, false},
		{"newer", "1.1.0", "1.0.0", 1, false},
		{"v prefix", "v1.0.0", "1.0.1", -1, false},
		{"prerelease less than release", "1.0.0-beta", "1.0.0", -1, false},
		{"invalid a", "notaversion", "1.0.0", 0, true},
		{"invalid b", "1.0.0", "notaversion", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareVersions(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		current    string
		want       bool
		wantErr    bool
	}{
		{"empty constraint", "", "0.1.0", true, false},
		{"dev build", ">= 9.0.0", "dev", true, false},
		{"blank version", ">= 9.0.0", "", true, false},
		{"met", ">= 0.2.0", "0.3.1", true, false},
		{"met with v prefix", ">= 0.2.0", "v0.2.0", true, false},
		{"not met", ">= 0.2.0", "0.1.9", false, false},
		{"range", ">= 1.0.0, < 2.0.0", "2.0.0", false, false},
		{"bad constraint", ">>> 1", "1.0.0", false, true},
		{"bad version", ">= 1.0.0", "banana", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Satisfies(tt.constraint, tt.current)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDevBuild(t *testing.T) {
	assert.True(t, IsDevBuild("dev"))
	assert.True(t, IsDevBuild(" "))
	assert.False(t, IsDevBuild("0.1.0"))
}
