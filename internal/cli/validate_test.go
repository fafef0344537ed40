package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lock.cue", `lock: { pattern: "1-5-9", hint: true }`)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Config valid: 3x3 grid (9 points), viewport 400x400")
	assert.Contains(t, out, `Pattern: "1-5-9"`)
	assert.Contains(t, out, "Hint: true")
	assert.NotContains(t, out, "warning")
}

func TestValidate_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lock.cue", `lock: { rows: 4, cols: 4 }`)

	out, err := execute(t, "validate", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 16, resp.Data.Points)
	require.NotNil(t, resp.Data.Config)
	assert.Equal(t, 4, resp.Data.Config.Rows)
}

func TestValidate_PatternWarnings(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"rewritten", "1-1-12-5", `loads as "1-5"`},
		{"unusable", "abc", "names no point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "lock.cue", `lock: pattern: "`+tt.pattern+`"`)

			out, err := execute(t, "validate", path)
			require.NoError(t, err)
			assert.Contains(t, out, "warning [E040]")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestValidate_InvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lock.cue", `lock: { width: 0 }`)

	out, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Config invalid")
	assert.Contains(t, out, "error [E006]")
}

func TestValidate_InvalidConfigJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lock.cue", `lock: { cols: 3, shape: "round" }`)

	out, err := execute(t, "validate", path, "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, ErrCodeBuildFailed, resp.Data.Errors[0].Code)
}

func TestValidate_MissingFile(t *testing.T) {
	out, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidate_RequiresArg(t *testing.T) {
	_, err := execute(t, "validate")
	require.Error(t, err)
}
