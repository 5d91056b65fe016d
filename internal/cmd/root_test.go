package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidnavigator/vidnav/internal/config"
)

// executeCmd runs the CLI with args and returns what it wrote to stdout
func executeCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(logDirEnv, t.TempDir())
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvToken, "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// outputLines decodes every JSON line written by a command
func outputLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		lines = append(lines, m)
	}
	return lines
}

func TestGetDefaultLogDir(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected string
	}{
		{
			name:     "no environment variable",
			envValue: "",
			expected: defaultLogDir,
		},
		{
			name:     "environment variable set",
			envValue: "/custom/log/dir",
			expected: "/custom/log/dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(logDirEnv, tt.envValue)
			assert.Equal(t, tt.expected, getDefaultLogDir())
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# comment
VIDNAV_TEST_PLAIN=plain
export VIDNAV_TEST_EXPORTED="quoted value"

VIDNAV_TEST_EXPANDED=${VIDNAV_TEST_BASE}/mcp
not a pair
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("VIDNAV_TEST_BASE", "https://example.com")
	t.Setenv("VIDNAV_TEST_PLAIN", "")
	t.Setenv("VIDNAV_TEST_EXPORTED", "")
	t.Setenv("VIDNAV_TEST_EXPANDED", "")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "plain", os.Getenv("VIDNAV_TEST_PLAIN"))
	assert.Equal(t, "quoted value", os.Getenv("VIDNAV_TEST_EXPORTED"))
	assert.Equal(t, "https://example.com/mcp", os.Getenv("VIDNAV_TEST_EXPANDED"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"search", "analyze", "transcript", "followup", "transcribe", "call", "request", "tools", "auth", "run", "serve", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "config-stdin", "env", "base-url", "token", "log-dir", "jq", "continue-on-fail"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := executeCmd(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "vidnav")

	_, err = executeCmd(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
