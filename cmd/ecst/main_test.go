package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// run executes the command line in a scratch base directory.
func run(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--base-dir", dir, "--interpreter", "ecst-test-no-such-pwsh"}, args...)
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "internal", "config", "testdata", "config.json"))
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestConsole_MissingConfiguration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ECST_CONFIG", "")

	res := run(t, dir, "Q\n")

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "[ERROR] Configuration file not found: "+filepath.Join(dir, "config.json"))
	assert.Contains(t, res.stdout, "Please create a config.json file before running this tool.")
	assert.NotContains(t, res.stdout, "Main Menu:")
	assert.Empty(t, res.stderr)
}

func TestConsole_MalformedConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"environment": `), 0o644))

	res := run(t, dir, "Q\n", "--config", path)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "[ERROR] Invalid configuration file:")
	assert.NotContains(t, res.stdout, "Please create a config.json file", "the file exists")
	assert.NotContains(t, res.stdout, "Main Menu:")
}

func TestConsole_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"environment": {"name": "Lab"}}`), 0o644))

	res := run(t, dir, "Q\n", "console", "--config", path)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "does not match schema")
}

func TestConsole_QuitFromMainMenu(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	res := run(t, dir, "Q\n", "--config", path, "--no-color")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "ECST VMware Automation Tool")
	assert.Contains(t, res.stdout, "Environment: Lab")
	assert.Contains(t, res.stdout, "Main Menu:")
	assert.Contains(t, res.stdout, "Thank you for using ECST VMware Automation Tool!")
	assert.Contains(t, res.stdout, "ecst-test-no-such-pwsh", "missing interpreter is reported at startup")

	logData, err := os.ReadFile(filepath.Join(dir, "ecst.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "console started")
}

func TestConsole_EndOfInputQuits(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	res := run(t, dir, "5\nB\n", "--config", path)

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "Configuration Options:")
	assert.Contains(t, res.stdout, "Thank you for using ECST VMware Automation Tool!")
}

func TestConsole_ConfigFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, t.TempDir())
	t.Setenv("ECST_CONFIG", path)

	res := run(t, dir, "Q\n")

	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "vcsa01.lab.local")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	res := run(t, dir, "", "validate", "--config", path)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "[SUCCESS] Configuration is valid: "+path)

	res = run(t, dir, "", "validate", "--config", filepath.Join(dir, "missing.json"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "Configuration file not found")
}

func TestShow(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir)

	tests := []struct {
		format string
		want   string
	}{
		{"table", "datacenter.name"},
		{"json", `"name": "DC-Lab"`},
		{"yaml", "name: DC-Lab"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res := run(t, dir, "", "show", "--config", path, "-o", tt.format)
			assert.Equal(t, 0, res.code, res.stderr)
			assert.Contains(t, res.stdout, tt.want)
		})
	}

	res := run(t, dir, "", "show", "--config", path, "-o", "xml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: ")
}

func TestCatalog(t *testing.T) {
	res := run(t, t.TempDir(), "", "catalog")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "TEMPLATES")
	assert.Contains(t, res.stdout, "template-splunk-enterprise")

	res = run(t, t.TempDir(), "", "catalog", "-o", "json")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, `"guestId": "rhel9_64Guest"`)
}
