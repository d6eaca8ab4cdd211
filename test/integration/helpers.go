//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL    string
	Session    string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL:    os.Getenv("HEFS_BASE_URL"),
		Session:    os.Getenv("HEFS_SESSION"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("HEFS_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the hefs binary
func getBinaryPath() string {
	if path := os.Getenv("HEFS_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../hefs",
		"./hefs",
		"../hefs",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "hefs"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.BaseURL == "" {
		t.Skip("HEFS_BASE_URL not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("hefs binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipIfNoSession skips tests that need an authenticated session
func (config *TestConfig) SkipIfNoSession(t *testing.T) {
	t.Helper()

	if config.Session == "" {
		t.Skip("HEFS_SESSION not set, skipping authenticated test")
	}
}

// CommandRunner runs the hefs binary against the configured API with an
// isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a hefs command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile, "--base-url", runner.config.BaseURL}, args...)
	if runner.config.Session != "" {
		args = append(args, "--session", runner.config.Session)
	}

	cmd := exec.Command(runner.config.BinaryPath, args...) //nolint:gosec // binary path comes from the test environment

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunJSON executes a command with JSON output and decodes it into target
func (runner *CommandRunner) RunJSON(target interface{}, args ...string) {
	runner.t.Helper()

	stdout, stderr, err := runner.Run(append(args, "--output", "json")...)
	require.NoError(runner.t, err, "stderr: %s", stderr)
	require.NoError(runner.t, json.Unmarshal([]byte(stdout), target), "stdout: %s", stdout)
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if strings.Contains(output, ":") {
		return
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
