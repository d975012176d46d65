// Package support holds the godog step definitions of the CLI feature tests.
package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	BinPath string

	// Command execution state
	LastCommand   string
	LastOutput    string
	LastError     error
	LastExitCode  int
	LastStartTime time.Time
	LastDuration  time.Duration

	// WorkDir is the scenario's working directory and $HOME, so no
	// configuration file of the machine leaks in.
	WorkDir string
	EnvVars []string
}

// NewTestContext creates a scenario context running the binary at binPath.
func NewTestContext(binPath string) (*TestContext, error) {
	workDir, err := os.MkdirTemp("", "rasterlab-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	testCtx := &TestContext{
		BinPath: binPath,
		WorkDir: workDir,
	}
	testCtx.AddEnvVar("HOME", workDir)
	testCtx.AddEnvVar("XDG_CONFIG_HOME", filepath.Join(workDir, ".config"))
	return testCtx, nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, fmt.Sprintf("%s=%s", name, value))
}

// Path resolves name inside the working directory.
func (testCtx *TestContext) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(testCtx.WorkDir, name)
}

// Cleanup removes the working directory.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.WorkDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.WorkDir, err)
	}
	return nil
}
