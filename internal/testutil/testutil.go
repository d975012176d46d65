// Package testutil provides synthetic rasters and file helpers for tests.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ProjectRoot walks up from this source file to the directory holding go.mod
// and the rasterlab command.
func ProjectRoot() (string, error) {
	_, self, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("testutil: no caller information")
	}
	for dir := filepath.Dir(self); ; dir = filepath.Dir(dir) {
		if FileExists(filepath.Join(dir, "go.mod")) {
			if !FileExists(filepath.Join(dir, "cmd", "rasterlab", "main.go")) {
				return "", fmt.Errorf("testutil: %s has no cmd/rasterlab", dir)
			}
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			return "", fmt.Errorf("testutil: no go.mod above %s", self)
		}
	}
}

// FileExists reports whether path names an existing file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
