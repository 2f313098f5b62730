// Package fsutil provides utility functions and constants for file system operations.
package fsutil

import (
	"os"
	"path/filepath"

	"github.com/packentu/gumarchive/internal/logger"
)

// EnsureDir creates a directory and all necessary parent directories with default
// permissions if they don't exist. Already-existing directories are logged at
// debug level and left alone.
func EnsureDir(path string) error {
	if _, err := os.Stat(path); err == nil {
		logger.Debug("Directory already exists", logger.Fields{"dir": path})
		return nil
	}
	logger.Debug("Creating directory", logger.Fields{"dir": path})
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// WriteFile writes contents to path with default file permissions, logging
// whether the file already existed.
func WriteFile(path string, contents []byte) error {
	_, err := os.Stat(path)
	logger.Debug("Writing file", logger.Fields{"file": path, "exists": err == nil})
	return os.WriteFile(path, contents, FileModeDefault)
}
