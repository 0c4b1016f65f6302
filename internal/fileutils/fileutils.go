// Package fileutils provides small filesystem helpers shared by the
// pipeline.
package fileutils

import (
	"fmt"
	"os"
)

// FileExists checks if a file exists and is not a directory.
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// DirectoryExists checks if a directory exists.
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && info.IsDir()
}

// RequireFile returns a descriptive error when path does not name an
// existing file.
func RequireFile(path string) error {
	if !FileExists(path) {
		return fmt.Errorf("file %s does not exist", path)
	}
	return nil
}
