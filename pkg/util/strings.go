// Package util provides shared utility functions for mockd.
package util

import (
	"path/filepath"
	"strings"
)

// MaxLogBodySize is the default maximum body size for logging (10KB).
const MaxLogBodySize = 10 * 1024

// SafeFilePath cleans a caller-supplied relative file path and rejects it
// outright if it is empty, absolute, contains a backslash (a Windows
// separator that would otherwise slip past filepath.Clean on this
// platform), or still escapes upward (a leading "..") after cleaning.
func SafeFilePath(path string) (string, bool) {
	return safeFilePath(path, false)
}

// SafeFilePathAllowAbsolute is SafeFilePath but additionally accepts
// absolute paths, for configuration values (e.g. a schema file) that are
// legitimately rooted outside the working directory.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	return safeFilePath(path, true)
}

func safeFilePath(path string, allowAbsolute bool) (string, bool) {
	if path == "" || strings.Contains(path, `\`) {
		return "", false
	}
	if filepath.IsAbs(path) {
		if !allowAbsolute {
			return "", false
		}
		return filepath.Clean(path), true
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}

// TruncateBody truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxLogBodySize.
func TruncateBody(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxLogBodySize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}
