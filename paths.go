// paths.go: Validation of user-supplied document paths
//
// Documents are read from paths given on the command line or by embedding
// programs. Every path goes through validateSecurePath before any file
// operation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agilira/go-errors"
)

const (
	maxPathLength = 4096
	maxPathDepth  = 50
)

var traversalPatterns = []string{"..", "../", "..\\", "/..", "\\.."}

var encodedPatterns = []string{
	"%2e%2e", "%252e%252e", "%2f", "%252f", "%5c", "%255c", "%00", "%2500",
}

var sensitivePaths = []string{
	"/etc/passwd", "/etc/shadow", "/proc/", "/sys/", "/dev/",
	"windows/system32", ".ssh/", ".aws/", ".docker/",
}

var windowsDevices = []string{
	"CON", "PRN", "AUX", "NUL",
	"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
}

// validateSecurePath rejects traversal, encoded traversal, system files,
// device names, control characters and oversized paths
func validateSecurePath(path string) error {
	if path == "" {
		return errors.New(ErrCodeInvalidConfig, "empty path not allowed")
	}
	if len(path) > maxPathLength {
		return errors.New(ErrCodeInvalidConfig, fmt.Sprintf("path too long (max %d characters): %d", maxPathLength, len(path)))
	}

	for _, p := range traversalPatterns {
		if strings.Contains(path, p) {
			return errors.New(ErrCodeInvalidConfig, "path contains dangerous traversal pattern: "+p)
		}
	}

	lower := strings.ToLower(path)
	for _, p := range encodedPatterns {
		if strings.Contains(lower, p) {
			return errors.New(ErrCodeInvalidConfig, "path contains URL-encoded traversal pattern: "+p)
		}
	}
	for _, p := range sensitivePaths {
		if strings.Contains(lower, p) {
			return errors.New(ErrCodeInvalidConfig, "access to system file/directory not allowed: "+p)
		}
	}

	base := strings.ToUpper(filepath.Base(path))
	if dot := strings.LastIndex(base, "."); dot != -1 {
		base = base[:dot]
	}
	for _, d := range windowsDevices {
		if base == d {
			return errors.New(ErrCodeInvalidConfig, "windows device name not allowed: "+d)
		}
	}

	if depth := strings.Count(path, "/") + strings.Count(path, "\\"); depth > maxPathDepth {
		return errors.New(ErrCodeInvalidConfig, fmt.Sprintf("path too complex (max %d directory levels): %d", maxPathDepth, depth))
	}

	for _, r := range path {
		if r < 32 && r != '\t' {
			return errors.New(ErrCodeInvalidConfig, fmt.Sprintf("control character in path not allowed: %d", r))
		}
	}
	return nil
}
