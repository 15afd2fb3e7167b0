// config_validation.go: Validation of the runtime configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agilira/go-errors"
)

// Configuration errors
var (
	ErrInvalidFormat        = errors.New(ErrCodeUnsupportedFormat, "output format must be json, yaml or properties")
	ErrInvalidBufferSize    = errors.New(ErrCodeInvalidBufferSize, "buffer size must be positive")
	ErrInvalidFlushInterval = errors.New(ErrCodeInvalidFlushInterval, "flush interval must be positive")
	ErrInvalidOutputFile    = errors.New(ErrCodeInvalidAuditConfig, "audit output file must end in .db or .jsonl")
)

// ValidationResult is the collect-all outcome of Config validation
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// String returns a human-readable summary
func (vr ValidationResult) String() string {
	if vr.Valid {
		if len(vr.Warnings) == 0 {
			return "Configuration is valid"
		}
		return fmt.Sprintf("Configuration is valid with %d warning(s)", len(vr.Warnings))
	}
	return fmt.Sprintf("Configuration is invalid: %d error(s), %d warning(s)",
		len(vr.Errors), len(vr.Warnings))
}

// Validate returns the first configuration error, or nil
func (c *Config) Validate() error {
	result := c.ValidateDetailed()
	if result.Valid {
		return nil
	}
	switch first := result.Errors[0]; first {
	case ErrInvalidFormat.Error():
		return ErrInvalidFormat
	case ErrInvalidBufferSize.Error():
		return ErrInvalidBufferSize
	case ErrInvalidFlushInterval.Error():
		return ErrInvalidFlushInterval
	case ErrInvalidOutputFile.Error():
		return ErrInvalidOutputFile
	default:
		return errors.New(ErrCodeInvalidConfig, first)
	}
}

// ValidateDetailed checks every setting and reports all problems at once
func (c *Config) ValidateDetailed() ValidationResult {
	result := ValidationResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	if c.Format < FormatJSON || c.Format >= FormatUnknown {
		result.Errors = append(result.Errors, ErrInvalidFormat.Error())
	}

	if c.DefaultVersion == "" {
		result.Warnings = append(result.Warnings, "no default version, documents must name one")
	} else if c.DefaultVersion != LatestVersion {
		if _, ok := versionNumbers(c.DefaultVersion); !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("default version '%s' does not follow the vNNNN_N pattern", c.DefaultVersion))
		}
	}

	if !c.MaskSecrets && c.Format == FormatProperties {
		result.Warnings = append(result.Warnings, "secrets will be written in clear text to properties output")
	}

	c.validateAuditConfig(&result)

	result.Valid = len(result.Errors) == 0
	return result
}

func (c *Config) validateAuditConfig(result *ValidationResult) {
	if !c.Audit.Enabled {
		return
	}

	switch {
	case c.Audit.BufferSize < 0:
		result.Errors = append(result.Errors, ErrInvalidBufferSize.Error())
	case c.Audit.BufferSize == 0:
		result.Warnings = append(result.Warnings, "Audit buffer size is 0, every event is written immediately")
	case c.Audit.BufferSize > 10000:
		result.Warnings = append(result.Warnings, "Large audit buffer size may consume significant memory")
	}

	if c.Audit.FlushInterval < 0 {
		result.Errors = append(result.Errors, ErrInvalidFlushInterval.Error())
	}

	if c.Audit.OutputFile == "" {
		return
	}
	switch filepath.Ext(c.Audit.OutputFile) {
	case ".db", ".jsonl":
	default:
		result.Errors = append(result.Errors, ErrInvalidOutputFile.Error())
		return
	}
	if err := validateOutputDir(c.Audit.OutputFile); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
}

// validateOutputDir checks that the directory of an output file exists
func validateOutputDir(outputFile string) error {
	cleanPath := filepath.Clean(outputFile)
	dir := filepath.Dir(cleanPath)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(ErrCodeInvalidConfig, fmt.Sprintf("directory '%s' does not exist", dir))
		}
		return errors.Wrap(err, ErrCodeInvalidConfig, fmt.Sprintf("cannot access directory '%s'", dir))
	}
	if !info.IsDir() {
		return errors.New(ErrCodeInvalidConfig, fmt.Sprintf("'%s' is not a directory", dir))
	}
	return nil
}

// IsValidationError reports whether err is a Config validation failure
func IsValidationError(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeInvalidConfig, ErrCodeUnsupportedFormat,
		ErrCodeInvalidAuditConfig, ErrCodeInvalidBufferSize, ErrCodeInvalidFlushInterval:
		return true
	}
	return false
}
