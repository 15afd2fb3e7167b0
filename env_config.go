// env_config.go: Environment variable support for themis configuration
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agilira/go-errors"
)

// Environment variable names
const (
	EnvDefaultVersion     = "THEMIS_DEFAULT_VERSION"
	EnvFormat             = "THEMIS_FORMAT"
	EnvStrict             = "THEMIS_STRICT"
	EnvMaskSecrets        = "THEMIS_MASK_SECRETS"
	EnvAuditEnabled       = "THEMIS_AUDIT_ENABLED"
	EnvAuditOutputFile    = "THEMIS_AUDIT_OUTPUT_FILE"
	EnvAuditMinLevel      = "THEMIS_AUDIT_MIN_LEVEL"
	EnvAuditBufferSize    = "THEMIS_AUDIT_BUFFER_SIZE"
	EnvAuditFlushInterval = "THEMIS_AUDIT_FLUSH_INTERVAL"
)

// LoadConfigFromEnv builds a configuration from THEMIS_* variables on top of
// the defaults. Malformed values are reported, not ignored.
func LoadConfigFromEnv() (*Config, error) {
	config := (&Config{}).WithDefaults()
	if err := applyEnv(config); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidConfig, "failed to load environment configuration")
	}
	return config, nil
}

func applyEnv(config *Config) error {
	config.DefaultVersion = GetEnvWithDefault(EnvDefaultVersion, config.DefaultVersion)
	if v := os.Getenv(EnvFormat); v != "" {
		f := ParseFormat(v)
		if f == FormatUnknown {
			return errors.New(ErrCodeUnsupportedFormat, "invalid "+EnvFormat+" value: "+v)
		}
		config.Format = f
	}
	if v := os.Getenv(EnvStrict); v != "" {
		config.Strict = parseBool(v)
	}
	if v := os.Getenv(EnvMaskSecrets); v != "" {
		config.MaskSecrets = parseBool(v)
	}
	return applyAuditEnv(&config.Audit)
}

func applyAuditEnv(audit *AuditConfig) error {
	if v := os.Getenv(EnvAuditEnabled); v != "" {
		audit.Enabled = parseBool(v)
	}
	if v := os.Getenv(EnvAuditOutputFile); v != "" {
		audit.OutputFile = v
	}
	if v := os.Getenv(EnvAuditMinLevel); v != "" {
		level, err := parseAuditLevel(v)
		if err != nil {
			return err
		}
		audit.MinLevel = level
	}
	if v := os.Getenv(EnvAuditBufferSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errors.New(ErrCodeInvalidBufferSize, "invalid "+EnvAuditBufferSize+" value")
		}
		audit.BufferSize = n
	}
	if v := os.Getenv(EnvAuditFlushInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New(ErrCodeInvalidFlushInterval, "invalid "+EnvAuditFlushInterval+" format")
		}
		audit.FlushInterval = d
	}
	return nil
}

// parseAuditLevel parses an audit level name
func parseAuditLevel(levelStr string) (AuditLevel, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "info":
		return AuditInfo, nil
	case "warn", "warning":
		return AuditWarn, nil
	case "critical", "error":
		return AuditCritical, nil
	case "security":
		return AuditSecurity, nil
	default:
		return AuditInfo, errors.New(ErrCodeInvalidConfig, "invalid audit level: "+levelStr)
	}
}

// parseBool accepts true/false, 1/0, yes/no, on/off, enabled/disabled
func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on", "enabled":
		return true
	default:
		return false
	}
}

// GetEnvWithDefault returns an environment variable or defaultValue
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
