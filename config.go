// config.go: Runtime configuration for themis tooling
//
// Copyright (c) 2025 AGILira
// Series: AGILira System Libraries
// SPDX-License-Identifier: MPL-2.0

package themis

import "time"

// Config drives how documents are built and rendered. The zero value is
// usable after WithDefaults.
type Config struct {
	// DefaultVersion is used for documents that do not name a version
	DefaultVersion string `json:"default_version"`

	// Format is the output encoding for rendered entities
	Format Format `json:"format"`

	// Strict rejects document fields that a kind does not declare
	Strict bool `json:"strict"`

	// MaskSecrets hides "secure:" values in rendered output
	MaskSecrets bool `json:"mask_secrets"`

	// Audit configures the audit trail
	Audit AuditConfig `json:"audit"`
}

// WithDefaults returns a copy with every unset value filled in
func (c *Config) WithDefaults() *Config {
	config := *c

	if config.DefaultVersion == "" {
		config.DefaultVersion = LatestVersion
	}

	if config.Audit == (AuditConfig{}) {
		config.Audit = DefaultAuditConfig()
	}
	if config.Audit.BufferSize == 0 {
		config.Audit.BufferSize = 1000
	}
	if config.Audit.FlushInterval == 0 {
		config.Audit.FlushInterval = 5 * time.Second
	}

	return &config
}

// LoadOptions derives document loading options from the configuration
func (c *Config) LoadOptions(reg *Registry, audit *AuditLogger) LoadOptions {
	return LoadOptions{
		Registry: reg,
		Audit:    audit,
		Strict:   c.Strict,
		Version:  c.DefaultVersion,
	}
}
