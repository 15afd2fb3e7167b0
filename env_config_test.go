// env_config_test.go: Tests for THEMIS_* environment configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvDefaultVersion, "v2019_2")
	t.Setenv(EnvFormat, "YAML")
	t.Setenv(EnvStrict, "yes")
	t.Setenv(EnvMaskSecrets, "on")
	t.Setenv(EnvAuditEnabled, "1")
	t.Setenv(EnvAuditOutputFile, "/var/log/themis/audit.jsonl")
	t.Setenv(EnvAuditMinLevel, "warning")
	t.Setenv(EnvAuditBufferSize, "25")
	t.Setenv(EnvAuditFlushInterval, "250ms")

	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv failed: %v", err)
	}
	if config.DefaultVersion != "v2019_2" || config.Format != FormatYAML || !config.Strict || !config.MaskSecrets {
		t.Errorf("config = %+v", config)
	}
	audit := config.Audit
	if !audit.Enabled || audit.OutputFile != "/var/log/themis/audit.jsonl" || audit.MinLevel != AuditWarn ||
		audit.BufferSize != 25 || audit.FlushInterval != 250*time.Millisecond {
		t.Errorf("audit = %+v", audit)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvFormat, "toml"},
		{EnvAuditMinLevel, "verbose"},
		{EnvAuditBufferSize, "-3"},
		{EnvAuditBufferSize, "many"},
		{EnvAuditFlushInterval, "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfigFromEnv(); ErrorCode(err) != ErrCodeInvalidConfig {
				t.Errorf("error = %v, want %s", err, ErrCodeInvalidConfig)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	bools := map[string]bool{
		"true": true, "1": true, " YES ": true, "on": true, "enabled": true,
		"false": false, "0": false, "off": false, "": false, "maybe": false,
	}
	for in, want := range bools {
		if got := parseBool(in); got != want {
			t.Errorf("parseBool(%q) = %v", in, got)
		}
	}

	levels := map[string]AuditLevel{
		"info": AuditInfo, "WARN": AuditWarn, "error": AuditCritical, "security": AuditSecurity,
	}
	for in, want := range levels {
		got, err := parseAuditLevel(in)
		if err != nil || got != want {
			t.Errorf("parseAuditLevel(%q) = (%v, %v)", in, got, err)
		}
	}

	t.Setenv("THEMIS_TEST_VALUE", "set")
	if GetEnvWithDefault("THEMIS_TEST_VALUE", "d") != "set" || GetEnvWithDefault("THEMIS_TEST_UNSET", "d") != "d" {
		t.Error("GetEnvWithDefault returned the wrong value")
	}
}
