// main_test.go: Tests for process exit codes
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agilira/go-errors"
	"github.com/agilira/themis"
)

const executorDocument = `version: latest
entities:
  - id: executor
    kind: KubernetesExecutor
    fields:
      connectionId: cluster
`

func writeDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func TestRunExitCodes(t *testing.T) {
	invalid := writeDocument(t, executorDocument)
	valid := writeDocument(t, executorDocument+"      profileName: default\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"valid document", []string{"validate", valid}, 0},
		{"versions", []string{"versions"}, 0},
		{"mandatory field missing", []string{"validate", invalid}, 2},
		{"render without document", []string{"render"}, 1},
		{"unsupported shell", []string{"completion", "tcsh"}, 1},
		{"unknown version", []string{"kinds", "v1999_1"}, 1},
		{"bad global flag value", []string{"--format", "toml", "versions"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New(themis.ErrCodeValidation, "1 entity failed validation"), 2},
		{errors.New(themis.ErrCodeInvalidConfig, "document path required"), 1},
		{errors.New(themis.ErrCodeUnsupportedFormat, "unsupported shell"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
