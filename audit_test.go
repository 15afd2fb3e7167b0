// audit_test.go: Tests for the audit logger
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestAuditLogger(t *testing.T, file string, minLevel AuditLevel) *AuditLogger {
	t.Helper()
	logger, err := NewAuditLogger(AuditConfig{
		Enabled:       true,
		OutputFile:    filepath.Join(t.TempDir(), file),
		MinLevel:      minLevel,
		BufferSize:    100,
		FlushInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	t.Cleanup(func() {
		if err := logger.Close(); err != nil {
			t.Logf("Failed to close audit logger: %v", err)
		}
	})
	return logger
}

func readAuditEvents(t *testing.T, path string) []AuditEvent {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open audit file: %v", err)
	}
	defer func() { _ = f.Close() }()

	var events []AuditEvent
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev AuditEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("Corrupted audit line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestAuditLogger_NilAndDisabled(t *testing.T) {
	var nilLogger *AuditLogger
	nilLogger.LogEntityBuilt("v1", "id", "Kind", 1)
	nilLogger.LogWireEncoded("id", "Kind", "json", 1)
	if nilLogger.Enabled() {
		t.Error("nil logger reported enabled")
	}
	if err := nilLogger.Flush(); err != nil {
		t.Errorf("nil Flush = %v", err)
	}
	if err := nilLogger.Close(); err != nil {
		t.Errorf("nil Close = %v", err)
	}

	disabled, err := NewAuditLogger(DefaultAuditConfig())
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	defer func() { _ = disabled.Close() }()
	disabled.Log(AuditCritical, "x", "", "", "", nil)
	if _, err := disabled.Stats(); ErrorCode(err) != ErrCodeInvalidAuditConfig {
		t.Errorf("Stats on a disabled logger = %v", err)
	}
}

func TestAuditLogger_PipelineEvents(t *testing.T) {
	logger := newTestAuditLogger(t, "audit.jsonl", AuditInfo)

	r := NewRegistry()
	r.SetAuditLogger(logger)
	if err := r.Publish("v1", newServiceKind()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	doc, err := LoadDocument([]byte(serviceDocument), LoadOptions{Registry: r, Audit: logger})
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	doc.Validate(logger)
	invalid := mustBuild(t, newServiceKind(), nil, nil)
	ValidateEntity("broken", invalid, logger)

	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	events := readAuditEvents(t, logger.config.OutputFile)

	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Event]++
		if !VerifyChecksum(ev) {
			t.Errorf("checksum mismatch for %s event", ev.Event)
		}
		if ev.Component != "themis" {
			t.Errorf("component = %q", ev.Component)
		}
	}
	want := map[string]int{
		EventSchemaPublished:  1,
		EventEntityBuilt:      2,
		EventEntityValidated:  2,
		EventValidationFailed: 1,
	}
	for event, n := range want {
		if counts[event] != n {
			t.Errorf("%s events = %d, want %d", event, counts[event], n)
		}
	}

	for _, ev := range events {
		if ev.Event == EventValidationFailed && (ev.Level != AuditWarn || ev.EntityID != "broken") {
			t.Errorf("unexpected failure event: %+v", ev)
		}
	}
}

func TestAuditLogger_MinLevel(t *testing.T) {
	logger := newTestAuditLogger(t, "audit.jsonl", AuditWarn)
	logger.LogEntityBuilt("v1", "a", "Service", 3)
	logger.LogValidation("a", "Service", ValidationErrors{{Path: "host", Message: MandatoryMessage("host")}})

	stats, err := logger.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEvents != 1 || stats.EventsByName[EventValidationFailed] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAuditLogger_TamperDetection(t *testing.T) {
	ev := AuditEvent{
		Timestamp: time.Now(),
		Event:     EventWireEncoded,
		Kind:      "Service",
		EntityID:  "db",
		Context:   map[string]interface{}{"format": "json"},
	}
	ev.Checksum = generateChecksum(ev)
	if !VerifyChecksum(ev) {
		t.Fatal("fresh event failed verification")
	}
	ev.EntityID = "other"
	if VerifyChecksum(ev) {
		t.Error("modified event passed verification")
	}
}

func TestAuditLogger_CloseTwice(t *testing.T) {
	logger, err := NewAuditLogger(AuditConfig{
		Enabled:       true,
		OutputFile:    filepath.Join(t.TempDir(), "audit.jsonl"),
		BufferSize:    10,
		FlushInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	logger.LogWireEncoded("id", "Service", "yaml", 4)
	time.Sleep(30 * time.Millisecond)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
