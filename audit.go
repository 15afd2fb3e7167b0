// audit.go: Audit trail for entity builds, validation and schema publication
//
// Every significant step of the pipeline can be recorded: an entity being
// built from a document, the outcome of its validation, a kind published into
// a registry and an entity rendered to the wire. Events are buffered and
// flushed to a pluggable backend (SQLite or JSONL).
//
// All methods are safe on a nil *AuditLogger, so callers pass the logger
// around without checking whether auditing is enabled.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

// AuditLevel represents the severity of audit events
type AuditLevel int

const (
	AuditInfo AuditLevel = iota
	AuditWarn
	AuditCritical
	AuditSecurity
)

func (al AuditLevel) String() string {
	switch al {
	case AuditInfo:
		return "INFO"
	case AuditWarn:
		return "WARN"
	case AuditCritical:
		return "CRITICAL"
	case AuditSecurity:
		return "SECURITY"
	default:
		return "UNKNOWN"
	}
}

// Audit event names
const (
	EventEntityBuilt      = "entity_built"
	EventEntityValidated  = "entity_validated"
	EventValidationFailed = "validation_failed"
	EventSchemaPublished  = "schema_published"
	EventWireEncoded      = "wire_encoded"
)

// AuditEvent represents a single auditable event
type AuditEvent struct {
	Timestamp   time.Time              `json:"timestamp"`
	Level       AuditLevel             `json:"level"`
	Event       string                 `json:"event"`
	Component   string                 `json:"component"`
	Version     string                 `json:"version,omitempty"`
	Kind        string                 `json:"kind,omitempty"`
	EntityID    string                 `json:"entity_id,omitempty"`
	ProcessID   int                    `json:"process_id"`
	ProcessName string                 `json:"process_name"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Checksum    string                 `json:"checksum"`
}

// AuditConfig configures the audit system
type AuditConfig struct {
	Enabled       bool          `json:"enabled"`
	OutputFile    string        `json:"output_file"` // ".jsonl" selects JSONL, ".db" or empty selects SQLite
	MinLevel      AuditLevel    `json:"min_level"`
	BufferSize    int           `json:"buffer_size"`
	FlushInterval time.Duration `json:"flush_interval"`
}

// DefaultAuditConfig returns the default audit configuration. Auditing is
// opt-in; when enabled with no OutputFile, events go to the shared SQLite
// database under the system temp directory.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:       false,
		OutputFile:    "",
		MinLevel:      AuditInfo,
		BufferSize:    1000,
		FlushInterval: 5 * time.Second,
	}
}

// AuditLogger buffers audit events and writes them to a backend
type AuditLogger struct {
	config      AuditConfig
	backend     auditBackend
	buffer      []AuditEvent
	bufferMu    sync.Mutex
	flushTicker *time.Ticker
	stopCh      chan struct{}
	closeOnce   sync.Once
	processID   int
	processName string
}

// NewAuditLogger creates an audit logger. A disabled configuration yields a
// logger that drops every event without opening a backend.
func NewAuditLogger(config AuditConfig) (*AuditLogger, error) {
	logger := &AuditLogger{
		config:      config,
		processID:   os.Getpid(),
		processName: getProcessName(),
		stopCh:      make(chan struct{}),
	}
	if !config.Enabled {
		return logger, nil
	}

	backend, err := createAuditBackend(config)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidAuditConfig, "failed to initialize audit backend")
	}
	logger.backend = backend
	logger.buffer = make([]AuditEvent, 0, config.BufferSize)

	if config.FlushInterval > 0 {
		logger.flushTicker = time.NewTicker(config.FlushInterval)
		go logger.flushLoop()
	}
	return logger, nil
}

// Enabled reports whether events are recorded
func (al *AuditLogger) Enabled() bool {
	return al != nil && al.backend != nil && al.config.Enabled
}

// Log records an audit event
func (al *AuditLogger) Log(level AuditLevel, event, version, kind, entityID string, context map[string]interface{}) {
	if !al.Enabled() || level < al.config.MinLevel {
		return
	}

	auditEvent := AuditEvent{
		Timestamp:   timecache.CachedTime(),
		Level:       level,
		Event:       event,
		Component:   "themis",
		Version:     version,
		Kind:        kind,
		EntityID:    entityID,
		ProcessID:   al.processID,
		ProcessName: al.processName,
		Context:     copyMap(context),
	}
	auditEvent.Checksum = generateChecksum(auditEvent)

	al.bufferMu.Lock()
	al.buffer = append(al.buffer, auditEvent)
	if len(al.buffer) >= al.config.BufferSize {
		_ = al.flushBufferUnsafe() // flush errors surface on the next explicit Flush
	}
	al.bufferMu.Unlock()
}

// LogEntityBuilt records a document entity being constructed
func (al *AuditLogger) LogEntityBuilt(version, id, kind string, params int) {
	if !al.Enabled() {
		return
	}
	al.Log(AuditInfo, EventEntityBuilt, version, kind, id, map[string]interface{}{"params": params})
}

// LogValidation records the outcome of validating one entity
func (al *AuditLogger) LogValidation(id, kind string, errs ValidationErrors) {
	if !al.Enabled() {
		return
	}
	if len(errs) == 0 {
		al.Log(AuditInfo, EventEntityValidated, "", kind, id, nil)
		return
	}
	al.Log(AuditWarn, EventValidationFailed, "", kind, id, map[string]interface{}{
		"errors": len(errs),
		"paths":  errs.Paths(),
	})
}

// LogSchemaPublished records a kind frozen into a registry
func (al *AuditLogger) LogSchemaPublished(version, kind string, fingerprint uint64) {
	if !al.Enabled() {
		return
	}
	al.Log(AuditCritical, EventSchemaPublished, version, kind, "", map[string]interface{}{
		"fingerprint": fmt.Sprintf("%016x", fingerprint),
	})
}

// LogWireEncoded records an entity rendered to an output format
func (al *AuditLogger) LogWireEncoded(id, kind, format string, params int) {
	if !al.Enabled() {
		return
	}
	al.Log(AuditInfo, EventWireEncoded, "", kind, id, map[string]interface{}{
		"format": format,
		"params": params,
	})
}

// Stats returns backend statistics
func (al *AuditLogger) Stats() (*AuditStats, error) {
	if !al.Enabled() {
		return nil, errors.New(ErrCodeInvalidAuditConfig, "audit logging is disabled")
	}
	if err := al.Flush(); err != nil {
		return nil, err
	}
	return al.backend.GetStats()
}

// Flush immediately writes all buffered events
func (al *AuditLogger) Flush() error {
	if !al.Enabled() {
		return nil
	}
	al.bufferMu.Lock()
	defer al.bufferMu.Unlock()
	return al.flushBufferUnsafe()
}

// Close flushes pending events and releases the backend. Safe to call twice.
func (al *AuditLogger) Close() error {
	if al == nil {
		return nil
	}
	var err error
	al.closeOnce.Do(func() {
		close(al.stopCh)
		if al.flushTicker != nil {
			al.flushTicker.Stop()
		}
		if ferr := al.Flush(); ferr != nil {
			err = errors.Wrap(ferr, ErrCodeIOError, "failed to flush audit logger during close")
			return
		}
		if al.backend != nil {
			if cerr := al.backend.Close(); cerr != nil {
				err = errors.Wrap(cerr, ErrCodeIOError, "failed to close audit backend")
			}
		}
	})
	return err
}

func (al *AuditLogger) flushLoop() {
	for {
		select {
		case <-al.flushTicker.C:
			_ = al.Flush()
		case <-al.stopCh:
			return
		}
	}
}

// flushBufferUnsafe writes the buffer to the backend (caller holds bufferMu)
func (al *AuditLogger) flushBufferUnsafe() error {
	if len(al.buffer) == 0 {
		return nil
	}
	if err := al.backend.Write(al.buffer); err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write audit events to backend")
	}
	al.buffer = al.buffer[:0]
	return nil
}

// generateChecksum creates a tamper-detection checksum using SHA-256
func generateChecksum(event AuditEvent) string {
	ctx, _ := json.Marshal(event.Context) // map of scalars and string slices
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		event.Timestamp.Format(time.RFC3339Nano),
		event.Event, event.Version, event.Kind, event.EntityID, ctx)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// VerifyChecksum reports whether an event read back from storage is intact
func VerifyChecksum(event AuditEvent) bool {
	return event.Checksum == generateChecksum(event)
}

func getProcessName() string {
	if len(os.Args) > 0 && os.Args[0] != "" {
		return filepath.Base(os.Args[0])
	}
	return "themis"
}
