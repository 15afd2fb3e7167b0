// audit_backend.go: Storage backends for the themis audit trail
//
// Two backends implement the same contract. SQLite is the default and keeps
// a schema-versioned, queryable table of events; JSONL is selected by a
// ".jsonl" output file and appends one JSON object per line. When SQLite
// cannot be opened the logger falls back to JSONL next to the requested file.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

// auditBackend abstracts audit storage
type auditBackend interface {
	// Write persists a batch of events; implementations are safe for concurrent use
	Write(events []AuditEvent) error
	// Flush commits pending writes
	Flush() error
	// Close releases resources; the backend is unusable afterwards
	Close() error
	// GetStats summarizes stored events
	GetStats() (*AuditStats, error)
}

// AuditStats summarizes the stored audit trail
type AuditStats struct {
	Backend        string           `json:"backend"`
	Path           string           `json:"path"`
	TotalEvents    int64            `json:"total_events"`
	EventsByLevel  map[string]int64 `json:"events_by_level"`
	EventsByName   map[string]int64 `json:"events_by_name"`
	EventsByKind   map[string]int64 `json:"events_by_kind"`
	OldestEvent    *time.Time       `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time       `json:"newest_event,omitempty"`
	StorageSize    int64            `json:"storage_size_bytes"`
	SchemaVersion  int              `json:"schema_version"`
	CorruptedLines int64            `json:"corrupted_lines,omitempty"`
}

func newAuditStats(backend, path string) *AuditStats {
	return &AuditStats{
		Backend:       backend,
		Path:          path,
		EventsByLevel: make(map[string]int64),
		EventsByName:  make(map[string]int64),
		EventsByKind:  make(map[string]int64),
	}
}

// createAuditBackend selects a backend from the configured output file
func createAuditBackend(config AuditConfig) (auditBackend, error) {
	if config.OutputFile != "" && strings.EqualFold(filepath.Ext(config.OutputFile), ".jsonl") {
		return newJSONLBackend(config.OutputFile)
	}

	backend, err := newSQLiteBackend(config)
	if err == nil {
		return backend, nil
	}

	fallback := getUnifiedAuditPath()
	if config.OutputFile != "" {
		fallback = strings.TrimSuffix(config.OutputFile, filepath.Ext(config.OutputFile))
	} else {
		fallback = strings.TrimSuffix(fallback, filepath.Ext(fallback))
	}
	jsonlBackend, jsonlErr := newJSONLBackend(fallback + ".jsonl")
	if jsonlErr != nil {
		return nil, fmt.Errorf("all audit backends failed - SQLite: %w, JSONL: %v", err, jsonlErr)
	}
	return jsonlBackend, nil
}

// getUnifiedAuditPath is the shared database used when no output file is set
func getUnifiedAuditPath() string {
	return filepath.Join(os.TempDir(), "themis", "audit.db")
}

// ─── SQLite ──────────────────────────────────────────────────────────────────

const sqliteSchemaVersion = 2

type sqliteAuditBackend struct {
	db         *sql.DB
	dbPath     string
	insertStmt *sql.Stmt
	mu         sync.RWMutex
	closed     bool
}

func newSQLiteBackend(config AuditConfig) (*sqliteAuditBackend, error) {
	dbPath := getUnifiedAuditPath()
	if config.OutputFile != "" {
		dbPath = config.OutputFile
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create audit database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	s := &sqliteAuditBackend{db: db, dbPath: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize audit database schema: %w", err)
	}

	stmt, err := db.Prepare(`
	INSERT INTO audit_events (
		timestamp, level, event, component, version, kind, entity_id,
		process_id, process_name, context, checksum
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare audit insert statement: %w", err)
	}
	s.insertStmt = stmt
	return s, nil
}

// migrate brings the schema to sqliteSchemaVersion in one transaction
func (s *sqliteAuditBackend) migrate() error {
	if _, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_info (
		version INTEGER PRIMARY KEY,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("failed to create schema_info table: %w", err)
	}

	var version int
	err := s.db.QueryRow("SELECT version FROM schema_info ORDER BY version DESC LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version >= sqliteSchemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	for v := version; v < sqliteSchemaVersion; v++ {
		var stmts []string
		switch v {
		case 0:
			stmts = []string{
				`CREATE TABLE IF NOT EXISTS audit_events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					timestamp TEXT NOT NULL,
					level TEXT NOT NULL,
					event TEXT NOT NULL,
					component TEXT NOT NULL,
					version TEXT,
					kind TEXT,
					entity_id TEXT,
					process_id INTEGER NOT NULL,
					process_name TEXT NOT NULL,
					context TEXT,
					checksum TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				"CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_events(timestamp)",
				"CREATE INDEX IF NOT EXISTS idx_audit_level ON audit_events(level)",
			}
		case 1:
			stmts = []string{
				"CREATE INDEX IF NOT EXISTS idx_audit_event_time ON audit_events(event, timestamp)",
				"CREATE INDEX IF NOT EXISTS idx_audit_version_kind ON audit_events(version, kind)",
			}
		}
		for _, q := range stmts {
			if _, err := tx.Exec(q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration to v%d failed: %w", v+1, err)
			}
		}
	}
	if _, err := tx.Exec("INSERT OR REPLACE INTO schema_info (version, updated_at) VALUES (?, CURRENT_TIMESTAMP)",
		sqliteSchemaVersion); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return tx.Commit()
}

func (s *sqliteAuditBackend) Write(events []AuditEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("cannot write to closed SQLite audit backend")
	}
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin audit transaction: %w", err)
	}
	stmt := tx.Stmt(s.insertStmt)
	defer func() { _ = stmt.Close() }()

	for _, event := range events {
		contextJSON := ""
		if event.Context != nil {
			data, err := json.Marshal(event.Context)
			if err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to serialize audit context: %w", err)
			}
			contextJSON = string(data)
		}
		if _, err := stmt.Exec(
			event.Timestamp.Format(time.RFC3339Nano),
			event.Level.String(),
			event.Event,
			event.Component,
			event.Version,
			event.Kind,
			event.EntityID,
			event.ProcessID,
			event.ProcessName,
			contextJSON,
			event.Checksum,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert audit event: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit transaction: %w", err)
	}
	return nil
}

func (s *sqliteAuditBackend) Flush() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to flush SQLite audit backend: %w", err)
	}
	return nil
}

func (s *sqliteAuditBackend) GetStats() (*AuditStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("SQLite audit backend is closed")
	}

	stats := newAuditStats("sqlite", s.dbPath)
	if err := s.db.QueryRow("SELECT COUNT(*) FROM audit_events").Scan(&stats.TotalEvents); err != nil {
		return nil, fmt.Errorf("failed to count audit events: %w", err)
	}
	groups := []struct {
		column string
		into   map[string]int64
	}{
		{"level", stats.EventsByLevel},
		{"event", stats.EventsByName},
		{"kind", stats.EventsByKind},
	}
	for _, g := range groups {
		if err := s.countBy(g.column, g.into); err != nil {
			return nil, err
		}
	}

	var oldest, newest sql.NullString
	if err := s.db.QueryRow("SELECT MIN(timestamp), MAX(timestamp) FROM audit_events").Scan(&oldest, &newest); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read audit time range: %w", err)
	}
	stats.OldestEvent = parseStoredTime(oldest)
	stats.NewestEvent = parseStoredTime(newest)

	if err := s.db.QueryRow("SELECT version FROM schema_info ORDER BY version DESC LIMIT 1").Scan(&stats.SchemaVersion); err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	if info, err := os.Stat(s.dbPath); err == nil {
		stats.StorageSize = info.Size()
	}
	return stats, nil
}

// countBy groups events by a fixed column name; never called with user input
func (s *sqliteAuditBackend) countBy(column string, into map[string]int64) error {
	rows, err := s.db.Query("SELECT COALESCE(" + column + ", ''), COUNT(*) FROM audit_events GROUP BY " + column) // #nosec G202
	if err != nil {
		return fmt.Errorf("failed to group audit events by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s stats: %w", column, err)
		}
		if key != "" {
			into[key] = count
		}
	}
	return rows.Err()
}

func parseStoredTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

// Close checkpoints the WAL and releases the database. Safe to call twice.
func (s *sqliteAuditBackend) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []string
	if s.insertStmt != nil {
		if err := s.insertStmt.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing SQLite audit backend: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ─── JSONL ───────────────────────────────────────────────────────────────────

type jsonlAuditBackend struct {
	file   *os.File
	path   string
	mu     sync.Mutex
	closed bool
}

func newJSONLBackend(path string) (*jsonlAuditBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create JSONL audit log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- configured audit path
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL audit log file: %w", err)
	}
	return &jsonlAuditBackend{file: file, path: path}, nil
}

func (j *jsonlAuditBackend) Write(events []AuditEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return fmt.Errorf("cannot write to closed JSONL audit backend")
	}

	w := bufio.NewWriter(j.file)
	enc := json.NewEncoder(w)
	for _, event := range events {
		if err := enc.Encode(event); err != nil {
			return fmt.Errorf("failed to write audit event to JSONL: %w", err)
		}
	}
	return w.Flush()
}

func (j *jsonlAuditBackend) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync JSONL audit file: %w", err)
	}
	return nil
}

// GetStats scans the whole file. Lines that do not decode are counted as
// corrupted rather than failing the scan.
func (j *jsonlAuditBackend) GetStats() (*AuditStats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	stats := newAuditStats("jsonl", j.path)
	stats.SchemaVersion = 1

	f, err := os.Open(j.path) // #nosec G304 -- configured audit path
	if err != nil {
		return nil, fmt.Errorf("failed to open JSONL audit file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if info, err := f.Stat(); err == nil {
		stats.StorageSize = info.Size()
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev AuditEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			stats.CorruptedLines++
			continue
		}
		stats.TotalEvents++
		stats.EventsByLevel[ev.Level.String()]++
		stats.EventsByName[ev.Event]++
		if ev.Kind != "" {
			stats.EventsByKind[ev.Kind]++
		}
		ts := ev.Timestamp
		if stats.OldestEvent == nil || ts.Before(*stats.OldestEvent) {
			stats.OldestEvent = &ts
		}
		if stats.NewestEvent == nil || ts.After(*stats.NewestEvent) {
			stats.NewestEvent = &ts
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan JSONL audit file: %w", err)
	}
	return stats, nil
}

func (j *jsonlAuditBackend) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.file.Close()
}
