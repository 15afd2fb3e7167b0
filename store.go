// store.go: Ordered parameter store backing every themis entity
//
// The store is the flat key/value bag that is eventually sent to the server.
// It distinguishes three states per key: absent, present with an empty value,
// and present with a value. Keys keep their first insertion position; a later
// write replaces the value in place.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"github.com/agilira/go-errors"
)

// Pair is a single wire parameter
type Pair struct {
	Key   string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ParameterStore is an insertion-ordered string map with explicit presence.
// It is not safe for concurrent mutation; entities own their store exclusively.
type ParameterStore struct {
	keys      []string
	values    map[string]string
	protected map[string]struct{}
	frozen    bool
	err       error // first rejected write
}

// NewParameterStore creates an empty store
func NewParameterStore() *ParameterStore {
	return &ParameterStore{
		keys:   make([]string, 0, 8),
		values: make(map[string]string, 8),
	}
}

// Get returns the stored value and whether the key is present
func (s *ParameterStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports presence, including keys explicitly set to ""
func (s *ParameterStore) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set writes a value; last write wins. Writes to a frozen store or to a
// protected key are dropped and the first such attempt is kept as the store's
// sticky error.
func (s *ParameterStore) Set(key, value string) {
	if s.frozen {
		s.fail(errors.New(ErrCodeFrozenStore, "parameter '"+key+"' written after initialization"))
		return
	}
	if _, ok := s.protected[key]; ok {
		s.fail(errors.New(ErrCodeProtectedParam, "parameter '"+key+"' is fixed by the entity kind"))
		return
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// CopyFrom overwrites this store with every entry of other. Existing keys keep
// their position, new keys are appended in other's order. The copy is a value
// snapshot: later writes to other are not observed.
func (s *ParameterStore) CopyFrom(other *ParameterStore) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.values[k])
	}
}

// Entries returns an ordered copy of all pairs
func (s *ParameterStore) Entries() []Pair {
	out := make([]Pair, len(s.keys))
	for i, k := range s.keys {
		out[i] = Pair{Key: k, Value: s.values[k]}
	}
	return out
}

// Keys returns the keys in insertion order
func (s *ParameterStore) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys
func (s *ParameterStore) Len() int {
	return len(s.keys)
}

// Clone returns an independent, unfrozen and unprotected copy
func (s *ParameterStore) Clone() *ParameterStore {
	c := NewParameterStore()
	c.CopyFrom(s)
	return c
}

// Protect rejects any further write to the given keys
func (s *ParameterStore) Protect(keys ...string) {
	if s.protected == nil {
		s.protected = make(map[string]struct{}, len(keys))
	}
	for _, k := range keys {
		s.protected[k] = struct{}{}
	}
}

// Freeze makes the store read-only
func (s *ParameterStore) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze was called
func (s *ParameterStore) Frozen() bool {
	return s.frozen
}

// Err returns the sticky fault recorded by writes after Freeze, if any
func (s *ParameterStore) Err() error {
	return s.err
}

// fail records a fault without mutating the store
func (s *ParameterStore) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}
