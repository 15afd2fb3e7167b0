// store_test.go: Tests for the ordered parameter store
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import "testing"

func TestParameterStore_InsertionOrder(t *testing.T) {
	s := NewParameterStore()
	s.Set("b", "1")
	s.Set("a", "2")
	s.Set("c", "3")
	s.Set("b", "updated")

	if got := wireKeys(s.Entries()); got != "b,a,c" {
		t.Errorf("order = %s, want b,a,c", got)
	}
	if v, _ := s.Get("b"); v != "updated" {
		t.Errorf("b = %q, want updated", v)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestParameterStore_Presence(t *testing.T) {
	s := NewParameterStore()
	s.Set("empty", "")

	tests := []struct {
		key       string
		wantValue string
		wantOK    bool
	}{
		{"empty", "", true},
		{"missing", "", false},
	}
	for _, tt := range tests {
		v, ok := s.Get(tt.key)
		if v != tt.wantValue || ok != tt.wantOK {
			t.Errorf("Get(%q) = (%q, %v), want (%q, %v)", tt.key, v, ok, tt.wantValue, tt.wantOK)
		}
		if s.Has(tt.key) != tt.wantOK {
			t.Errorf("Has(%q) = %v", tt.key, !tt.wantOK)
		}
	}
}

func TestParameterStore_CopyIsSnapshot(t *testing.T) {
	src := NewParameterStore()
	src.Set("x", "1")
	src.Set("y", "2")

	dst := NewParameterStore()
	dst.Set("y", "old")
	dst.Set("z", "3")
	dst.CopyFrom(src)

	if got := wireKeys(dst.Entries()); got != "y,z,x" {
		t.Errorf("order after CopyFrom = %s, want y,z,x", got)
	}
	if v, _ := dst.Get("y"); v != "2" {
		t.Errorf("y = %q, want 2", v)
	}

	src.Set("x", "changed")
	src.Set("w", "new")
	if v, _ := dst.Get("x"); v != "1" {
		t.Errorf("copy observed a later source write: x = %q", v)
	}
	if dst.Has("w") {
		t.Error("copy observed a key added to the source later")
	}

	clone := dst.Clone()
	clone.Set("x", "clone")
	if v, _ := dst.Get("x"); v != "1" {
		t.Errorf("clone write leaked into the original: x = %q", v)
	}
}

func TestParameterStore_ProtectedAndFrozen(t *testing.T) {
	s := NewParameterStore()
	s.Set("type", "t")
	s.Protect("type")

	s.Set("type", "other")
	if v, _ := s.Get("type"); v != "t" {
		t.Errorf("protected key changed to %q", v)
	}
	if ErrorCode(s.Err()) != ErrCodeProtectedParam {
		t.Fatalf("Err() = %v, want %s", s.Err(), ErrCodeProtectedParam)
	}

	s.Set("free", "ok")
	s.Freeze()
	s.Set("late", "v")
	if s.Has("late") {
		t.Error("write after Freeze was stored")
	}
	if !s.Frozen() {
		t.Error("Frozen() = false after Freeze")
	}
	if ErrorCode(s.Err()) != ErrCodeProtectedParam {
		t.Errorf("sticky error replaced: %v", s.Err())
	}

	clone := s.Clone()
	clone.Set("type", "rewritten")
	if clone.Err() != nil || clone.Frozen() {
		t.Error("Clone must be unprotected and unfrozen")
	}
}
