// entity_test.go: Tests for kinds and entity construction
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import "testing"

func TestKindNew_ConstructionOrder(t *testing.T) {
	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		portField.Set(e, 5432)
		hostField.Set(e, "db")
	})

	pairs, err := e.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	if got := wireKeys(pairs); got != "type,providerType,port,host" {
		t.Errorf("wire keys = %s", got)
	}
	if pairs[0].Value != "service-connection" || pairs[1].Value != "svc" {
		t.Errorf("protected values = %v", pairs[:2])
	}
	if e.Type() != "service-connection" || e.Kind().Name != "Service" {
		t.Errorf("Type/Kind = %s/%s", e.Type(), e.Kind().Name)
	}
	if !e.Params().Frozen() {
		t.Error("store must be frozen after construction")
	}
}

func TestKindNew_BasedOnPrecedence(t *testing.T) {
	kind := newServiceKind()
	base := mustBuild(t, kind, nil, func(e *Entity) {
		hostField.Set(e, "base-host")
		portField.Set(e, 1)
		tlsField.Set(e, true)
	})

	derived := mustBuild(t, kind, base, func(e *Entity) {
		portField.Set(e, 2)
	})

	if v, _ := hostField.Get(derived); v != "base-host" {
		t.Errorf("host not inherited: %q", v)
	}
	if v, _, _ := portField.Get(derived); v != 2 {
		t.Errorf("init must override the base: port = %d", v)
	}
	if v, _, _ := portField.Get(base); v != 1 {
		t.Errorf("base changed by derived init: port = %d", v)
	}
	if got := wireKeys(derived.Params().Entries()); got != "type,providerType,host,port,use.tls" {
		t.Errorf("derived wire keys = %s", got)
	}
}

func TestKindNew_Rejections(t *testing.T) {
	kind := newServiceKind()
	base := mustBuild(t, kind, nil, nil)

	noBase := newServiceKind()
	noBase.BasedOn = false

	other := newServiceKind()
	other.Name = "OtherService"

	tests := []struct {
		name     string
		kind     *Kind
		base     *Entity
		init     func(e *Entity)
		wantCode string
	}{
		{"based-on unsupported", noBase, base, nil, ErrCodeBasedOnUnsupported},
		{"kind mismatch", other, base, nil, ErrCodeKindMismatch},
		{"type key write", kind, nil, func(e *Entity) { e.Param(TypeKey, "x") }, ErrCodeProtectedParam},
		{"fixed key write", kind, nil, func(e *Entity) { e.Param("providerType", "x") }, ErrCodeProtectedParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.kind.New(tt.base, tt.init)
			if ErrorCode(err) != tt.wantCode {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestEntity_WriteAfterConstruction(t *testing.T) {
	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		hostField.Set(e, "db")
	})

	hostField.Set(e, "changed")
	if v, _ := hostField.Get(e); v != "db" {
		t.Errorf("frozen entity changed: host = %q", v)
	}
	if ErrorCode(e.Err()) != ErrCodeFrozenStore {
		t.Fatalf("Err() = %v, want %s", e.Err(), ErrCodeFrozenStore)
	}
	if _, err := e.Wire(); err == nil {
		t.Error("Wire must fail once a write was rejected")
	}

	var errs ValidationErrors
	Validate(e, &errs)
	if len(errs) == 0 || errs[0].Path != "parameters" {
		t.Errorf("validation should surface the sticky fault first: %v", errs)
	}
}

func TestKindDefinition(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(k *Kind)
	}{
		{"empty name", func(k *Kind) { k.Name = "" }},
		{"empty type", func(k *Kind) { k.Type = "" }},
		{"duplicate field", func(k *Kind) { k.Fields = append(k.Fields, String("host", "other.host")) }},
		{"duplicate key", func(k *Kind) { k.Fields = append(k.Fields, String("hostAlias", "host")) }},
		{"field on fixed key", func(k *Kind) { k.Fields = append(k.Fields, String("provider", "providerType")) }},
		{"undeclared mandatory", func(k *Kind) { k.Mandatory = append(k.Mandatory, "missing") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := newServiceKind()
			tt.mutate(k)
			if _, err := k.New(nil, nil); ErrorCode(err) != ErrCodeInvalidKind {
				t.Errorf("error = %v, want %s", err, ErrCodeInvalidKind)
			}
		})
	}
}

func TestKind_ParentChain(t *testing.T) {
	parent := &Kind{Name: "Base", Type: "base", Fields: []Field{String("name")}, Mandatory: []string{"name"}}
	child := &Kind{Name: "Child", Type: "child", Parent: parent, Fields: []Field{String("extra")}}

	if len(child.AllFields()) != 2 || child.AllFields()[0].Name() != "name" {
		t.Errorf("AllFields() = %v", child.AllFields())
	}
	if _, ok := child.Field("name"); !ok {
		t.Error("Field must search the parent chain")
	}

	e := mustBuild(t, child, nil, nil)
	var errs ValidationErrors
	Validate(e, &errs)
	if len(errs) != 1 || errs[0].Path != "name" {
		t.Errorf("parent mandatory not reported: %v", errs)
	}
}
