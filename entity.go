// entity.go: Entity kinds and setting entities
//
// A Kind is the explicit declaration of one entity type: its wire type tag,
// the protected parameters it stamps on every instance, its fields and which
// of them are mandatory. An Entity is one configured instance owning a single
// ParameterStore.
//
// Construction order is load-bearing:
//  1. copy the base entity's store, if any (value snapshot)
//  2. apply the kind's fixed parameters, which always win over the base
//  3. run the init block, which may override any non-protected field
//
// After init the store is frozen.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"

	"github.com/agilira/go-errors"
)

// TypeKey is the wire key carrying the entity type tag
const TypeKey = "type"

// Kind declares an entity type within one version snapshot
type Kind struct {
	Name      string                           // DSL-facing name, unique within a version
	Type      string                           // wire discriminator written under TypeKey
	Fixed     []Pair                           // provider markers, protected like the type tag
	Fields    []Field                          // declared fields, including compounds
	Mandatory []string                         // field names reported by Validate when absent
	Check     func(e *Entity, c ErrorConsumer) // extra rules run after the mandatory checks
	Parent    *Kind                            // less specific kind, validated first
	BasedOn   bool                             // whether New accepts a base entity
}

// AllFields returns the parent chain's fields followed by the kind's own
func (k *Kind) AllFields() []Field {
	var out []Field
	if k.Parent != nil {
		out = append(out, k.Parent.AllFields()...)
	}
	return append(out, k.Fields...)
}

// Field looks a declared field up by name, searching the parent chain too
func (k *Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Name() == name {
			return f, true
		}
	}
	if k.Parent != nil {
		return k.Parent.Field(name)
	}
	return nil, false
}

// protectedKeys returns the type key followed by every fixed key
func (k *Kind) protectedKeys() []string {
	keys := make([]string, 0, len(k.Fixed)+1)
	keys = append(keys, TypeKey)
	for _, p := range k.Fixed {
		keys = append(keys, p.Key)
	}
	return keys
}

// validateDefinition rejects kinds that could never serialize consistently
func (k *Kind) validateDefinition() error {
	if k.Name == "" {
		return errors.New(ErrCodeInvalidKind, "kind name cannot be empty")
	}
	if k.Type == "" {
		return errors.New(ErrCodeInvalidKind, fmt.Sprintf("kind '%s' has no type tag", k.Name))
	}

	names := make(map[string]struct{})
	keys := map[string]struct{}{TypeKey: {}}
	for _, p := range k.Fixed {
		keys[p.Key] = struct{}{}
	}
	for _, f := range k.AllFields() {
		if _, dup := names[f.Name()]; dup {
			return errors.New(ErrCodeInvalidKind,
				fmt.Sprintf("kind '%s' declares field '%s' twice", k.Name, f.Name()))
		}
		names[f.Name()] = struct{}{}
		if _, dup := keys[f.Key()]; dup {
			return errors.New(ErrCodeInvalidKind,
				fmt.Sprintf("kind '%s': key '%s' of field '%s' is already bound", k.Name, f.Key(), f.Name()))
		}
		keys[f.Key()] = struct{}{}
	}
	for _, m := range k.Mandatory {
		if _, ok := names[m]; !ok {
			return errors.New(ErrCodeInvalidKind,
				fmt.Sprintf("kind '%s': mandatory field '%s' is not declared", k.Name, m))
		}
	}
	return nil
}

// New builds an entity. base may be nil; init may be nil. The returned error
// reports a rejected base or a write to a protected key inside init.
func (k *Kind) New(base *Entity, init func(e *Entity)) (*Entity, error) {
	if err := k.validateDefinition(); err != nil {
		return nil, err
	}

	e := &Entity{kind: k, store: NewParameterStore()}

	if base != nil {
		if !k.BasedOn {
			return nil, errors.New(ErrCodeBasedOnUnsupported,
				fmt.Sprintf("kind '%s' does not accept a base entity", k.Name))
		}
		if base.kind.Name != k.Name || base.kind.Type != k.Type {
			return nil, errors.New(ErrCodeKindMismatch,
				fmt.Sprintf("cannot base '%s' on '%s'", k.Name, base.kind.Name))
		}
		e.store.CopyFrom(base.store)
	}

	e.store.Set(TypeKey, k.Type)
	for _, p := range k.Fixed {
		e.store.Set(p.Key, p.Value)
	}
	e.store.Protect(k.protectedKeys()...)

	if init != nil {
		init(e)
	}
	e.store.Freeze()

	if err := e.store.Err(); err != nil {
		return nil, errors.Wrap(err, ErrCodeProtectedParam,
			fmt.Sprintf("initialization of '%s' failed", k.Name))
	}
	return e, nil
}

// Entity is one configured instance of a Kind
type Entity struct {
	kind  *Kind
	store *ParameterStore
}

// Kind returns the entity's declaration
func (e *Entity) Kind() *Kind { return e.kind }

// Params returns the owned store
func (e *Entity) Params() *ParameterStore { return e.store }

// Type returns the wire type tag
func (e *Entity) Type() string { return e.kind.Type }

// Param writes a raw parameter that no typed field covers
func (e *Entity) Param(key, value string) {
	e.store.Set(key, value)
}

// HasParam reports raw presence of key
func (e *Entity) HasParam(key string) bool {
	return e.store.Has(key)
}

// Err reports the sticky fault of a write attempted after initialization
func (e *Entity) Err() error {
	return e.store.Err()
}

// Wire flattens the entity into the ordered pair list sent to the server
func (e *Entity) Wire() ([]Pair, error) {
	if err := e.store.Err(); err != nil {
		return nil, err
	}
	return e.store.Entries(), nil
}
