// compound.go: Compound (tagged union) parameters
//
// A compound field holds exactly one of a closed set of variant shapes. Only
// the discriminator lives under the compound's own key; the variant's fields
// are ordinary keys in the owning entity's store. Reading resolves the
// discriminator against the declared catalog and returns a typed view over
// the owner's store.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
)

// VariantSpec declares one shape of a compound field
type VariantSpec struct {
	Tag       string
	Fields    []Field
	Mandatory []string                         // field names checked by Validate
	Check     func(v Variant, c ErrorConsumer) // extra per-variant rules, may be nil
}

// Field looks up a declared field by name
func (s *VariantSpec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Variant is the untyped view every typed variant embeds
type Variant struct {
	spec  *VariantSpec
	store *ParameterStore
}

// Tag returns the discriminator fixed at creation
func (v Variant) Tag() string { return v.spec.Tag }

// Params returns the store the variant's fields live in
func (v Variant) Params() *ParameterStore { return v.store }

// Spec returns the variant declaration
func (v Variant) Spec() *VariantSpec { return v.spec }

// VariantValue is implemented by typed variants through an embedded Variant
type VariantValue interface {
	Holder
	Tag() string
	Spec() *VariantSpec
}

// VariantCase binds a declaration to the typed wrapper constructor
type VariantCase[V VariantValue] struct {
	spec *VariantSpec
	wrap func(Variant) V
}

// Case declares one member of a compound's catalog
func Case[V VariantValue](spec *VariantSpec, wrap func(Variant) V) VariantCase[V] {
	return VariantCase[V]{spec: spec, wrap: wrap}
}

// CompoundParam is a field whose value is one variant of V
type CompoundParam[V VariantValue] struct {
	name  string
	key   string
	cases []VariantCase[V]
}

// Compound declares a compound field over a closed catalog; key defaults to name
func Compound[V VariantValue](name, key string, cases ...VariantCase[V]) CompoundParam[V] {
	cs := make([]VariantCase[V], len(cases))
	copy(cs, cases)
	return CompoundParam[V]{name: name, key: keyOr(name, []string{key}), cases: cs}
}

func (c CompoundParam[V]) Name() string    { return c.name }
func (c CompoundParam[V]) Key() string     { return c.key }
func (c CompoundParam[V]) Type() FieldType { return FieldCompound }

// Tags lists the declared discriminators in order
func (c CompoundParam[V]) Tags() []string {
	out := make([]string, len(c.cases))
	for i, vc := range c.cases {
		out[i] = vc.spec.Tag
	}
	return out
}

// Specs returns the declared variant shapes
func (c CompoundParam[V]) Specs() []*VariantSpec {
	out := make([]*VariantSpec, len(c.cases))
	for i, vc := range c.cases {
		out[i] = vc.spec
	}
	return out
}

func (c CompoundParam[V]) lookup(tag string) (VariantCase[V], bool) {
	for _, vc := range c.cases {
		if vc.spec.Tag == tag {
			return vc, true
		}
	}
	return VariantCase[V]{}, false
}

// New creates a fresh variant with its own scratch store. The discriminator
// is fixed by tag and cannot be changed afterwards.
func (c CompoundParam[V]) New(tag string) (V, error) {
	vc, ok := c.lookup(tag)
	if !ok {
		var zero V
		return zero, errors.New(ErrCodeUnknownVariant,
			fmt.Sprintf("compound '%s' has no variant '%s'", c.name, tag))
	}
	return vc.wrap(Variant{spec: vc.spec, store: NewParameterStore()}), nil
}

// MustNew is New for tags known to be in the catalog; it panics otherwise
func (c CompoundParam[V]) MustNew(tag string) V {
	v, err := c.New(tag)
	if err != nil {
		panic(err)
	}
	return v
}

// Set writes v's discriminator under the compound key and flattens v's
// fields into h's store. A nil or zero-value variant writes nothing and
// records a store fault instead.
func (c CompoundParam[V]) Set(h Holder, v V) {
	dst := h.Params()
	if any(v) == nil || v.Spec() == nil || v.Params() == nil {
		dst.fail(errors.New(ErrCodeUnknownVariant,
			fmt.Sprintf("compound '%s' was given a variant not created by New", c.name)))
		return
	}
	dst.Set(c.key, v.Tag())
	if src := v.Params(); src != dst {
		dst.CopyFrom(src)
	}
}

// Get resolves the stored discriminator. An absent key or a tag outside the
// catalog yields (zero, false).
func (c CompoundParam[V]) Get(h Holder) (V, bool) {
	var zero V
	tag, ok := h.Params().Get(c.key)
	if !ok {
		return zero, false
	}
	vc, ok := c.lookup(tag)
	if !ok {
		return zero, false
	}
	return vc.wrap(Variant{spec: vc.spec, store: h.Params()}), true
}

func (c CompoundParam[V]) Resolved(h Holder) bool {
	_, ok := c.Get(h)
	return ok
}

// Assign accepts {"variant": tag, "fields": {name: value}} from a document
func (c CompoundParam[V]) Assign(h Holder, value interface{}) error {
	m, ok := value.(map[string]interface{})
	if !ok {
		return errors.New(ErrCodeInvalidDocument,
			fmt.Sprintf("compound '%s': expected a mapping with 'variant', got %T", c.name, value))
	}
	tag, ok := m["variant"].(string)
	if !ok {
		return errors.New(ErrCodeInvalidDocument, fmt.Sprintf("compound '%s': missing 'variant'", c.name))
	}
	v, err := c.New(tag)
	if err != nil {
		return err
	}
	if raw, present := m["fields"]; present && raw != nil {
		fields, ok := raw.(map[string]interface{})
		if !ok {
			return errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("compound '%s': 'fields' must be a mapping", c.name))
		}
		for _, name := range sortedKeys(fields) {
			f, ok := v.Spec().Field(name)
			if !ok {
				return errors.New(ErrCodeUnknownField,
					fmt.Sprintf("variant '%s' of '%s' has no field '%s'", tag, c.name, name))
			}
			if err := f.Assign(v, fields[name]); err != nil {
				return err
			}
		}
	}
	c.Set(h, v)
	return nil
}

// resolveVariant gives the validator an untyped view of the active variant
func (c CompoundParam[V]) resolveVariant(h Holder) (Variant, bool) {
	tag, ok := h.Params().Get(c.key)
	if !ok {
		return Variant{}, false
	}
	vc, ok := c.lookup(tag)
	if !ok {
		return Variant{}, false
	}
	return Variant{spec: vc.spec, store: h.Params()}, true
}

// clone deep-copies the catalog so a published snapshot cannot be mutated
// through a spec pointer held by the caller.
func (c CompoundParam[V]) clone() Field {
	cs := make([]VariantCase[V], len(c.cases))
	for i, vc := range c.cases {
		spec := *vc.spec
		spec.Fields = append([]Field(nil), vc.spec.Fields...)
		spec.Mandatory = append([]string(nil), vc.spec.Mandatory...)
		cs[i] = VariantCase[V]{spec: &spec, wrap: vc.wrap}
	}
	c.cases = cs
	return c
}

func (c CompoundParam[V]) signature() string {
	var b strings.Builder
	b.WriteString(fieldSignature(c.name, c.key, FieldCompound, ""))
	for _, vc := range c.cases {
		b.WriteString("{" + vc.spec.Tag)
		for _, f := range vc.spec.Fields {
			b.WriteString(signatureOf(f))
		}
		b.WriteString("!" + strings.Join(vc.spec.Mandatory, ",") + "}")
	}
	return b.String()
}

// compoundField is satisfied by every CompoundParam instantiation
type compoundField interface {
	Field
	resolveVariant(h Holder) (Variant, bool)
	Specs() []*VariantSpec
	clone() Field
}
