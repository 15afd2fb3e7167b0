// accessor.go: Typed field accessors over a ParameterStore
//
// Every field an entity kind declares is a small value bound to one wire key.
// Accessors convert between the domain type (string, bool, int, enum) and the
// stored string. Reads of malformed integers or enum values fail immediately
// with a *ConversionError; a missing value is never an error at read time.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agilira/go-errors"
)

// SecurePrefix marks keys whose values the server stores encrypted
const SecurePrefix = "secure:"

// Holder is anything backed by a ParameterStore: entities and compound variants.
type Holder interface {
	Params() *ParameterStore
}

// FieldType discriminates accessor kinds for descriptions and document assignment
type FieldType uint8

const (
	FieldString FieldType = iota
	FieldSecret
	FieldBool
	FieldInt
	FieldEnum
	FieldCompound
)

func (ft FieldType) String() string {
	switch ft {
	case FieldString:
		return "string"
	case FieldSecret:
		return "secret"
	case FieldBool:
		return "bool"
	case FieldInt:
		return "int"
	case FieldEnum:
		return "enum"
	case FieldCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Field is the declaration contract shared by all accessors. Kinds and
// variant specs list their fields explicitly; nothing is discovered at runtime.
type Field interface {
	// Name is the declared field name, also used as the validation path
	Name() string
	// Key is the wire key
	Key() string
	// Type reports the accessor kind
	Type() FieldType
	// Resolved reports whether a typed read produces a value (defaults count)
	Resolved(h Holder) bool
	// Assign writes a loosely typed value, as decoded from an entity document
	Assign(h Holder, value interface{}) error
}

// IsPlaceholder reports whether v is an unresolved server-side reference such
// as "%env.JDK_HOME%". Placeholders are stored verbatim by every accessor.
func IsPlaceholder(v string) bool {
	return len(v) > 2 && strings.HasPrefix(v, "%") && strings.HasSuffix(v, "%")
}

// signer is implemented by every accessor; the signature covers everything
// that shapes the wire output of a field.
type signer interface {
	signature() string
}

func fieldSignature(name, key string, ft FieldType, extra string) string {
	return name + "|" + key + "|" + ft.String() + "|" + extra + ";"
}

func signatureOf(f Field) string {
	if s, ok := f.(signer); ok {
		return s.signature()
	}
	return fieldSignature(f.Name(), f.Key(), f.Type(), "")
}

func keyOr(name string, key []string) string {
	if len(key) > 0 && key[0] != "" {
		return key[0]
	}
	return name
}

// ─── string ──────────────────────────────────────────────────────────────────

// StringParam is an identity accessor
type StringParam struct {
	name   string
	key    string
	def    *string
	secret bool
}

// String declares a string field; the key defaults to name
func String(name string, key ...string) StringParam {
	return StringParam{name: name, key: keyOr(name, key)}
}

// Secret declares a string field stored under a "secure:" key
func Secret(name string, key ...string) StringParam {
	k := keyOr(name, key)
	if !strings.HasPrefix(k, SecurePrefix) {
		k = SecurePrefix + k
	}
	return StringParam{name: name, key: k, secret: true}
}

// Default returns a copy that reads v when the key is absent
func (p StringParam) Default(v string) StringParam {
	p.def = &v
	return p
}

func (p StringParam) Name() string { return p.name }
func (p StringParam) Key() string  { return p.key }

func (p StringParam) Type() FieldType {
	if p.secret {
		return FieldSecret
	}
	return FieldString
}

// Get returns the stored value, the declared default, or absent
func (p StringParam) Get(h Holder) (string, bool) {
	if v, ok := h.Params().Get(p.key); ok {
		return v, true
	}
	if p.def != nil {
		return *p.def, true
	}
	return "", false
}

// Set stores v
func (p StringParam) Set(h Holder, v string) {
	h.Params().Set(p.key, v)
}

func (p StringParam) signature() string {
	def := ""
	if p.def != nil {
		def = "=" + *p.def
	}
	return fieldSignature(p.name, p.key, p.Type(), def)
}

func (p StringParam) Resolved(h Holder) bool {
	_, ok := p.Get(h)
	return ok
}

func (p StringParam) Assign(h Holder, value interface{}) error {
	switch v := value.(type) {
	case string:
		p.Set(h, v)
	case int, int64, float64, bool:
		p.Set(h, fmt.Sprintf("%v", v))
	default:
		return errors.New(ErrCodeInvalidDocument, fmt.Sprintf("field '%s': cannot assign %T to string", p.name, value))
	}
	return nil
}

// ─── bool ────────────────────────────────────────────────────────────────────

// BoolParam stores booleans as a configurable pair of sentinel strings
type BoolParam struct {
	name       string
	key        string
	trueValue  string
	falseValue string
}

// Bool declares a boolean field with sentinels ("true", "")
func Bool(name string, key ...string) BoolParam {
	return BoolParam{name: name, key: keyOr(name, key), trueValue: "true", falseValue: ""}
}

// Values returns a copy using the given sentinels
func (p BoolParam) Values(trueValue, falseValue string) BoolParam {
	p.trueValue = trueValue
	p.falseValue = falseValue
	return p
}

func (p BoolParam) Name() string    { return p.name }
func (p BoolParam) Key() string     { return p.key }
func (p BoolParam) Type() FieldType { return FieldBool }

// Sentinels returns the (true, false) wire strings
func (p BoolParam) Sentinels() (string, string) {
	return p.trueValue, p.falseValue
}

// Get compares the stored value with the sentinels. The second result is
// false when the key is absent or holds neither sentinel.
func (p BoolParam) Get(h Holder) (bool, bool) {
	raw, ok := h.Params().Get(p.key)
	if !ok {
		return false, false
	}
	switch raw {
	case p.trueValue:
		return true, true
	case p.falseValue:
		return false, true
	default:
		return false, false
	}
}

// Set stores the true or false sentinel
func (p BoolParam) Set(h Holder, v bool) {
	if v {
		h.Params().Set(p.key, p.trueValue)
		return
	}
	h.Params().Set(p.key, p.falseValue)
}

func (p BoolParam) signature() string {
	return fieldSignature(p.name, p.key, FieldBool, p.trueValue+"/"+p.falseValue)
}

func (p BoolParam) Resolved(h Holder) bool {
	_, ok := p.Get(h)
	return ok
}

func (p BoolParam) Assign(h Holder, value interface{}) error {
	switch v := value.(type) {
	case bool:
		p.Set(h, v)
	case string:
		if IsPlaceholder(v) {
			h.Params().Set(p.key, v)
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return newConversionError(p.name, p.key, v, "bool", err)
		}
		p.Set(h, b)
	default:
		return errors.New(ErrCodeInvalidDocument, fmt.Sprintf("field '%s': cannot assign %T to bool", p.name, value))
	}
	return nil
}

// ─── int ─────────────────────────────────────────────────────────────────────

// IntParam stores integers in decimal form
type IntParam struct {
	name string
	key  string
	def  *int
}

// Int declares an integer field
func Int(name string, key ...string) IntParam {
	return IntParam{name: name, key: keyOr(name, key)}
}

// Default returns a copy that reads v when the key is absent
func (p IntParam) Default(v int) IntParam {
	p.def = &v
	return p
}

func (p IntParam) Name() string    { return p.name }
func (p IntParam) Key() string     { return p.key }
func (p IntParam) Type() FieldType { return FieldInt }

// Get parses the stored value. A present but non-numeric value is a
// *ConversionError.
func (p IntParam) Get(h Holder) (int, bool, error) {
	raw, ok := h.Params().Get(p.key)
	if !ok {
		if p.def != nil {
			return *p.def, true, nil
		}
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, newConversionError(p.name, p.key, raw, "int", err)
	}
	return n, true, nil
}

// Set stores v in decimal
func (p IntParam) Set(h Holder, v int) {
	h.Params().Set(p.key, strconv.Itoa(v))
}

func (p IntParam) signature() string {
	def := ""
	if p.def != nil {
		def = "=" + strconv.Itoa(*p.def)
	}
	return fieldSignature(p.name, p.key, FieldInt, def)
}

func (p IntParam) Resolved(h Holder) bool {
	_, ok, err := p.Get(h)
	return ok && err == nil
}

func (p IntParam) Assign(h Holder, value interface{}) error {
	switch v := value.(type) {
	case int:
		p.Set(h, v)
	case int64:
		p.Set(h, int(v))
	case uint64:
		if v > math.MaxInt {
			return newConversionError(p.name, p.key, strconv.FormatUint(v, 10), "int", nil)
		}
		p.Set(h, int(v))
	case float64:
		if v != math.Trunc(v) {
			return newConversionError(p.name, p.key, strconv.FormatFloat(v, 'f', -1, 64), "int", nil)
		}
		p.Set(h, int(v))
	case string:
		if IsPlaceholder(v) {
			h.Params().Set(p.key, v)
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return newConversionError(p.name, p.key, v, "int", err)
		}
		p.Set(h, n)
	default:
		return errors.New(ErrCodeInvalidDocument, fmt.Sprintf("field '%s': cannot assign %T to int", p.name, value))
	}
	return nil
}

// ─── enum ────────────────────────────────────────────────────────────────────

// EnumParam maps a closed set of string-typed constants to wire strings.
// Variants without a mapping entry travel under their declared name.
type EnumParam[T ~string] struct {
	name     string
	key      string
	variants []T
	mapping  map[T]string
	def      *T
}

// Enum declares an enum field. key may be empty to default to name; mapping
// may be nil.
func Enum[T ~string](name, key string, variants []T, mapping map[T]string) EnumParam[T] {
	vs := make([]T, len(variants))
	copy(vs, variants)
	m := make(map[T]string, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return EnumParam[T]{name: name, key: keyOr(name, []string{key}), variants: vs, mapping: m}
}

// Default returns a copy that reads v when the key is absent
func (p EnumParam[T]) Default(v T) EnumParam[T] {
	p.def = &v
	return p
}

func (p EnumParam[T]) Name() string    { return p.name }
func (p EnumParam[T]) Key() string     { return p.key }
func (p EnumParam[T]) Type() FieldType { return FieldEnum }

// Variants returns the declared variants in order
func (p EnumParam[T]) Variants() []T {
	out := make([]T, len(p.variants))
	copy(out, p.variants)
	return out
}

// WireValue returns the wire string for v
func (p EnumParam[T]) WireValue(v T) string {
	if w, ok := p.mapping[v]; ok {
		return w
	}
	return string(v)
}

// Get maps the stored wire string back to a declared variant
func (p EnumParam[T]) Get(h Holder) (T, bool, error) {
	var zero T
	raw, ok := h.Params().Get(p.key)
	if !ok {
		if p.def != nil {
			return *p.def, true, nil
		}
		return zero, false, nil
	}
	for _, v := range p.variants {
		if p.WireValue(v) == raw {
			return v, true, nil
		}
	}
	return zero, false, newConversionError(p.name, p.key, raw, "enum", nil)
}

// Set stores the wire string for v
func (p EnumParam[T]) Set(h Holder, v T) {
	h.Params().Set(p.key, p.WireValue(v))
}

func (p EnumParam[T]) signature() string {
	parts := make([]string, 0, len(p.variants)+1)
	for _, v := range p.variants {
		parts = append(parts, string(v)+">"+p.WireValue(v))
	}
	if p.def != nil {
		parts = append(parts, "="+string(*p.def))
	}
	return fieldSignature(p.name, p.key, FieldEnum, strings.Join(parts, ","))
}

func (p EnumParam[T]) Resolved(h Holder) bool {
	_, ok, err := p.Get(h)
	return ok && err == nil
}

// Assign accepts a declared variant name or its wire string
func (p EnumParam[T]) Assign(h Holder, value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New(ErrCodeInvalidDocument, fmt.Sprintf("field '%s': cannot assign %T to enum", p.name, value))
	}
	if IsPlaceholder(s) {
		h.Params().Set(p.key, s)
		return nil
	}
	for _, v := range p.variants {
		if string(v) == s {
			p.Set(h, v)
			return nil
		}
	}
	for _, v := range p.variants {
		if p.WireValue(v) == s {
			p.Set(h, v)
			return nil
		}
	}
	return newConversionError(p.name, p.key, s, "enum", nil)
}
