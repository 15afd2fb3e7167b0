// validator.go: Collect-all validation of entities and compound variants
//
// Validation never stops at the first problem and never returns a Go error:
// every violation is handed to an ErrorConsumer as a dotted field path plus a
// message. A mandatory field is reported only when its typed value does not
// resolve AND its raw key is absent, so a placeholder or an unparseable value
// still counts as specified.
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

// ValidationError is one reported problem
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (ve ValidationError) String() string {
	return ve.Path + ": " + ve.Message
}

// ErrorConsumer receives validation problems
type ErrorConsumer interface {
	ConsumePropertyError(path, message string)
}

// ValidationErrors collects every reported problem in order
type ValidationErrors []ValidationError

// ConsumePropertyError implements ErrorConsumer
func (ve *ValidationErrors) ConsumePropertyError(path, message string) {
	*ve = append(*ve, ValidationError{Path: path, Message: message})
}

// Paths returns the reported field paths in order
func (ve ValidationErrors) Paths() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Path
	}
	return out
}

// String returns a human-readable summary
func (ve ValidationErrors) String() string {
	if len(ve) == 0 {
		return "Entity is valid"
	}
	lines := make([]string, 0, len(ve)+1)
	lines = append(lines, fmt.Sprintf("Entity is invalid: %d error(s)", len(ve)))
	for _, e := range ve {
		lines = append(lines, "  "+e.String())
	}
	return strings.Join(lines, "\n")
}

// Err folds the collected problems into one coded error, or nil
func (ve ValidationErrors) Err() error {
	if len(ve) == 0 {
		return nil
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return errors.New(ErrCodeValidation, strings.Join(msgs, "; "))
}

// prefixConsumer nests reported paths under a compound field name
type prefixConsumer struct {
	prefix string
	next   ErrorConsumer
}

func (pc prefixConsumer) ConsumePropertyError(path, message string) {
	pc.next.ConsumePropertyError(pc.prefix+"."+path, message)
}

// WithPrefix returns a consumer that reports "prefix.path" to next
func WithPrefix(prefix string, next ErrorConsumer) ErrorConsumer {
	return prefixConsumer{prefix: prefix, next: next}
}

// MandatoryMessage is the text reported for an unspecified mandatory field
func MandatoryMessage(path string) string {
	return fmt.Sprintf("mandatory '%s' property is not specified", path)
}

// Unspecified reports whether f has neither a resolved value nor a raw key
func Unspecified(h Holder, f Field) bool {
	return !f.Resolved(h) && !h.Params().Has(f.Key())
}

// Validate checks e against its kind chain: parent kinds first, then the
// kind's own mandatory fields, its Check hook, and finally the active variant
// of every compound field.
func Validate(e *Entity, consumer ErrorConsumer) {
	if err := e.Err(); err != nil {
		consumer.ConsumePropertyError("parameters", err.Error())
	}
	validateKind(e.kind, e, consumer)
}

func validateKind(k *Kind, e *Entity, consumer ErrorConsumer) {
	if k.Parent != nil {
		validateKind(k.Parent, e, consumer)
	}

	checkMandatory(e, k.AllFields(), k.Mandatory, consumer)

	if k.Check != nil {
		k.Check(e, consumer)
	}

	for _, f := range k.Fields {
		cf, ok := f.(compoundField)
		if !ok {
			continue
		}
		if v, ok := cf.resolveVariant(e); ok {
			validateVariant(v, WithPrefix(cf.Name(), consumer))
		}
	}
}

func validateVariant(v Variant, consumer ErrorConsumer) {
	checkMandatory(v, v.spec.Fields, v.spec.Mandatory, consumer)
	if v.spec.Check != nil {
		v.spec.Check(v, consumer)
	}
}

// checkMandatory reports every unspecified mandatory field. Messages carry
// the full dotted path, which the prefix consumer supplies for variants.
func checkMandatory(h Holder, fields []Field, mandatory []string, consumer ErrorConsumer) {
	for _, name := range mandatory {
		f := findField(fields, name)
		if f == nil || !Unspecified(h, f) {
			continue
		}
		consumer.ConsumePropertyError(name, MandatoryMessage(fullPath(consumer, name)))
	}
}

func findField(fields []Field, name string) Field {
	for _, f := range fields {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// fullPath rebuilds the dotted path a consumer chain will report for name
func fullPath(consumer ErrorConsumer, name string) string {
	path := name
	for {
		pc, ok := consumer.(prefixConsumer)
		if !ok {
			return path
		}
		path = pc.prefix + "." + path
		consumer = pc.next
	}
}
