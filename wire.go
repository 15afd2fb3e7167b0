// wire.go: Wire encoders for setting entities
//
// The wire form of an entity is its ordered parameter list. Encoders render
// that list without reordering it:
//   - JSON: the server's parameters document, {"type", "properties": {"count", "property": [...]}}
//   - YAML: an ordered mapping built as a yaml.Node tree
//   - Properties: key=value lines with Java-style escaping
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// Format selects an encoding for entities and documents
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatProperties
	FormatUnknown
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatProperties:
		return "properties"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name (case-insensitive) to a Format
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	case "properties", "props":
		return FormatProperties
	default:
		return FormatUnknown
	}
}

// DetectFormat infers the format of a file from its extension
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".properties"):
		return FormatProperties
	default:
		return FormatUnknown
	}
}

// MaskedValue replaces secret values in display output
const MaskedValue = "********"

// Masked returns a copy of pairs with every non-empty "secure:" value
// replaced by MaskedValue. Placeholders are left readable.
func Masked(pairs []Pair) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		if strings.HasPrefix(p.Key, SecurePrefix) && p.Value != "" && !IsPlaceholder(p.Value) {
			p.Value = MaskedValue
		}
		out[i] = p
	}
	return out
}

// parametersDocument mirrors the server's parameters payload
type parametersDocument struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	Properties propertiesList `json:"properties"`
}

type propertiesList struct {
	Count    int    `json:"count"`
	Property []Pair `json:"property"`
}

// Encoder writes entities to an output stream in one format
type Encoder struct {
	w      io.Writer
	format Format
	mask   bool
	audit  *AuditLogger
	count  int
}

// NewEncoder returns an encoder writing to w
func NewEncoder(w io.Writer, format Format) *Encoder {
	return &Encoder{w: w, format: format}
}

// MaskSecrets enables masking of "secure:" values
func (enc *Encoder) MaskSecrets(on bool) *Encoder {
	enc.mask = on
	return enc
}

// WithAudit records a wire_encoded event per entity
func (enc *Encoder) WithAudit(al *AuditLogger) *Encoder {
	enc.audit = al
	return enc
}

// Encode writes one entity. id is optional and only used as a label.
func (enc *Encoder) Encode(id string, e *Entity) error {
	if e == nil {
		return errors.New(ErrCodeInvalidDocument, "cannot encode a nil entity")
	}
	pairs, err := e.Wire()
	if err != nil {
		return err
	}
	if enc.mask {
		pairs = Masked(pairs)
	}

	switch enc.format {
	case FormatJSON:
		err = enc.encodeJSON(id, e.Type(), pairs)
	case FormatYAML:
		err = enc.encodeYAML(id, e.Type(), pairs)
	case FormatProperties:
		err = enc.encodeProperties(id, e.Type(), pairs)
	default:
		return errors.New(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported wire format: %s", enc.format))
	}
	if err != nil {
		return errors.Wrap(err, ErrCodeIOError, "failed to write entity")
	}
	enc.count++
	enc.audit.LogWireEncoded(id, e.Kind().Name, enc.format.String(), len(pairs))
	return nil
}

func (enc *Encoder) encodeJSON(id, typ string, pairs []Pair) error {
	doc := parametersDocument{
		ID:         id,
		Type:       typ,
		Properties: propertiesList{Count: len(pairs), Property: pairs},
	}
	je := json.NewEncoder(enc.w)
	je.SetIndent("", "  ")
	return je.Encode(doc)
}

func (enc *Encoder) encodeYAML(id, typ string, pairs []Pair) error {
	if enc.count > 0 {
		if _, err := io.WriteString(enc.w, "---\n"); err != nil {
			return err
		}
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	if id != "" {
		root.Content = append(root.Content, yamlScalar("id"), yamlScalar(id))
	}
	props := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range pairs {
		props.Content = append(props.Content, yamlScalar(p.Key), yamlScalar(p.Value))
	}
	root.Content = append(root.Content, yamlScalar("type"), yamlScalar(typ), yamlScalar("properties"), props)

	ye := yaml.NewEncoder(enc.w)
	ye.SetIndent(2)
	if err := ye.Encode(root); err != nil {
		_ = ye.Close()
		return err
	}
	return ye.Close()
}

// yamlScalar forces string tagging so "true", "" or "42" survive a round trip
func yamlScalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func (enc *Encoder) encodeProperties(id, typ string, pairs []Pair) error {
	bw := bufio.NewWriter(enc.w)
	if enc.count > 0 {
		bw.WriteString("\n")
	}
	label := typ
	if id != "" {
		label = id + " (" + typ + ")"
	}
	bw.WriteString("# " + label + "\n")
	for _, p := range pairs {
		bw.WriteString(escapeProperty(p.Key, true))
		bw.WriteByte('=')
		bw.WriteString(escapeProperty(p.Value, false))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// escapeProperty escapes a key or value for a .properties file
func escapeProperty(s string, key bool) string {
	var b strings.Builder
	for i, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '=', ':':
			if key {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		case '#', '!':
			if key && i == 0 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		case ' ':
			if key || i == 0 || i == len(s)-1 {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
