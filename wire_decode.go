// wire_decode.go: Reading wire parameters back into typed entities
//
// DecodeParameters accepts the three layouts Encoder writes. Registry.Import
// then resolves the kind from the type tag and provider markers and replays
// the pairs into a fresh entity, so typed getters work on parameters that
// came from a server export.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// Parameters is one decoded wire entity
type Parameters struct {
	ID    string
	Type  string
	Pairs []Pair
}

// Get returns the value of key and whether it is present
func (p Parameters) Get(key string) (string, bool) {
	for _, pair := range p.Pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// DecodeParameters parses every entity found in data
func DecodeParameters(data []byte, format Format) ([]Parameters, error) {
	switch format {
	case FormatJSON:
		return decodeJSONParameters(data)
	case FormatYAML:
		return decodeYAMLParameters(data)
	case FormatProperties:
		return decodePropertiesParameters(data)
	default:
		return nil, errors.New(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported wire format: %s", format))
	}
}

// LoadParametersFile reads and decodes a rendered parameters file
func LoadParametersFile(path string, format Format) ([]Parameters, error) {
	if err := validateSecurePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path validated above
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read parameters")
	}
	return DecodeParameters(data, format)
}

func decodeJSONParameters(data []byte) ([]Parameters, error) {
	var out []Parameters
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var doc parametersDocument
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, ErrCodeInvalidDocument, "invalid JSON parameters")
		}
		if doc.Properties.Count != len(doc.Properties.Property) {
			return nil, errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("entity '%s': count %d does not match %d properties",
					doc.ID, doc.Properties.Count, len(doc.Properties.Property)))
		}
		out = append(out, Parameters{ID: doc.ID, Type: doc.Type, Pairs: doc.Properties.Property})
	}
	return out, nil
}

func decodeYAMLParameters(data []byte) ([]Parameters, error) {
	var out []Parameters
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, ErrCodeInvalidDocument, "invalid YAML parameters")
		}
		if len(root.Content) == 0 {
			continue
		}
		node := root.Content[0]
		if node.Kind != yaml.MappingNode {
			return nil, errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("line %d: parameters must be a mapping", node.Line))
		}

		var p Parameters
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "id":
				p.ID = value.Value
			case "type":
				p.Type = value.Value
			case "properties":
				if value.Kind != yaml.MappingNode {
					return nil, errors.New(ErrCodeInvalidDocument,
						fmt.Sprintf("line %d: 'properties' must be a mapping", value.Line))
				}
				for j := 0; j+1 < len(value.Content); j += 2 {
					p.Pairs = append(p.Pairs, Pair{Key: value.Content[j].Value, Value: value.Content[j+1].Value})
				}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// decodePropertiesParameters reads key=value blocks. Each block starts with
// the "# id (type)" or "# type" header Encoder writes.
func decodePropertiesParameters(data []byte) ([]Parameters, error) {
	var out []Parameters
	var current *Parameters

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimLeft(scanner.Text(), " \t\f")
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			id, typ := parseBlockHeader(strings.TrimSpace(line[1:]))
			out = append(out, Parameters{ID: id, Type: typ})
			current = &out[len(out)-1]
			continue
		}
		if current == nil {
			return nil, errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("line %d: parameter precedes an entity header", lineNum))
		}

		rawKey, rawValue := splitProperty(line)
		key := unescapeProperty(rawKey)
		if err := validatePropertyKey(key, lineNum); err != nil {
			return nil, err
		}
		current.Pairs = append(current.Pairs, Pair{Key: key, Value: unescapeProperty(rawValue)})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read properties")
	}
	return out, nil
}

func parseBlockHeader(label string) (id, typ string) {
	if open := strings.LastIndex(label, " ("); open > 0 && strings.HasSuffix(label, ")") {
		return label[:open], label[open+2 : len(label)-1]
	}
	return "", label
}

// splitProperty cuts a line at the first unescaped '=' or ':'
func splitProperty(line string) (key, value string) {
	escaped := false
	for i := 0; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case line[i] == '\\':
			escaped = true
		case line[i] == '=' || line[i] == ':':
			return strings.TrimSpace(line[:i]), strings.TrimLeft(line[i+1:], " \t")
		}
	}
	return line, ""
}

func unescapeProperty(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped {
			if r == '\\' {
				escaped = true
				continue
			}
			b.WriteRune(r)
			continue
		}
		escaped = false
		switch r {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'f':
			b.WriteByte('\f')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validatePropertyKey rejects keys no encoder would have produced
func validatePropertyKey(key string, lineNum int) error {
	if key == "" {
		return errors.New(ErrCodeInvalidDocument,
			fmt.Sprintf("invalid property key at line %d: key cannot be empty", lineNum))
	}
	for _, char := range key {
		if char == '\x00' {
			return errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("invalid property key at line %d: null byte not allowed in keys", lineNum))
		}
		if !unicode.IsPrint(char) {
			return errors.New(ErrCodeInvalidDocument,
				fmt.Sprintf("invalid property key at line %d: non-printable character not allowed in keys", lineNum))
		}
	}
	return nil
}

// Import rebuilds a typed entity of version from decoded parameters. The kind
// is the one whose type tag and fixed markers all match; ties go to the kind
// with the most markers.
func (r *Registry) Import(version string, p Parameters) (*Entity, error) {
	kind, err := r.resolveKind(version, p)
	if err != nil {
		return nil, err
	}

	protected := make(map[string]struct{}, len(kind.Fixed)+1)
	for _, k := range kind.protectedKeys() {
		protected[k] = struct{}{}
	}
	return kind.New(nil, func(e *Entity) {
		for _, pair := range p.Pairs {
			if _, skip := protected[pair.Key]; skip {
				continue
			}
			e.Param(pair.Key, pair.Value)
		}
	})
}

func (r *Registry) resolveKind(version string, p Parameters) (*Kind, error) {
	if p.Type == "" {
		return nil, errors.New(ErrCodeInvalidDocument, fmt.Sprintf("entity '%s' has no type", p.ID))
	}
	names, err := r.Kinds(version)
	if err != nil {
		return nil, err
	}

	var best *Kind
	for _, name := range names {
		k, err := r.Lookup(version, name)
		if err != nil {
			return nil, err
		}
		if k.Type != p.Type || !matchesFixed(k, p) {
			continue
		}
		if best == nil || len(k.Fixed) > len(best.Fixed) {
			best = k
		}
	}
	if best == nil {
		return nil, errors.New(ErrCodeUnknownKind,
			fmt.Sprintf("version '%s' has no kind for type '%s'", version, p.Type))
	}
	return best, nil
}

func matchesFixed(k *Kind, p Parameters) bool {
	for _, fixed := range k.Fixed {
		if v, ok := p.Get(fixed.Key); !ok || v != fixed.Value {
			return false
		}
	}
	return true
}
