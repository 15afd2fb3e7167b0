// wire_test.go: Tests for wire encoding and decoding
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func buildService(t *testing.T) *Entity {
	t.Helper()
	pw := authField.MustNew("password")
	userField.Set(pw, "admin ")
	passField.Set(pw, "p=ss:word")
	return mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		hostField.Set(e, "db internal")
		portField.Set(e, 5432)
		tlsField.Set(e, false)
		authField.Set(e, pw)
	})
}

func TestFormatNames(t *testing.T) {
	tests := []struct {
		in     string
		path   string
		format Format
	}{
		{"json", "a.json", FormatJSON},
		{"YAML", "a.yml", FormatYAML},
		{"props", "a.properties", FormatProperties},
		{"toml", "a.toml", FormatUnknown},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.format {
			t.Errorf("ParseFormat(%q) = %s", tt.in, got)
		}
		if got := DetectFormat(tt.path); got != tt.format {
			t.Errorf("DetectFormat(%q) = %s", tt.path, got)
		}
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, FormatJSON).Encode("db", buildService(t)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var doc parametersDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.ID != "db" || doc.Type != "service-connection" || doc.Properties.Count != 8 {
		t.Errorf("header = %+v", doc)
	}
	if got := wireKeys(doc.Properties.Property); got != "type,providerType,host,port,use.tls,auth.method,username,secure:password" {
		t.Errorf("wire order = %s", got)
	}
	if !strings.Contains(buf.String(), `"name": "use.tls"`) {
		t.Errorf("pairs must use name/value members:\n%s", buf.String())
	}
}

func TestEncodeMasked(t *testing.T) {
	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		tok := authField.MustNew("token")
		tokenField.Set(tok, "%vault.token%")
		authField.Set(e, tok)
		e.Param("secure:extra", "hidden")
		e.Param("secure:empty", "")
	})

	var buf bytes.Buffer
	if err := NewEncoder(&buf, FormatProperties).MaskSecrets(true).Encode("", e); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`secure\:auth.token=%vault.token%`,
		`secure\:extra=` + MaskedValue,
		`secure\:empty=` + "\n",
		"# service-connection\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("masked output leaked a secret")
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, FormatUnknown).Encode("x", buildService(t)); ErrorCode(err) != ErrCodeUnsupportedFormat {
		t.Errorf("error = %v", err)
	}
	if err := NewEncoder(&buf, FormatJSON).Encode("x", nil); ErrorCode(err) != ErrCodeInvalidDocument {
		t.Errorf("nil entity error = %v", err)
	}
}

func TestWireRoundTrip(t *testing.T) {
	r := newTestRegistry(t)
	original := buildService(t)
	want, _ := original.Wire()

	for _, format := range []Format{FormatJSON, FormatYAML, FormatProperties} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf, format)
			if err := enc.Encode("first", original); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if err := enc.Encode("second", original); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			params, err := DecodeParameters(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("DecodeParameters failed: %v\n%s", err, buf.String())
			}
			if len(params) != 2 || params[0].ID != "first" || params[1].ID != "second" {
				t.Fatalf("decoded %d entities: %+v", len(params), params)
			}
			if params[0].Type != "service-connection" {
				t.Errorf("type = %q", params[0].Type)
			}

			imported, err := r.Import("v1", params[0])
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			got, _ := imported.Wire()
			if len(got) != len(want) {
				t.Fatalf("round trip changed the pair count: %v", got)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], want[i])
				}
			}
			if v, _, _ := portField.Get(imported); v != 5432 {
				t.Errorf("typed read after import: port = %d", v)
			}
		})
	}
}

func TestDecodeParametersErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json count mismatch", `{"type":"t","properties":{"count":2,"property":[{"name":"a","value":"1"}]}}`, FormatJSON},
		{"json garbage", `{"type":`, FormatJSON},
		{"yaml not a mapping", "- a\n- b\n", FormatYAML},
		{"yaml properties list", "type: t\nproperties: [1]\n", FormatYAML},
		{"properties without header", "a=1\n", FormatProperties},
		{"properties empty key", "# t\n=1\n", FormatProperties},
		{"unknown format", "", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeParameters([]byte(tt.data), tt.format); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestImportResolvesMostSpecificKind(t *testing.T) {
	r := NewRegistry()
	generic := &Kind{Name: "Generic", Type: "conn", Fields: []Field{String("url")}}
	vault := &Kind{Name: "Vault", Type: "conn", Fixed: []Pair{{Key: "providerType", Value: "vault"}}, Fields: []Field{String("url")}}
	if err := r.Publish("v1", generic, vault); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	tests := []struct {
		params   Parameters
		wantKind string
	}{
		{Parameters{Type: "conn", Pairs: []Pair{{Key: "type", Value: "conn"}, {Key: "providerType", Value: "vault"}}}, "Vault"},
		{Parameters{Type: "conn", Pairs: []Pair{{Key: "type", Value: "conn"}, {Key: "url", Value: "u"}}}, "Generic"},
	}
	for _, tt := range tests {
		e, err := r.Import("v1", tt.params)
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if e.Kind().Name != tt.wantKind {
			t.Errorf("resolved %s, want %s", e.Kind().Name, tt.wantKind)
		}
	}

	if _, err := r.Import("v1", Parameters{Type: "other"}); ErrorCode(err) != ErrCodeUnknownKind {
		t.Errorf("unknown type error = %v", err)
	}
	if _, err := r.Import("v1", Parameters{}); ErrorCode(err) != ErrCodeInvalidDocument {
		t.Errorf("missing type error = %v", err)
	}
}

func TestPropertyEscaping(t *testing.T) {
	tests := []struct {
		raw string
		key bool
	}{
		{"secure:password", true},
		{"a=b", true},
		{"#comment", true},
		{" leading", false},
		{"-Xmx1g ", false},
		{"multi\nline\ttab", false},
		{`back\slash`, false},
	}
	for _, tt := range tests {
		escaped := escapeProperty(tt.raw, tt.key)
		if got := unescapeProperty(escaped); got != tt.raw {
			t.Errorf("unescape(escape(%q)) = %q via %q", tt.raw, got, escaped)
		}
	}
}

func TestDecodePropertiesKeepsTrailingWhitespace(t *testing.T) {
	data := "# jvm (gradle)\n  jvmArgs=-Xmx1g  \n\tescaped=-Xss4m\\ \n"
	params, err := DecodeParameters([]byte(data), FormatProperties)
	if err != nil {
		t.Fatalf("DecodeParameters failed: %v", err)
	}
	if len(params) != 1 || params[0].ID != "jvm" || params[0].Type != "gradle" {
		t.Fatalf("decoded %+v", params)
	}
	for key, want := range map[string]string{"jvmArgs": "-Xmx1g  ", "escaped": "-Xss4m "} {
		if got, _ := params[0].Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadParametersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.properties")
	var buf bytes.Buffer
	if err := NewEncoder(&buf, FormatProperties).Encode("db", buildService(t)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	params, err := LoadParametersFile(path, FormatProperties)
	if err != nil {
		t.Fatalf("LoadParametersFile failed: %v", err)
	}
	if len(params) != 1 || params[0].ID != "db" {
		t.Fatalf("decoded %+v", params)
	}
	if v, _ := params[0].Get("username"); v != "admin " {
		t.Errorf("username = %q", v)
	}

	if _, err := LoadParametersFile("../service.properties", FormatProperties); ErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("traversal error = %v", err)
	}
	if _, err := LoadParametersFile(filepath.Join(t.TempDir(), "missing.json"), FormatJSON); ErrorCode(err) != ErrCodeIOError {
		t.Errorf("missing file error = %v", err)
	}
}
