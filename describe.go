// describe.go: Human and machine readable descriptions of published kinds
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"io"
	"strings"
)

// FieldDescription describes one declared field
type FieldDescription struct {
	Name      string               `json:"name" yaml:"name"`
	Key       string               `json:"key" yaml:"key"`
	Type      string               `json:"type" yaml:"type"`
	Mandatory bool                 `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Variants  []VariantDescription `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// VariantDescription describes one shape of a compound field
type VariantDescription struct {
	Tag    string             `json:"tag" yaml:"tag"`
	Fields []FieldDescription `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// KindDescription describes a kind as published under a version
type KindDescription struct {
	Version     string             `json:"version" yaml:"version"`
	Name        string             `json:"name" yaml:"name"`
	Type        string             `json:"type" yaml:"type"`
	Fixed       []Pair             `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	BasedOn     bool               `json:"based_on" yaml:"based_on"`
	Fingerprint string             `json:"fingerprint" yaml:"fingerprint"`
	Fields      []FieldDescription `json:"fields" yaml:"fields"`
}

// Describe returns the description of a published kind
func (r *Registry) Describe(version, name string) (*KindDescription, error) {
	k, err := r.Lookup(version, name)
	if err != nil {
		return nil, err
	}
	fp, err := r.Fingerprint(version, name)
	if err != nil {
		return nil, err
	}

	d := &KindDescription{
		Version:     version,
		Name:        k.Name,
		Type:        k.Type,
		Fixed:       k.Fixed,
		BasedOn:     k.BasedOn,
		Fingerprint: fmt.Sprintf("%016x", fp),
	}
	d.Fields = describeFields(k.AllFields(), mandatorySet(k))
	return d, nil
}

func mandatorySet(k *Kind) map[string]bool {
	set := make(map[string]bool)
	for ; k != nil; k = k.Parent {
		for _, m := range k.Mandatory {
			set[m] = true
		}
	}
	return set
}

func describeFields(fields []Field, mandatory map[string]bool) []FieldDescription {
	out := make([]FieldDescription, 0, len(fields))
	for _, f := range fields {
		fd := FieldDescription{
			Name:      f.Name(),
			Key:       f.Key(),
			Type:      f.Type().String(),
			Mandatory: mandatory[f.Name()],
		}
		if cf, ok := f.(compoundField); ok {
			for _, spec := range cf.Specs() {
				vm := make(map[string]bool, len(spec.Mandatory))
				for _, m := range spec.Mandatory {
					vm[m] = true
				}
				fd.Variants = append(fd.Variants, VariantDescription{
					Tag:    spec.Tag,
					Fields: describeFields(spec.Fields, vm),
				})
			}
		}
		out = append(out, fd)
	}
	return out
}

// WriteText prints the description as an indented listing
func (d *KindDescription) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) type=%s based-on=%v fingerprint=%s\n", d.Name, d.Version, d.Type, d.BasedOn, d.Fingerprint)
	for _, p := range d.Fixed {
		fmt.Fprintf(&b, "  fixed %s=%s\n", p.Key, p.Value)
	}
	writeFieldLines(&b, d.Fields, "  ")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeFieldLines(b *strings.Builder, fields []FieldDescription, indent string) {
	for _, f := range fields {
		marker := ""
		if f.Mandatory {
			marker = " *"
		}
		fmt.Fprintf(b, "%s%-24s %-10s %s%s\n", indent, f.Name, f.Type, f.Key, marker)
		for _, v := range f.Variants {
			fmt.Fprintf(b, "%s  [%s]\n", indent, v.Tag)
			writeFieldLines(b, v.Fields, indent+"    ")
		}
	}
}
