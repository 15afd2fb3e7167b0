// document.go: Entity documents
//
// An entity document is the declarative form of a settings script. It names
// one published version and lists entities in build order:
//
//	version: v2019_2
//	entities:
//	  - id: cluster
//	    kind: KubernetesConnection
//	    fields:
//	      apiServerUrl: https://k8s.example.com
//	    compounds:
//	      authStrategy:
//	        variant: user-passwd
//	        fields: {username: admin, password: "%vault.k8s%"}
//	    params:
//	      custom.key: value
//
// JSON documents are accepted too, as JSON is valid YAML. Field order in the
// document is the order parameters are written, so the wire output of a
// document is deterministic.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"os"

	"github.com/agilira/go-errors"
	"go.yaml.in/yaml/v3"
)

// EntitySource is one entity as written in a document
type EntitySource struct {
	ID        string    `yaml:"id" json:"id"`
	Kind      string    `yaml:"kind" json:"kind"`
	BasedOn   string    `yaml:"basedOn,omitempty" json:"basedOn,omitempty"`
	Fields    yaml.Node `yaml:"fields,omitempty" json:"-"`
	Compounds yaml.Node `yaml:"compounds,omitempty" json:"-"`
	Params    yaml.Node `yaml:"params,omitempty" json:"-"`
}

// DocumentSource is a parsed but not yet built document
type DocumentSource struct {
	Version  string         `yaml:"version" json:"version"`
	Entities []EntitySource `yaml:"entities" json:"entities"`
}

// LoadOptions controls how documents are built
type LoadOptions struct {
	Registry *Registry    // nil means DefaultRegistry
	Audit    *AuditLogger // optional
	Strict   bool         // reject undeclared fields instead of storing them as raw params
	Version  string       // used when the document does not name one
}

// NamedEntity pairs a built entity with its document id
type NamedEntity struct {
	ID     string
	Entity *Entity
}

// Document is a fully built set of entities
type Document struct {
	Version  string
	Entities []NamedEntity
	index    map[string]int
}

// Get returns the entity built for id
func (d *Document) Get(id string) (*Entity, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.Entities[i].Entity, true
}

// ParseDocument decodes a YAML or JSON document without building it
func ParseDocument(data []byte) (*DocumentSource, error) {
	var src DocumentSource
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidDocument, "failed to parse entity document")
	}
	return &src, nil
}

// LoadDocument parses and builds a document
func LoadDocument(data []byte, opts LoadOptions) (*Document, error) {
	src, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return src.Build(opts)
}

// LoadDocumentFile reads, parses and builds a document file
func LoadDocumentFile(path string, opts LoadOptions) (*Document, error) {
	if err := validateSecurePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path validated above
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeIOError, "failed to read entity document")
	}
	return LoadDocument(data, opts)
}

// Build constructs every entity in order. The first failure aborts the build
// and is returned with the offending entity id in its message.
func (src *DocumentSource) Build(opts LoadOptions) (*Document, error) {
	reg := opts.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	version := src.Version
	if version == "" {
		version = opts.Version
	}
	if version == "" {
		return nil, errors.New(ErrCodeInvalidDocument, "document does not name a version")
	}

	doc := &Document{
		Version:  version,
		Entities: make([]NamedEntity, 0, len(src.Entities)),
		index:    make(map[string]int, len(src.Entities)),
	}

	for i := range src.Entities {
		es := &src.Entities[i]
		id := es.ID
		if id == "" {
			id = fmt.Sprintf("entity-%d", i+1)
		}
		if _, dup := doc.index[id]; dup {
			return nil, errors.New(ErrCodeInvalidDocument, fmt.Sprintf("duplicate entity id '%s'", id))
		}

		kind, err := reg.Lookup(version, es.Kind)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidDocument, fmt.Sprintf("entity '%s'", id))
		}

		var base *Entity
		if es.BasedOn != "" {
			b, ok := doc.Get(es.BasedOn)
			if !ok {
				return nil, errors.New(ErrCodeInvalidDocument,
					fmt.Sprintf("entity '%s' is based on '%s', which is not defined before it", id, es.BasedOn))
			}
			base = b
		}

		e, err := es.build(kind, base, opts.Strict)
		if err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidDocument, fmt.Sprintf("entity '%s'", id))
		}

		doc.index[id] = len(doc.Entities)
		doc.Entities = append(doc.Entities, NamedEntity{ID: id, Entity: e})
		opts.Audit.LogEntityBuilt(version, id, kind.Name, e.Params().Len())
	}
	return doc, nil
}

func (es *EntitySource) build(kind *Kind, base *Entity, strict bool) (*Entity, error) {
	fields, err := orderedValues(&es.Fields, "fields")
	if err != nil {
		return nil, err
	}
	compounds, err := orderedValues(&es.Compounds, "compounds")
	if err != nil {
		return nil, err
	}
	params, err := orderedValues(&es.Params, "params")
	if err != nil {
		return nil, err
	}

	var assignErr error
	e, err := kind.New(base, func(e *Entity) {
		assignErr = assignAll(e, kind, append(fields, compounds...), strict)
		if assignErr != nil {
			return
		}
		for _, p := range params {
			e.Param(p.name, fmt.Sprint(p.value))
		}
	})
	if assignErr != nil {
		return nil, assignErr
	}
	return e, err
}

type namedValue struct {
	name  string
	value interface{}
}

// orderedValues reads a mapping node without losing key order
func orderedValues(n *yaml.Node, section string) ([]namedValue, error) {
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errors.New(ErrCodeInvalidDocument, fmt.Sprintf("'%s' must be a mapping", section))
	}
	out := make([]namedValue, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v interface{}
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, errors.Wrap(err, ErrCodeInvalidDocument,
				fmt.Sprintf("cannot decode '%s.%s'", section, n.Content[i].Value))
		}
		out = append(out, namedValue{name: n.Content[i].Value, value: v})
	}
	return out, nil
}

func assignAll(e *Entity, kind *Kind, values []namedValue, strict bool) error {
	for _, nv := range values {
		f, ok := kind.Field(nv.name)
		if !ok {
			if strict {
				return errors.New(ErrCodeUnknownField,
					fmt.Sprintf("kind '%s' has no field '%s'", kind.Name, nv.name))
			}
			e.Param(nv.name, fmt.Sprint(nv.value))
			continue
		}
		if err := f.Assign(e, nv.value); err != nil {
			return err
		}
	}
	return nil
}

// EntityReport is the validation outcome of one document entity
type EntityReport struct {
	ID     string           `json:"id"`
	Kind   string           `json:"kind"`
	Errors ValidationErrors `json:"errors,omitempty"`
}

// Valid reports whether no problem was found
func (r EntityReport) Valid() bool { return len(r.Errors) == 0 }

// Validate validates every entity in document order
func (d *Document) Validate(audit *AuditLogger) []EntityReport {
	reports := make([]EntityReport, 0, len(d.Entities))
	for _, ne := range d.Entities {
		reports = append(reports, EntityReport{
			ID:     ne.ID,
			Kind:   ne.Entity.Kind().Name,
			Errors: ValidateEntity(ne.ID, ne.Entity, audit),
		})
	}
	return reports
}

// ValidateEntity runs Validate with a collecting consumer and records the
// outcome on the audit trail
func ValidateEntity(id string, e *Entity, audit *AuditLogger) ValidationErrors {
	var errs ValidationErrors
	Validate(e, &errs)
	audit.LogValidation(id, e.Kind().Name, errs)
	return errs
}
