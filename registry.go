// registry.go: Versioned schema registry
//
// Every published version is a frozen catalog of entity kinds. Version
// packages publish their kinds from init() into DefaultRegistry, so importing
// a version package is enough to make it available to documents and the CLI.
//
// A kind is fingerprinted when published. Publishing the same kind again is a
// no-op; publishing a different shape under an existing (version, kind) pair
// is rejected, which keeps a wire key recorded for a version stable forever.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"
	"hash"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"

	"github.com/agilira/go-errors"
)

// LatestVersion names the moving snapshot that always sorts last
const LatestVersion = "latest"

type snapshot struct {
	kinds  map[string]*Kind
	order  []string
	prints map[string]uint64
}

// Registry holds published versions. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	versions map[string]*snapshot
	audit    *AuditLogger
}

// DefaultRegistry receives the kinds of every imported version package
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{versions: make(map[string]*snapshot)}
}

// SetAuditLogger attaches an audit logger; nil disables auditing
func (r *Registry) SetAuditLogger(al *AuditLogger) {
	r.mu.Lock()
	r.audit = al
	r.mu.Unlock()
}

// Publish freezes kinds under version. Kinds are validated and deep-copied
// before anything is stored, so a failing call publishes nothing.
func (r *Registry) Publish(version string, kinds ...*Kind) error {
	if version == "" {
		return errors.New(ErrCodeUnknownVersion, "version name cannot be empty")
	}

	staged := make([]*Kind, 0, len(kinds))
	prints := make([]uint64, 0, len(kinds))
	seen := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		if k == nil {
			return errors.New(ErrCodeInvalidKind, "cannot publish a nil kind")
		}
		if err := k.validateDefinition(); err != nil {
			return err
		}
		if _, dup := seen[k.Name]; dup {
			return errors.New(ErrCodeInvalidKind,
				fmt.Sprintf("kind '%s' listed twice for version '%s'", k.Name, version))
		}
		seen[k.Name] = struct{}{}
		staged = append(staged, k.clone())
		prints = append(prints, k.fingerprint())
	}

	r.mu.Lock()
	snap, ok := r.versions[version]
	if !ok {
		snap = &snapshot{kinds: make(map[string]*Kind), prints: make(map[string]uint64)}
	}
	for i, k := range staged {
		if old, exists := snap.prints[k.Name]; exists && old != prints[i] {
			r.mu.Unlock()
			return errors.New(ErrCodeSchemaChanged,
				fmt.Sprintf("kind '%s' is already published for version '%s' with a different shape", k.Name, version))
		}
	}
	var added []int
	for i, k := range staged {
		if _, exists := snap.prints[k.Name]; exists {
			continue
		}
		snap.kinds[k.Name] = k
		snap.prints[k.Name] = prints[i]
		snap.order = append(snap.order, k.Name)
		added = append(added, i)
	}
	r.versions[version] = snap
	audit := r.audit
	r.mu.Unlock()

	for _, i := range added {
		audit.LogSchemaPublished(version, staged[i].Name, prints[i])
	}
	return nil
}

// MustPublish is Publish for init() blocks; it panics on error
func (r *Registry) MustPublish(version string, kinds ...*Kind) {
	if err := r.Publish(version, kinds...); err != nil {
		panic(err)
	}
}

// Lookup returns an independent copy of a published kind
func (r *Registry) Lookup(version, name string) (*Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.versions[version]
	if !ok {
		return nil, errors.New(ErrCodeUnknownVersion, fmt.Sprintf("version '%s' is not published", version))
	}
	k, ok := snap.kinds[name]
	if !ok {
		return nil, errors.New(ErrCodeUnknownKind,
			fmt.Sprintf("version '%s' has no kind '%s'", version, name))
	}
	return k.clone(), nil
}

// Versions lists published versions, oldest first and "latest" last
func (r *Registry) Versions() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return compareVersions(out[i], out[j]) < 0 })
	return out
}

// Kinds lists the kinds of version in publication order
func (r *Registry) Kinds(version string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.versions[version]
	if !ok {
		return nil, errors.New(ErrCodeUnknownVersion, fmt.Sprintf("version '%s' is not published", version))
	}
	out := make([]string, len(snap.order))
	copy(out, snap.order)
	return out, nil
}

// Fingerprint returns the shape hash recorded when the kind was published
func (r *Registry) Fingerprint(version, name string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.versions[version]
	if !ok {
		return 0, errors.New(ErrCodeUnknownVersion, fmt.Sprintf("version '%s' is not published", version))
	}
	fp, ok := snap.prints[name]
	if !ok {
		return 0, errors.New(ErrCodeUnknownKind,
			fmt.Sprintf("version '%s' has no kind '%s'", version, name))
	}
	return fp, nil
}

// Build looks a kind up and constructs an entity from it
func (r *Registry) Build(version, name string, base *Entity, init func(e *Entity)) (*Entity, error) {
	k, err := r.Lookup(version, name)
	if err != nil {
		return nil, err
	}
	return k.New(base, init)
}

// Publish publishes kinds into DefaultRegistry
func Publish(version string, kinds ...*Kind) error {
	return DefaultRegistry.Publish(version, kinds...)
}

// Lookup reads a kind from DefaultRegistry
func Lookup(version, name string) (*Kind, error) {
	return DefaultRegistry.Lookup(version, name)
}

// clone deep-copies the declaration, including the parent chain and every
// compound catalog. Field values themselves are immutable.
func (k *Kind) clone() *Kind {
	if k == nil {
		return nil
	}
	c := *k
	c.Fixed = append([]Pair(nil), k.Fixed...)
	c.Mandatory = append([]string(nil), k.Mandatory...)
	c.Fields = make([]Field, len(k.Fields))
	for i, f := range k.Fields {
		if cf, ok := f.(compoundField); ok {
			c.Fields[i] = cf.clone()
			continue
		}
		c.Fields[i] = f
	}
	c.Parent = k.Parent.clone()
	return &c
}

// fingerprint hashes everything that shapes the wire output and validation
// of a kind. Uses FNV-1a like the config change detector.
func (k *Kind) fingerprint() uint64 {
	h := fnv.New64a()
	hashKind(h, k)
	return h.Sum64()
}

func hashKind(h hash.Hash64, k *Kind) {
	if k.Parent != nil {
		hashKind(h, k.Parent)
		h.Write([]byte{'>'})
	}
	h.Write([]byte(k.Name + "\x00" + k.Type + "\x00" + strconv.FormatBool(k.BasedOn) + "\x00"))
	for _, p := range k.Fixed {
		h.Write([]byte(p.Key + "=" + p.Value + "\x00"))
	}
	for _, f := range k.Fields {
		h.Write([]byte(signatureOf(f)))
	}
	for _, m := range k.Mandatory {
		h.Write([]byte("!" + m))
	}
}
