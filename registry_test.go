// registry_test.go: Tests for the versioned schema registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestRegistry_PublishIdempotent(t *testing.T) {
	r := newTestRegistry(t)
	before, err := r.Fingerprint("v1", "Service")
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}

	if err := r.Publish("v1", newServiceKind()); err != nil {
		t.Fatalf("republishing the same shape failed: %v", err)
	}
	after, _ := r.Fingerprint("v1", "Service")
	if before != after {
		t.Error("fingerprint changed on an identical republish")
	}
	if kinds, _ := r.Kinds("v1"); len(kinds) != 1 {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func TestRegistry_SchemaChangeRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(k *Kind)
	}{
		{"renamed key", func(k *Kind) { k.Fields[0] = String("host", "hostname") }},
		{"new default", func(k *Kind) { k.Fields[1] = Int("port").Default(9090) }},
		{"different sentinel", func(k *Kind) { k.Fields[2] = Bool("tls", "use.tls").Values("1", "0") }},
		{"new mandatory", func(k *Kind) { k.Mandatory = append(k.Mandatory, "port") }},
		{"new fixed marker", func(k *Kind) { k.Fixed = append(k.Fixed, Pair{Key: "flavor", Value: "x"}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			k := newServiceKind()
			tt.mutate(k)
			if err := r.Publish("v1", k); ErrorCode(err) != ErrCodeSchemaChanged {
				t.Errorf("error = %v, want %s", err, ErrCodeSchemaChanged)
			}
			// the changed shape is still welcome under a new version
			if err := r.Publish("v2", k); err != nil {
				t.Errorf("publishing under a new version failed: %v", err)
			}
		})
	}
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	k := newServiceKind()
	if err := r.Publish("v1", k); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	k.Type = "mutated"
	k.Mandatory = nil

	got, err := r.Lookup("v1", "Service")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Type != "service-connection" || len(got.Mandatory) != 2 {
		t.Errorf("published kind observed a later mutation: %+v", got)
	}

	got.Fixed[0].Value = "tampered"
	again, _ := r.Lookup("v1", "Service")
	if again.Fixed[0].Value != "svc" {
		t.Error("Lookup must return an independent copy")
	}
}

func TestRegistry_LookupErrors(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Lookup("v9", "Service"); ErrorCode(err) != ErrCodeUnknownVersion {
		t.Errorf("unknown version error = %v", err)
	}
	if _, err := r.Lookup("v1", "Nope"); ErrorCode(err) != ErrCodeUnknownKind {
		t.Errorf("unknown kind error = %v", err)
	}
	if _, err := r.Kinds("v9"); ErrorCode(err) != ErrCodeUnknownVersion {
		t.Errorf("Kinds unknown version error = %v", err)
	}
	if err := r.Publish("", newServiceKind()); ErrorCode(err) != ErrCodeUnknownVersion {
		t.Errorf("empty version error = %v", err)
	}
	if err := r.Publish("v3", nil); ErrorCode(err) != ErrCodeInvalidKind {
		t.Errorf("nil kind error = %v", err)
	}
	if err := r.Publish("v3", newServiceKind(), newServiceKind()); ErrorCode(err) != ErrCodeInvalidKind {
		t.Errorf("duplicate kind error = %v", err)
	}
	if _, err := r.Kinds("v3"); err == nil {
		t.Error("a failed Publish must not create the version")
	}
}

func TestRegistry_VersionOrder(t *testing.T) {
	r := NewRegistry()
	for _, v := range []string{LatestVersion, "v2019_2", "custom", "v10", "v2018_2"} {
		if err := r.Publish(v, newServiceKind()); err != nil {
			t.Fatalf("Publish(%s) failed: %v", v, err)
		}
	}
	got := strings.Join(r.Versions(), ",")
	if want := "v10,v2018_2,v2019_2,custom,latest"; got != want {
		t.Errorf("Versions() = %s, want %s", got, want)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := r.Build("v1", "Service", nil, func(e *Entity) { hostField.Set(e, "h") }); err != nil {
				t.Errorf("Build failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := r.Publish("v1", newServiceKind()); err != nil {
				t.Errorf("Publish failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestRegistry_Describe(t *testing.T) {
	r := newTestRegistry(t)
	desc, err := r.Describe("v1", "Service")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc.Type != "service-connection" || !desc.BasedOn || len(desc.Fingerprint) != 16 {
		t.Errorf("unexpected header: %+v", desc)
	}
	if len(desc.Fields) != 5 {
		t.Fatalf("fields = %d, want 5", len(desc.Fields))
	}

	auth := desc.Fields[4]
	if auth.Type != "compound" || !auth.Mandatory || len(auth.Variants) != 2 {
		t.Errorf("auth description = %+v", auth)
	}
	if pw := auth.Variants[0]; pw.Tag != "password" || pw.Fields[1].Key != "secure:password" || !pw.Fields[1].Mandatory {
		t.Errorf("password variant = %+v", pw)
	}

	var buf bytes.Buffer
	if err := desc.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	for _, want := range []string{"Service (v1)", "fixed providerType=svc", "[token]", "secure:auth.token *", "use.tls"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text description missing %q:\n%s", want, buf.String())
		}
	}
}
