// fixtures_test.go: Entity kinds shared by the themis package tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"strings"
	"testing"
)

type testLevel string

const (
	LevelLow  testLevel = "LOW"
	LevelHigh testLevel = "HIGH_PRIORITY"
)

type testAuth interface {
	VariantValue
	isTestAuth()
}

type testPassword struct{ Variant }

func (testPassword) isTestAuth() {}

type testToken struct{ Variant }

func (testToken) isTestAuth() {}

var (
	hostField  = String("host")
	portField  = Int("port").Default(8080)
	tlsField   = Bool("tls", "use.tls")
	levelField = Enum("level", "", []testLevel{LevelLow, LevelHigh},
		map[testLevel]string{LevelHigh: "high"})

	userField  = String("username")
	passField  = Secret("password")
	tokenField = Secret("token", "auth.token")

	passwordSpec = &VariantSpec{
		Tag:       "password",
		Fields:    []Field{userField, passField},
		Mandatory: []string{"username", "password"},
	}
	tokenSpec = &VariantSpec{
		Tag:       "token",
		Fields:    []Field{tokenField},
		Mandatory: []string{"token"},
	}

	authField = Compound[testAuth]("auth", "auth.method",
		Case[testAuth](passwordSpec, func(v Variant) testAuth { return testPassword{v} }),
		Case[testAuth](tokenSpec, func(v Variant) testAuth { return testToken{v} }),
	)
)

// newServiceKind declares a kind exercising every accessor type
func newServiceKind() *Kind {
	return &Kind{
		Name:      "Service",
		Type:      "service-connection",
		Fixed:     []Pair{{Key: "providerType", Value: "svc"}},
		Fields:    []Field{hostField, portField, tlsField, levelField, authField},
		Mandatory: []string{"host", "auth"},
		BasedOn:   true,
	}
}

// newTestRegistry publishes the service kind under "v1"
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Publish("v1", newServiceKind()); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	return r
}

// wireKeys returns the keys of pairs joined with commas
func wireKeys(pairs []Pair) string {
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
	}
	return strings.Join(keys, ",")
}

func mustBuild(t *testing.T, k *Kind, base *Entity, init func(e *Entity)) *Entity {
	t.Helper()
	e, err := k.New(base, init)
	if err != nil {
		t.Fatalf("New(%s) failed: %v", k.Name, err)
	}
	return e
}
