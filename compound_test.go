// compound_test.go: Tests for compound (tagged union) parameters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import "testing"

func TestCompound_NewUnknownTag(t *testing.T) {
	_, err := authField.New("kerberos")
	if ErrorCode(err) != ErrCodeUnknownVariant {
		t.Fatalf("error = %v, want %s", err, ErrCodeUnknownVariant)
	}
	if got := authField.Tags(); len(got) != 2 || got[0] != "password" || got[1] != "token" {
		t.Errorf("Tags() = %v", got)
	}
}

func TestCompound_SetFlattensIntoOwner(t *testing.T) {
	v := authField.MustNew("password")
	userField.Set(v, "admin")
	passField.Set(v, "s3cret")

	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		hostField.Set(e, "db.internal")
		authField.Set(e, v)
	})

	pairs, err := e.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	if got := wireKeys(pairs); got != "type,providerType,host,auth.method,username,secure:password" {
		t.Errorf("wire keys = %s", got)
	}

	// later writes to the scratch variant must not reach the entity
	userField.Set(v, "other")
	if got, _ := userField.Get(e); got != "admin" {
		t.Errorf("entity observed a scratch write: username = %q", got)
	}
}

func TestCompound_TypedRead(t *testing.T) {
	tok := authField.MustNew("token")
	tokenField.Set(tok, "abc")
	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		authField.Set(e, tok)
	})

	got, ok := authField.Get(e)
	if !ok {
		t.Fatal("compound not resolved")
	}
	switch a := got.(type) {
	case testToken:
		if v, _ := tokenField.Get(a); v != "abc" {
			t.Errorf("token = %q", v)
		}
	case testPassword:
		t.Errorf("resolved the wrong variant: %s", a.Tag())
	default:
		t.Errorf("unexpected variant type %T", a)
	}
}

func TestCompound_UnknownStoredTag(t *testing.T) {
	e := mustBuild(t, newServiceKind(), nil, func(e *Entity) {
		e.Param("auth.method", "kerberos")
	})
	if _, ok := authField.Get(e); ok {
		t.Error("a tag outside the catalog must not resolve")
	}
	if authField.Resolved(e) {
		t.Error("Resolved() = true for an unknown tag")
	}
	if Unspecified(e, authField) {
		t.Error("a raw discriminator counts as specified")
	}
}

func TestCompound_Assign(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		wantErr string
	}{
		{"valid", map[string]interface{}{
			"variant": "password",
			"fields":  map[string]interface{}{"username": "u", "password": "p"},
		}, ""},
		{"no fields", map[string]interface{}{"variant": "token"}, ""},
		{"not a mapping", "password", ErrCodeInvalidDocument},
		{"missing variant", map[string]interface{}{"fields": nil}, ErrCodeInvalidDocument},
		{"unknown variant", map[string]interface{}{"variant": "kerberos"}, ErrCodeUnknownVariant},
		{"unknown field", map[string]interface{}{
			"variant": "token",
			"fields":  map[string]interface{}{"username": "u"},
		}, ErrCodeUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHolder()
			err := authField.Assign(h, tt.value)
			if tt.wantErr != "" {
				if ErrorCode(err) != tt.wantErr {
					t.Fatalf("error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Assign failed: %v", err)
			}
			if _, ok := authField.Get(h); !ok {
				t.Error("assigned compound does not resolve")
			}
		})
	}
}

func TestCompound_SetZeroVariant(t *testing.T) {
	tests := []struct {
		name string
		v    testAuth
	}{
		{"nil interface", nil},
		{"zero token", testToken{}},
		{"zero password", testPassword{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHolder()
			authField.Set(h, tt.v)
			if h.s.Has("auth.method") {
				t.Error("discriminator written for a zero variant")
			}
			if ErrorCode(h.s.Err()) != ErrCodeUnknownVariant {
				t.Errorf("Err() = %v, want %s", h.s.Err(), ErrCodeUnknownVariant)
			}
		})
	}

	_, err := newServiceKind().New(nil, func(e *Entity) {
		hostField.Set(e, "db")
		authField.Set(e, testToken{})
	})
	if err == nil {
		t.Error("New must report the rejected variant")
	}
}
