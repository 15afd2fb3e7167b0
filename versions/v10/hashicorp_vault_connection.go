// hashicorp_vault_connection.go: HashiCorp Vault connection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v10

import "github.com/agilira/themis"

// AuthMethod is how the server logs in to Vault
type AuthMethod interface {
	themis.VariantValue
	authMethod()
}

var (
	arEndpointPath = themis.String("endpointPath", "endpoint")
	arRoleID       = themis.String("roleId", "role-id")
	arSecretID     = themis.Secret("secretId", "secret-id")

	ldapPath     = themis.String("path")
	ldapUsername = themis.String("username")
	ldapPassword = themis.Secret("password")

	gcpVaultRole      = themis.String("gcpVaultRole", "gcp-role")
	gcpServiceAccount = themis.String("gcpServiceAccount", "gcp-service-account")
	gcpEndpointPath   = themis.String("gcpEndpointPath", "gcp-endpoint-path")
)

var authMethodParam = themis.Compound[AuthMethod]("authMethod", "auth-method",
	themis.Case(&themis.VariantSpec{
		Tag:    "approle",
		Fields: []themis.Field{arEndpointPath, arRoleID, arSecretID},
	}, func(v themis.Variant) AuthMethod { return AppRole{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "ldap",
		Fields: []themis.Field{ldapPath, ldapUsername, ldapPassword},
	}, func(v themis.Variant) AuthMethod { return Ldap{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "gcp-iam",
		Fields: []themis.Field{gcpVaultRole, gcpServiceAccount, gcpEndpointPath},
	}, func(v themis.Variant) AuthMethod { return GcpIam{v} }),
)

// The vault id was historically exposed under two names bound to the same
// "namespace" key; only one field is declared and VaultID aliases it.
var (
	hvName           = themis.String("name", "displayName")
	hvNamespace      = themis.String("namespace")
	hvVaultNamespace = themis.String("vaultNamespace", "vault-namespace")
	hvURL            = themis.String("url")
	hvFailOnError    = themis.Bool("failOnError", "fail-on-error")
)

var hashiCorpVaultConnection = &themis.Kind{
	Name:    "HashiCorpVaultConnection",
	Type:    "OAuthProvider",
	Fixed:   []themis.Pair{{Key: "providerType", Value: "teamcity-vault"}},
	Fields:  []themis.Field{hvName, hvNamespace, hvVaultNamespace, hvURL, authMethodParam, hvFailOnError},
	BasedOn: true,
}

// HashiCorpVaultConnection makes Vault secrets available as parameters
type HashiCorpVaultConnection struct {
	*themis.Entity
}

// NewHashiCorpVaultConnection builds a connection, copying base first when it is not nil
func NewHashiCorpVaultConnection(base *HashiCorpVaultConnection, init func(h *HashiCorpVaultConnection)) (*HashiCorpVaultConnection, error) {
	var b *themis.Entity
	if base != nil {
		b = base.Entity
	}
	e, err := hashiCorpVaultConnection.New(b, func(e *themis.Entity) {
		if init != nil {
			init(&HashiCorpVaultConnection{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &HashiCorpVaultConnection{e}, nil
}

func (h *HashiCorpVaultConnection) Name() (string, bool)           { return hvName.Get(h) }
func (h *HashiCorpVaultConnection) SetName(v string)               { hvName.Set(h, v) }
func (h *HashiCorpVaultConnection) Namespace() (string, bool)      { return hvNamespace.Get(h) }
func (h *HashiCorpVaultConnection) SetNamespace(v string)          { hvNamespace.Set(h, v) }
func (h *HashiCorpVaultConnection) VaultID() (string, bool)        { return hvNamespace.Get(h) }
func (h *HashiCorpVaultConnection) SetVaultID(v string)            { hvNamespace.Set(h, v) }
func (h *HashiCorpVaultConnection) VaultNamespace() (string, bool) { return hvVaultNamespace.Get(h) }
func (h *HashiCorpVaultConnection) SetVaultNamespace(v string)     { hvVaultNamespace.Set(h, v) }
func (h *HashiCorpVaultConnection) URL() (string, bool)            { return hvURL.Get(h) }
func (h *HashiCorpVaultConnection) SetURL(v string)                { hvURL.Set(h, v) }

// FailOnError is deprecated: failing builds lose secure parameters silently
func (h *HashiCorpVaultConnection) FailOnError() (bool, bool) { return hvFailOnError.Get(h) }
func (h *HashiCorpVaultConnection) SetFailOnError(v bool)     { hvFailOnError.Set(h, v) }

func (h *HashiCorpVaultConnection) AuthMethod() (AuthMethod, bool) { return authMethodParam.Get(h) }
func (h *HashiCorpVaultConnection) SetAuthMethod(v AuthMethod)     { authMethodParam.Set(h, v) }

// AppRole logs in with a role id and secret id
type AppRole struct{ themis.Variant }

func (AppRole) authMethod() {}

func NewAppRole(init func(v AppRole)) AppRole {
	v := authMethodParam.MustNew("approle").(AppRole)
	if init != nil {
		init(v)
	}
	return v
}

func (v AppRole) EndpointPath() (string, bool) { return arEndpointPath.Get(v) }
func (v AppRole) SetEndpointPath(s string)     { arEndpointPath.Set(v, s) }
func (v AppRole) RoleID() (string, bool)       { return arRoleID.Get(v) }
func (v AppRole) SetRoleID(s string)           { arRoleID.Set(v, s) }
func (v AppRole) SecretID() (string, bool)     { return arSecretID.Get(v) }
func (v AppRole) SetSecretID(s string)         { arSecretID.Set(v, s) }

// Ldap logs in with directory credentials
type Ldap struct{ themis.Variant }

func (Ldap) authMethod() {}

func NewLdap(init func(v Ldap)) Ldap {
	v := authMethodParam.MustNew("ldap").(Ldap)
	if init != nil {
		init(v)
	}
	return v
}

func (v Ldap) Path() (string, bool)     { return ldapPath.Get(v) }
func (v Ldap) SetPath(s string)         { ldapPath.Set(v, s) }
func (v Ldap) Username() (string, bool) { return ldapUsername.Get(v) }
func (v Ldap) SetUsername(s string)     { ldapUsername.Set(v, s) }
func (v Ldap) Password() (string, bool) { return ldapPassword.Get(v) }
func (v Ldap) SetPassword(s string)     { ldapPassword.Set(v, s) }

// GcpIam logs in with a GCP service account
type GcpIam struct{ themis.Variant }

func (GcpIam) authMethod() {}

func NewGcpIam(init func(v GcpIam)) GcpIam {
	v := authMethodParam.MustNew("gcp-iam").(GcpIam)
	if init != nil {
		init(v)
	}
	return v
}

func (v GcpIam) VaultRole() (string, bool)      { return gcpVaultRole.Get(v) }
func (v GcpIam) SetVaultRole(s string)          { gcpVaultRole.Set(v, s) }
func (v GcpIam) ServiceAccount() (string, bool) { return gcpServiceAccount.Get(v) }
func (v GcpIam) SetServiceAccount(s string)     { gcpServiceAccount.Set(v, s) }
func (v GcpIam) EndpointPath() (string, bool)   { return gcpEndpointPath.Get(v) }
func (v GcpIam) SetEndpointPath(s string)       { gcpEndpointPath.Set(v, s) }
