// kubernetes_connection.go: Kubernetes cluster connection, 2019.2 snapshot
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v2019_2

import (
	"github.com/agilira/themis"
)

// Authentication strategy discriminators
const (
	TagEks                     = "eks"
	TagUsernameAndPassword     = "user-passwd"
	TagOpenID                  = "oidc"
	TagClientCertificateAndKey = "client-cert"
	TagToken                   = "token"
	TagUnauthorized            = "unauthorized"
	TagServiceAccount          = "service-account"
)

// AuthStrategy is the closed set of ways to authenticate against a cluster.
// Use a type switch on the concrete variant.
type AuthStrategy interface {
	themis.VariantValue
	authStrategy()
}

var (
	eksUseInstanceProfile = themis.Bool("eksUseInstanceProfile")
	eksAccessID           = themis.String("accessId", "eksAccessId")
	eksSecretKey          = themis.Secret("secretKey", "eksSecretKey")
	eksAssumeIAMRole      = themis.Bool("assumeIamRole", "eksAssumeIAMRole")
	eksIAMRoleArn         = themis.String("iamRoleArn", "eksIAMRoleArn")
	eksClusterName        = themis.String("clusterName", "eksClusterName")

	upUsername = themis.String("username")
	upPassword = themis.Secret("password")

	oidcIssuerURL    = themis.String("idpIssuerUrl")
	oidcClientID     = themis.String("clientId", "oidcClientId")
	oidcClientSecret = themis.Secret("clientSecret", "oidcClientSecret")
	oidcRefreshToken = themis.Secret("refreshToken", "oidcRefreshToken")

	ccClientKey         = themis.Secret("clientKey", "clientKeyData")
	ccClientCertificate = themis.Secret("clientCertificate", "clientCertData")

	tokenToken = themis.Secret("token", "authToken")
)

var (
	eksSpec = &themis.VariantSpec{
		Tag: TagEks,
		Fields: []themis.Field{
			eksUseInstanceProfile, eksAccessID, eksSecretKey,
			eksAssumeIAMRole, eksIAMRoleArn, eksClusterName,
		},
		Mandatory: []string{"clusterName"},
	}
	usernameAndPasswordSpec = &themis.VariantSpec{
		Tag:       TagUsernameAndPassword,
		Fields:    []themis.Field{upUsername, upPassword},
		Mandatory: []string{"username", "password"},
	}
	openIDSpec = &themis.VariantSpec{
		Tag:       TagOpenID,
		Fields:    []themis.Field{oidcIssuerURL, oidcClientID, oidcClientSecret, oidcRefreshToken},
		Mandatory: []string{"idpIssuerUrl", "clientId", "clientSecret", "refreshToken"},
	}
	clientCertSpec = &themis.VariantSpec{
		Tag:       TagClientCertificateAndKey,
		Fields:    []themis.Field{ccClientKey, ccClientCertificate},
		Mandatory: []string{"clientKey", "clientCertificate"},
	}
	tokenSpec = &themis.VariantSpec{
		Tag:       TagToken,
		Fields:    []themis.Field{tokenToken},
		Mandatory: []string{"token"},
	}
	unauthorizedSpec   = &themis.VariantSpec{Tag: TagUnauthorized}
	serviceAccountSpec = &themis.VariantSpec{Tag: TagServiceAccount}
)

var authStrategyParam = themis.Compound[AuthStrategy]("authStrategy", "",
	themis.Case(eksSpec, func(v themis.Variant) AuthStrategy { return Eks{v} }),
	themis.Case(usernameAndPasswordSpec, func(v themis.Variant) AuthStrategy { return UsernameAndPassword{v} }),
	themis.Case(openIDSpec, func(v themis.Variant) AuthStrategy { return OpenID{v} }),
	themis.Case(clientCertSpec, func(v themis.Variant) AuthStrategy { return ClientCertificateAndKey{v} }),
	themis.Case(tokenSpec, func(v themis.Variant) AuthStrategy { return Token{v} }),
	themis.Case(unauthorizedSpec, func(v themis.Variant) AuthStrategy { return Unauthorized{v} }),
	themis.Case(serviceAccountSpec, func(v themis.Variant) AuthStrategy { return ServiceAccount{v} }),
)

var (
	kcName          = themis.String("name", "displayName")
	kcAPIServerURL  = themis.String("apiServerUrl")
	kcCACertificate = themis.Secret("caCertificate", "caCertData")
	kcNamespace     = themis.String("namespace")
)

var kubernetesConnection = &themis.Kind{
	Name:      "KubernetesConnection",
	Type:      "OAuthProvider",
	Fixed:     []themis.Pair{{Key: "providerType", Value: "KubernetesConnection"}},
	Fields:    []themis.Field{kcName, kcAPIServerURL, kcCACertificate, kcNamespace, authStrategyParam},
	Mandatory: []string{"apiServerUrl", "authStrategy"},
}

// KubernetesConnection stores the connection to a Kubernetes cluster
type KubernetesConnection struct {
	*themis.Entity
}

// NewKubernetesConnection builds a connection; init may be nil
func NewKubernetesConnection(init func(k *KubernetesConnection)) (*KubernetesConnection, error) {
	e, err := kubernetesConnection.New(nil, func(e *themis.Entity) {
		if init != nil {
			init(&KubernetesConnection{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &KubernetesConnection{e}, nil
}

// AsKubernetesConnection wraps an entity built from this version's kind
func AsKubernetesConnection(e *themis.Entity) (*KubernetesConnection, bool) {
	if e == nil || e.Kind().Name != kubernetesConnection.Name {
		return nil, false
	}
	return &KubernetesConnection{e}, true
}

func (k *KubernetesConnection) Name() (string, bool)         { return kcName.Get(k) }
func (k *KubernetesConnection) SetName(v string)             { kcName.Set(k, v) }
func (k *KubernetesConnection) APIServerURL() (string, bool) { return kcAPIServerURL.Get(k) }
func (k *KubernetesConnection) SetAPIServerURL(v string)     { kcAPIServerURL.Set(k, v) }
func (k *KubernetesConnection) CACertificate() (string, bool) {
	return kcCACertificate.Get(k)
}
func (k *KubernetesConnection) SetCACertificate(v string) { kcCACertificate.Set(k, v) }
func (k *KubernetesConnection) Namespace() (string, bool) { return kcNamespace.Get(k) }
func (k *KubernetesConnection) SetNamespace(v string)     { kcNamespace.Set(k, v) }

// AuthStrategy returns the active strategy; an unknown stored tag reads as absent
func (k *KubernetesConnection) AuthStrategy() (AuthStrategy, bool) {
	return authStrategyParam.Get(k)
}

// SetAuthStrategy stores the strategy tag and its fields
func (k *KubernetesConnection) SetAuthStrategy(v AuthStrategy) {
	authStrategyParam.Set(k, v)
}

// Validate collects every problem of the connection
func (k *KubernetesConnection) Validate() themis.ValidationErrors {
	var errs themis.ValidationErrors
	themis.Validate(k.Entity, &errs)
	return errs
}

// Eks authenticates through AWS EKS
type Eks struct{ themis.Variant }

func (Eks) authStrategy() {}

// NewEks creates an EKS strategy; init may be nil
func NewEks(init func(v Eks)) Eks {
	v := authStrategyParam.MustNew(TagEks).(Eks)
	if init != nil {
		init(v)
	}
	return v
}

// UseInstanceProfile is deprecated upstream: instance credentials increase the risk of leaks
func (v Eks) UseInstanceProfile() (bool, bool) { return eksUseInstanceProfile.Get(v) }
func (v Eks) SetUseInstanceProfile(b bool)     { eksUseInstanceProfile.Set(v, b) }
func (v Eks) AccessID() (string, bool)         { return eksAccessID.Get(v) }
func (v Eks) SetAccessID(s string)             { eksAccessID.Set(v, s) }
func (v Eks) SecretKey() (string, bool)        { return eksSecretKey.Get(v) }
func (v Eks) SetSecretKey(s string)            { eksSecretKey.Set(v, s) }
func (v Eks) AssumeIAMRole() (bool, bool)      { return eksAssumeIAMRole.Get(v) }
func (v Eks) SetAssumeIAMRole(b bool)          { eksAssumeIAMRole.Set(v, b) }
func (v Eks) IAMRoleArn() (string, bool)       { return eksIAMRoleArn.Get(v) }
func (v Eks) SetIAMRoleArn(s string)           { eksIAMRoleArn.Set(v, s) }
func (v Eks) ClusterName() (string, bool)      { return eksClusterName.Get(v) }
func (v Eks) SetClusterName(s string)          { eksClusterName.Set(v, s) }

// UsernameAndPassword authenticates with basic credentials
type UsernameAndPassword struct{ themis.Variant }

func (UsernameAndPassword) authStrategy() {}

// NewUsernameAndPassword creates a basic-credentials strategy; init may be nil
func NewUsernameAndPassword(init func(v UsernameAndPassword)) UsernameAndPassword {
	v := authStrategyParam.MustNew(TagUsernameAndPassword).(UsernameAndPassword)
	if init != nil {
		init(v)
	}
	return v
}

func (v UsernameAndPassword) Username() (string, bool) { return upUsername.Get(v) }
func (v UsernameAndPassword) SetUsername(s string)     { upUsername.Set(v, s) }
func (v UsernameAndPassword) Password() (string, bool) { return upPassword.Get(v) }
func (v UsernameAndPassword) SetPassword(s string)     { upPassword.Set(v, s) }

// OpenID authenticates through an OpenID Connect identity provider
type OpenID struct{ themis.Variant }

func (OpenID) authStrategy() {}

// NewOpenID creates an OIDC strategy; init may be nil
func NewOpenID(init func(v OpenID)) OpenID {
	v := authStrategyParam.MustNew(TagOpenID).(OpenID)
	if init != nil {
		init(v)
	}
	return v
}

func (v OpenID) IdpIssuerURL() (string, bool) { return oidcIssuerURL.Get(v) }
func (v OpenID) SetIdpIssuerURL(s string)     { oidcIssuerURL.Set(v, s) }
func (v OpenID) ClientID() (string, bool)     { return oidcClientID.Get(v) }
func (v OpenID) SetClientID(s string)         { oidcClientID.Set(v, s) }
func (v OpenID) ClientSecret() (string, bool) { return oidcClientSecret.Get(v) }
func (v OpenID) SetClientSecret(s string)     { oidcClientSecret.Set(v, s) }
func (v OpenID) RefreshToken() (string, bool) { return oidcRefreshToken.Get(v) }
func (v OpenID) SetRefreshToken(s string)     { oidcRefreshToken.Set(v, s) }

// ClientCertificateAndKey authenticates with a TLS client certificate
type ClientCertificateAndKey struct{ themis.Variant }

func (ClientCertificateAndKey) authStrategy() {}

// NewClientCertificateAndKey creates a client-certificate strategy; init may be nil
func NewClientCertificateAndKey(init func(v ClientCertificateAndKey)) ClientCertificateAndKey {
	v := authStrategyParam.MustNew(TagClientCertificateAndKey).(ClientCertificateAndKey)
	if init != nil {
		init(v)
	}
	return v
}

func (v ClientCertificateAndKey) ClientKey() (string, bool) { return ccClientKey.Get(v) }
func (v ClientCertificateAndKey) SetClientKey(s string)     { ccClientKey.Set(v, s) }
func (v ClientCertificateAndKey) ClientCertificate() (string, bool) {
	return ccClientCertificate.Get(v)
}
func (v ClientCertificateAndKey) SetClientCertificate(s string) { ccClientCertificate.Set(v, s) }

// Token authenticates with a bearer token
type Token struct{ themis.Variant }

func (Token) authStrategy() {}

// NewToken creates a bearer-token strategy; init may be nil
func NewToken(init func(v Token)) Token {
	v := authStrategyParam.MustNew(TagToken).(Token)
	if init != nil {
		init(v)
	}
	return v
}

func (v Token) Token() (string, bool) { return tokenToken.Get(v) }
func (v Token) SetToken(s string)     { tokenToken.Set(v, s) }

// Unauthorized connects anonymously
type Unauthorized struct{ themis.Variant }

func (Unauthorized) authStrategy() {}

// NewUnauthorized creates an anonymous strategy
func NewUnauthorized() Unauthorized {
	return authStrategyParam.MustNew(TagUnauthorized).(Unauthorized)
}

// ServiceAccount uses the credentials of the agent's service account.
// Deprecated upstream for the same leak risk as EKS instance profiles.
type ServiceAccount struct{ themis.Variant }

func (ServiceAccount) authStrategy() {}

// NewServiceAccount creates a service-account strategy
func NewServiceAccount() ServiceAccount {
	return authStrategyParam.MustNew(TagServiceAccount).(ServiceAccount)
}
