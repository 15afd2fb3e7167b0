// kubernetes_connection.go: Kubernetes cluster connection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v10

import "github.com/agilira/themis"

// AuthStrategy is the closed set of ways to authenticate against a cluster
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

var authStrategyParam = themis.Compound[AuthStrategy]("authStrategy", "",
	themis.Case(&themis.VariantSpec{
		Tag: "eks",
		Fields: []themis.Field{
			eksUseInstanceProfile, eksAccessID, eksSecretKey,
			eksAssumeIAMRole, eksIAMRoleArn, eksClusterName,
		},
	}, func(v themis.Variant) AuthStrategy { return Eks{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "user-passwd",
		Fields: []themis.Field{upUsername, upPassword},
	}, func(v themis.Variant) AuthStrategy { return UsernameAndPassword{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "oidc",
		Fields: []themis.Field{oidcIssuerURL, oidcClientID, oidcClientSecret, oidcRefreshToken},
	}, func(v themis.Variant) AuthStrategy { return OpenID{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "client-cert",
		Fields: []themis.Field{ccClientKey, ccClientCertificate},
	}, func(v themis.Variant) AuthStrategy { return ClientCertificateAndKey{v} }),
	themis.Case(&themis.VariantSpec{
		Tag:    "token",
		Fields: []themis.Field{tokenToken},
	}, func(v themis.Variant) AuthStrategy { return Token{v} }),
	themis.Case(&themis.VariantSpec{Tag: "unauthorized"},
		func(v themis.Variant) AuthStrategy { return Unauthorized{v} }),
	themis.Case(&themis.VariantSpec{Tag: "service-account"},
		func(v themis.Variant) AuthStrategy { return ServiceAccount{v} }),
)

var (
	kcName          = themis.String("name", "displayName")
	kcAPIServerURL  = themis.String("apiServerUrl")
	kcCACertificate = themis.Secret("caCertificate", "caCertData")
	kcNamespace     = themis.String("namespace")
)

var kubernetesConnection = &themis.Kind{
	Name:    "KubernetesConnection",
	Type:    "OAuthProvider",
	Fixed:   []themis.Pair{{Key: "providerType", Value: "KubernetesConnection"}},
	Fields:  []themis.Field{kcName, kcAPIServerURL, kcCACertificate, kcNamespace, authStrategyParam},
	BasedOn: true,
}

// KubernetesConnection stores the connection to a Kubernetes cluster
type KubernetesConnection struct {
	*themis.Entity
}

// NewKubernetesConnection builds a connection, copying base first when it is not nil
func NewKubernetesConnection(base *KubernetesConnection, init func(k *KubernetesConnection)) (*KubernetesConnection, error) {
	var b *themis.Entity
	if base != nil {
		b = base.Entity
	}
	e, err := kubernetesConnection.New(b, func(e *themis.Entity) {
		if init != nil {
			init(&KubernetesConnection{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &KubernetesConnection{e}, nil
}

func (k *KubernetesConnection) Name() (string, bool)          { return kcName.Get(k) }
func (k *KubernetesConnection) SetName(v string)              { kcName.Set(k, v) }
func (k *KubernetesConnection) APIServerURL() (string, bool)  { return kcAPIServerURL.Get(k) }
func (k *KubernetesConnection) SetAPIServerURL(v string)      { kcAPIServerURL.Set(k, v) }
func (k *KubernetesConnection) CACertificate() (string, bool) { return kcCACertificate.Get(k) }
func (k *KubernetesConnection) SetCACertificate(v string)     { kcCACertificate.Set(k, v) }
func (k *KubernetesConnection) Namespace() (string, bool)     { return kcNamespace.Get(k) }
func (k *KubernetesConnection) SetNamespace(v string)         { kcNamespace.Set(k, v) }

func (k *KubernetesConnection) AuthStrategy() (AuthStrategy, bool) { return authStrategyParam.Get(k) }
func (k *KubernetesConnection) SetAuthStrategy(v AuthStrategy)     { authStrategyParam.Set(k, v) }

type Eks struct{ themis.Variant }

func (Eks) authStrategy() {}

func NewEks(init func(v Eks)) Eks {
	v := authStrategyParam.MustNew("eks").(Eks)
	if init != nil {
		init(v)
	}
	return v
}

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

type UsernameAndPassword struct{ themis.Variant }

func (UsernameAndPassword) authStrategy() {}

func NewUsernameAndPassword(init func(v UsernameAndPassword)) UsernameAndPassword {
	v := authStrategyParam.MustNew("user-passwd").(UsernameAndPassword)
	if init != nil {
		init(v)
	}
	return v
}

func (v UsernameAndPassword) Username() (string, bool) { return upUsername.Get(v) }
func (v UsernameAndPassword) SetUsername(s string)     { upUsername.Set(v, s) }
func (v UsernameAndPassword) Password() (string, bool) { return upPassword.Get(v) }
func (v UsernameAndPassword) SetPassword(s string)     { upPassword.Set(v, s) }

type OpenID struct{ themis.Variant }

func (OpenID) authStrategy() {}

func NewOpenID(init func(v OpenID)) OpenID {
	v := authStrategyParam.MustNew("oidc").(OpenID)
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

type ClientCertificateAndKey struct{ themis.Variant }

func (ClientCertificateAndKey) authStrategy() {}

func NewClientCertificateAndKey(init func(v ClientCertificateAndKey)) ClientCertificateAndKey {
	v := authStrategyParam.MustNew("client-cert").(ClientCertificateAndKey)
	if init != nil {
		init(v)
	}
	return v
}

func (v ClientCertificateAndKey) ClientKey() (string, bool)         { return ccClientKey.Get(v) }
func (v ClientCertificateAndKey) SetClientKey(s string)             { ccClientKey.Set(v, s) }
func (v ClientCertificateAndKey) ClientCertificate() (string, bool) { return ccClientCertificate.Get(v) }
func (v ClientCertificateAndKey) SetClientCertificate(s string)     { ccClientCertificate.Set(v, s) }

type Token struct{ themis.Variant }

func (Token) authStrategy() {}

func NewToken(init func(v Token)) Token {
	v := authStrategyParam.MustNew("token").(Token)
	if init != nil {
		init(v)
	}
	return v
}

func (v Token) Token() (string, bool) { return tokenToken.Get(v) }
func (v Token) SetToken(s string)     { tokenToken.Set(v, s) }

type Unauthorized struct{ themis.Variant }

func (Unauthorized) authStrategy() {}

func NewUnauthorized() Unauthorized {
	return authStrategyParam.MustNew("unauthorized").(Unauthorized)
}

type ServiceAccount struct{ themis.Variant }

func (ServiceAccount) authStrategy() {}

func NewServiceAccount() ServiceAccount {
	return authStrategyParam.MustNew("service-account").(ServiceAccount)
}
