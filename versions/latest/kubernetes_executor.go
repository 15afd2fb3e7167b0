// kubernetes_executor.go: Kubernetes build executor profile
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package latest

import "github.com/agilira/themis"

var (
	keConnectionID      = themis.String("connectionId")
	keProfileName       = themis.String("profileName")
	keTemplateContainer = themis.String("templateContainer")
	keBuildsLimit       = themis.String("buildsLimit")
	keEnabled           = themis.Bool("enabled")
	keDescription       = themis.String("description", "profileDescription")
	keServerURL         = themis.String("serverURL", "profileServerUrl")
	keContainerParams   = themis.String("containerParameters")
	keTemplateName      = themis.String("templateName")
)

var kubernetesExecutor = &themis.Kind{
	Name:  "KubernetesExecutor",
	Type:  "BuildExecutor",
	Fixed: []themis.Pair{{Key: "executorType", Value: "KubernetesExecutor"}},
	Fields: []themis.Field{
		keConnectionID, keProfileName, keTemplateContainer, keBuildsLimit, keEnabled,
		keDescription, keServerURL, keContainerParams, keTemplateName,
	},
	Mandatory: []string{"connectionId", "profileName"},
}

// KubernetesExecutor runs builds in pods of a connected cluster. The
// connection id and profile name are mandatory.
type KubernetesExecutor struct {
	*themis.Entity
}

// NewKubernetesExecutor builds an executor; init may be nil
func NewKubernetesExecutor(init func(k *KubernetesExecutor)) (*KubernetesExecutor, error) {
	e, err := kubernetesExecutor.New(nil, func(e *themis.Entity) {
		if init != nil {
			init(&KubernetesExecutor{e})
		}
	})
	if err != nil {
		return nil, err
	}
	return &KubernetesExecutor{e}, nil
}

func (k *KubernetesExecutor) ConnectionID() (string, bool)      { return keConnectionID.Get(k) }
func (k *KubernetesExecutor) SetConnectionID(v string)          { keConnectionID.Set(k, v) }
func (k *KubernetesExecutor) ProfileName() (string, bool)       { return keProfileName.Get(k) }
func (k *KubernetesExecutor) SetProfileName(v string)           { keProfileName.Set(k, v) }
func (k *KubernetesExecutor) TemplateContainer() (string, bool) { return keTemplateContainer.Get(k) }
func (k *KubernetesExecutor) SetTemplateContainer(v string)     { keTemplateContainer.Set(k, v) }
func (k *KubernetesExecutor) BuildsLimit() (string, bool)       { return keBuildsLimit.Get(k) }
func (k *KubernetesExecutor) SetBuildsLimit(v string)           { keBuildsLimit.Set(k, v) }
func (k *KubernetesExecutor) Enabled() (bool, bool)             { return keEnabled.Get(k) }
func (k *KubernetesExecutor) SetEnabled(v bool)                 { keEnabled.Set(k, v) }
func (k *KubernetesExecutor) Description() (string, bool)       { return keDescription.Get(k) }
func (k *KubernetesExecutor) SetDescription(v string)           { keDescription.Set(k, v) }
func (k *KubernetesExecutor) ServerURL() (string, bool)         { return keServerURL.Get(k) }
func (k *KubernetesExecutor) SetServerURL(v string)             { keServerURL.Set(k, v) }
func (k *KubernetesExecutor) TemplateName() (string, bool)      { return keTemplateName.Get(k) }
func (k *KubernetesExecutor) SetTemplateName(v string)          { keTemplateName.Set(k, v) }

// Deprecated: the executor fetches container parameters itself.
func (k *KubernetesExecutor) ContainerParameters() (string, bool) { return keContainerParams.Get(k) }

// Deprecated: see ContainerParameters.
func (k *KubernetesExecutor) SetContainerParameters(v string) { keContainerParams.Set(k, v) }

// Validate collects every problem of the executor
func (k *KubernetesExecutor) Validate() themis.ValidationErrors {
	var errs themis.ValidationErrors
	themis.Validate(k.Entity, &errs)
	return errs
}
