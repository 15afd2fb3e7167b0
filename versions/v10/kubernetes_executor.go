// kubernetes_executor.go: Kubernetes build executor profile
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package v10

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
	BasedOn: true,
}

// KubernetesExecutor runs builds in pods of a connected cluster
type KubernetesExecutor struct {
	*themis.Entity
}

// NewKubernetesExecutor builds an executor, copying base first when it is not nil
func NewKubernetesExecutor(base *KubernetesExecutor, init func(k *KubernetesExecutor)) (*KubernetesExecutor, error) {
	var b *themis.Entity
	if base != nil {
		b = base.Entity
	}
	e, err := kubernetesExecutor.New(b, func(e *themis.Entity) {
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

// ContainerParameters is deprecated: the executor now fetches the value itself
func (k *KubernetesExecutor) ContainerParameters() (string, bool) { return keContainerParams.Get(k) }

// SetContainerParameters is deprecated, see ContainerParameters
func (k *KubernetesExecutor) SetContainerParameters(v string) { keContainerParams.Set(k, v) }
