// Package v2019_2 is the 2019.2 settings snapshot.
//
// It adds validation to the Kubernetes connection: the API server URL and an
// authentication strategy are mandatory, and every strategy checks its own
// credentials. Importing the package publishes its kinds into
// themis.DefaultRegistry.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package v2019_2

import "github.com/agilira/themis"

// Version is the registry name of this snapshot
const Version = "v2019_2"

func init() {
	themis.DefaultRegistry.MustPublish(Version, kubernetesConnection)
}
