// Package v10 is the oldest settings snapshot.
//
// Entities of this version accept a base entity of the same kind: the base's
// parameters are copied first and the init block overrides them. None of the
// kinds declare mandatory fields.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package v10

import "github.com/agilira/themis"

// Version is the registry name of this snapshot
const Version = "v10"

func init() {
	themis.DefaultRegistry.MustPublish(Version,
		kubernetesConnection, kubernetesExecutor, hashiCorpVaultConnection)
}
