// Package latest is the current settings snapshot. Unlike the dated
// snapshots it may still change, but only by adding kinds: a kind published
// here keeps its shape for the life of a process.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package latest

import "github.com/agilira/themis"

// Version is the registry name of this snapshot
const Version = themis.LatestVersion

func init() {
	themis.DefaultRegistry.MustPublish(Version, kubernetesExecutor, gradleBuildStep, approval)
}
