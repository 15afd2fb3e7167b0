// Package v2018_2 is the 2018.2 settings snapshot: the Gradle runner step and
// the approval build feature. Importing the package publishes its kinds into
// themis.DefaultRegistry.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package v2018_2

import "github.com/agilira/themis"

// Version is the registry name of this snapshot
const Version = "v2018_2"

func init() {
	themis.DefaultRegistry.MustPublish(Version, gradleBuildStep, approval)
}
