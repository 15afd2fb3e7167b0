// utilities.go: Small helpers shared by the themis runtime
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"sort"
	"strconv"
	"strings"
)

// copyMap creates a shallow copy of a map for the audit trail
func copyMap(original map[string]interface{}) map[string]interface{} {
	if original == nil {
		return nil
	}
	result := make(map[string]interface{}, len(original))
	for k, v := range original {
		result[k] = v
	}
	return result
}

// sortedKeys returns the keys of m in lexical order so that document
// assignment is deterministic
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compareVersions orders version names: "v10" < "v2018_2" < "v2019_2" <
// "latest". Names that do not follow the vNNNN_N pattern sort lexically
// after the numbered ones and before "latest".
func compareVersions(a, b string) int {
	if a == b {
		return 0
	}
	if a == LatestVersion {
		return 1
	}
	if b == LatestVersion {
		return -1
	}
	na, okA := versionNumbers(a)
	nb, okB := versionNumbers(b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case !okA && !okB:
		return strings.Compare(a, b)
	}
	for i := 0; i < len(na) && i < len(nb); i++ {
		if na[i] != nb[i] {
			if na[i] < nb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(na) < len(nb):
		return -1
	case len(na) > len(nb):
		return 1
	}
	return strings.Compare(a, b)
}

func versionNumbers(v string) ([]int, bool) {
	if !strings.HasPrefix(v, "v") || len(v) < 2 {
		return nil, false
	}
	parts := strings.Split(v[1:], "_")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
