// Shared helpers for the themis CLI handlers
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/themis"
)

// outputFormat resolves the render format: an explicit flag wins, then the
// configured format. "auto" picks the format from the document extension.
func (m *Manager) outputFormat(filePath, explicit string) (themis.Format, error) {
	switch explicit {
	case "":
		return m.config.Format, nil
	case "auto":
		if f := themis.DetectFormat(filePath); f != themis.FormatUnknown {
			return f, nil
		}
		return m.config.Format, nil
	}
	f := themis.ParseFormat(explicit)
	if f == themis.FormatUnknown {
		return themis.FormatUnknown, errors.New(themis.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported format: %s", explicit))
	}
	return f, nil
}

// loadDocument builds filePath with the manager configuration, letting the
// command flags tighten it
func (m *Manager) loadDocument(filePath string, ctx *orpheus.Context) (*themis.Document, error) {
	opts := m.config.LoadOptions(m.registry, m.auditLogger)
	if v := ctx.GetFlagString("default-version"); v != "" {
		opts.Version = v
	}
	if ctx.GetFlagBool("strict") {
		opts.Strict = true
	}

	return themis.LoadDocumentFile(filePath, opts)
}

// positionalArg returns the i'th argument left once the command's flags are
// parsed, so flags may come before or after the arguments.
func positionalArg(ctx *orpheus.Context, i int) string {
	if ctx.Flags != nil {
		return ctx.Flags.Arg(i)
	}
	return ctx.GetArg(i)
}
