// Command handlers for the themis CLI
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agilira/go-errors"
	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/themis"
	"go.yaml.in/yaml/v3"
)

// handleRender builds a document and writes every entity in the wire format
func (m *Manager) handleRender(ctx *orpheus.Context) error {
	filePath := positionalArg(ctx, 0)
	if filePath == "" {
		return errors.New(themis.ErrCodeInvalidConfig, "usage: themis render <document>")
	}

	format, err := m.outputFormat(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}

	doc, err := m.loadDocument(filePath, ctx)
	if err != nil {
		return err
	}

	enc := themis.NewEncoder(m.out, format).
		MaskSecrets(m.config.MaskSecrets || ctx.GetFlagBool("mask")).
		WithAudit(m.auditLogger)
	for _, ne := range doc.Entities {
		if err := enc.Encode(ne.ID, ne.Entity); err != nil {
			return err
		}
	}
	return nil
}

// handleValidate builds a document and reports every problem of every entity.
// Any invalid entity makes the command fail with THEMIS_VALIDATION_FAILED.
func (m *Manager) handleValidate(ctx *orpheus.Context) error {
	filePath := positionalArg(ctx, 0)
	if filePath == "" {
		return errors.New(themis.ErrCodeInvalidConfig, "usage: themis validate <document>")
	}

	doc, err := m.loadDocument(filePath, ctx)
	if err != nil {
		return err
	}

	invalid := 0
	for _, report := range doc.Validate(m.auditLogger) {
		if report.Valid() {
			fmt.Fprintf(m.out, "ok      %s (%s)\n", report.ID, report.Kind)
			continue
		}
		invalid++
		fmt.Fprintf(m.out, "invalid %s (%s)\n", report.ID, report.Kind)
		for _, ve := range report.Errors {
			fmt.Fprintf(m.out, "  %s\n", ve.String())
		}
	}

	if invalid > 0 {
		return errors.New(themis.ErrCodeValidation,
			fmt.Sprintf("%d of %d entities are invalid", invalid, len(doc.Entities)))
	}
	fmt.Fprintf(m.out, "Valid document (%s): %d entities\n", doc.Version, len(doc.Entities))
	return nil
}

// handleImport decodes rendered parameters, resolves each entity's kind and
// validates the rebuilt entity
func (m *Manager) handleImport(ctx *orpheus.Context) error {
	filePath := positionalArg(ctx, 0)
	if filePath == "" {
		return errors.New(themis.ErrCodeInvalidConfig, "usage: themis import <parameters>")
	}

	format, err := m.outputFormat(filePath, ctx.GetFlagString("format"))
	if err != nil {
		return err
	}
	params, err := themis.LoadParametersFile(filePath, format)
	if err != nil {
		return err
	}

	version := ctx.GetFlagString("default-version")
	if version == "" {
		version = m.config.DefaultVersion
	}

	invalid := 0
	for i, p := range params {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("#%d", i+1)
		}
		e, err := m.registry.Import(version, p)
		if err != nil {
			return err
		}
		errs := themis.ValidateEntity(id, e, m.auditLogger)
		fmt.Fprintf(m.out, "%-20s %-28s %d params\n", id, e.Kind().Name, len(p.Pairs))
		for _, ve := range errs {
			fmt.Fprintf(m.out, "  %s\n", ve.String())
		}
		if len(errs) > 0 {
			invalid++
		}
	}
	if invalid > 0 {
		return errors.New(themis.ErrCodeValidation,
			fmt.Sprintf("%d of %d imported entities are invalid", invalid, len(params)))
	}
	return nil
}

// handleVersions lists published versions, oldest first
func (m *Manager) handleVersions(ctx *orpheus.Context) error {
	versions := m.registry.Versions()
	if len(versions) == 0 {
		fmt.Fprintln(m.out, "No versions published")
		return nil
	}
	for _, v := range versions {
		kinds, err := m.registry.Kinds(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "%-10s %d kinds\n", v, len(kinds))
	}
	return nil
}

// handleKinds lists the kinds of one version in publication order
func (m *Manager) handleKinds(ctx *orpheus.Context) error {
	version := positionalArg(ctx, 0)
	if version == "" {
		version = m.config.DefaultVersion
	}
	kinds, err := m.registry.Kinds(version)
	if err != nil {
		return err
	}
	for _, k := range kinds {
		kind, err := m.registry.Lookup(version, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "%-28s %s\n", k, kind.Type)
	}
	return nil
}

// handleDescribe prints the declaration of one kind
func (m *Manager) handleDescribe(ctx *orpheus.Context) error {
	version, name := positionalArg(ctx, 0), positionalArg(ctx, 1)
	if version == "" || name == "" {
		return errors.New(themis.ErrCodeInvalidConfig, "usage: themis describe <version> <kind>")
	}

	desc, err := m.registry.Describe(version, name)
	if err != nil {
		return err
	}

	switch strings.ToLower(ctx.GetFlagString("format")) {
	case "", "text":
		return desc.WriteText(m.out)
	case "json":
		enc := json.NewEncoder(m.out)
		enc.SetIndent("", "  ")
		return enc.Encode(desc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(m.out)
		enc.SetIndent(2)
		if err := enc.Encode(desc); err != nil {
			return errors.Wrap(err, themis.ErrCodeIOError, "failed to write description")
		}
		return enc.Close()
	default:
		return errors.New(themis.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported describe format: %s", ctx.GetFlagString("format")))
	}
}

// handleAuditStats summarizes the audit trail of the attached logger
func (m *Manager) handleAuditStats(ctx *orpheus.Context) error {
	if !m.auditLogger.Enabled() {
		return errors.New(themis.ErrCodeInvalidAuditConfig, "audit logging not enabled")
	}
	if err := m.auditLogger.Flush(); err != nil {
		return err
	}

	stats, err := m.auditLogger.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(m.out, "Backend: %s (%s)\n", stats.Backend, stats.Path)
	fmt.Fprintf(m.out, "Total events: %d\n", stats.TotalEvents)
	if stats.OldestEvent != nil && stats.NewestEvent != nil {
		fmt.Fprintf(m.out, "Range: %s .. %s\n",
			stats.OldestEvent.Format("2006-01-02T15:04:05Z07:00"),
			stats.NewestEvent.Format("2006-01-02T15:04:05Z07:00"))
	}
	printCounts(m, "By level", stats.EventsByLevel)
	printCounts(m, "By event", stats.EventsByName)
	printCounts(m, "By kind", stats.EventsByKind)
	if stats.CorruptedLines > 0 {
		fmt.Fprintf(m.out, "Corrupted lines: %d\n", stats.CorruptedLines)
	}
	return nil
}

func printCounts(m *Manager, title string, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(m.out, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(m.out, "  %-24s %d\n", k, counts[k])
	}
}

// handleInfo displays the active configuration and registry contents
func (m *Manager) handleInfo(ctx *orpheus.Context) error {
	fmt.Fprintf(m.out, "themis %s\n", Version)
	fmt.Fprintf(m.out, "Default version: %s\n", m.config.DefaultVersion)
	fmt.Fprintf(m.out, "Published versions: %s\n", strings.Join(m.registry.Versions(), ", "))
	fmt.Fprintf(m.out, "Audit logging: %v\n", m.auditLogger.Enabled())

	if ctx.GetFlagBool("verbose") {
		fmt.Fprintf(m.out, "Format: %s\n", m.config.Format)
		fmt.Fprintf(m.out, "Strict: %v\n", m.config.Strict)
		fmt.Fprintf(m.out, "Mask secrets: %v\n", m.config.MaskSecrets)
		result := m.config.ValidateDetailed()
		fmt.Fprintln(m.out, result.String())
		for _, w := range result.Warnings {
			fmt.Fprintf(m.out, "  warning: %s\n", w)
		}
	}
	return nil
}

// handleCompletion generates shell completion scripts
func (m *Manager) handleCompletion(ctx *orpheus.Context) error {
	shell := positionalArg(ctx, 0)
	commands := "render validate import versions kinds describe audit info completion"

	switch shell {
	case "bash":
		fmt.Fprintf(m.out, "# Bash completion for themis\n")
		fmt.Fprintf(m.out, "# Add to ~/.bashrc: source <(themis completion bash)\n")
		fmt.Fprintf(m.out, "_themis_completion() {\n")
		fmt.Fprintf(m.out, "  COMPREPLY=($(compgen -W '%s' -- \"${COMP_WORDS[COMP_CWORD]}\"))\n", commands)
		fmt.Fprintf(m.out, "}\n")
		fmt.Fprintf(m.out, "complete -F _themis_completion themis\n")
	case "zsh":
		fmt.Fprintf(m.out, "#compdef themis\n")
		fmt.Fprintf(m.out, "_themis() {\n")
		fmt.Fprintf(m.out, "  _arguments '1: :(%s)'\n", commands)
		fmt.Fprintf(m.out, "}\n")
	case "fish":
		fmt.Fprintf(m.out, "complete -c themis -f -a '%s'\n", commands)
	default:
		return errors.New(themis.ErrCodeInvalidConfig, fmt.Sprintf("unsupported shell: %s", shell))
	}
	return nil
}
