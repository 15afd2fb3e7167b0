// Package cli provides the command-line interface for themis entity documents.
//
// The CLI is built on the Orpheus framework with git-style subcommands:
//
//	render <doc>                 build a document and print its wire parameters
//	validate <doc>               build a document and report every validation error
//	import <params>              rebuild typed entities from rendered wire parameters
//	versions                     list published schema versions
//	kinds <version>              list the kinds of a version
//	describe <version> <kind>    show fields, keys and variants of a kind
//	audit stats                  summarize the audit trail
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"io"
	"os"

	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/agilira/themis"
)

// Version of the themis command
const Version = "1.0.0"

// Manager wires the Orpheus application to a registry, a configuration and
// an optional audit logger.
type Manager struct {
	app         *orpheus.App
	registry    *themis.Registry
	config      *themis.Config
	auditLogger *themis.AuditLogger // Optional audit integration
	out         io.Writer
}

// NewManager creates a CLI manager over themis.DefaultRegistry with the
// default configuration
func NewManager() *Manager {
	app := orpheus.New("themis").
		SetDescription("Typed configuration-as-code entities").
		SetVersion(Version)

	manager := &Manager{
		app:      app,
		registry: themis.DefaultRegistry,
		config:   (&themis.Config{}).WithDefaults(),
		out:      os.Stdout,
	}

	manager.setupDocumentCommands()
	manager.setupSchemaCommands()
	manager.setupUtilityCommands()

	return manager
}

// WithAudit records CLI activity through auditLogger
func (m *Manager) WithAudit(auditLogger *themis.AuditLogger) *Manager {
	m.auditLogger = auditLogger
	m.registry.SetAuditLogger(auditLogger)
	return m
}

// WithConfig replaces the configuration; nil keeps the current one
func (m *Manager) WithConfig(config *themis.Config) *Manager {
	if config != nil {
		m.config = config
	}
	return m
}

// WithRegistry replaces the registry documents are built against
func (m *Manager) WithRegistry(registry *themis.Registry) *Manager {
	if registry != nil {
		m.registry = registry
	}
	return m
}

// SetOutput redirects command output, os.Stdout by default
func (m *Manager) SetOutput(w io.Writer) *Manager {
	m.out = w
	return m
}

// Run executes the CLI with args, excluding the program name
func (m *Manager) Run(args []string) error {
	return m.app.Run(args)
}

// setupDocumentCommands configures the commands that build entity documents
func (m *Manager) setupDocumentCommands() {
	renderCmd := orpheus.NewCommand("render", "Build a document and print its wire parameters").
		AddFlag("format", "f", "", "Output format (json|yaml|properties), default from configuration").
		AddFlag("default-version", "", "", "Version for documents that do not name one").
		SetHandler(m.handleRender)
	renderCmd.AddBoolFlag("mask", "m", false, "Mask secure: values")
	renderCmd.AddBoolFlag("strict", "s", false, "Reject fields a kind does not declare")
	m.app.AddCommand(renderCmd)

	validateCmd := orpheus.NewCommand("validate", "Build a document and report validation errors").
		AddFlag("default-version", "", "", "Version for documents that do not name one").
		SetHandler(m.handleValidate)
	validateCmd.AddBoolFlag("strict", "s", false, "Reject fields a kind does not declare")
	m.app.AddCommand(validateCmd)

	importCmd := orpheus.NewCommand("import", "Rebuild typed entities from rendered wire parameters").
		AddFlag("format", "f", "auto", "Input format (auto|json|yaml|properties)").
		AddFlag("default-version", "", "", "Version the parameters were rendered for").
		SetHandler(m.handleImport)
	m.app.AddCommand(importCmd)
}

// setupSchemaCommands configures registry inspection
func (m *Manager) setupSchemaCommands() {
	versionsCmd := orpheus.NewCommand("versions", "List published schema versions").
		SetHandler(m.handleVersions)
	m.app.AddCommand(versionsCmd)

	kindsCmd := orpheus.NewCommand("kinds", "List the kinds of a version").
		SetHandler(m.handleKinds)
	m.app.AddCommand(kindsCmd)

	describeCmd := orpheus.NewCommand("describe", "Show fields, keys and variants of a kind").
		AddFlag("format", "f", "text", "Output format (text|json|yaml)").
		SetHandler(m.handleDescribe)
	m.app.AddCommand(describeCmd)
}

// setupUtilityCommands configures audit inspection and diagnostics
func (m *Manager) setupUtilityCommands() {
	auditCmd := orpheus.NewCommand("audit", "Audit trail management")
	auditCmd.Subcommand("stats", "Summarize the audit trail", m.handleAuditStats)
	m.app.AddCommand(auditCmd)

	infoCmd := orpheus.NewCommand("info", "Configuration and registry summary")
	infoCmd.SetHandler(m.handleInfo)
	infoCmd.AddBoolFlag("verbose", "v", false, "Show every configuration value")
	m.app.AddCommand(infoCmd)

	completionCmd := orpheus.NewCommand("completion", "Generate shell completion scripts")
	completionCmd.SetHandler(m.handleCompletion)
	m.app.AddCommand(completionCmd)
}
