// themis: command-line entry point
//
// Global configuration flags come before the subcommand and override the
// THEMIS_* environment:
//
//	themis --format yaml --mask-secrets render pipeline.yaml
//	themis --audit-enabled --audit-output-file ./audit.jsonl validate pipeline.yaml
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/themis"
	"github.com/agilira/themis/cmd/cli"

	_ "github.com/agilira/themis/versions/latest"
	_ "github.com/agilira/themis/versions/v10"
	_ "github.com/agilira/themis/versions/v2018_2"
	_ "github.com/agilira/themis/versions/v2019_2"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flagArgs, rest := themis.SplitArgs(args)

	cm, err := themis.NewConfigManager("themis", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	config, err := cm.Parse(flagArgs)
	if err != nil {
		if themis.ErrorCode(err) == themis.ErrCodeHelpRequested {
			cm.PrintUsage()
			rest = []string{"--help"}
			config = (&themis.Config{}).WithDefaults()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	auditLogger, err := themis.NewAuditLogger(config.Audit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := auditLogger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close audit log: %v\n", err)
		}
	}()

	manager := cli.NewManager().WithConfig(config).WithAudit(auditLogger)
	if err := manager.Run(rest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps a command error to the process status: 2 when entities
// failed validation, 1 for anything else
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case themis.ErrorCode(err) == themis.ErrCodeValidation:
		return 2
	default:
		return 1
	}
}
