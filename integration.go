// integration.go: Command-line configuration through FlashFlags
//
// Precedence, highest first: command-line flags, THEMIS_* environment
// variables, defaults. Environment values become the flag defaults, so a
// flag that is not passed keeps whatever the environment selected.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"strings"

	flashflags "github.com/agilira/flash-flags"
	"github.com/agilira/go-errors"
)

// ErrHelpRequested is returned by Parse when -h or --help is present
var ErrHelpRequested = errors.New(ErrCodeHelpRequested, "help requested")

// ConfigManager binds the themis configuration to command-line flags
type ConfigManager struct {
	flags   *flashflags.FlagSet
	appName string
	base    *Config
}

// NewConfigManager registers every configuration flag. base supplies the
// flag defaults; nil means the environment configuration.
func NewConfigManager(appName string, base *Config) (*ConfigManager, error) {
	if base == nil {
		env, err := LoadConfigFromEnv()
		if err != nil {
			return nil, err
		}
		base = env
	}

	fs := flashflags.New(appName)
	fs.SetDescription("Typed configuration-as-code entities")
	fs.String("default-version", base.DefaultVersion, "Version used by documents that do not name one")
	fs.String("format", base.Format.String(), "Output format (json|yaml|properties)")
	fs.Bool("strict", base.Strict, "Reject fields a kind does not declare")
	fs.Bool("mask-secrets", base.MaskSecrets, "Mask secure: values in output")
	fs.Bool("audit-enabled", base.Audit.Enabled, "Record an audit trail")
	fs.String("audit-output-file", base.Audit.OutputFile, "Audit output (.db or .jsonl)")
	fs.String("audit-min-level", strings.ToLower(base.Audit.MinLevel.String()), "Minimum audit level")
	fs.Int("audit-buffer-size", base.Audit.BufferSize, "Audit events buffered before a flush")
	fs.Duration("audit-flush-interval", base.Audit.FlushInterval, "Background audit flush interval")

	return &ConfigManager{flags: fs, appName: appName, base: base}, nil
}

// Parse reads args and returns the resulting configuration
func (cm *ConfigManager) Parse(args []string) (*Config, error) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return nil, ErrHelpRequested
		}
	}

	cm.flags.SetEnvPrefix(strings.ToUpper(cm.appName))
	if err := cm.flags.Parse(args); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidConfig, "failed to parse command-line flags")
	}

	config := *cm.base
	config.DefaultVersion = cm.flags.GetString("default-version")

	format := ParseFormat(cm.flags.GetString("format"))
	if format == FormatUnknown {
		return nil, errors.New(ErrCodeUnsupportedFormat,
			"unsupported output format: "+cm.flags.GetString("format"))
	}
	config.Format = format
	config.Strict = cm.flags.GetBool("strict")
	config.MaskSecrets = cm.flags.GetBool("mask-secrets")

	config.Audit.Enabled = cm.flags.GetBool("audit-enabled")
	config.Audit.OutputFile = cm.flags.GetString("audit-output-file")
	level, err := parseAuditLevel(cm.flags.GetString("audit-min-level"))
	if err != nil {
		return nil, err
	}
	config.Audit.MinLevel = level
	config.Audit.BufferSize = cm.flags.GetInt("audit-buffer-size")
	config.Audit.FlushInterval = cm.flags.GetDuration("audit-flush-interval")

	return &config, nil
}

// PrintUsage prints help for all flags
func (cm *ConfigManager) PrintUsage() {
	cm.flags.PrintHelp()
}

// FlagNames lists the registered flags
func (cm *ConfigManager) FlagNames() []string {
	var names []string
	cm.flags.VisitAll(func(flag *flashflags.Flag) {
		names = append(names, flag.Name())
	})
	return names
}

// FlagToEnvKey converts "audit-output-file" to "THEMIS_AUDIT_OUTPUT_FILE"
func (cm *ConfigManager) FlagToEnvKey(flagName string) string {
	return strings.ToUpper(cm.appName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}

// LoadConfigFromArgs layers flags over the environment configuration
func LoadConfigFromArgs(args []string) (*Config, error) {
	cm, err := NewConfigManager("themis", nil)
	if err != nil {
		return nil, err
	}
	return cm.Parse(args)
}

// boolFlags take no value on the command line
var boolFlags = map[string]struct{}{
	"strict": {}, "mask-secrets": {}, "audit-enabled": {}, "h": {}, "help": {},
}

// SplitArgs separates the leading configuration flags from the subcommand
// that follows them. "--" ends the flag section explicitly.
func SplitArgs(args []string) (flags, rest []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if !strings.HasPrefix(arg, "-") {
			break
		}
		flags = append(flags, arg)
		i++

		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if _, ok := boolFlags[name]; ok {
			continue
		}
		if i < len(args) {
			flags = append(flags, args[i])
			i++
		}
	}
	return flags, args[i:]
}
