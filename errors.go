// errors.go: Error codes and typed faults for themis
//
// Two fault classes exist: conversion errors raised at read time by typed
// accessors, and validation errors which are only ever collected into an
// ErrorConsumer. Everything else is a coded go-errors error.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package themis

import (
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for themis operations
const (
	ErrCodeInvalidConfig        = "THEMIS_INVALID_CONFIG"
	ErrCodeConversion           = "THEMIS_CONVERSION_FAILED"
	ErrCodeValidation           = "THEMIS_VALIDATION_FAILED"
	ErrCodeUnknownVersion       = "THEMIS_UNKNOWN_VERSION"
	ErrCodeUnknownKind          = "THEMIS_UNKNOWN_KIND"
	ErrCodeUnknownField         = "THEMIS_UNKNOWN_FIELD"
	ErrCodeUnknownVariant       = "THEMIS_UNKNOWN_VARIANT"
	ErrCodeSchemaChanged        = "THEMIS_SCHEMA_CHANGED"
	ErrCodeInvalidKind          = "THEMIS_INVALID_KIND"
	ErrCodeBasedOnUnsupported   = "THEMIS_BASED_ON_UNSUPPORTED"
	ErrCodeKindMismatch         = "THEMIS_KIND_MISMATCH"
	ErrCodeProtectedParam       = "THEMIS_PROTECTED_PARAM"
	ErrCodeFrozenStore          = "THEMIS_FROZEN_STORE"
	ErrCodeInvalidDocument      = "THEMIS_INVALID_DOCUMENT"
	ErrCodeUnsupportedFormat    = "THEMIS_UNSUPPORTED_FORMAT"
	ErrCodeIOError              = "THEMIS_IO_ERROR"
	ErrCodeInvalidAuditConfig   = "THEMIS_INVALID_AUDIT_CONFIG"
	ErrCodeInvalidBufferSize    = "THEMIS_INVALID_BUFFER_SIZE"
	ErrCodeInvalidFlushInterval = "THEMIS_INVALID_FLUSH_INTERVAL"
	ErrCodeHelpRequested        = "THEMIS_HELP_REQUESTED"
)

// ConversionError reports a stored value that cannot be read back as the
// field's domain type. It is returned immediately by the accessor that hit it.
type ConversionError struct {
	Field  string // Declared field name
	Key    string // Wire key the raw value was read from
	Raw    string // Offending stored value
	Target string // Domain type name ("int", "enum ImagePlatform", ...)
	Err    error  // Coded cause
}

func newConversionError(field, key, raw, target string, cause error) *ConversionError {
	msg := fmt.Sprintf("field '%s' (key '%s'): cannot convert %q to %s", field, key, raw, target)
	var coded error
	if cause != nil {
		coded = errors.Wrap(cause, ErrCodeConversion, msg)
	} else {
		coded = errors.New(ErrCodeConversion, msg)
	}
	return &ConversionError{Field: field, Key: key, Raw: raw, Target: target, Err: coded}
}

// Error implements error
func (e *ConversionError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the coded cause
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the THEMIS_* code from an error produced by this package.
// Returns an empty string when err carries no code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if ce, ok := err.(*ConversionError); ok {
		err = ce.Err
	}
	if coder, ok := err.(errors.ErrorCoder); ok {
		return string(coder.ErrorCode())
	}
	return ""
}
