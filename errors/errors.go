// Package errors provides error handling for the conversion table manager.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details that do not change the error message
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Keep a sentinel's message but attach context
//	return errors.WithDetailf(errors.ErrNoMatch, "input %q", input)
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnitNotFound) {
//	    // handle unknown unit
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf   = crdb.AssertionFailedf
	IsAssertionFailure = crdb.IsAssertionFailure
)

// GetStack returns the reportable stack trace attached to an error, if any.
var GetStack = crdb.GetReportableStackTrace

// Table schema errors, raised while normalizing a raw table.
var (
	// ErrNoBase indicates a table without any base unit
	ErrNoBase = New("no base key declared")

	// ErrDuplicateBase indicates a table declaring more than one base unit
	ErrDuplicateBase = New("duplicate base key")

	// ErrMalformedTable indicates a structurally invalid unit entry
	ErrMalformedTable = New("malformed unit table")

	// ErrEmptyTable indicates there are no units to build a pattern from
	ErrEmptyTable = New("table has no units")
)

// Input and lookup errors, raised while parsing and converting.
var (
	// ErrNoMatch is the uniform parse failure. It deliberately does not say
	// which part of the input was wrong.
	ErrNoMatch = New("invalid input format or no match found")

	// ErrUnitNotFound indicates a unit key that is not in the table
	ErrUnitNotFound = New("unit not found")

	// ErrAliasTarget indicates an alias whose target is not in the table
	ErrAliasTarget = New("alias does not map to a valid unit")
)

// Registry and storage errors.
var (
	// ErrTableNotFound indicates no table is registered under a name
	ErrTableNotFound = New("table not found")

	// ErrTableExists indicates a name is taken and force was not requested
	ErrTableExists = New("table already registered")
)

// IsSchemaError reports whether err comes from table normalization or
// pattern construction.
func IsSchemaError(err error) bool {
	return err != nil && IsAny(err, ErrNoBase, ErrDuplicateBase, ErrMalformedTable, ErrEmptyTable)
}

// IsNotFoundError reports whether err is any of the lookup failures.
func IsNotFoundError(err error) bool {
	return err != nil && IsAny(err, ErrUnitNotFound, ErrAliasTarget, ErrTableNotFound)
}

// IsInputError reports whether err is a parse failure on user input.
func IsInputError(err error) bool {
	return err != nil && Is(err, ErrNoMatch)
}
