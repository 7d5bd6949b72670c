// Package errors is the error vocabulary used across tsdoc.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user hints from a single import:
//
//	if err := host.ReadFile(path); err != nil {
//	    return errors.Wrapf(err, "read %s", path)
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
	Join      = crdb.Join
)

// Sentinels shared between packages.
var (
	// ErrUnknownOption is reported when an option file or flag names an undeclared option.
	ErrUnknownOption = New("unknown option")
	// ErrInvalidOptionValue is reported when a value cannot be coerced to the declared kind.
	ErrInvalidOptionValue = New("invalid option value")
	// ErrNoInputFiles means the entry points expanded to nothing.
	ErrNoInputFiles = New("no input files")
	// ErrCompilerErrors means the compiler reported diagnostics and the run stopped before output.
	ErrCompilerErrors = New("compiler reported errors")
	// ErrTypeQuery is returned by the checker when it cannot type an expression.
	ErrTypeQuery = New("type query failed")
)
