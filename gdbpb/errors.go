// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package gdbpb

import "fmt"

// Kind is one of the named error categories from the error handling design:
// ConfigError, SchemaError, NotFound, DataError, IOError, CodecError or
// StateError. Every error surfaced across a package boundary carries a Kind,
// a human-readable message and (where applicable) the offending
// identifier, so callers can branch with errors.As without parsing strings.
type Kind int

const (
	KindConfig Kind = iota
	KindSchema
	KindNotFound
	KindData
	KindIO
	KindCodec
	KindState
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindSchema:
		return "SchemaError"
	case KindNotFound:
		return "NotFound"
	case KindData:
		return "DataError"
	case KindIO:
		return "IOError"
	case KindCodec:
		return "CodecError"
	case KindState:
		return "StateError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned across package boundaries. The
// zero value is not a valid error.
type Error struct {
	Kind Kind
	// Ident names the offending array, row, column or field, when known.
	Ident string
	Msg   string
	// Cause, if non-nil, is wrapped for errors.Unwrap/errors.Is chaining.
	Cause error
}

func (e *Error) Error() string {
	if e.Ident != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Ident, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, gdbpb.ErrNotFound) style matching: any *Error
// target of the same Kind matches, whatever its Ident, Msg or Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind with a formatted message.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Newf is an alias of New kept for readability at call sites that already
// read like a Printf call.
func Newf(k Kind, format string, args ...interface{}) *Error {
	return New(k, format, args...)
}

// WithIdent returns a copy of e with Ident set, for attaching the offending
// array/row/column name after the fact.
func (e *Error) WithIdent(ident string) *Error {
	cp := *e
	cp.Ident = ident
	return &cp
}

// Wrap attaches cause to a new Error of the given kind.
func Wrap(cause error, k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinels for errors.Is comparisons where no identifier or cause is
// needed.
var (
	ErrConfig   = &Error{Kind: KindConfig}
	ErrSchema   = &Error{Kind: KindSchema}
	ErrNotFound = &Error{Kind: KindNotFound}
	ErrData     = &Error{Kind: KindData}
	ErrIO       = &Error{Kind: KindIO}
	ErrCodec    = &Error{Kind: KindCodec}
	ErrState    = &Error{Kind: KindState}
)
