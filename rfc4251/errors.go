// Package rfc4251 implements the RFC 4251 wire encoding primitives used by
// the SSH agent protocol: a borrowed byte cursor and encode/decode
// functions for byte, uint32, uint64, boolean, string and mpint values.
//
// The codec is intentionally not self-describing: callers pick the decode
// function that matches their static expectation of the field's type.
// There is no "decode whatever this is" entry point.
package rfc4251

import "errors"

// ErrInsufficientData is returned when a cursor has fewer bytes remaining
// than a decode operation requires.
var ErrInsufficientData = errors.New("rfc4251: insufficient data")

// ErrInvalidUTF8 is returned when a text string decodes to invalid UTF-8.
var ErrInvalidUTF8 = errors.New("rfc4251: invalid utf-8")

// ErrTrailingData is returned by top-level decoders that promise to
// consume their input fully when bytes remain after decoding.
var ErrTrailingData = errors.New("rfc4251: trailing data")
