// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import "errors"

// Sentinel errors for DEX operations. Use errors.Is in callers.
var (
	// ErrOutOfBounds means a read or a declared region runs past its section.
	ErrOutOfBounds = errors.New("read out of bounds")
	// ErrIndexTooLarge means a pool index is outside its table.
	ErrIndexTooLarge = errors.New("index out of range")
	// ErrMalformedHeader means the DEX or ODEX header is missing or invalid.
	ErrMalformedHeader = errors.New("invalid DEX file: missing or bad header")
	// ErrChecksumMismatch means a stored Adler-32 checksum or SHA-1 signature does not match.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrStructuralInconsistency means items contradict each other or break nesting rules.
	ErrStructuralInconsistency = errors.New("structural inconsistency")
	// ErrUnsupportedFeature means the input uses a feature this codec does not handle.
	ErrUnsupportedFeature = errors.New("unsupported feature")
	// ErrOperandOverflow means an instruction operand does not fit its encoded width.
	ErrOperandOverflow = errors.New("operand overflow")
	// ErrInvalidRegister means a register index or number is not valid for the instruction format.
	ErrInvalidRegister = errors.New("invalid register operand")
	// ErrSizeOverflow means a count, index or offset exceeds its on-disk field width.
	ErrSizeOverflow = errors.New("size exceeds on-disk field width")
	// ErrInputTooLarge means the input is larger than the configured decode limit.
	ErrInputTooLarge = errors.New("input exceeds size limit")
	// ErrNilFile means the file model is nil.
	ErrNilFile = errors.New("file is nil")
	// ErrNilWriter means the writer is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrInvalidClassRule means one or more class filter rules are invalid.
	ErrInvalidClassRule = errors.New("invalid class rules")
)
