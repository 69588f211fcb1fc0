// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"time"

	"github.com/apex/log"
	"github.com/woozymasta/pathrules"
)

// DefaultMaxFileSize is the default decode input limit (1 GiB).
const DefaultMaxFileSize = 1 << 30

// DecodeOptions configures decode behavior.
type DecodeOptions struct {
	// Logger receives warnings; nil means log.Log.
	Logger log.Interface `json:"-" yaml:"-"`
	// OnWarning is called for every recoverable problem.
	OnWarning func(w Warning) `json:"-" yaml:"-"`
	// Classes defines ordered path rules selecting classes to decode.
	// Descriptors are matched as paths, "Lcom/example/Foo;" as "com/example/Foo".
	Classes []pathrules.Rule `json:"classes,omitempty" yaml:"classes,omitempty"`
	// ClassMatcherOptions control class rule matching.
	ClassMatcherOptions pathrules.MatcherOptions `json:"class_matcher_options,omitzero" yaml:"class_matcher_options,omitzero"`
	// MaxFileSize rejects larger inputs. Default is 1 GiB.
	MaxFileSize int64 `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`
	// IgnoreChecksum skips Adler-32 verification of DEX and ODEX sections.
	IgnoreChecksum bool `json:"ignore_checksum,omitempty" yaml:"ignore_checksum,omitempty"`
	// VerifySignature verifies the SHA-1 signature of plain DEX files.
	VerifySignature bool `json:"verify_signature,omitempty" yaml:"verify_signature,omitempty"`
	// Strict turns warnings into errors.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// EncodeOptions configures encode behavior.
type EncodeOptions struct {
	// Logger receives warnings; nil means log.Log.
	Logger log.Interface `json:"-" yaml:"-"`
	// OnWarning is called for every recoverable problem.
	OnWarning func(w Warning) `json:"-" yaml:"-"`
	// OnClassDone is called after the items of one class are emitted.
	OnClassDone func(name string) `json:"-" yaml:"-"`
	// Classes defines ordered path rules selecting classes to write.
	Classes []pathrules.Rule `json:"classes,omitempty" yaml:"classes,omitempty"`
	// ClassMatcherOptions control class rule matching.
	ClassMatcherOptions pathrules.MatcherOptions `json:"class_matcher_options,omitzero" yaml:"class_matcher_options,omitzero"`
	// Strict turns warnings into errors.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// DecodeResult contains decode diagnostics.
type DecodeResult struct {
	// Warnings are recoverable problems in input order.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Degraded reports whether any warning was raised.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	// Classes is number of decoded classes.
	Classes int `json:"classes" yaml:"classes"`
	// SkippedClasses is number of classes dropped by class rules.
	SkippedClasses int `json:"skipped_classes,omitempty" yaml:"skipped_classes,omitempty"`
	// Duration is end-to-end decode duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// EncodeResult contains encode output statistics.
type EncodeResult struct {
	// Warnings are recoverable problems in emission order.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Degraded reports whether any warning was raised.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	// Classes is number of written class definitions.
	Classes int `json:"classes" yaml:"classes"`
	// SkippedClasses is number of classes dropped by class rules.
	SkippedClasses int `json:"skipped_classes,omitempty" yaml:"skipped_classes,omitempty"`
	// Items is number of emitted items before deduplication.
	Items int `json:"items" yaml:"items"`
	// DuplicateItems is number of data items folded into an identical twin.
	DuplicateItems int `json:"duplicate_items,omitempty" yaml:"duplicate_items,omitempty"`
	// DexSize is size of the DEX image in bytes.
	DexSize int64 `json:"dex_size" yaml:"dex_size"`
	// FileSize is total output size including the ODEX wrapper.
	FileSize int64 `json:"file_size" yaml:"file_size"`
	// Duration is end-to-end encode duration.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued decode options with defaults.
func (opts *DecodeOptions) applyDefaults() {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	if opts.Logger == nil {
		opts.Logger = log.Log
	}

	opts.ClassMatcherOptions = classMatcherDefaults(opts.ClassMatcherOptions)
}

// applyDefaults fills zero-valued encode options with defaults.
func (opts *EncodeOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = log.Log
	}

	opts.ClassMatcherOptions = classMatcherDefaults(opts.ClassMatcherOptions)
}

// classMatcherDefaults keeps classes that no rule mentions.
func classMatcherDefaults(opts pathrules.MatcherOptions) pathrules.MatcherOptions {
	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionInclude
	}

	return opts
}
