// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"

	"github.com/apex/log"
)

// Warning is a recoverable problem found while decoding or encoding.
type Warning struct {
	// Err is the sentinel category, e.g. ErrOperandOverflow.
	Err error `json:"-" yaml:"-"`
	// Detail is a human readable description.
	Detail string `json:"detail" yaml:"detail"`
	// Item names the structure being processed, e.g. a class or method.
	Item string `json:"item,omitempty" yaml:"item,omitempty"`
	// Offset is the input offset for decode warnings; zero when unknown.
	Offset uint32 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Error implements error.
func (w Warning) Error() string {
	if w.Item != "" {
		return fmt.Sprintf("%v: %s (%s)", w.Err, w.Detail, w.Item)
	}

	return fmt.Sprintf("%v: %s", w.Err, w.Detail)
}

// Unwrap returns the sentinel category.
func (w Warning) Unwrap() error {
	return w.Err
}

// diagnostics collects warnings and applies the strict policy.
type diagnostics struct {
	logger    log.Interface
	onWarning func(Warning)
	warnings  []Warning
	strict    bool
}

func newDiagnostics(logger log.Interface, onWarning func(Warning), strict bool) *diagnostics {
	if logger == nil {
		logger = log.Log
	}

	return &diagnostics{logger: logger, onWarning: onWarning, strict: strict}
}

// warn records w. In strict mode it returns w as an error.
func (d *diagnostics) warn(w Warning) error {
	if d.strict {
		return w
	}

	d.warnings = append(d.warnings, w)
	entry := d.logger.WithField("offset", fmt.Sprintf("0x%x", w.Offset))
	if w.Item != "" {
		entry = entry.WithField("item", w.Item)
	}
	entry.WithError(w.Err).Warn(w.Detail)

	if d.onWarning != nil {
		d.onWarning(w)
	}

	return nil
}

func (d *diagnostics) degraded() bool {
	return len(d.warnings) != 0
}
