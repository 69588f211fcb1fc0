// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// classFilter holds compiled class selection rules.
type classFilter struct {
	matcher *pathrules.Matcher
}

// newClassFilter compiles class rules. It returns nil when no rule is set.
func newClassFilter(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*classFilter, error) {
	rules = normalizeClassRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidClassRule, err)
	}

	return &classFilter{matcher: matcher}, nil
}

// normalizeClassRules rewrites patterns to slash form and drops empty patterns.
func normalizeClassRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizeClassPattern(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// normalizeClassPattern accepts "Lcom/example/Foo;", "com/example/Foo" and
// "com.example.Foo" forms.
func normalizeClassPattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, "L") && strings.HasSuffix(pattern, ";") {
		pattern = pattern[1 : len(pattern)-1]
	}
	if !strings.Contains(pattern, "/") {
		pattern = strings.ReplaceAll(pattern, ".", "/")
	}

	return strings.TrimPrefix(pattern, "/")
}

// Match reports whether the class descriptor is selected. A nil filter
// selects every class.
func (f *classFilter) Match(descriptor string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	return f.matcher.Included(classPath(descriptor), false)
}

// filterClasses returns the classes selected by f.
func (f *classFilter) filterClasses(classes []*Class) []*Class {
	if f == nil {
		return classes
	}

	out := make([]*Class, 0, len(classes))
	for _, c := range classes {
		if c != nil && f.Match(c.Name) {
			out = append(out, c)
		}
	}

	return out
}
