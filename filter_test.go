// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestNormalizeClassPattern(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Lcom/example/Foo;": "com/example/Foo",
		"com/example/Foo":   "com/example/Foo",
		"com.example.Foo":   "com/example/Foo",
		"/com/example/**":   "com/example/**",
		"  Foo  ":           "Foo",
		"":                  "",
	}

	for in, want := range tests {
		if got := normalizeClassPattern(in); got != want {
			t.Fatalf("normalizeClassPattern(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestClassFilter_Nil(t *testing.T) {
	t.Parallel()

	filter, err := newClassFilter(nil, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("newClassFilter: %v", err)
	}
	if filter != nil {
		t.Fatalf("expected nil filter without rules")
	}
	if !filter.Match("LFoo;") {
		t.Fatalf("nil filter must match every class")
	}

	classes := []*Class{{Name: "LA;"}, nil}
	if got := filter.filterClasses(classes); len(got) != 2 {
		t.Fatalf("nil filter changed the class list: %d", len(got))
	}
}

func TestClassFilter_DottedRules(t *testing.T) {
	t.Parallel()

	filter, err := newClassFilter([]pathrules.Rule{
		{Action: pathrules.ActionExclude, Pattern: "com.example.internal.**"},
		{Action: pathrules.ActionInclude, Pattern: "Lcom/example/internal/Keep;"},
	}, pathrules.MatcherOptions{DefaultAction: pathrules.ActionInclude})
	if err != nil {
		t.Fatalf("newClassFilter: %v", err)
	}

	cases := map[string]bool{
		"Lcom/example/Api;":           true,
		"Lcom/example/internal/Impl;": false,
		"Lcom/example/internal/Keep;": true,
	}
	for name, want := range cases {
		if got := filter.Match(name); got != want {
			t.Fatalf("Match(%q)=%v, want %v", name, got, want)
		}
	}
}

func TestClassFilter_DropsNilClasses(t *testing.T) {
	t.Parallel()

	filter, err := newClassFilter([]pathrules.Rule{
		{Action: pathrules.ActionExclude, Pattern: "Skip"},
	}, pathrules.MatcherOptions{DefaultAction: pathrules.ActionInclude})
	if err != nil {
		t.Fatalf("newClassFilter: %v", err)
	}

	got := filter.filterClasses([]*Class{{Name: "LKeep;"}, nil, {Name: "LSkip;"}})
	if len(got) != 1 || got[0].Name != "LKeep;" {
		t.Fatalf("unexpected filtered classes: %+v", got)
	}
}
