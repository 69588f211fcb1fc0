// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"testing"

	"golang.org/x/exp/slices"
)

func TestMUTF8Compare_Order(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{a: "", b: "", want: 0},
		{a: "", b: "a", want: -1},
		{a: "a", b: "", want: 1},
		{a: "abc", b: "abd", want: -1},
		{a: "ab", b: "abc", want: -1},
		{a: "\xc0\x80", b: "\x01", want: -1},
		{a: "a\xc0\x80", b: "a", want: 1},
		{a: "Z", b: "a", want: -1},
		{a: "\xe4\xb8\xad", b: "z", want: 1},
	}

	for _, tt := range tests {
		if got := mutf8Compare(tt.a, tt.b); got != tt.want {
			t.Fatalf("mutf8Compare(%q, %q)=%d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMUTF8Compare_SortsPool(t *testing.T) {
	t.Parallel()

	got := []string{"Ljava/lang/Object;", "<init>", "V", "LFoo;", "\xc0\x80", "I"}
	slices.SortFunc(got, mutf8Compare)

	want := []string{"\xc0\x80", "<init>", "I", "LFoo;", "Ljava/lang/Object;", "V"}
	if !slices.Equal(got, want) {
		t.Fatalf("sorted=%q, want %q", got, want)
	}
}

func TestMUTF8Length(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{in: "", want: 0, ok: true},
		{in: "hello", want: 5, ok: true},
		{in: "\xc0\x80", want: 1, ok: true},
		{in: "\xd0\xb6", want: 1, ok: true},
		{in: "\xe4\xb8\xad\xe6\x96\x87", want: 2, ok: true},
		{in: "\xed\xa0\xbd\xed\xb8\x80", want: 2, ok: true},
		{in: "a\x00b", ok: false},
		{in: "\xf0\x9f\x98\x80", ok: false},
		{in: "\xc3", ok: false},
		{in: "\xe4\xb8", ok: false},
	}

	for _, tt := range tests {
		got, ok := mutf8Length(tt.in)
		if ok != tt.ok {
			t.Fatalf("mutf8Length(%q) ok=%v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Fatalf("mutf8Length(%q)=%d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClassPath(t *testing.T) {
	t.Parallel()

	if got := classPath("Lcom/example/Foo;"); got != "com/example/Foo" {
		t.Fatalf("classPath=%q", got)
	}
	if got := classPath("[I"); got != "[I" {
		t.Fatalf("classPath of array=%q", got)
	}
}
