// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const benchClasses = 512

var (
	// benchSink prevents compiler elimination in decode benchmark loops.
	benchSink int
)

func BenchmarkEncode(b *testing.B) {
	f := createBenchFile(benchClasses)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := Encode(f)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = len(out)
	}
}

func BenchmarkDecode(b *testing.B) {
	data, err := Encode(createBenchFile(benchClasses))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := Decode(data)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = len(f.Classes)
	}
}

func BenchmarkOpen(b *testing.B) {
	data, err := Encode(createBenchFile(benchClasses))
	if err != nil {
		b.Fatal(err)
	}

	path := filepath.Join(b.TempDir(), "classes.dex")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := Open(path)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = len(f.Classes)
	}
}

func BenchmarkRoundTripSample(b *testing.B) {
	f := sampleFile()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := Encode(f)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := Decode(out); err != nil {
			b.Fatal(err)
		}
	}
}

// createBenchFile builds a chain of classes that share one constructor body.
func createBenchFile(n int) *File {
	f := &File{Classes: make([]*Class, 0, n)}
	super := objectClass
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Lbench/C%04d;", i)
		f.Classes = append(f.Classes, &Class{
			Name:        name,
			AccessFlags: AccPublic,
			SuperClass:  super,
			InstanceFields: []Field{
				{AccessFlags: AccPublic, Name: "value", Type: "I"},
			},
			DirectMethods: []Method{{
				AccessFlags: AccPublic | AccConstructor,
				Name:        "<init>",
				Proto:       voidProto,
				Code:        constructorCode(MethodRef{Class: super, Name: "<init>", Proto: voidProto}),
			}},
		})
		super = name
	}

	return f
}
