// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

/*
Package dex reads and writes Dalvik executables (DEX) and their optimized
ODEX wrappers. Decoding builds a self-contained model where every pool
reference is resolved to its value; encoding rebuilds the constant pools,
orders classes, merges identical data items and seals the header.

Decoding rules (summary):
  - every read is bounds checked against the image or the data section;
  - counts and offsets come from the file and are never trusted;
  - Adler-32 is verified unless DecodeOptions.IgnoreChecksum is set;
  - the SHA-1 signature is only verified with DecodeOptions.VerifySignature;
  - recoverable problems become warnings, or errors in Strict mode.

# Reading

Open a DEX or ODEX file and walk its classes:

	f, err := dex.Open("classes.dex")
	if err != nil {
	    return err
	}
	for _, c := range f.Classes {
	    fmt.Println(c.Name, len(c.DirectMethods)+len(c.VirtualMethods))
	}

Decode only selected classes and collect warnings:

	f, res, err := dex.DecodeWithOptions(data, dex.DecodeOptions{
	    Classes: []pathrules.Rule{
	        {Action: pathrules.ActionExclude, Pattern: "*"},
	        {Action: pathrules.ActionInclude, Pattern: "com/example/**"},
	    },
	})
	if err != nil {
	    return err
	}
	_ = f
	if res.Degraded {
	    for _, w := range res.Warnings {
	        fmt.Println(w)
	    }
	}

# Writing

Encode a model back to bytes. Files with Odex metadata are written as ODEX:

	out, err := dex.Encode(f)
	if err != nil {
	    return err
	}
	_ = out

Stream with cancellation and per-class progress:

	res, err := dex.Write(ctx, w, f, dex.EncodeOptions{
	    OnClassDone: func(name string) { log.Println("written", name) },
	})
	if err != nil {
	    return err
	}
	fmt.Println(res.DuplicateItems, "duplicate items merged")

# Bytecode

Instructions keep raw register operands in Params together with the decoded
extra operand. Use Register and SetRegister to work with logical registers:

	for i := range code.Insns {
	    insn := &code.Insns[i]
	    for r := 0; r < insn.NumRegisters(); r++ {
	        reg, _ := insn.Register(r)
	        _ = reg
	    }
	}
*/
package dex
