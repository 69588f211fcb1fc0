// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestChecksum_KnownValue(t *testing.T) {
	t.Parallel()

	// Adler-32 of "Wikipedia".
	if got := Checksum([]byte("Wikipedia")); got != 0x11e60398 {
		t.Fatalf("Checksum=%#x, want 0x11e60398", got)
	}
}

func TestSealHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	image := make([]byte, headerSize+8)
	copy(image[headerSize:], "payload!")

	sealHeader(image, nil)
	if err := verifyChecksum(image); err != nil {
		t.Fatalf("verifyChecksum: %v", err)
	}
	if err := verifySignature(image); err != nil {
		t.Fatalf("verifySignature: %v", err)
	}

	image[headerSize] ^= 0xff
	if err := verifyChecksum(image); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestSealHeader_FixedID(t *testing.T) {
	t.Parallel()

	var id [signatureSize]byte
	for i := range id {
		id[i] = byte(i + 1)
	}

	image := make([]byte, headerSize)
	sealHeader(image, &id)

	if string(image[signatureStart-signatureSize:signatureStart]) != string(id[:]) {
		t.Fatalf("signature slot does not hold the id")
	}
	if got := binary.LittleEndian.Uint32(image[8:]); got != Checksum(image[checksumStart:]) {
		t.Fatalf("checksum=%#x does not cover the id", got)
	}
}
