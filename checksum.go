// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dex

package dex

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // DEX format requires SHA1.
	"encoding/binary"
	"fmt"
	"hash/adler32"
)

// Checksum returns the Adler-32 checksum used by DEX and ODEX headers.
func Checksum(b []byte) uint32 {
	return adler32.Checksum(b)
}

// Signature returns the SHA-1 digest used as DEX signature.
func Signature(b []byte) [signatureSize]byte {
	return sha1.Sum(b) //nolint:gosec // DEX format requires SHA1.
}

// sealHeader stores the signature (or id when non-nil) and then the
// checksum into a complete DEX image.
func sealHeader(image []byte, id *[signatureSize]byte) {
	var sig [signatureSize]byte
	if id != nil {
		sig = *id
	} else {
		sig = Signature(image[signatureStart:])
	}

	copy(image[checksumStart:signatureStart], sig[:])
	binary.LittleEndian.PutUint32(image[8:], Checksum(image[checksumStart:]))
}

// verifyChecksum checks the stored Adler-32 of a DEX image.
func verifyChecksum(image []byte) error {
	stored := binary.LittleEndian.Uint32(image[8:])
	if got := Checksum(image[checksumStart:]); got != stored {
		return fmt.Errorf("%w: dex checksum 0x%08x, computed 0x%08x", ErrChecksumMismatch, stored, got)
	}

	return nil
}

// verifySignature checks the stored SHA-1 signature of a DEX image.
func verifySignature(image []byte) error {
	sum := Signature(image[signatureStart:])
	if !bytes.Equal(sum[:], image[checksumStart:signatureStart]) {
		return fmt.Errorf("%w: dex signature", ErrChecksumMismatch)
	}

	return nil
}
