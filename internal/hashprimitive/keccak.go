// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashprimitive implements the Keccak-256 hash primitive the chain
// core addresses posts with.
//
// The teacher's blockchain/standalone/kawpow package hand-rolls a Keccak
// permutation for its proof-of-work hasher and says so in its own comment:
// "Simplified round function ... would need full Keccak-f implementation
// for production." This package replaces that stub with the real
// golang.org/x/crypto/sha3 implementation while keeping the same New()
// constructor idiom; the wrapper exposes a single value-returning
// HashWords method rather than the hash.Hash Write/Sum interface.
package hashprimitive

import (
	"golang.org/x/crypto/sha3"
)

// WordSize is the width in bytes of a single 256-bit word.
const WordSize = 32

// Keccak hashes sequences of 256-bit big-endian words with Keccak-256.
type Keccak struct{}

// New returns a Keccak hasher.
func New() *Keccak {
	return &Keccak{}
}

// HashWords returns the Keccak-256 digest of the big-endian encoding of
// each word concatenated in order.
func (k *Keccak) HashWords(words [][WordSize]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, w := range words {
		h.Write(w[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
