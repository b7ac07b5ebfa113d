// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain implements the content-addressed post chain: the post
// record, its hash derivation and score, and the in-memory store that
// ingests posts and tracks the canonical chain.
package chain

import (
	"math/big"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"vigil.network/postchain/internal/hashprimitive"
)

// BodyWords is the number of 256-bit words in a post body.
const BodyWords = 32

// Body is the opaque 1024-byte post payload, carried as 32 fixed-width
// 256-bit words.
type Body [BodyWords][32]byte

// Post is an immutable record: a body, a mined work value, and a pointer
// to the previous post in the chain.
type Post struct {
	Body Body
	Work [32]byte
	Prev chainhash.Hash
}

// twoTo256 is 2^256, used by LocalScore's floor(2^256/h) estimator.
var twoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)

var hasher = hashprimitive.New()

// HashOfPost returns the content-address hash of p: Keccak-256 over the
// body words followed by work and prev, each as a 32-byte big-endian
// word.
func HashOfPost(p *Post) chainhash.Hash {
	words := make([][32]byte, 0, BodyWords+2)
	for _, w := range p.Body {
		words = append(words, w)
	}
	words = append(words, p.Work, [32]byte(p.Prev))
	return chainhash.Hash(hasher.HashWords(words))
}

// LocalScore returns floor(2^256 / h) treating h as an unsigned 256-bit
// integer. A hash of all zeros (genesis only) maps to the maximum
// representable score rather than dividing by zero.
func LocalScore(h chainhash.Hash) *big.Int {
	n := new(big.Int).SetBytes(h[:])
	if n.Sign() == 0 {
		return new(big.Int).Sub(twoTo256, big.NewInt(1))
	}
	score := new(big.Int)
	score.Div(twoTo256, n)
	return score
}

// GenesisHash is the fixed zero hash that identifies the genesis post.
var GenesisHash chainhash.Hash

// GenesisPost is the synthetic zero post pre-loaded into every store under
// the zero GenesisHash: zero body, zero work, zero prev. Its own
// HashOfPost is nonzero; the store never keys it by that hash.
var GenesisPost = &Post{}
