// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining implements the external CPU mining loop that mutates a
// candidate post's work field until its hash meets a target score, or a
// bounded number of attempts is exhausted. It is not part of the chain
// core: the store accepts whatever work value arrives.
package mining

import (
	"math/big"

	"vigil.network/postchain/internal/chain"
)

// Mine increments post.Work until LocalScore(HashOfPost(post)) >= target
// or attemptsBudget attempts have been made, whichever comes first. It
// mutates post in place and returns whether a qualifying work value was
// found within the budget.
func Mine(post *chain.Post, target *big.Int, attemptsBudget uint64) bool {
	work := new(big.Int).SetBytes(post.Work[:])
	one := big.NewInt(1)

	for attempt := uint64(0); attempt < attemptsBudget; attempt++ {
		h := chain.HashOfPost(post)
		if chain.LocalScore(h).Cmp(target) >= 0 {
			return true
		}
		work.Add(work, one)
		putWork(post, work)
	}
	return false
}

// putWork writes v into post.Work as a 32-byte big-endian value,
// truncating silently on overflow past 256 bits (mining never reaches
// that many attempts in practice).
func putWork(post *chain.Post, v *big.Int) {
	var buf [32]byte
	b := v.Bytes()
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(buf[32-len(b):], b)
	post.Work = buf
}
