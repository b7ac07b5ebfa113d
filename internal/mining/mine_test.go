// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"math/big"
	"testing"

	"vigil.network/postchain/internal/chain"
)

// TestMineFindsQualifyingWork uses a trivially low target so mining
// succeeds within a small attempt budget.
func TestMineFindsQualifyingWork(t *testing.T) {
	post := &chain.Post{}
	target := big.NewInt(1) // nearly any hash qualifies

	ok := Mine(post, target, 1000)
	if !ok {
		t.Fatal("expected mining to succeed against a trivial target")
	}
	h := chain.HashOfPost(post)
	if chain.LocalScore(h).Cmp(target) < 0 {
		t.Fatalf("mined post does not meet target")
	}
}

// TestMineExhaustsBudget uses an unreachable target so mining always
// fails within a small budget.
func TestMineExhaustsBudget(t *testing.T) {
	post := &chain.Post{}
	// LocalScore reaches 2^256 only for a hash equal to 1; every other
	// nonzero hash scores below it, so 64 attempts will not meet it.
	max := new(big.Int).Lsh(big.NewInt(1), 256)

	ok := Mine(post, max, 64)
	if ok {
		t.Fatal("expected mining to exhaust its budget against an unreachable target")
	}
}
