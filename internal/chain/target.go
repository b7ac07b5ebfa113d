// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"math/big"

	"github.com/decred/dcrd/blockchain/standalone"
)

// DefaultTargetBits is the fixed, non-retargeting proof-of-work target
// used by every node on the network. It is expressed in the same compact
// "bits" encoding dcrd's internal/blockchain/validate.go and
// internal/rpcserver/rpcserver_kawpow_ext.go compare block hashes
// against, via blockchain/standalone's CompactToBig/BigToCompact.
const DefaultTargetBits uint32 = 0x1e0fffff

// DefaultTarget returns the fixed mining target as a big.Int, suitable for
// comparison against LocalScore or against a candidate hash interpreted
// as an unsigned integer.
func DefaultTarget() *big.Int {
	return standalone.CompactToBig(DefaultTargetBits)
}

// TargetToBits renders an arbitrary 256-bit target in the same compact
// encoding DefaultTargetBits uses, e.g. for a DebugRPC response.
func TargetToBits(target *big.Int) uint32 {
	return standalone.BigToCompact(target)
}
