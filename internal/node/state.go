// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node implements NodeState and the single-threaded dispatcher
// event loop that drives it from UDP traffic.
package node

import (
	"net"

	"vigil.network/postchain/internal/chain"
	"vigil.network/postchain/internal/wire"
)

// Peer is a gossip participant, identified solely by its IPv4 endpoint.
type Peer struct {
	Address wire.Address
	UDPAddr *net.UDPAddr
}

// String renders the peer's endpoint for logging.
func (p Peer) String() string {
	return p.UDPAddr.String()
}

// Received is one decoded message paired with the peer that sent it; it
// is the sole input to the dispatcher's on_message step.
type Received struct {
	Sender  Peer
	Message wire.Message
}

// NodeState is the local port, the fixed peer seed list, and the chain
// store. There is no process-wide singleton: NodeState is threaded
// through the dispatcher explicitly.
type NodeState struct {
	Port  uint16
	Peers []Peer
	Store *chain.Store
}

// New returns a NodeState seeded with a fresh genesis-only Store.
func New(port uint16, peers []Peer) *NodeState {
	return &NodeState{
		Port:  port,
		Peers: peers,
		Store: chain.New(),
	}
}

// ParsePeer converts an IPv4 UDP source endpoint into a Peer. It returns
// false for any endpoint that is not IPv4 or whose port falls outside the
// 16-bit range.
func ParsePeer(addr *net.UDPAddr) (Peer, bool) {
	if addr == nil {
		return Peer{}, false
	}
	ip4 := addr.IP.To4()
	if ip4 == nil {
		return Peer{}, false
	}
	if addr.Port < 0 || addr.Port > 0xffff {
		return Peer{}, false
	}
	var a wire.Address
	copy(a.IP[:], ip4)
	a.Port = uint16(addr.Port)
	return Peer{Address: a, UDPAddr: addr}, true
}
