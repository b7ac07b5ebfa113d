// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"context"
	"fmt"
	"time"

	"github.com/decred/dcrd/container/lru"
	"vigil.network/postchain/internal/chain"
	"vigil.network/postchain/internal/transport"
	"vigil.network/postchain/internal/wire"
)

// loopInterval is the fixed sleep between dispatcher iterations.
const loopInterval = 25 * time.Millisecond

// recentLogCacheSize bounds the recently-logged-message dedup cache.
const recentLogCacheSize = 256

// Dispatcher is the single-threaded event loop: drain inbox, apply each
// message to NodeState, broadcast gossip, sleep, repeat.
type Dispatcher struct {
	state     *NodeState
	transport transport.Transport

	// RespondToGetTip gates the GetTip reply path; it defaults to false,
	// leaving GetTip unhandled unless a node operator opts in.
	RespondToGetTip bool

	recentlyLogged *lru.Cache[string]
}

// NewDispatcher returns a Dispatcher driving state from t.
func NewDispatcher(state *NodeState, t transport.Transport) *Dispatcher {
	return &Dispatcher{
		state:          state,
		transport:      t,
		recentlyLogged: lru.NewCache[string](recentLogCacheSize),
	}
}

// Run drives the dispatcher loop until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.RunOnce()
		select {
		case <-ctx.Done():
			return
		case <-time.After(loopInterval):
		}
	}
}

// RunOnce executes exactly one loop iteration: drain the inbox, dispatch
// each datagram in arrival order, then broadcast Ping to every peer.
func (d *Dispatcher) RunOnce() {
	datagrams, err := d.transport.Recv()
	if err != nil {
		log.Warnf("node: transport recv error: %v", err)
	}

	for _, dg := range datagrams {
		peer, ok := ParsePeer(dg.From)
		if !ok {
			log.Debugf("node: dropping datagram from malformed endpoint %v", dg.From)
			continue
		}

		msg, err := wire.Decode(dg.Payload)
		if err != nil {
			log.Debugf("node: dropping undecodable datagram from %s: %v", peer, err)
			continue
		}

		d.onMessage(Received{Sender: peer, Message: msg})
	}

	d.broadcastPing()
}

// onMessage applies one received message to NodeState, one case per
// wire message variant.
func (d *Dispatcher) onMessage(r Received) {
	d.logOnce(r)

	switch m := r.Message.(type) {
	case wire.Ping:
		d.send(r.Sender, wire.Pong{})

	case wire.Pong:
		// no-op

	case wire.GetTip:
		if !d.RespondToGetTip {
			return
		}
		tip := d.state.Store.Tip()
		if tip == chain.GenesisHash {
			// The genesis post is keyed at the all-zero hash, not its own
			// content hash (HashOfPost(GenesisPost) != 0), so sharing it as
			// a SharePost would have a receiving peer's AddPost index it
			// under a different, nonzero hash, producing a second genesis
			// entry. There is nothing worth sharing until the chain has
			// grown past genesis.
			return
		}
		tipPost, ok := d.state.Store.Post(tip)
		if ok {
			d.send(r.Sender, wire.SharePost{Post: *tipPost})
		}

	case wire.RequestPost:
		if post, ok := d.state.Store.Post(m.Hash); ok {
			d.send(r.Sender, wire.SharePost{Post: *post})
		}

	case wire.SharePost:
		post := m.Post
		d.state.Store.AddPost(r.Sender.String(), &post)
	}
}

// send best-effort transmits a message to a peer; UDP send failures are
// logged and ignored.
func (d *Dispatcher) send(to Peer, m wire.Message) {
	payload, err := wire.Encode(m)
	if err != nil {
		log.Warnf("node: failed to encode %T: %v", m, err)
		return
	}
	if err := d.transport.Send(to.UDPAddr, payload); err != nil {
		log.Warnf("node: send to %s failed: %v", to, err)
	}
}

// broadcastPing sends Ping to every configured peer, ignoring individual
// send failures.
func (d *Dispatcher) broadcastPing() {
	payload, err := wire.Encode(wire.Ping{})
	if err != nil {
		log.Warnf("node: failed to encode Ping: %v", err)
		return
	}
	for _, p := range d.state.Peers {
		if err := d.transport.Send(p.UDPAddr, payload); err != nil {
			log.Debugf("node: ping to %s failed: %v", p, err)
		}
	}
}

// logOnce emits a "<peer> <message-name>" log line, suppressing repeats
// of the identical (peer, message) pair that already appeared recently.
// This purely reduces log noise from gossip retransmits; it never
// affects store mutation, since the store's own idempotence is what
// absorbs duplicate delivery regardless of what gets logged.
func (d *Dispatcher) logOnce(r Received) {
	key := fmt.Sprintf("%s %s", r.Sender, describeMessage(r.Message))
	if d.recentlyLogged.Contains(key) {
		return
	}
	d.recentlyLogged.Add(key)
	log.Infof("%s", key)
}

func describeMessage(m wire.Message) string {
	switch v := m.(type) {
	case wire.Ping:
		return "Ping"
	case wire.Pong:
		return "Pong"
	case wire.GetTip:
		return "GetTip"
	case wire.RequestPost:
		return fmt.Sprintf("RequestPost(%s)", v.Hash)
	case wire.SharePost:
		return fmt.Sprintf("SharePost(%s)", chain.HashOfPost(&v.Post))
	default:
		return fmt.Sprintf("%T", m)
	}
}
