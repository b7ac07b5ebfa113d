// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command postnode starts a single gossip node listening on a local UDP
// port with the fixed peer seed list.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/decred/slog"

	"vigil.network/postchain/internal/chain"
	"vigil.network/postchain/internal/config"
	"vigil.network/postchain/internal/node"
	"vigil.network/postchain/internal/rpcserver"
	"vigil.network/postchain/internal/transport"
	"vigil.network/postchain/internal/vglog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir := filepath.Join(os.TempDir(), "postnode", strconv.Itoa(int(cfg.Port)))
	if err := vglog.InitLogRotator(filepath.Join(dataDir, "postnode.log")); err != nil {
		return fmt.Errorf("initializing log rotator: %w", err)
	}

	level, ok := slog.LevelFromString(cfg.DebugLevel)
	if !ok {
		level = slog.LevelInfo
	}
	chain.UseLogger(vglog.Logger("CHAN", level))
	node.UseLogger(vglog.Logger("NODE", level))
	rpcserver.UseLogger(vglog.Logger("RPCS", level))

	peers, err := resolvePeers(cfg.Peers)
	if err != nil {
		return err
	}

	state := node.New(cfg.Port, peers)

	t, err := transport.Listen(int(cfg.Port))
	if err != nil {
		return err
	}
	defer t.Close()

	d := node.NewDispatcher(state, t)
	d.RespondToGetTip = cfg.RespondToGetTip

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go waitForInterrupt(cancel)

	if !cfg.NoRPC {
		rpcSrv, err := rpcserver.New(&rpcserver.Config{
			State:    state,
			Listen:   cfg.RPCListen,
			CertFile: filepath.Join(dataDir, "rpc.cert"),
			KeyFile:  filepath.Join(dataDir, "rpc.key"),
		})
		if err != nil {
			return fmt.Errorf("starting debug RPC server: %w", err)
		}
		go func() {
			if err := rpcSrv.Serve(); err != nil {
				fmt.Fprintf(os.Stderr, "rpcserver: %v\n", err)
			}
		}()
	}

	d.Run(ctx)
	return nil
}

// resolvePeers parses host:port peer seeds into wire-addressable UDP
// endpoints.
func resolvePeers(seeds []string) ([]node.Peer, error) {
	peers := make([]node.Peer, 0, len(seeds))
	for _, seed := range seeds {
		addr, err := net.ResolveUDPAddr("udp4", seed)
		if err != nil {
			return nil, fmt.Errorf("invalid peer seed %q: %w", seed, err)
		}
		p, ok := node.ParsePeer(addr)
		if !ok {
			return nil, fmt.Errorf("peer seed %q is not a valid IPv4 endpoint", seed)
		}
		peers = append(peers, p)
	}
	return peers, nil
}

func waitForInterrupt(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	cancel()
}
