// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package config parses the node's command-line configuration with
// jessevdk/go-flags, the same flag library dcrd depends on for its own
// dcrd.conf/CLI flag struct.
package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// defaultPeers is the hardcoded peer seed list used when none is given
// on the command line.
var defaultPeers = []string{
	"127.0.0.1:42000",
	"127.0.0.1:42001",
	"127.0.0.1:42002",
	"127.0.0.1:42003",
}

// Config holds the node's parsed command-line configuration.
type Config struct {
	Port            uint16   `short:"p" long:"port" description:"Local UDP port to listen on" required:"true"`
	Peers           []string `long:"peers" description:"Peer seed list, host:port (repeatable)"`
	DebugLevel      string   `long:"debuglevel" description:"Logging level: trace, debug, info, warn, error, critical" default:"info"`
	RPCListen       string   `long:"rpclisten" description:"Address for the debug RPC endpoint to listen on"`
	NoRPC           bool     `long:"norpc" description:"Disable the debug RPC endpoint"`
	RespondToGetTip bool     `long:"respond-to-gettip" description:"Reply to GetTip requests with SharePost(tip)"`
}

// Load parses os.Args into a Config, applying the fixed peer seed list
// default when none is given on the command line.
func Load() (*Config, error) {
	cfg := &Config{}
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, errors.Wrap(err, "parsing command-line flags")
	}

	if len(cfg.Peers) == 0 {
		cfg.Peers = defaultPeers
	}
	if cfg.RPCListen == "" {
		cfg.RPCListen = fmt.Sprintf("127.0.0.1:%d", int(cfg.Port)+1000)
	}
	return cfg, nil
}
