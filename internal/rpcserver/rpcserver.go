// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"crypto/elliptic"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/certgen"
	"github.com/decred/slog"
	"github.com/pkg/errors"

	"vigil.network/postchain/internal/chain"
	"vigil.network/postchain/internal/node"
	"vigil.network/postchain/internal/vglog"
	"vigil.network/postchain/internal/wire"
)

var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Config describes the debug RPC server's dependencies.
type Config struct {
	// State is the live node state queried/mutated by RPC handlers. It is
	// read and written from the dispatcher goroutine's perspective too;
	// callers are responsible for synchronizing access if the dispatcher
	// and RPC server ever run concurrently.
	State *node.NodeState

	// Listen is the loopback address to serve HTTPS on, e.g. 127.0.0.1:43000.
	Listen string

	// CertFile/KeyFile locate (or will receive) the self-signed TLS pair,
	// generated on first run the same way dcrd's rpcserver.go does.
	CertFile string
	KeyFile  string
}

// Server is the DebugRPC HTTPS endpoint.
type Server struct {
	cfg *Config
	srv *http.Server
}

// New returns a Server, generating a self-signed TLS certificate pair at
// cfg.CertFile/cfg.KeyFile if one does not already exist.
func New(cfg *Config) (*Server, error) {
	if err := ensureTLSKeyPair(cfg.CertFile, cfg.KeyFile); err != nil {
		return nil, errors.Wrap(err, "generating debug RPC TLS certificate")
	}

	mux := http.NewServeMux()
	s := &Server{cfg: cfg}
	mux.HandleFunc("/getinfo", s.handleGetInfo)
	mux.HandleFunc("/getwork", s.handleGetWork)
	mux.HandleFunc("/submitpost", s.handleSubmitPost)
	mux.HandleFunc("/debuglevel", s.handleDebugLevel)

	s.srv = &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}
	return s, nil
}

// Serve starts listening, blocking until the server is shut down.
func (s *Server) Serve() error {
	log.Infof("rpcserver: listening on %s", s.cfg.Listen)
	return s.srv.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
}

func (s *Server) handleGetInfo(w http.ResponseWriter, r *http.Request) {
	tip := s.cfg.State.Store.Tip()
	score, _ := s.cfg.State.Store.Score(tip)
	result := GetInfoResult{
		TipHash:   tip.String(),
		TipScore:  score.String(),
		PostCount: s.cfg.State.Store.Len(),
	}
	writeJSON(w, result)
}

func (s *Server) handleGetWork(w http.ResponseWriter, r *http.Request) {
	tip := s.cfg.State.Store.Tip()
	candidate := chain.Post{Prev: tip}
	payload, err := wire.Encode(wire.SharePost{Post: candidate})
	if err != nil {
		writeRPCError(w, rpcInternalErr(err, "failed to encode work template"))
		return
	}
	result := GetWorkResult{
		Data:   payload,
		Target: chain.TargetToBits(chain.DefaultTarget()),
	}
	writeJSON(w, result)
}

func (s *Server) handleSubmitPost(w http.ResponseWriter, r *http.Request) {
	var cmd SubmitPostCmd
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeRPCError(w, rpcDecodeHexError(cmd.Data))
		return
	}

	msg, err := wire.Decode(cmd.Data)
	if err != nil {
		writeRPCError(w, rpcDecodeHexError(cmd.Data))
		return
	}
	sp, ok := msg.(wire.SharePost)
	if !ok {
		writeRPCError(w, rpcMiscError("submitpost data did not decode to a post"))
		return
	}

	s.cfg.State.Store.AddPost("rpc:submitpost", &sp.Post)
	writeJSON(w, map[string]string{"hash": chain.HashOfPost(&sp.Post).String()})
}

// handleDebugLevel adjusts every subsystem logger's level at runtime,
// mirroring dcrd's setdebuglevel RPC.
func (s *Server) handleDebugLevel(w http.ResponseWriter, r *http.Request) {
	var cmd DebugLevelCmd
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeRPCError(w, rpcMiscError("invalid debuglevel request body"))
		return
	}

	level, ok := slog.LevelFromString(cmd.LevelSpec)
	if !ok {
		writeRPCError(w, rpcMiscError("unrecognized debug level "+cmd.LevelSpec))
		return
	}

	vglog.SetLevels(level)
	writeJSON(w, map[string]string{"result": "Done."})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeRPCError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	writeJSON(w, map[string]string{"error": err.Error()})
}

// ensureTLSKeyPair generates a self-signed certificate valid for ten years
// if certFile/keyFile do not already exist, the same bootstrap step
// dcrd's rpcserver.go performs on first run.
func ensureTLSKeyPair(certFile, keyFile string) error {
	if _, err := os.Stat(certFile); err == nil {
		return nil
	}

	cert, key, err := certgen.NewTLSCertPair(elliptic.P521(), "postchain autogenerated cert",
		time.Now().Add(10*365*24*time.Hour), nil)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(certFile), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(certFile, cert, 0600); err != nil {
		return err
	}
	if err := os.WriteFile(keyFile, key, 0600); err != nil {
		return err
	}
	// Touch-verify the pair loads as a usable tls.Certificate before
	// reporting success.
	if _, err := tls.X509KeyPair(cert, key); err != nil {
		return err
	}
	return nil
}
