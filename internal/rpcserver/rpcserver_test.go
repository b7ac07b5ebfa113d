// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/decred/slog"

	"vigil.network/postchain/internal/chain"
	"vigil.network/postchain/internal/node"
	"vigil.network/postchain/internal/vglog"
	"vigil.network/postchain/internal/wire"
)

func newTestServer() *Server {
	state := node.New(42000, nil)
	return &Server{cfg: &Config{State: state}}
}

func TestHandleGetInfoReportsGenesisTip(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/getinfo", nil)
	rr := httptest.NewRecorder()

	s.handleGetInfo(rr, req)

	var result GetInfoResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.PostCount != 1 {
		t.Fatalf("postcount = %d, want 1 (genesis only)", result.PostCount)
	}
	if result.TipHash != chain.GenesisHash.String() {
		t.Fatalf("tiphash = %s, want genesis", result.TipHash)
	}
}

func TestHandleGetWorkReturnsTemplateForCurrentTip(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/getwork", nil)
	rr := httptest.NewRecorder()

	s.handleGetWork(rr, req)

	var result GetWorkResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	msg, err := wire.Decode(result.Data)
	if err != nil {
		t.Fatalf("decode work template: %v", err)
	}
	sp, ok := msg.(wire.SharePost)
	if !ok {
		t.Fatalf("work template decoded to %T, want wire.SharePost", msg)
	}
	if sp.Post.Prev != s.cfg.State.Store.Tip() {
		t.Fatalf("work template prev does not match current tip")
	}
}

func TestHandleSubmitPostAddsMinedPost(t *testing.T) {
	s := newTestServer()

	post := chain.Post{Prev: chain.GenesisHash}
	post.Body[0][0] = 0x42
	payload, err := wire.Encode(wire.SharePost{Post: post})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	body, _ := json.Marshal(SubmitPostCmd{Data: payload})

	req := httptest.NewRequest(http.MethodPost, "/submitpost", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()

	s.handleSubmitPost(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	h := chain.HashOfPost(&post)
	if _, ok := s.cfg.State.Store.Post(h); !ok {
		t.Fatalf("submitted post was not added to the store")
	}
}

func TestHandleDebugLevelAdjustsSubsystemLevel(t *testing.T) {
	s := newTestServer()
	logger := vglog.Logger("TEST", slog.LevelInfo)

	body, _ := json.Marshal(DebugLevelCmd{LevelSpec: "debug"})
	req := httptest.NewRequest(http.MethodPost, "/debuglevel", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()

	s.handleDebugLevel(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rr.Code, rr.Body.String())
	}
	if logger.Level() != slog.LevelDebug {
		t.Fatalf("subsystem level = %v, want LevelDebug", logger.Level())
	}
}

func TestHandleDebugLevelRejectsUnknownLevel(t *testing.T) {
	s := newTestServer()

	body, _ := json.Marshal(DebugLevelCmd{LevelSpec: "not-a-level"})
	req := httptest.NewRequest(http.MethodPost, "/debuglevel", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()

	s.handleDebugLevel(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an unrecognized level", rr.Code)
	}
}
