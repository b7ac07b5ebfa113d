// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpcserver implements the optional debug RPC endpoint:
// getinfo/getwork/submitpost over loopback HTTPS, modeled on the
// teacher's internal/rpcserver/rpcserver_kawpow*.go getwork/submission
// handlers.
package rpcserver

import "github.com/decred/dcrd/dcrjson/v4"

// GetInfoResult mirrors the shape of dcrd's own getinfo result: a flat
// struct of current node status fields.
type GetInfoResult struct {
	TipHash   string `json:"tiphash"`
	TipScore  string `json:"tipscore"`
	PostCount int    `json:"postcount"`
}

// GetWorkResult carries a work template for the external mining loop:
// the hex-encoded candidate post (prev already set to the current tip,
// work zeroed) and the fixed target's compact bits encoding.
type GetWorkResult struct {
	Data   string `json:"data"`
	Target uint32 `json:"target"`
}

// SubmitPostCmd is the submitpost command payload: a hex-encoded,
// already-mined post in the same binary layout as a SharePost payload.
type SubmitPostCmd struct {
	Data string `json:"data"`
}

// DebugLevelCmd is the debuglevel command payload: a level name accepted
// by slog.LevelFromString (trace, debug, info, warn, error, critical),
// applied to every subsystem logger.
type DebugLevelCmd struct {
	LevelSpec string `json:"levelspec"`
}

func rpcInternalErr(err error, context string) error {
	return &dcrjson.RPCError{
		Code:    dcrjson.ErrRPCInternal.Code,
		Message: context + ": " + err.Error(),
	}
}

func rpcMiscError(message string) error {
	return &dcrjson.RPCError{
		Code:    dcrjson.ErrRPCMisc.Code,
		Message: message,
	}
}

func rpcDecodeHexError(data string) error {
	return &dcrjson.RPCError{
		Code:    dcrjson.ErrRPCDecodeHex.Code,
		Message: "Invalid parameter " + data,
	}
}
