// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vglog wires up subsystem loggers for the node, following the
// dcrd convention of a single slog.Backend writing to both stdout and a
// rotated log file, with one named subsystem logger handed out per
// package via UseLogger.
package vglog

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// subsystems lists the package-level loggers this process wires up. Each
// name matches the short subsystem tag used in log output, the same
// convention dcrd's own log.go uses.
var subsystems = map[string]*slog.Logger{}

var backendLog *slog.Backend

// InitLogRotator creates a rotating log file at logFile (rotating at
// 10 MiB, keeping the default number of backups) and directs the backend
// at both stdout and the rotator, mirroring dcrd's logWriter/log.go setup.
func InitLogRotator(logFile string) error {
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	backendLog = slog.NewBackend(io.MultiWriter(os.Stdout, r))
	return nil
}

// Logger creates the named subsystem logger at the given level and
// records it for SetLevels, replacing any logger previously created under
// the same name. If InitLogRotator has not been called, logging goes to
// stdout only.
func Logger(subsystem string, level slog.Level) slog.Logger {
	if backendLog == nil {
		backendLog = slog.NewBackend(os.Stdout)
	}
	l := backendLog.Logger(subsystem)
	l.SetLevel(level)
	subsystems[subsystem] = &l
	return l
}

// SetLevels adjusts every previously created subsystem logger's level at
// runtime; the debug RPC's /debuglevel endpoint calls it.
func SetLevels(level slog.Level) {
	for _, l := range subsystems {
		(*l).SetLevel(level)
	}
}
