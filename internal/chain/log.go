// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import "github.com/decred/slog"

// log is the package-level subsystem logger, wired up via UseLogger by the
// process entry point. It is a no-op logger until then, following dcrd's
// subsystem-logger convention.
var log = slog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger slog.Logger) {
	log = logger
}
