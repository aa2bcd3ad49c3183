// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"log/slog"

	"github.com/gviegas/scenegraph/internal/logx"
)

// SetLogger sets the logger used by every package of the
// module. A nil l restores the default, which discards
// all records.
// Debug records describe buffer creation and deletion
// and deferred removals. Warn records describe loss of
// vertex data and driver problems.
func SetLogger(l *slog.Logger) { logx.Set(l) }

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return logx.L() }
