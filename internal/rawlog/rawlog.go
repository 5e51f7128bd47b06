// Package rawlog sets up the structured logger shared by the decode and
// dngwriter packages. Non-fatal issues are logged here at warn level and a
// best-effort default is used by the caller.
package rawlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	mu      sync.Mutex
	current *slog.Logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
)

// Logger returns the process-wide logger.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// SetOutput redirects future log records to w at the given level, used by
// cmd/makedng to honor --verbose.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	current = slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}

// Warnf logs a non-fatal decode or write issue.
func Warnf(format string, args ...any) {
	Logger().Warn(fmt.Sprintf(format, args...))
}

// Debugf logs dispatcher/format-detection detail.
func Debugf(format string, args ...any) {
	Logger().Debug(fmt.Sprintf(format, args...))
}
