package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Bibi40k/kconfig-oldconfig/configs"
)

var debugLogger *slog.Logger
var debugCleanup func()

func initDebugLogger() func() {
	if !debugLogs {
		return nil
	}
	path := configs.Defaults.Debug.LogPath
	logger, cleanup, err := setupDebugLogger(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to enable debug log: %v\n", err)
		return nil
	}
	debugLogger = logger
	debugCleanup = cleanup
	fmt.Fprintf(os.Stderr, "  Debug log: %s\n", path)
	return cleanup
}

// getLogger returns the logger for model warnings and run diagnostics.
// Prompts own stdout, so diagnostics go to stderr.
func getLogger() *slog.Logger {
	if debugLogs && debugLogger != nil {
		return debugLogger
	}
	return newPrettyLogger(os.Stderr, isTerminal(os.Stderr))
}

func setupDebugLogger(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	mw := io.MultiWriter(os.Stderr, f)
	return newDebugLogger(mw), func() { _ = f.Close() }, nil
}

// newDebugLogger logs every level without colors, since the output also
// lands in a file.
func newDebugLogger(w io.Writer) *slog.Logger {
	return slog.New(&prettyHandler{out: w, level: slog.LevelDebug})
}
