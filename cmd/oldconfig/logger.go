package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/term"
)

const (
	clrReset  = "\033[0m"
	clrBold   = "\033[1m"
	clrRed    = "\033[31m"
	clrYellow = "\033[33m"
	clrCyan   = "\033[36m"
	clrGray   = "\033[90m"
	clrWhite  = "\033[97m"
)

// prettyHandler is a slog.Handler for operator-facing output: no
// timestamps, a level marker, and key=value attributes. With color set,
// levels and values are highlighted with ANSI colors.
type prettyHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr // pre-set attrs from WithAttrs
}

func newPrettyLogger(w io.Writer, color bool) *slog.Logger {
	return slog.New(&prettyHandler{out: w, level: slog.LevelInfo, color: color})
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &prettyHandler{mu: h.lock(), out: h.out, level: h.level, color: h.color, attrs: newAttrs}
}

func (h *prettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *prettyHandler) lock() *sync.Mutex {
	if h.mu == nil {
		h.mu = &sync.Mutex{}
	}
	return h.mu
}

// paint wraps s in color when colors are enabled.
func (h *prettyHandler) paint(color, s string) string {
	if !h.color || color == "" {
		return s
	}
	return color + s + clrReset
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var marker, msgColor string
	switch {
	case r.Level >= slog.LevelError:
		marker, msgColor = "error: ", clrRed
	case r.Level >= slog.LevelWarn:
		marker, msgColor = "warning: ", clrYellow
	case r.Level >= slog.LevelInfo:
		marker, msgColor = "", clrWhite
	default:
		marker, msgColor = "debug: ", clrGray
	}

	var sb strings.Builder
	sb.WriteString(h.paint(msgColor, marker))
	if h.color {
		sb.WriteString(h.paint(msgColor+clrBold, r.Message))
	} else {
		sb.WriteString(r.Message)
	}

	writeAttr := func(a slog.Attr) bool {
		sb.WriteString("  ")
		sb.WriteString(h.paint(clrGray, a.Key+"="))
		sb.WriteString(h.paint(colorForValue(a), a.Value.String()))
		return true
	}

	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)

	sb.WriteString("\n")

	mu := h.lock()
	mu.Lock()
	defer mu.Unlock()
	_, err := fmt.Fprint(h.out, sb.String())
	return err
}

// colorForValue picks an ANSI color based on the attribute key and value.
func colorForValue(a slog.Attr) string {
	if a.Key == "error" {
		return clrRed
	}
	val := a.Value.String()
	if strings.Contains(val, "/") || strings.HasPrefix(val, ".") {
		return clrCyan
	}
	switch a.Key {
	case "symbol", "choice", "path", "file":
		return clrCyan
	}
	if isNumericVal(val) {
		return clrYellow
	}
	return clrCyan
}

func isNumericVal(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsDigit(c) && c != '.' && c != '-' {
			return false
		}
	}
	return true
}
