package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bibi40k/kconfig-oldconfig/internal/console"
)

func TestRootArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"none", nil, false},
		{"one", []string{"Kconfig"}, true},
		{"two", []string{"Kconfig", "extra"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rootCmd.Args(rootCmd, tt.args)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var ue *userError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, "pass name of base Kconfig file as argument", ue.Error())
		})
	}
}

func TestSavedConfigPath(t *testing.T) {
	t.Setenv("KCONFIG_CONFIG", "")
	configPath = ""
	assert.Equal(t, ".config", savedConfigPath())

	t.Setenv("KCONFIG_CONFIG", "build/.config")
	assert.Equal(t, "build/.config", savedConfigPath())

	configPath = "flag/.config"
	t.Cleanup(func() { configPath = "" })
	assert.Equal(t, "flag/.config", savedConfigPath())
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	kconfigPath := filepath.Join(dir, "Kconfig")
	require.NoError(t, os.WriteFile(kconfigPath, []byte("config A\n\tbool \"a\"\n"), 0o644))
	dotconfig := filepath.Join(dir, ".config")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing .config", func(t *testing.T) {
		_, err := loadModel(kconfigPath, dotconfig, logger)
		var ue *userError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, "no existing "+dotconfig, ue.Error())
		assert.NotEmpty(t, ue.Hint())
	})

	require.NoError(t, os.WriteFile(dotconfig, nil, 0o644))

	t.Run("loads", func(t *testing.T) {
		cfg, err := loadModel(kconfigPath, dotconfig, logger)
		require.NoError(t, err)
		assert.Contains(t, cfg.Syms, "A")
	})

	t.Run("parse error", func(t *testing.T) {
		bad := filepath.Join(dir, "Kconfig.bad")
		require.NoError(t, os.WriteFile(bad, []byte("config\n"), 0o644))
		_, err := loadModel(bad, dotconfig, logger)
		var ue *userError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.Error(), bad+":1")
	})

	t.Run("missing Kconfig", func(t *testing.T) {
		_, err := loadModel(filepath.Join(dir, "nope"), dotconfig, logger)
		var ue *userError
		require.True(t, errors.As(err, &ue))
		assert.Contains(t, ue.Hint(), "top-level Kconfig")
	})
}

func TestExplainRunError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
		user    bool
	}{
		{"eof", fmt.Errorf("read value for A: %w", io.EOF), "input ended before all questions were answered", true},
		{"interrupt", fmt.Errorf("read value for A: %w", console.ErrInterrupted), "cancelled", true},
		{"other", errors.New("write .config: disk full"), "write .config: disk full", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := explainRunError(tt.err, ".config")
			assert.Equal(t, tt.wantMsg, err.Error())
			var ue *userError
			assert.Equal(t, tt.user, errors.As(err, &ue))
			if tt.user {
				assert.Equal(t, ".config was left unchanged", ue.Hint())
			}
		})
	}
}

func TestPrettyHandlerPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := newPrettyLogger(&buf, false)

	logger.Debug("hidden")
	logger.Warn("the value 'x' is invalid", "symbol", "INT_SYM")
	logger.With("path", ".config").Info("written")

	assert.Equal(t, "warning: the value 'x' is invalid  symbol=INT_SYM\nwritten  path=.config\n", buf.String())
}

func TestPrettyHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	newPrettyLogger(&buf, true).Error("boom", "error", "disk full")

	out := buf.String()
	assert.Contains(t, out, clrRed+"error: "+clrReset)
	assert.Contains(t, out, clrRed+"disk full"+clrReset)
}

func TestDebugLoggerShowsDebug(t *testing.T) {
	var buf bytes.Buffer
	newDebugLogger(&buf).Debug("step started", "step", 1)
	assert.Equal(t, "debug: step started  step=1\n", buf.String())
}

func TestColorForValue(t *testing.T) {
	assert.Equal(t, clrRed, colorForValue(slog.String("error", "x")))
	assert.Equal(t, clrYellow, colorForValue(slog.Int("step", 3)))
	assert.Equal(t, clrCyan, colorForValue(slog.String("symbol", "FOO")))
	assert.Equal(t, clrCyan, colorForValue(slog.String("file", "a/b")))
}
