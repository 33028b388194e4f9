package kconfig

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// parseString parses src as a top-level Kconfig file named "Kconfig" and
// returns the model together with everything it logged.
func parseString(t *testing.T, src string) (*Config, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	cfg, err := Parse("Kconfig", strings.NewReader(src), Options{
		Prefix: "CONFIG_",
		Header: "test",
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)
	return cfg, &logs
}

func sym(t *testing.T, cfg *Config, name string) *Symbol {
	t.Helper()
	s, ok := cfg.Syms[name]
	require.True(t, ok, "symbol %s not found", name)
	return s
}

const modulesKconfig = `
config MODULES
	bool "Enable loadable module support"
	default y
	option modules
`
