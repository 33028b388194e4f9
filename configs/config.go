// Package configs provides tool defaults loaded from an embedded YAML file.
// All hardcoded values live in defaults.yaml.
package configs

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults holds all tool default values (loaded from defaults.yaml at startup).
var Defaults ToolDefaults

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &Defaults); err != nil {
		panic("kconfig-oldconfig: invalid defaults.yaml: " + err.Error())
	}
}

// ToolDefaults holds all configurable defaults.
type ToolDefaults struct {
	DotConfig DotConfigDefaults `yaml:"dotconfig"`
	Debug     DebugDefaults     `yaml:"debug"`
}

// DotConfigDefaults describes where saved configurations live and how
// their lines are spelled.
type DotConfigDefaults struct {
	Filename    string `yaml:"filename"`     // conventional saved configuration path
	FilenameEnv string `yaml:"filename_env"` // environment override for Filename
	Prefix      string `yaml:"prefix"`       // symbol prefix in .config lines
	PrefixEnv   string `yaml:"prefix_env"`   // environment override for Prefix
	Header      string `yaml:"header"`       // comment written at the top of .config
}

// DebugDefaults holds debug logging defaults.
type DebugDefaults struct {
	LogPath string `yaml:"log_path"`
}

// Path returns the saved configuration path, honoring the environment
// override when it is set.
func (d DotConfigDefaults) Path() string {
	if d.FilenameEnv != "" {
		if v := os.Getenv(d.FilenameEnv); v != "" {
			return v
		}
	}
	return d.Filename
}

// SymbolPrefix returns the .config symbol prefix, honoring the environment
// override when it is set.
func (d DotConfigDefaults) SymbolPrefix() string {
	if d.PrefixEnv != "" {
		if v, ok := os.LookupEnv(d.PrefixEnv); ok && v != "" {
			return v
		}
	}
	return d.Prefix
}
