package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Bibi40k/kconfig-oldconfig/configs"
	"github.com/Bibi40k/kconfig-oldconfig/internal/console"
	"github.com/Bibi40k/kconfig-oldconfig/pkg/kconfig"
	"github.com/Bibi40k/kconfig-oldconfig/pkg/oldconfig"
)

func runOldconfig(kconfigPath string) error {
	logger := getLogger()
	path := savedConfigPath()

	cfg, err := loadModel(kconfigPath, path, logger)
	if err != nil {
		return err
	}

	w := oldconfig.NewWalker(console.New(), os.Stdout, os.Stderr)
	w.Logger = logger
	if useMenu {
		w.Selector = console.SurveySelector{}
	}
	if err := oldconfig.Run(cfg, path, w); err != nil {
		return explainRunError(err, path)
	}

	fmt.Printf("Configuration written to %s\n", path)
	return nil
}

// savedConfigPath returns the --config flag, or the conventional location.
func savedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return configs.Defaults.DotConfig.Path()
}

// loadModel checks that a saved configuration exists at path and parses
// the Kconfig tree rooted at kconfigPath.
func loadModel(kconfigPath, path string, logger *slog.Logger) (*kconfig.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &userError{
				msg:  "no existing " + path,
				hint: "create one first (for example with a defconfig target), or pass --config",
			}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	cfg, err := kconfig.Load(kconfigPath, kconfig.Options{Logger: logger})
	if err != nil {
		var pe *kconfig.ParseError
		if errors.As(err, &pe) {
			return nil, &userError{msg: err.Error(), hint: "fix the Kconfig file at the reported location"}
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &userError{msg: err.Error(), hint: "pass the path of the top-level Kconfig file"}
		}
		return nil, err
	}
	return cfg, nil
}

// explainRunError turns an aborted prompt session into an operator message.
func explainRunError(err error, path string) error {
	switch {
	case errors.Is(err, io.EOF):
		return &userError{msg: "input ended before all questions were answered", hint: path + " was left unchanged"}
	case errors.Is(err, console.ErrInterrupted):
		return &userError{msg: "cancelled", hint: path + " was left unchanged"}
	}
	return err
}
