// oldconfig - prompt for the Kconfig symbols a saved .config leaves open
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Bibi40k/kconfig-oldconfig/internal/console"
)

var configPath string
var debugLogs bool
var useMenu bool

// sigCh receives SIGINT outside of line editing. While readline owns the
// terminal, Ctrl+C arrives as a key press and surfaces as
// console.ErrInterrupted instead.
var sigCh = make(chan os.Signal, 1)

var rootCmd = &cobra.Command{
	Use:   "oldconfig KCONFIG",
	Short: "Ask for the values a saved configuration leaves unset",
	Long: `oldconfig loads the saved configuration, walks the menu tree of the
given Kconfig file in order and asks for every visible symbol and choice
that has no value yet. The result is written back to the saved
configuration. Unlike 'make oldconfig', menu titles and comments are not
printed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &userError{
				msg:  "pass name of base Kconfig file as argument",
				hint: "oldconfig Kconfig",
			}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = initDebugLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOldconfig(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "",
		"Path to the saved configuration (default: $KCONFIG_CONFIG or .config)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging to tmp/oldconfig-debug.log")
	rootCmd.Flags().BoolVar(&useMenu, "menu", false, "Pick choice members from an arrow-key list")
}

func main() {
	restoreTerminal := console.SaveTerminal()

	// Ctrl+C: restore the terminal and leave the saved configuration as it was.
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		restoreTerminal()
		fmt.Fprintln(os.Stderr, "\nCancelled.")
		os.Exit(1)
	}()

	if err := rootCmd.Execute(); err != nil {
		const (
			red    = "\033[31m"
			yellow = "\033[33m"
			cyan   = "\033[36m"
			reset  = "\033[0m"
		)
		if ue, ok := err.(*userError); ok {
			fmt.Fprintf(os.Stderr, "%sError:%s %s\n", red, reset, ue.Error())
			if hint := ue.Hint(); hint != "" {
				fmt.Fprintf(os.Stderr, "%sHint:%s %s%s%s\n", yellow, reset, cyan, hint, reset)
			}
		} else {
			fmt.Fprintf(os.Stderr, "%sError:%s %v\n", red, reset, err)
		}
		if debugCleanup != nil {
			debugCleanup()
		}
		os.Exit(1)
	}
	if debugCleanup != nil {
		debugCleanup()
	}
}
