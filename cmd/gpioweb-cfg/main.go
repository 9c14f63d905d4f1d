// Gpioweb-cfg is a workstation utility for talking to gpioweb devices.
//
// It provides device discovery over mDNS, one-shot status and network
// commands, a guided join flow for handing a device its Wi-Fi credential,
// and a live terminal dashboard of the device's pin state. It communicates
// with devices over their HTTP API only.
//
// Usage:
//
//	gpioweb-cfg [command] [flags]
//
// Running without arguments launches the live monitor.
// See 'gpioweb-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seancottonau/gpioweb/internal/logging"
	"github.com/seancottonau/gpioweb/internal/version"
)

func main() {
	// Keep command output clean; the daemon is the noisy one
	logging.Silence()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gpioweb-cfg",
	Short: "Gpioweb device utility",
	Long: `A workstation utility for gpioweb devices.

Provides mDNS device discovery, a guided flow for handing a device its
network credential, one-shot status commands, and a live pin dashboard.

If no command is specified, the live monitor will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the monitor when no subcommand provided
		return runMonitor(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gpioweb-cfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
