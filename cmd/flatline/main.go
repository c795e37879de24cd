// Package main is the entry point for the flatline CLI.
//
// Flatline can be run either as a library (SDK) or as a standalone binary.
// This CLI provides the standalone binary approach, watching one miner
// from flags or a whole fleet from a YAML config file.
//
// Usage:
//
//	flatline watch 192.168.1.100          # Watch a single miner
//	flatline watch -c config.yaml         # Watch a fleet from config
//	flatline validate -c config.yaml      # Validate configuration
//	flatline version                      # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "flatline",
	Short: "A watchdog for Bitaxe miners",
	Long: `Flatline watches Bitaxe miners for stalled mining and restarts them.

It polls each miner's system API at a configurable interval and compares
the accepted-share counter between polls. A counter that stops moving
means the miner has flatlined: Flatline sends it a restart command and,
optionally, posts an alert to a webhook.

Quick start (single miner):
  flatline watch 192.168.1.100 -i 60s -l ~/bitaxe-logs

Quick start (fleet):
  1. Create a config file (flatline.yaml)
  2. Run: flatline watch -c flatline.yaml

Example config:
  interval: 60s
  log_dir: ~/bitaxe-logs
  max_log_age: 7
  webhook: ${DISCORD_WEBHOOK}
  miners:
    - ip: 192.168.1.100
      name: garage-axe
    - ip: 192.168.1.101`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this flatline binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flatline %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
