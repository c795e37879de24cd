package main

import (
	"fmt"

	"github.com/jpalmerr/flatline/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the monitor.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a Flatline configuration file without starting the monitor.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  flatline validate -c config.yaml
  flatline validate --config /etc/flatline/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Interval:    %s\n", cfg.Interval.Duration())
	fmt.Printf("  Log dir:     %s\n", orNone(cfg.LogDir))
	fmt.Printf("  Max log age: %d days\n", *cfg.MaxLogAge)
	fmt.Printf("  Webhook:     %s\n", orNone(cfg.Webhook))
	fmt.Printf("  Miners:      %d\n", len(cfg.Miners))

	for _, warning := range cfg.Warnings {
		fmt.Printf("  Warning:     %s\n", warning)
	}

	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
