package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/flatline"
	"github.com/jpalmerr/flatline/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use. Warnings and up only, so
// the per-miner status lines stay readable on the console.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// watchCmd starts monitoring one or more miners.
var watchCmd = &cobra.Command{
	Use:   "watch [ip]",
	Short: "Watch miners for stalled mining",
	Long: `Watch one or more Bitaxe miners and restart any that stall.

Single miner mode takes the miner's IP as an argument and configures
everything else with flags:

  flatline watch 192.168.1.100 -i 30s -l ~/bitaxe-logs -m 7

Fleet mode reads a YAML config file instead; all flags except
--config are ignored:

  flatline watch -c flatline.yaml

The monitor runs until interrupted (Ctrl+C) or receives SIGTERM.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("config", "c", "", "path to config file (fleet mode)")
	watchCmd.Flags().DurationP("interval", "i", 60*time.Second, "wait between poll cycles")
	watchCmd.Flags().StringP("log", "l", "", "log file or directory")
	watchCmd.Flags().IntP("max-days", "m", 0, "delete logs older than N days (0 disables)")
	watchCmd.Flags().StringP("webhook", "w", "", "webhook URL for alerts")
	watchCmd.Flags().Int("status-port", 0, "serve the status API on this port (0 disables)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")

	var opts []flatline.Option
	var minerCount int
	switch {
	case configFile != "":
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		for _, warning := range cfg.Warnings {
			logger.Warn("config problem", "detail", warning)
		}

		opts, err = config.BuildOptions(cfg)
		if err != nil {
			return fmt.Errorf("failed to build options: %w", err)
		}
		minerCount = len(cfg.Miners)

	case len(args) == 1:
		var err error
		opts, err = flagOptions(cmd, args[0])
		if err != nil {
			return err
		}
		minerCount = 1

	default:
		return errors.New("provide either a miner IP or -c <configfile>")
	}

	opts = append(opts, flatline.WithLogger(logger))

	m, err := flatline.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	fmt.Printf("Watching %d miner(s). Press Ctrl+C to stop.\n", minerCount)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start monitoring - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- m.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("monitor error: %w", err)
		}
		fmt.Println("Monitoring stopped.")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		fmt.Println("\nStopping...")
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("monitor error: %w", err)
			}
			fmt.Println("Monitoring stopped.")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// flagOptions builds monitor options for single miner mode from the watch
// command's flags.
func flagOptions(cmd *cobra.Command, ip string) ([]flatline.Option, error) {
	dev, err := flatline.NewDevice(ip)
	if err != nil {
		return nil, fmt.Errorf("invalid miner address: %w", err)
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	logPath, _ := cmd.Flags().GetString("log")
	maxDays, _ := cmd.Flags().GetInt("max-days")
	webhook, _ := cmd.Flags().GetString("webhook")
	statusPort, _ := cmd.Flags().GetInt("status-port")

	opts := []flatline.Option{
		flatline.WithDevice(dev),
		flatline.WithInterval(interval),
	}
	if logPath != "" {
		opts = append(opts, flatline.WithLogPath(logPath))
	}
	if maxDays > 0 {
		opts = append(opts, flatline.WithMaxLogAge(maxDays))
	}
	if webhook != "" {
		opts = append(opts, flatline.WithWebhook(webhook))
	}
	if statusPort != 0 {
		opts = append(opts, flatline.WithStatusPort(statusPort))
	}

	return opts, nil
}
