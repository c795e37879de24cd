package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/flatline"
)

func main() {
	// start two mock miners (see mock_miner.go): one healthy, one that
	// flatlines after a few polls and needs restarting
	go StartMockMiner(":9101", "bitaxe-healthy", 0)
	go StartMockMiner(":9102", "bitaxe-flaky", 4)
	time.Sleep(100 * time.Millisecond)

	healthy, err := flatline.NewDevice("localhost:9101")
	if err != nil {
		slog.Error("failed to create device", "error", err)
		os.Exit(1)
	}

	// the flaky miner gets a tighter polling schedule
	flaky, err := flatline.NewDevice("localhost:9102",
		flatline.WithName("flaky"),
		flatline.WithDeviceInterval(3*time.Second),
	)
	if err != nil {
		slog.Error("failed to create device", "error", err)
		os.Exit(1)
	}

	m, err := flatline.New(
		flatline.WithDevices(healthy, flaky),
		flatline.WithInterval(5*time.Second),
		flatline.WithStatusPort(8080),
		flatline.WithStatusCallback(func(s flatline.DeviceStatus) {
			if s.Status == flatline.StatusStalled {
				fmt.Printf(">>> callback: %s stalled, restart #%d issued\n", s.Hostname, s.Restarts)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Flatline Demo                                       ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Watching two mock miners:                           ║")
	fmt.Println("  ║   • bitaxe-healthy (localhost:9101) keeps mining      ║")
	fmt.Println("  ║   • bitaxe-flaky (localhost:9102) stalls and gets     ║")
	fmt.Println("  ║     restarted automatically                           ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Status API: http://localhost:8080/api/status        ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Start(ctx); err != nil {
		slog.Error("flatline error", "error", err)
		os.Exit(1)
	}
}
