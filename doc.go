// Package flatline provides a watchdog for Bitaxe Bitcoin miners that
// detects stalled mining and restarts the device automatically.
//
// A Bitaxe can keep answering its HTTP API while its mining pipeline has
// silently flatlined. Flatline polls each device's status endpoint on an
// interval and watches the accepted-share counter: if the counter does not
// advance between two successful polls, the device is assumed stalled and
// a restart command is issued. Every cycle produces a human-readable
// status line on the console and, optionally, in per-day log files.
//
// # Quick Start
//
// Create a device and start the monitor with graceful shutdown:
//
//	dev, _ := flatline.NewDevice("192.168.1.100")
//	m, _ := flatline.New(flatline.WithDevice(dev))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Flatline uses the functional options pattern for configuration:
//
//	m, err := flatline.New(
//	    flatline.WithDevice(dev1),
//	    flatline.WithDevice(dev2),
//	    flatline.WithInterval(30 * time.Second),
//	    flatline.WithLogDir("~/bitaxe-logs"),
//	    flatline.WithMaxLogAge(7),
//	    flatline.WithWebhook("https://discord.com/api/webhooks/..."),
//	)
//
// Devices can also be configured with options:
//
//	dev, err := flatline.NewDevice("192.168.1.100",
//	    flatline.WithName("bitaxe-garage"),
//	    flatline.WithDeviceInterval(2 * time.Minute),
//	)
//
// # Stall Detection
//
// The accepted-share counter is the sole stall signal. A device is
// stalled when two consecutive successful polls return the same counter
// value; the first successful poll only establishes a baseline. Failed
// polls never count as stalls and never disturb the baseline, so a device
// that drops off the network and comes back is not restarted spuriously.
//
// # Logging
//
// Status lines go to the console with ANSI colors. With [WithLogDir] or
// [WithLogPath] they are also appended, colors stripped, to one file per
// device per calendar day, named after the device's reported hostname. At
// startup the previous day's file is gzip-compressed and files older than
// the [WithMaxLogAge] window are deleted.
//
// # Architecture
//
// Flatline consists of several internal packages (under internal/):
//
//   - internal/device: HTTP client for the Bitaxe system API
//   - internal/watch: Per-device monitor loop with stall detection
//   - internal/console: Status line formatting and ANSI handling
//   - internal/logfile: Per-day log files with compression and retention
//   - internal/notify: Best-effort webhook delivery
//   - internal/store: In-memory status storage with pub/sub updates
//   - internal/server: Optional HTTP status API
//
// The internal packages are not part of the public API and may change
// without notice.
package flatline
