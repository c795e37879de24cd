package flatline

import (
	"errors"
	"io"
	"log/slog"
	"time"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	devices         []Device
	interval        time.Duration
	logPath         string
	logPathIsDir    bool
	maxLogAgeDays   int
	webhookURL      string
	statusPort      int
	startupSummary  bool
	logger          *slog.Logger
	consoleOut      io.Writer
	statusCallbacks []func(DeviceStatus)
}

// Option is a function that configures a [Monitor] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithDevice], [WithDevices], [WithInterval],
// [WithLogPath], [WithLogDir], [WithMaxLogAge], [WithWebhook],
// [WithStatusPort], [WithStartupSummary], [WithLogger],
// [WithConsoleWriter], [WithStatusCallback].
type Option func(*monitorConfig) error

// WithDevice adds a single [Device] to the monitored set.
//
// Can be called multiple times to add multiple devices. At least one
// device must be configured for [New] to succeed.
//
// Example:
//
//	m, err := flatline.New(
//	    flatline.WithDevice(dev1),
//	    flatline.WithDevice(dev2),
//	)
func WithDevice(d Device) Option {
	return func(cfg *monitorConfig) error {
		cfg.devices = append(cfg.devices, d)
		return nil
	}
}

// WithDevices adds multiple [Device] values to the monitored set.
//
// This is a convenience function for adding several devices at once.
// Equivalent to calling [WithDevice] multiple times.
func WithDevices(devices ...Device) Option {
	return func(cfg *monitorConfig) error {
		cfg.devices = append(cfg.devices, devices...)
		return nil
	}
}

// WithInterval sets the wait between successful poll cycles.
//
// The interval applies to every device without a custom
// [WithDeviceInterval]. Defaults to 60 seconds if not specified.
// After a failed poll a device retries after a fixed shorter recovery
// interval instead, regardless of this setting.
//
// Returns an error if the duration is zero or negative.
func WithInterval(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithLogPath enables file logging to the given path.
//
// If the path is an existing directory (or ends with a path separator),
// each device writes one file per calendar day inside it, named after the
// device's hostname and the date. Any other path is used as a single
// explicit log file. File logging is disabled when no path is set.
//
// Returns an error if the path is empty.
func WithLogPath(path string) Option {
	return func(cfg *monitorConfig) error {
		if path == "" {
			return errors.New("log path cannot be empty")
		}
		cfg.logPath = path
		cfg.logPathIsDir = false
		return nil
	}
}

// WithLogDir enables file logging into the given directory, creating it
// if needed.
//
// Unlike [WithLogPath], the path is always treated as a directory even
// when it does not exist yet. This is what multi-device configuration
// files use.
//
// Returns an error if the directory is empty.
func WithLogDir(dir string) Option {
	return func(cfg *monitorConfig) error {
		if dir == "" {
			return errors.New("log directory cannot be empty")
		}
		cfg.logPath = dir
		cfg.logPathIsDir = true
		return nil
	}
}

// WithMaxLogAge sets the retention window for per-day log files.
//
// At startup, each device's log files older than the given number of
// days are deleted. Zero (the default) disables cleanup.
//
// Returns an error if days is negative.
func WithMaxLogAge(days int) Option {
	return func(cfg *monitorConfig) error {
		if days < 0 {
			return errors.New("max log age cannot be negative")
		}
		cfg.maxLogAgeDays = days
		return nil
	}
}

// WithWebhook enables webhook notifications to the given URL.
//
// Key events (unreachable device, restart attempted, restart result) are
// posted to the URL as a JSON body with a single "content" text field
// (Discord-compatible). Delivery is best-effort: failures are logged
// locally and never affect monitoring.
//
// Returns an error if the URL is empty.
func WithWebhook(url string) Option {
	return func(cfg *monitorConfig) error {
		if url == "" {
			return errors.New("webhook URL cannot be empty")
		}
		cfg.webhookURL = url
		return nil
	}
}

// WithStatusPort enables the HTTP status API on the given port.
//
// When set, GET /api/status serves a JSON snapshot of every device's
// latest state. Disabled by default.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithStatusPort(port int) Option {
	return func(cfg *monitorConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("status port must be between 1 and 65535")
		}
		cfg.statusPort = port
		return nil
	}
}

// WithStartupSummary posts a fleet summary to the webhook when
// monitoring starts.
//
// The summary contains one line per device from a one-shot poll. It is a
// no-op when no webhook is configured. Multi-device configuration files
// enable this automatically.
func WithStartupSummary() Option {
	return func(cfg *monitorConfig) error {
		cfg.startupSummary = true
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for diagnostic logging.
//
// This covers Flatline's own operational messages (rotation failures,
// webhook delivery problems, lifecycle events), not the per-device status
// lines. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithConsoleWriter redirects the per-device status lines.
//
// Status lines are written to os.Stdout by default. Embedding
// applications and tests can capture them by supplying another writer.
//
// Returns an error if the writer is nil.
func WithConsoleWriter(w io.Writer) Option {
	return func(cfg *monitorConfig) error {
		if w == nil {
			return errors.New("console writer cannot be nil")
		}
		cfg.consoleOut = w
		return nil
	}
}

// WithStatusCallback registers a function to be called after every poll cycle.
//
// The callback receives a [DeviceStatus] describing the cycle's outcome.
// Multiple callbacks may be registered by calling WithStatusCallback
// multiple times; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. Long-running operations
// should dispatch work to a separate goroutine. Blocking callbacks delay
// delivery of subsequent statuses.
//
// Callbacks are invoked from a single goroutine. Panics within callbacks
// are recovered and logged; they do not crash the monitor.
//
// Example:
//
//	m, err := flatline.New(
//	    flatline.WithDevice(dev),
//	    flatline.WithStatusCallback(func(s flatline.DeviceStatus) {
//	        if s.Status == flatline.StatusStalled {
//	            log.Printf("ALERT: %s stalled, restart #%d", s.IP, s.Restarts)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStatusCallback(cb func(DeviceStatus)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.statusCallbacks = append(cfg.statusCallbacks, cb)
		return nil
	}
}
