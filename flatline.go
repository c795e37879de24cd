package flatline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/flatline/internal/console"
	"github.com/jpalmerr/flatline/internal/device"
	"github.com/jpalmerr/flatline/internal/logfile"
	"github.com/jpalmerr/flatline/internal/notify"
	"github.com/jpalmerr/flatline/internal/server"
	"github.com/jpalmerr/flatline/internal/store"
	"github.com/jpalmerr/flatline/internal/watch"
)

const defaultInterval = 60 * time.Second

// Monitor is the main orchestrator for Bitaxe flatline monitoring.
//
// Monitor runs one watch loop per configured device: each loop polls the
// device's status endpoint, detects stalled mining by watching the
// accepted-share counter, and issues a restart command when the counter
// flatlines. It is created using [New] with functional options and
// started with [Monitor.Start].
//
// The typical lifecycle is:
//
//	dev, err := flatline.NewDevice("192.168.1.100")
//	if err != nil {
//	    slog.Error("invalid device", "error", err)
//	    os.Exit(1)
//	}
//
//	m, err := flatline.New(flatline.WithDevice(dev))
//	if err != nil {
//	    slog.Error("failed to create monitor", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	m.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown.
type Monitor struct {
	devices         []Device
	interval        time.Duration
	logTarget       string
	maxLogAgeDays   int
	webhookURL      string
	statusPort      int
	startupSummary  bool
	logger          *slog.Logger
	consoleOut      io.Writer
	statusCallbacks []func(DeviceStatus)
}

// New creates a new [Monitor] instance with the given options.
//
// At least one device must be configured via [WithDevice] or
// [WithDevices]. Other options have sensible defaults:
//   - Poll interval: 60 seconds
//   - File logging: disabled
//   - Webhook: disabled
//   - Status API: disabled
//
// Returns an error if no devices are configured, if two devices share an
// IP, or if any option is invalid.
//
// Example:
//
//	m, err := flatline.New(
//	    flatline.WithDevice(dev),
//	    flatline.WithInterval(30 * time.Second),
//	    flatline.WithLogDir("~/bitaxe-logs"),
//	)
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		devices:  []Device{},
		interval: defaultInterval,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.devices) == 0 {
		return nil, errors.New("at least one device is required")
	}

	// validate device IP uniqueness (IP is the status storage key)
	seen := make(map[string]bool, len(cfg.devices))
	for _, d := range cfg.devices {
		if seen[d.IP()] {
			return nil, fmt.Errorf("duplicate device IP: %q", d.IP())
		}
		seen[d.IP()] = true
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	consoleOut := cfg.consoleOut
	if consoleOut == nil {
		consoleOut = os.Stdout
	}

	logTarget := cfg.logPath
	if cfg.logPathIsDir && !strings.HasSuffix(logTarget, string(os.PathSeparator)) {
		// a trailing separator makes the path a directory even before
		// it exists on disk
		logTarget += string(os.PathSeparator)
	}

	return &Monitor{
		devices:         cfg.devices,
		interval:        cfg.interval,
		logTarget:       logTarget,
		maxLogAgeDays:   cfg.maxLogAgeDays,
		webhookURL:      cfg.webhookURL,
		statusPort:      cfg.statusPort,
		startupSummary:  cfg.startupSummary,
		logger:          logger,
		consoleOut:      consoleOut,
		statusCallbacks: cfg.statusCallbacks,
	}, nil
}

// Start begins monitoring all configured devices.
//
// Start is a blocking call that runs until the provided context is
// cancelled. During execution:
//
//   - Each device is polled immediately, then at the configured interval
//   - A stalled share counter triggers a restart command to the device
//   - Status lines are written to the console and, if configured, to
//     per-day log files
//   - If a webhook is configured, key events are posted to it
//   - If a status port is configured, the status API starts on it
//
// The caller controls the lifecycle via context cancellation. For signal
// handling, use [signal.NotifyContext]:
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//	m.Start(ctx)
//
// Returns nil on graceful shutdown. Returns an error if the status API
// server fails to start.
func (m *Monitor) Start(ctx context.Context) error {
	m.logger.Info("flatline monitor starting", "device_count", len(m.devices))
	m.logger.Info("polling configured", "interval", m.interval.String())

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	statuses := store.NewMemoryStore()

	client := device.NewClient()
	defer client.Close()

	webhook := notify.NewWebhook(m.webhookURL)

	if m.startupSummary {
		m.postStartupSummary(ctx, client, webhook)
	}

	// track the status consumer goroutine to ensure clean shutdown
	updates := statuses.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for st := range updates {
			if len(m.statusCallbacks) > 0 {
				public := storeStatusToPublic(st)
				for _, cb := range m.statusCallbacks {
					invokeCallbackSafe(cb, public, m.logger)
				}
			}
		}
	}()

	// cleanup closes the subscription channel and drains the consumer
	cleanup := func() {
		statuses.Unsubscribe(updates)
		wg.Wait()
	}

	if m.statusPort > 0 {
		httpServer := server.NewServer(statuses, m.statusPort, m.logger)
		if err := httpServer.Start(ctx); err != nil {
			cleanup()
			return fmt.Errorf("failed to start status server: %w", err)
		}
		m.logger.Info("status API available", "url", fmt.Sprintf("http://localhost:%d/api/status", m.statusPort))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, dev := range m.devices {
		loop := watch.NewLoop(m.loopConfig(dev),
			client,
			webhook,
			logfile.NewWriter(m.consoleOut, m.logTarget, dev.IP()),
			statuses,
			m.logger)
		g.Go(func() error {
			loop.Run(gctx)
			return nil
		})
	}

	_ = g.Wait()
	cleanup()
	m.logger.Info("flatline monitor stopped")
	return nil
}

// Devices returns a copy of the configured devices.
//
// The returned slice is a copy; modifying it does not affect the Monitor.
// Each [Device] in the slice is immutable.
func (m *Monitor) Devices() []Device {
	cp := make([]Device, len(m.devices))
	copy(cp, m.devices)
	return cp
}

// Interval returns the configured wait between successful poll cycles.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// StatusPort returns the configured status API port, or 0 when disabled.
func (m *Monitor) StatusPort() int {
	return m.statusPort
}

// loopConfig builds the watch loop configuration for one device, applying
// the device's interval override when present.
func (m *Monitor) loopConfig(d Device) watch.Config {
	interval := d.Interval()
	if interval <= 0 {
		interval = m.interval
	}
	return watch.Config{
		IP:            d.IP(),
		Name:          d.Name(),
		Interval:      interval,
		MaxLogAgeDays: m.maxLogAgeDays,
	}
}

// postStartupSummary polls every device once and posts a one-line-per-device
// fleet summary to the webhook. Poll failures become warning lines in the
// summary rather than errors.
func (m *Monitor) postStartupSummary(ctx context.Context, client *device.Client, webhook *notify.Webhook) {
	summaries := make([]string, 0, len(m.devices))
	for _, dev := range m.devices {
		summaries = append(summaries, deviceSummary(ctx, client, dev.IP()))
	}

	msg := "**🔌 Bitaxe Flatline Monitor Started**\n\n" + strings.Join(summaries, "\n")
	if err := webhook.Send(ctx, msg); err != nil {
		m.logger.Warn("failed to post startup summary", "error", err)
	}
}

// deviceSummary formats one device's line for the startup summary.
func deviceSummary(ctx context.Context, client *device.Client, ip string) string {
	info, err := client.Info(ctx, ip)
	if err != nil {
		return fmt.Sprintf("**%s** — ⚠️ Error fetching stats: `%v`", ip, err)
	}

	hostname := info.Hostname
	if hostname == "" {
		hostname = ip
	}

	uptime := info.UptimeSeconds
	if uptime != nil && *uptime == 0 {
		uptime = nil
	}

	hashRate := 0.0
	if info.HashRate != nil {
		hashRate = *info.HashRate
	}

	return fmt.Sprintf("**%s** (`%s`) — ⏱ %s, 💪 %.1f GH/s, 🔥 %s°C ASIC / %s°C VR, ✅ Shares: %d",
		hostname, ip,
		console.Uptime(uptime),
		hashRate,
		console.ASICTemp(info.ASICTemp),
		console.VRTemp(info.VRTemp),
		info.SharesAccepted)
}

// storeStatusToPublic converts a stored device status to the public API type.
func storeStatusToPublic(st store.DeviceStatus) DeviceStatus {
	var errMsg string
	if st.Error != nil {
		errMsg = *st.Error
	}

	return DeviceStatus{
		IP:             st.IP,
		Hostname:       st.Hostname,
		Status:         Status(st.Status),
		HashRate:       st.HashRate,
		ASICTemp:       st.ASICTemp,
		VRTemp:         st.VRTemp,
		SharesAccepted: st.SharesAccepted,
		UptimeSeconds:  st.UptimeSeconds,
		Restarts:       st.Restarts,
		CheckedAt:      st.CheckedAt,
		Error:          errMsg,
	}
}

// invokeCallbackSafe calls a status callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(cb func(DeviceStatus), status DeviceStatus, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			logger.Error("status callback panicked",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"device", status.IP,
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(status)
}
