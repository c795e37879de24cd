package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/flatline/internal/console"
	"github.com/jpalmerr/flatline/internal/device"
	"github.com/jpalmerr/flatline/internal/logfile"
	"github.com/jpalmerr/flatline/internal/notify"
	"github.com/jpalmerr/flatline/internal/store"
)

// DefaultRecoveryWait is how long a loop waits after a failed poll before
// retrying, regardless of the configured interval.
const DefaultRecoveryWait = 10 * time.Second

// Cycle outcomes published to the store.
const (
	StatusOK          = "ok"
	StatusStalled     = "stalled"
	StatusUnreachable = "unreachable"
)

// Config holds the immutable settings for one device's monitor loop.
type Config struct {
	// IP is the device address.
	IP string

	// Name optionally overrides the log file stem until the device
	// reports a hostname.
	Name string

	// Interval is the wait between successful poll cycles.
	Interval time.Duration

	// RecoveryWait is the wait after a failed poll. Zero means
	// [DefaultRecoveryWait].
	RecoveryWait time.Duration

	// MaxLogAgeDays is the log retention window applied at loop start.
	// Zero disables retention cleanup.
	MaxLogAgeDays int
}

// Loop is the monitor loop for a single device.
//
// A Loop owns all mutable state for its device: the last observed
// accepted-share count (nil until the first successful poll) and the
// restart counter. It is driven by [Loop.Run] and is not safe for
// concurrent use: exactly one goroutine runs each Loop.
type Loop struct {
	cfg      Config
	client   *device.Client
	webhook  *notify.Webhook
	writer   *logfile.Writer
	statuses store.Store
	logger   *slog.Logger
	now      func() time.Time

	hostname   string
	lastShares *uint64
	restarts   int
}

// NewLoop creates a monitor [Loop] for one device.
//
// statuses may be nil when no status consumer exists. webhook may be nil
// (notifications disabled). writer and client are required.
func NewLoop(cfg Config, client *device.Client, webhook *notify.Webhook, writer *logfile.Writer, statuses store.Store, logger *slog.Logger) *Loop {
	if cfg.RecoveryWait <= 0 {
		cfg.RecoveryWait = DefaultRecoveryWait
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		cfg:      cfg,
		client:   client,
		webhook:  webhook,
		writer:   writer,
		statuses: statuses,
		logger:   logger,
		now:      time.Now,
	}
	if cfg.Name != "" {
		writer.SetHostname(cfg.Name)
	}
	return l
}

// Restarts returns the number of restart commands issued so far.
func (l *Loop) Restarts() int {
	return l.restarts
}

// Run executes the monitor loop until ctx is cancelled.
//
// On entry it performs the startup log maintenance for this device
// (create today's file immediately, gzip yesterday's, delete expired
// files), then cycles: poll, handle the result, wait. Maintenance runs
// again under the real stem once the device's hostname is discovered.
// Maintenance and poll errors are never fatal; the loop only ends with
// its context.
func (l *Loop) Run(ctx context.Context) {
	l.startupMaintenance()

	for {
		wait := l.cycle(ctx)

		if ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// startupMaintenance creates today's log file and rotates old ones.
func (l *Loop) startupMaintenance() {
	if err := l.writer.Touch(); err != nil {
		l.logger.Warn("failed to create log file", "device", l.cfg.IP, "error", err)
	}

	dir := l.writer.Dir()
	if dir == "" {
		return
	}
	if err := logfile.CompressPrevious(dir, l.writer.Stem(), l.now()); err != nil {
		l.logger.Warn("log rotation failed", "device", l.cfg.IP, "error", err)
	}
	if err := logfile.DeleteOld(dir, l.writer.Stem(), l.cfg.MaxLogAgeDays, l.now()); err != nil {
		l.logger.Warn("log cleanup failed", "device", l.cfg.IP, "error", err)
	}
}

// stemMaintenance reruns rotation and retention after the file stem
// changes. The startup pass ran under the provisional stem, so the
// device's real per-day files have not been rotated yet. The empty
// placeholder file created under the old stem is removed; one that
// already holds lines (pre-hostname error cycles) is kept.
func (l *Loop) stemMaintenance(oldStem string) {
	dir := l.writer.Dir()
	if dir == "" {
		return
	}
	if err := logfile.RemoveEmptyDay(dir, oldStem, l.now()); err != nil {
		l.logger.Warn("failed to remove placeholder log file", "device", l.cfg.IP, "error", err)
	}
	if err := logfile.CompressPrevious(dir, l.writer.Stem(), l.now()); err != nil {
		l.logger.Warn("log rotation failed", "device", l.cfg.IP, "error", err)
	}
	if err := logfile.DeleteOld(dir, l.writer.Stem(), l.cfg.MaxLogAgeDays, l.now()); err != nil {
		l.logger.Warn("log cleanup failed", "device", l.cfg.IP, "error", err)
	}
}

// cycle performs one poll cycle and returns how long to wait before the
// next one: the recovery wait after a failed poll, the configured
// interval otherwise.
func (l *Loop) cycle(ctx context.Context) time.Duration {
	info, err := l.client.Info(ctx, l.cfg.IP)
	if err != nil {
		l.log(fmt.Sprintf("🚫 Error communicating with Bitaxe at %s: %v", l.cfg.IP, err))
		l.notify(ctx, fmt.Sprintf("🚫 Could not communicate with Bitaxe at `%s`: %v", l.cfg.IP, err))
		l.publishUnreachable(err)
		// lastShares intentionally untouched: the next successful poll
		// compares against the last successful one
		return l.cfg.RecoveryWait
	}

	if info.Hostname != "" && info.Hostname != l.hostname {
		l.hostname = info.Hostname
		prev := l.writer.Stem()
		l.writer.SetHostname(info.Hostname)
		if l.writer.Stem() != prev {
			l.stemMaintenance(prev)
		}
	}

	l.log(console.StatusLine(console.Record{
		Timestamp: l.now(),
		Hostname:  info.Hostname,
		HashRate:  info.HashRate,
		ASICTemp:  info.ASICTemp,
		VRTemp:    info.VRTemp,
		Shares:    info.SharesAccepted,
		Uptime:    info.UptimeSeconds,
		Restarts:  l.restarts,
	}))

	status := StatusOK
	switch {
	case l.lastShares == nil:
		l.log("⏳ Initial share count received. Monitoring for changes...")
	case info.SharesAccepted == *l.lastShares:
		status = StatusStalled
		l.handleStall(ctx)
	}

	shares := info.SharesAccepted
	l.lastShares = &shares
	l.publish(info, status)

	return l.cfg.Interval
}

// handleStall runs the restart action sequence: log, notify, POST the
// restart, then log and notify the outcome. Failures are recorded but
// never stop the loop.
func (l *Loop) handleStall(ctx context.Context) {
	l.log("❗ No new shares detected. Restarting Bitaxe...")
	l.notify(ctx, fmt.Sprintf("❗ Bitaxe at `%s` had no new shares. Restarting...", l.cfg.IP))

	if err := l.client.Restart(ctx, l.cfg.IP); err != nil {
		l.log(fmt.Sprintf("⚠️ Failed to restart Bitaxe: %v", err))
		l.notify(ctx, fmt.Sprintf("⚠️ Bitaxe at `%s` failed to restart: %v", l.cfg.IP, err))
		return
	}

	l.restarts++
	l.log("✅ Restart command sent successfully.")
	l.notify(ctx, fmt.Sprintf("✅ Bitaxe at `%s` restarted successfully.", l.cfg.IP))
}

// log writes a device line to the console and the per-day log file.
func (l *Loop) log(line string) {
	if err := l.writer.Log(line); err != nil {
		l.logger.Warn("failed to write log file", "device", l.cfg.IP, "error", err)
	}
}

// notify delivers a webhook message, best-effort. Delivery failures are
// logged locally and otherwise swallowed.
func (l *Loop) notify(ctx context.Context, msg string) {
	if err := l.webhook.Send(ctx, msg); err != nil {
		l.logger.Warn("webhook notification failed", "device", l.cfg.IP, "error", err)
	}
}

// publish records the cycle outcome for status consumers.
func (l *Loop) publish(info device.SystemInfo, status string) {
	if l.statuses == nil {
		return
	}
	l.statuses.Update(store.DeviceStatus{
		IP:             l.cfg.IP,
		Hostname:       l.hostname,
		Status:         status,
		HashRate:       info.HashRate,
		ASICTemp:       info.ASICTemp,
		VRTemp:         info.VRTemp,
		SharesAccepted: info.SharesAccepted,
		UptimeSeconds:  info.UptimeSeconds,
		Restarts:       l.restarts,
		CheckedAt:      l.now(),
	})
}

// publishUnreachable records a failed poll cycle.
func (l *Loop) publishUnreachable(err error) {
	if l.statuses == nil {
		return
	}
	msg := err.Error()
	st := store.DeviceStatus{
		IP:        l.cfg.IP,
		Hostname:  l.hostname,
		Status:    StatusUnreachable,
		Restarts:  l.restarts,
		CheckedAt: l.now(),
		Error:     &msg,
	}
	if l.lastShares != nil {
		st.SharesAccepted = *l.lastShares
	}
	l.statuses.Update(st)
}
