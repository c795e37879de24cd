package flatline

import (
	"errors"
	"time"
)

// deviceConfig holds mutable state during device construction.
type deviceConfig struct {
	name     string
	interval time.Duration
}

// DeviceOption is a function that configures a [Device] during construction.
//
// DeviceOption implements the functional options pattern, allowing
// optional configuration to be passed to [NewDevice] in a type-safe,
// extensible way. Options return an error if validation fails.
//
// Built-in options: [WithName], [WithDeviceInterval].
type DeviceOption func(*deviceConfig) error

// WithName sets a display name for the device.
//
// The name is used as the log file stem until the device reports its
// hostname, and makes multi-device console output easier to tell apart.
//
// Example:
//
//	dev, err := flatline.NewDevice("192.168.1.50",
//	    flatline.WithName("garage-axe"),
//	)
//
// Returns an error if the name is empty.
func WithName(name string) DeviceOption {
	return func(cfg *deviceConfig) error {
		if name == "" {
			return errors.New("device name cannot be empty")
		}
		cfg.name = name
		return nil
	}
}

// WithDeviceInterval sets a custom polling interval for this device.
//
// When set, this device is polled at the specified interval instead of
// the global interval. Use this to watch a flaky device more closely
// without tightening the schedule for the whole fleet.
//
// The interval must be at least 1 second and at most 1 hour.
// Returns an error if the interval is outside these bounds.
//
// If not specified, the device uses the global interval configured via
// [WithInterval].
//
// Example:
//
//	flaky, _ := flatline.NewDevice("192.168.1.51",
//	    flatline.WithDeviceInterval(15 * time.Second),
//	)
func WithDeviceInterval(d time.Duration) DeviceOption {
	return func(cfg *deviceConfig) error {
		if d < time.Second {
			return errors.New("interval must be at least 1 second")
		}
		if d > time.Hour {
			return errors.New("interval must not exceed 1 hour")
		}
		cfg.interval = d
		return nil
	}
}
