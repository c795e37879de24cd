package flatline

import (
	"errors"
	"strings"
	"time"
)

// Device represents one miner to monitor, identified by its IP address.
//
// Device is immutable after creation via [NewDevice]. All fields are
// private with getter methods, ensuring the device cannot be modified
// after construction.
//
// Devices are configured using the functional options pattern with
// [DeviceOption] functions such as [WithName] and [WithDeviceInterval].
type Device struct {
	ip       string
	name     string
	interval time.Duration
}

// IP returns the device's address.
func (d Device) IP() string {
	return d.ip
}

// Name returns the optional display name for the device.
// Empty means the device's reported hostname (or its IP until the
// hostname is known) is used instead.
func (d Device) Name() string {
	return d.name
}

// Interval returns the device's custom polling interval.
// Returns 0 if no custom interval was specified, meaning the global
// polling interval configured via [WithInterval] should be used.
func (d Device) Interval() time.Duration {
	return d.interval
}

// NewDevice creates a [Device] with the given IP address and options.
//
// The ip parameter is the device's network address ("192.168.1.50" or
// "192.168.1.50:8080"); Flatline always speaks plain http to it.
//
// Options are applied in order using the functional options pattern.
// See [WithName] and [WithDeviceInterval].
//
// Returns an error if the IP is empty or an option is invalid.
//
// Example:
//
//	dev, err := flatline.NewDevice("192.168.1.50",
//	    flatline.WithName("garage-axe"),
//	    flatline.WithDeviceInterval(30 * time.Second),
//	)
func NewDevice(ip string, opts ...DeviceOption) (Device, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return Device{}, errors.New("device ip cannot be empty")
	}
	if strings.Contains(ip, "://") {
		return Device{}, errors.New("device ip must be an address, not a URL")
	}

	cfg := &deviceConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Device{}, err
		}
	}

	return Device{
		ip:       ip,
		name:     cfg.name,
		interval: cfg.interval,
	}, nil
}
