package config

import (
	"github.com/jpalmerr/flatline"
)

// BuildDevices converts parsed configuration into SDK Device objects.
func BuildDevices(cfg *Config) ([]flatline.Device, error) {
	devices := make([]flatline.Device, 0, len(cfg.Miners))

	for _, mc := range cfg.Miners {
		dev, err := buildDevice(mc)
		if err != nil {
			return nil, err
		}
		devices = append(devices, dev)
	}

	return devices, nil
}

// buildDevice converts a single MinerConfig to an SDK Device.
func buildDevice(mc MinerConfig) (flatline.Device, error) {
	var opts []flatline.DeviceOption

	if mc.Name != "" {
		opts = append(opts, flatline.WithName(mc.Name))
	}

	if mc.Interval != 0 {
		opts = append(opts, flatline.WithDeviceInterval(mc.Interval.Duration()))
	}

	return flatline.NewDevice(mc.IP, opts...)
}

// BuildOptions converts parsed configuration into SDK Monitor options,
// devices included.
//
// A configured webhook also enables the startup summary, matching what
// config-file deployments expect: one fleet overview message when the
// monitor comes up.
func BuildOptions(cfg *Config) ([]flatline.Option, error) {
	devices, err := BuildDevices(cfg)
	if err != nil {
		return nil, err
	}

	opts := []flatline.Option{
		flatline.WithDevices(devices...),
		flatline.WithInterval(cfg.Interval.Duration()),
	}

	if cfg.LogDir != "" {
		opts = append(opts, flatline.WithLogDir(cfg.LogDir))
	}

	if *cfg.MaxLogAge > 0 {
		opts = append(opts, flatline.WithMaxLogAge(*cfg.MaxLogAge))
	}

	if cfg.Webhook != "" {
		opts = append(opts, flatline.WithWebhook(cfg.Webhook), flatline.WithStartupSummary())
	}

	if cfg.StatusPort != 0 {
		opts = append(opts, flatline.WithStatusPort(cfg.StatusPort))
	}

	return opts, nil
}
