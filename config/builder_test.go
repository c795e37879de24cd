package config

import (
	"testing"
	"time"

	"github.com/jpalmerr/flatline"
)

func TestBuildDevices_SingleMiner(t *testing.T) {
	cfg, err := Parse([]byte("miners:\n  - ip: 192.168.1.100"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	devices, err := BuildDevices(cfg)
	if err != nil {
		t.Fatalf("BuildDevices() error = %v", err)
	}

	if len(devices) != 1 {
		t.Fatalf("len(devices) = %d, want 1", len(devices))
	}
	if devices[0].IP() != "192.168.1.100" {
		t.Errorf("IP() = %q, want %q", devices[0].IP(), "192.168.1.100")
	}
	if devices[0].Name() != "" {
		t.Errorf("Name() = %q, want empty", devices[0].Name())
	}
	if devices[0].Interval() != 0 {
		t.Errorf("Interval() = %v, want 0 (use global)", devices[0].Interval())
	}
}

func TestBuildDevices_MinerWithAllOptions(t *testing.T) {
	yaml := `
miners:
  - ip: 192.168.1.100
    name: garage-axe
    interval: 30s
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	devices, err := BuildDevices(cfg)
	if err != nil {
		t.Fatalf("BuildDevices() error = %v", err)
	}

	dev := devices[0]
	if dev.Name() != "garage-axe" {
		t.Errorf("Name() = %q, want %q", dev.Name(), "garage-axe")
	}
	if dev.Interval() != 30*time.Second {
		t.Errorf("Interval() = %v, want 30s", dev.Interval())
	}
}

func TestBuildOptions_ProducesWorkingMonitor(t *testing.T) {
	yaml := `
interval: 45s
status_port: 9090
miners:
  - ip: 192.168.1.100
  - ip: 192.168.1.101
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatalf("BuildOptions() error = %v", err)
	}

	m, err := flatline.New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if m.Interval() != 45*time.Second {
		t.Errorf("Interval() = %v, want 45s", m.Interval())
	}
	if m.StatusPort() != 9090 {
		t.Errorf("StatusPort() = %d, want 9090", m.StatusPort())
	}
	if len(m.Devices()) != 2 {
		t.Errorf("len(Devices()) = %d, want 2", len(m.Devices()))
	}
}

func TestBuildOptions_DuplicateMinerIPsRejectedByMonitor(t *testing.T) {
	yaml := `
miners:
  - ip: 192.168.1.100
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := BuildOptions(cfg)
	if err != nil {
		t.Fatalf("BuildOptions() error = %v", err)
	}

	if _, err := flatline.New(opts...); err == nil {
		t.Fatal("New() should reject duplicate miner IPs")
	}
}
