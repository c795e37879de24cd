package config

import (
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
miners:
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.Interval.Duration() != 60*time.Second {
		t.Errorf("Interval = %v, want 60s", cfg.Interval.Duration())
	}
	if *cfg.MaxLogAge != 7 {
		t.Errorf("MaxLogAge = %d, want 7", *cfg.MaxLogAge)
	}
	if cfg.StatusPort != 0 {
		t.Errorf("StatusPort = %d, want 0 (disabled)", cfg.StatusPort)
	}
	if len(cfg.Miners) != 1 {
		t.Errorf("len(Miners) = %d, want 1", len(cfg.Miners))
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
interval: 30s
log_dir: /var/log/bitaxe
max_log_age: 14
webhook: https://discord.com/api/webhooks/abc
status_port: 9090

miners:
  - ip: 192.168.1.100
    name: garage-axe
  - ip: 192.168.1.101
    interval: 15s
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Interval.Duration() != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", cfg.Interval.Duration())
	}
	if cfg.LogDir != "/var/log/bitaxe" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/var/log/bitaxe")
	}
	if *cfg.MaxLogAge != 14 {
		t.Errorf("MaxLogAge = %d, want 14", *cfg.MaxLogAge)
	}
	if cfg.Webhook != "https://discord.com/api/webhooks/abc" {
		t.Errorf("Webhook = %q, want discord URL", cfg.Webhook)
	}
	if cfg.StatusPort != 9090 {
		t.Errorf("StatusPort = %d, want 9090", cfg.StatusPort)
	}

	if len(cfg.Miners) != 2 {
		t.Fatalf("len(Miners) = %d, want 2", len(cfg.Miners))
	}
	if cfg.Miners[0].Name != "garage-axe" {
		t.Errorf("Miners[0].Name = %q, want %q", cfg.Miners[0].Name, "garage-axe")
	}
	if cfg.Miners[1].Interval.Duration() != 15*time.Second {
		t.Errorf("Miners[1].Interval = %v, want 15s", cfg.Miners[1].Interval.Duration())
	}
}

func TestParse_MaxLogAgeZeroDisablesCleanup(t *testing.T) {
	yaml := `
max_log_age: 0
miners:
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	// explicit zero must survive defaulting
	if *cfg.MaxLogAge != 0 {
		t.Errorf("MaxLogAge = %d, want explicit 0", *cfg.MaxLogAge)
	}
}

func TestParse_MinerWithoutIPSkipped(t *testing.T) {
	yaml := `
miners:
  - name: no-address
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(cfg.Miners) != 1 {
		t.Fatalf("len(Miners) = %d, want 1 (bad entry skipped)", len(cfg.Miners))
	}
	if cfg.Miners[0].IP != "192.168.1.100" {
		t.Errorf("Miners[0].IP = %q, want the usable entry", cfg.Miners[0].IP)
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(cfg.Warnings))
	}
	if !strings.Contains(cfg.Warnings[0], "missing ip") {
		t.Errorf("Warnings[0] = %q, want missing ip message", cfg.Warnings[0])
	}
}

func TestParse_NoUsableMiners(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no miners key", `interval: 30s`},
		{"empty miners list", "miners: []"},
		{"all entries missing ip", "miners:\n  - name: a\n  - name: b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should fail with no usable miners")
			}
			if !strings.Contains(err.Error(), "at least one miner") {
				t.Errorf("error = %q, want no-miners message", err)
			}
		})
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	t.Setenv("TEST_WEBHOOK", "https://hooks.example.com/xyz")
	t.Setenv("TEST_MINER_IP", "192.168.5.20")

	yaml := `
webhook: ${TEST_WEBHOOK}
miners:
  - ip: ${TEST_MINER_IP}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Webhook != "https://hooks.example.com/xyz" {
		t.Errorf("Webhook = %q, want expanded env value", cfg.Webhook)
	}
	if cfg.Miners[0].IP != "192.168.5.20" {
		t.Errorf("Miners[0].IP = %q, want expanded env value", cfg.Miners[0].IP)
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
log_dir: ${FLATLINE_UNSET_LOG_DIR:-/tmp/bitaxe-logs}
miners:
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.LogDir != "/tmp/bitaxe-logs" {
		t.Errorf("LogDir = %q, want default value", cfg.LogDir)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	yaml := `
webhook: ${FLATLINE_UNSET_WEBHOOK}
miners:
  - ip: 192.168.1.100
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() should fail for unset env var without default")
	}
	if !strings.Contains(err.Error(), "FLATLINE_UNSET_WEBHOOK") {
		t.Errorf("error = %q, want variable name", err)
	}
}

func TestParse_EnvVarMissingInMinerIPSkipsEntry(t *testing.T) {
	yaml := `
miners:
  - ip: ${FLATLINE_UNSET_IP}
  - ip: 192.168.1.100
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Miners) != 1 {
		t.Fatalf("len(Miners) = %d, want 1", len(cfg.Miners))
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(cfg.Warnings))
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "interval below minimum",
			yaml:    "interval: 500ms\nminers:\n  - ip: 192.168.1.100",
			wantErr: "interval must be at least",
		},
		{
			name:    "negative max_log_age",
			yaml:    "max_log_age: -1\nminers:\n  - ip: 192.168.1.100",
			wantErr: "max_log_age cannot be negative",
		},
		{
			name:    "status_port out of range",
			yaml:    "status_port: 70000\nminers:\n  - ip: 192.168.1.100",
			wantErr: "status_port must be between",
		},
		{
			name:    "miner interval too short",
			yaml:    "miners:\n  - ip: 192.168.1.100\n    interval: 100ms",
			wantErr: "interval must be at least 1s",
		},
		{
			name:    "miner interval too long",
			yaml:    "miners:\n  - ip: 192.168.1.100\n    interval: 2h",
			wantErr: "interval must not exceed 1h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("miners: [unclosed"))
	if err == nil {
		t.Fatal("Parse() should fail on invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error = %q, want YAML parse message", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	yaml := `
interval: sixty seconds
miners:
  - ip: 192.168.1.100
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() should fail on invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %q, want invalid duration message", err)
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"1h", time.Hour},
		{"1500ms", 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			yaml := "interval: " + tt.input + "\nminers:\n  - ip: 192.168.1.100"
			cfg, err := Parse([]byte(yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.Interval.Duration() != tt.want {
				t.Errorf("Interval = %v, want %v", cfg.Interval.Duration(), tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FLATLINE_TEST_VAR", "value123")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no variables", "plain string", "plain string", false},
		{"set variable", "prefix-${FLATLINE_TEST_VAR}-suffix", "prefix-value123-suffix", false},
		{"default used", "${FLATLINE_TEST_UNSET:-fallback}", "fallback", false},
		{"default ignored when set", "${FLATLINE_TEST_VAR:-fallback}", "value123", false},
		{"empty default", "${FLATLINE_TEST_UNSET:-}", "", false},
		{"unset without default", "${FLATLINE_TEST_UNSET}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandEnvVars(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
