// Package config provides YAML configuration parsing for Flatline.
//
// This package enables running Flatline as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	interval: 60s
//	log_dir: ~/bitaxe-logs
//	max_log_age: 7
//	webhook: ${DISCORD_WEBHOOK}
//	status_port: 8080
//
//	miners:
//	  - ip: 192.168.1.100
//	    name: garage-axe
//	  - ip: 192.168.1.101
//	    interval: 30s
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minInterval is the minimum allowed polling interval.
// This prevents accidental hammering of miners with overly aggressive polling.
const minInterval = 1 * time.Second

// Config is the root configuration structure for Flatline.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Interval is the time between poll cycles for every miner without a
	// custom interval. Accepts duration strings like "60s", "2m".
	// Defaults to 60s.
	Interval Duration `yaml:"interval"`

	// LogDir is the directory for per-day log files. Supports environment
	// variable substitution: ${VAR} or ${VAR:-default}. Empty disables
	// file logging.
	LogDir string `yaml:"log_dir"`

	// MaxLogAge is the log retention window in days. Files older than
	// this are deleted at startup. Defaults to 7; 0 disables cleanup.
	MaxLogAge *int `yaml:"max_log_age"`

	// Webhook is the notification webhook URL. Values support environment
	// variable substitution. Empty disables notifications.
	Webhook string `yaml:"webhook"`

	// StatusPort enables the HTTP status API on the given port.
	// 0 (the default) disables it.
	StatusPort int `yaml:"status_port"`

	// Miners defines the devices to monitor.
	Miners []MinerConfig `yaml:"miners"`

	// Warnings collects non-fatal problems found while parsing, such as
	// miner entries missing an IP. The caller should log them.
	Warnings []string `yaml:"-"`
}

// MinerConfig defines a single miner to monitor.
type MinerConfig struct {
	// IP is the miner's network address ("192.168.1.50" or
	// "192.168.1.50:8080"). Required; entries without it are skipped
	// with a warning. Supports environment variable substitution.
	IP string `yaml:"ip"`

	// Name is an optional display name, used as the log file stem until
	// the miner reports its hostname.
	Name string `yaml:"name"`

	// Interval is the custom polling interval for this miner.
	// If not specified, uses the global interval.
	// Must be between 1s and 1h.
	Interval Duration `yaml:"interval"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// already have an error, skip processing
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// submatches[2] is ":-..." (non-empty if default syntax was used)
		// submatches[3] is the actual default value (may be empty for ${VAR:-})
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in LogDir, Webhook, and miner IPs
// and names.
// Defaults are applied for Interval (60s) and MaxLogAge (7 days). Miner
// entries without an IP are dropped and recorded in [Config.Warnings];
// a config with no usable miners is an error.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Interval == 0 {
		cfg.Interval = Duration(60 * time.Second)
	}
	if cfg.MaxLogAge == nil {
		days := 7
		cfg.MaxLogAge = &days
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minInterval, c.Interval.Duration())
	}

	if *c.MaxLogAge < 0 {
		return fmt.Errorf("max_log_age cannot be negative, got %d", *c.MaxLogAge)
	}

	if c.StatusPort != 0 && (c.StatusPort < 1 || c.StatusPort > 65535) {
		return fmt.Errorf("status_port must be between 1 and 65535, got %d", c.StatusPort)
	}

	if c.LogDir != "" {
		expanded, err := expandEnvVars(c.LogDir)
		if err != nil {
			return fmt.Errorf("log_dir: %w", err)
		}
		c.LogDir = expanded
	}

	if c.Webhook != "" {
		expanded, err := expandEnvVars(c.Webhook)
		if err != nil {
			return fmt.Errorf("webhook: %w", err)
		}
		c.Webhook = expanded
	}

	// miner entries with problems are skipped, not fatal, so one bad
	// entry does not take down monitoring for the rest of the fleet
	usable := make([]MinerConfig, 0, len(c.Miners))
	for i := range c.Miners {
		m := c.Miners[i]

		if strings.TrimSpace(m.IP) == "" {
			c.Warnings = append(c.Warnings, fmt.Sprintf("miners[%d]: missing ip, entry skipped", i))
			continue
		}
		expanded, err := expandEnvVars(m.IP)
		if err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf("miners[%d]: ip: %v, entry skipped", i, err))
			continue
		}
		m.IP = strings.TrimSpace(expanded)

		if m.Name != "" {
			expanded, err := expandEnvVars(m.Name)
			if err != nil {
				return fmt.Errorf("miners[%d] (%s): name: %w", i, m.IP, err)
			}
			m.Name = expanded
		}

		if m.Interval != 0 {
			if m.Interval.Duration() < time.Second {
				return fmt.Errorf("miners[%d] (%s): interval must be at least 1s, got %s",
					i, m.IP, m.Interval.Duration())
			}
			if m.Interval.Duration() > time.Hour {
				return fmt.Errorf("miners[%d] (%s): interval must not exceed 1h, got %s",
					i, m.IP, m.Interval.Duration())
			}
		}

		usable = append(usable, m)
	}
	c.Miners = usable

	if len(c.Miners) == 0 {
		return errors.New("at least one miner with an ip must be defined")
	}

	return nil
}
