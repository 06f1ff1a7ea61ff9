// Package config holds the runtime configuration of the filter. Values
// come from an optional pingsieve.yaml overridden by command-line flags;
// validation happens once at startup and bad configuration is fatal.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/modoterra/pingsieve/pkg/probe"
)

// Config is a pingsieve.yaml file.
type Config struct {
	// MaxRTTMillis forwards replies strictly above this latency.
	MaxRTTMillis float64 `yaml:"max_rtt_ms"`

	// TimestampFormat is the Go reference layout applied to the prefix
	// of every forwarded line, heartbeat, and snapshot.
	TimestampFormat string `yaml:"timestamp_format"`

	// HeartbeatIntervalS emits a heartbeat after this many seconds of
	// silence; zero or negative disables heartbeats.
	HeartbeatIntervalS float64 `yaml:"heartbeat_interval_s"`

	// AllowedSeqGap forwards replies whose missing-probe count reaches
	// this value.
	AllowedSeqGap int `yaml:"allowed_seq_gap"`

	// Socket is the control-socket path; empty disables the socket.
	Socket string `yaml:"socket"`

	// MetricsListen is the Prometheus listen address; empty disables it.
	MetricsListen string `yaml:"metrics_listen"`

	// Follow reads from this file instead of stdin (tee workflow).
	Follow string `yaml:"follow"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxRTTMillis:    500,
		TimestampFormat: "2006-01-02 15:04:05",
		AllowedSeqGap:   1,
	}
}

// Load reads a yaml file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Thresholds converts the forwarding limits for the classifier.
func (c Config) Thresholds() probe.Thresholds {
	return probe.Thresholds{
		MaxRTTMillis:  c.MaxRTTMillis,
		AllowedSeqGap: c.AllowedSeqGap,
	}
}

// HeartbeatInterval converts the configured seconds to a duration.
func (c Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalS * float64(time.Second))
}
