package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.MaxRTTMillis != 500 {
		t.Errorf("max rtt: got %g, want 500", cfg.MaxRTTMillis)
	}
	if cfg.AllowedSeqGap != 1 {
		t.Errorf("allowed gap: got %d, want 1", cfg.AllowedSeqGap)
	}
	if cfg.TimestampFormat != "2006-01-02 15:04:05" {
		t.Errorf("format: got %q", cfg.TimestampFormat)
	}
	if cfg.HeartbeatInterval() != 0 {
		t.Errorf("heartbeat: got %v, want disabled", cfg.HeartbeatInterval())
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("default config must validate: %v", errs)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingsieve.yaml")
	yaml := `
max_rtt_ms: 250.5
heartbeat_interval_s: 30
allowed_seq_gap: 3
socket: /tmp/pingsieve.sock
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxRTTMillis != 250.5 {
		t.Errorf("max rtt: got %g, want 250.5", cfg.MaxRTTMillis)
	}
	if cfg.HeartbeatInterval() != 30*time.Second {
		t.Errorf("heartbeat: got %v, want 30s", cfg.HeartbeatInterval())
	}
	if cfg.AllowedSeqGap != 3 {
		t.Errorf("allowed gap: got %d, want 3", cfg.AllowedSeqGap)
	}
	// Untouched keys keep their defaults.
	if cfg.TimestampFormat != "2006-01-02 15:04:05" {
		t.Errorf("format lost default: %q", cfg.TimestampFormat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative max rtt", func(c *Config) { c.MaxRTTMillis = -1 }},
		{"zero allowed gap", func(c *Config) { c.AllowedSeqGap = 0 }},
		{"empty format", func(c *Config) { c.TimestampFormat = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if errs := Validate(cfg); len(errs) == 0 {
				t.Error("expected validation error")
			}
		})
	}
}
