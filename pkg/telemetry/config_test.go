package telemetry

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing service name",
			mutate: func(c *Config) { c.ServiceName = "" },
			want:   "service name is required",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "loud" },
			want:   "invalid log level",
		},
		{
			name:   "bad log format",
			mutate: func(c *Config) { c.Logging.Format = "xml" },
			want:   "invalid log format",
		},
		{
			name: "bad trace exporter",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "jaeger"
			},
			want: "invalid trace exporter",
		},
		{
			name:   "sampling rate out of range",
			mutate: func(c *Config) { c.Tracing.SamplingRate = 1.5 },
			want:   "sampling rate",
		},
		{
			name: "metrics enabled without address",
			mutate: func(c *Config) {
				c.Metrics.Enabled = true
				c.Metrics.ListenAddress = ""
			},
			want: "listen address is required",
		},
		{
			name:   "zero event buffer",
			mutate: func(c *Config) { c.Events.BufferSize = 0 },
			want:   "buffer size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDisabledSubsystemsSkipValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tracing.Enabled = false
	cfg.Tracing.Exporter = "jaeger"
	cfg.Metrics.Enabled = false
	cfg.Metrics.ListenAddress = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled subsystems must not be validated: %v", err)
	}
}
