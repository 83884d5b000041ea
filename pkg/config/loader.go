package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader reads and validates engine configuration files.
type Loader struct {
	validator *validator.Validate
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		validator: validator.New(),
	}
}

// Default returns the built-in configuration: one tissue of four compute
// cells, console logging, synchronous events, metrics and tracing off.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			CycleCost:         1.0,
			PowerBudget:       100.0,
			PowerRecharge:     0.0,
			MemoryCapacity:    100,
			CoherenceMax:      100.0,
			CoherenceDecay:    0.5,
			CoherenceWarn:     20.0,
			MaxCellsPerTissue: 64,
			MaxParallel:       4,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
				Output: "stderr",
			},
			Events: EventsConfig{
				Enabled:    true,
				BufferSize: 1000,
			},
			Metrics: MetricsConfig{
				ListenAddress: ":9464",
				Path:          "/metrics",
			},
			Tracing: TracingConfig{
				Exporter:     "stdout",
				SamplingRate: 1.0,
			},
		},
		Organ: OrganConfig{
			Name: "organ",
			Tissues: []TissueConfig{
				{ID: "tissue-0", Program: "compute", Cells: 4},
			},
		},
	}
}

// Load reads a YAML configuration file, applies defaults for omitted
// fields, and validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return l.Parse(data)
}

// Parse decodes YAML configuration bytes over the defaults and validates
// the result.
func (l *Loader) Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := l.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a configuration against its struct constraints plus
// the cross-field rules the tags cannot express.
func (l *Loader) Validate(cfg *Config) error {
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, t := range cfg.Organ.Tissues {
		if t.Cells > cfg.Engine.MaxCellsPerTissue {
			return fmt.Errorf("invalid config: tissue %s requests %d cells, max is %d",
				t.ID, t.Cells, cfg.Engine.MaxCellsPerTissue)
		}
	}
	seen := make(map[string]struct{}, len(cfg.Organ.Tissues))
	for _, t := range cfg.Organ.Tissues {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("invalid config: duplicate tissue id %s", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
