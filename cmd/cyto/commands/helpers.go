package commands

import (
	"fmt"
	"strconv"

	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/config"
	"github.com/cytoweave/cytoweave/pkg/genome"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
)

// loadConfig resolves the effective configuration: the file named by
// --config, or the built-in defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.NewLoader().Load(configPath)
}

// newTelemetryConfig maps the loaded configuration to the telemetry
// package, honoring the --verbose flag.
func newTelemetryConfig(cfg *config.Config) *telemetry.Config {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg.Telemetry.Telemetry("cytoweave", buildVersion, "production")
}

// buildCatalog creates the program catalog with the built-in profiles
// and any programs found under programs_dir.
func buildCatalog(cfg *config.Config, logger *telemetry.Logger) (*genome.Catalog, error) {
	catalog := genome.NewCatalog(logger.Zerolog())
	if cfg.ProgramsDir != "" {
		if err := catalog.LoadDir(cfg.ProgramsDir); err != nil {
			return nil, fmt.Errorf("failed to load programs from %s: %w", cfg.ProgramsDir, err)
		}
	}
	return catalog, nil
}

// buildOrgan constructs the configured organ topology. Each tissue's
// program must exist in the catalog; cells are built, loaded, and
// reconfigured during construction.
func buildOrgan(cfg *config.Config, catalog *genome.Catalog, events anatomy.EventPublisher) (*anatomy.Organ, []*anatomy.Tissue, error) {
	tuning := cfg.Engine.Tuning()

	organ := anatomy.NewOrgan(cfg.Organ.Name)
	tissues := make([]*anatomy.Tissue, 0, len(cfg.Organ.Tissues))
	for _, tc := range cfg.Organ.Tissues {
		program, ok := catalog.Get(tc.Program)
		if !ok {
			return nil, nil, fmt.Errorf("tissue %s references unknown program %q", tc.ID, tc.Program)
		}
		tissue := anatomy.NewTissue(tc.ID, program, tc.Cells, tuning, events)
		organ.AddTissue(tissue)
		tissues = append(tissues, tissue)
	}
	return organ, tissues, nil
}

// recordCellLevels pushes each cell's current power and coherence to the
// telemetry gauges after a tissue pass.
func recordCellLevels(metrics *telemetry.Metrics, tissue *anatomy.Tissue) {
	for _, cell := range tissue.Snapshot().Cells {
		metrics.SetCellLevels(cell.ID, cell.Power, cell.Coherence)
	}
}

// parseInput interprets the --input flag: numeric inputs become
// float64 so compute organelles can scale them, everything else stays
// a string and gets tagged instead.
func parseInput(raw string) interface{} {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
