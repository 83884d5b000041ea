package commands

import (
	"encoding/json"
	"fmt"

	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the configured organ after program application",
		Long: `Build the configured organ topology, apply each tissue's program,
and print the resulting status: per-cell state, power, coherence,
routing, and the effective organelle configuration each program
produced. No cycles are run.`,
		Example: `  # Inspect the default topology
  cyto status

  # Inspect a custom topology as JSON
  cyto status --config cytoweave.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tcfg := newTelemetryConfig(cfg)
			logger, err := telemetry.NewLogger(tcfg.Logging)
			if err != nil {
				return err
			}

			catalog, err := buildCatalog(cfg, logger)
			if err != nil {
				return err
			}

			organ, _, err := buildOrgan(cfg, catalog, anatomy.NopPublisher{})
			if err != nil {
				return err
			}

			status := organ.Snapshot()

			if jsonOutput {
				data, err := json.MarshalIndent(status, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("Organ: %s\n", status.Name)
			for _, tissue := range status.Tissues {
				fmt.Printf("  Tissue %s (program %s, %d cells)\n", tissue.ID, tissue.Program, len(tissue.Cells))
				for _, cell := range tissue.Cells {
					fmt.Printf("    %-24s state=%-10s power=%6.1f coherence=%6.1f\n",
						cell.ID, cell.State, cell.Power, cell.Coherence)
					for source, target := range cell.Routes {
						fmt.Printf("      route %s -> %s\n", source, target)
					}
				}
			}

			return nil
		},
	}

	return cmd
}
