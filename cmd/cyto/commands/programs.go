package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cytoweave/cytoweave/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newProgramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List available genetic programs",
		Long: `List the programs available for cell configuration: the built-in
specialization profiles plus any YAML programs found under the
configured programs_dir.`,
		Example: `  # List built-in profiles
  cyto programs

  # Include programs from a config's programs_dir
  cyto programs --config cytoweave.yaml`,
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

			programs := catalog.List()

			if jsonOutput {
				data, err := json.MarshalIndent(programs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Printf("%-12s %-8s %s\n", "NAME", "SEGMENTS", "DESCRIPTION")
			for _, p := range programs {
				desc := p.Description
				if desc == "" {
					desc = strings.Join(p.Segments, ", ")
				}
				fmt.Printf("%-12s %-8d %s\n", p.Name, len(p.Segments), desc)
			}

			return nil
		},
	}

	return cmd
}
