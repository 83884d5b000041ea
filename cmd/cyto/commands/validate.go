package commands

import (
	"fmt"

	"github.com/cytoweave/cytoweave/pkg/genome"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a configuration file",
		Long: `Validate a configuration file and the programs it references.

This command checks:
  - YAML syntax and field constraints
  - Topology consistency (tissue sizes, duplicate ids)
  - That every tissue references a known program
  - Program segments against the gene segment table`,
		Example: `  # Validate the default config path
  cyto validate cytoweave.yaml

  # Treat unknown gene segments as errors
  cyto validate --strict cytoweave.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				configPath = args[0]
			}

			log.Info().
				Str("path", configPath).
				Bool("strict", strict).
				Msg("Validating configuration")

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

			var unknown int
			for _, tc := range cfg.Organ.Tissues {
				program, ok := catalog.Get(tc.Program)
				if !ok {
					return fmt.Errorf("tissue %s references unknown program %q", tc.ID, tc.Program)
				}
				for _, segment := range program.Segments {
					if !genome.KnownSegment(segment) {
						unknown++
						log.Warn().
							Str("program", program.Name).
							Str("segment", segment).
							Msg("Unknown gene segment (ignored at apply time)")
					}
				}
			}

			if strict && unknown > 0 {
				return fmt.Errorf("%d unknown gene segment(s)", unknown)
			}

			fmt.Printf("Configuration valid: organ %s, %d tissue(s), %d program(s) available\n",
				cfg.Organ.Name, len(cfg.Organ.Tissues), len(catalog.List()))

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat unknown gene segments as errors")

	return cmd
}
