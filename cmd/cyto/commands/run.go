package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cytoweave/cytoweave/pkg/anatomy"
	"github.com/cytoweave/cytoweave/pkg/stores"
	"github.com/cytoweave/cytoweave/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var (
		cycles   int
		input    string
		parallel int
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the configured organ and run cell cycles",
		Long: `Build the configured organ topology, apply each tissue's program,
and drive the cells through the requested number of cycles.

Each cycle feeds the input through every cell's compute unit, routes
results per the active program, and decays coherence. Cells that run
out of power skip their cycles. Events stream to subscribers; with a
history database configured, the run is persisted for later
inspection via 'cyto history'.`,
		Example: `  # Run one cycle with the default topology
  cyto run

  # Run 50 cycles of numeric input through a custom topology
  cyto run --config cytoweave.yaml --cycles 50 --input 3.14

  # Persist the run to a history database
  cyto run --cycles 10 --db runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.History.Path = dbPath
			}
			if parallel > 0 {
				cfg.Engine.MaxParallel = parallel
			}

			tcfg := newTelemetryConfig(cfg)
			logger, err := telemetry.NewLogger(tcfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			events := telemetry.NewEventPublisher(tcfg.Events)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = events.Shutdown(shutdownCtx)
			}()

			metrics, err := telemetry.NewMetrics(tcfg.Metrics)
			if err != nil {
				return fmt.Errorf("failed to create metrics: %w", err)
			}
			metrics.ObserveEvents(events)
			if err := metrics.StartServer(); err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = metrics.Shutdown(shutdownCtx)
			}()

			tracer, err := telemetry.NewTracer(tcfg.Tracing, tcfg.ServiceName, tcfg.ServiceVersion, tcfg.Environment)
			if err != nil {
				return fmt.Errorf("failed to create tracer: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tracer.Shutdown(shutdownCtx)
			}()

			catalog, err := buildCatalog(cfg, logger)
			if err != nil {
				return err
			}

			// Hot-reload programs edited while the run is in flight.
			if cfg.ProgramsDir != "" {
				go func() {
					if err := catalog.Watch(ctx, cfg.ProgramsDir); err != nil && !errors.Is(err, context.Canceled) {
						logger.WithError(err).Warn("Program watcher stopped")
					}
				}()
			}

			// Optional run history
			var (
				store    stores.Store
				recorder *stores.Recorder
				runID    string
			)
			if cfg.History.Path != "" {
				sqlStore, err := stores.NewSQLiteStore(stores.Config{Path: cfg.History.Path})
				if err != nil {
					return err
				}
				if err := sqlStore.Init(ctx); err != nil {
					return err
				}
				defer sqlStore.Close()
				if err := sqlStore.Migrate(ctx); err != nil {
					return err
				}

				runID = uuid.New().String()
				now := time.Now()
				if err := sqlStore.CreateRun(ctx, &stores.Run{
					ID:        runID,
					Organ:     cfg.Organ.Name,
					Status:    stores.RunStatusRunning,
					StartedAt: now,
					CreatedAt: now,
					UpdatedAt: now,
				}); err != nil {
					return err
				}

				store = sqlStore
				recorder = stores.NewRecorder(store, logger, runID)
				recorder.Observe(events)
			}

			organ, tissues, err := buildOrgan(cfg, catalog, events)
			if err != nil {
				if store != nil {
					msg := err.Error()
					_ = store.UpdateRunStatus(ctx, runID, stores.RunStatusFailed, &msg)
				}
				return err
			}

			logger.WithField("organ", organ.Name()).
				WithField("tissues", organ.Len()).
				Infof("Running %d cycles", cycles)

			value := parseInput(input)
			summary := runSummary{Organ: organ.Name(), Cycles: cycles, RunID: runID}

			for i := 0; i < cycles; i++ {
				select {
				case <-ctx.Done():
					if store != nil {
						msg := ctx.Err().Error()
						_ = store.UpdateRunStatus(ctx, runID, stores.RunStatusFailed, &msg)
					}
					return ctx.Err()
				default:
				}

				for _, tissue := range tissues {
					spanCtx, span := tracer.StartTissueRunSpan(ctx, tissue.ID(), tissue.Len())
					start := time.Now()
					outputs := tissue.RunParallel(spanCtx, value, cfg.Engine.MaxParallel)
					span.End()

					events.PublishTissueRun(tissue.ID(), tissue.Len(), len(outputs), time.Since(start))
					metrics.RecordTissueRun(tissue.ID(), time.Since(start))
					recordCellLevels(metrics, tissue)
					summary.Outputs += len(outputs)
					summary.Skipped += tissue.Len() - len(outputs)

					if recorder != nil {
						if err := recorder.RecordCycles(ctx, tissue.ID(), outputs); err != nil {
							logger.WithError(err).Warn("Failed to persist cycle outputs")
						}
					}
				}
			}

			if store != nil {
				if err := store.UpdateRunStatus(ctx, runID, stores.RunStatusCompleted, nil); err != nil {
					logger.WithError(err).Warn("Failed to finalize run record")
				}
			}

			return printRunSummary(summary, organ)
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 1, "number of cycles to run")
	cmd.Flags().StringVar(&input, "input", "1", "input value fed to each cell per cycle")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "max cells cycling concurrently per tissue (0 = config default)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite history database path")

	return cmd
}

type runSummary struct {
	Organ   string `json:"organ"`
	RunID   string `json:"run_id,omitempty"`
	Cycles  int    `json:"cycles"`
	Outputs int    `json:"outputs"`
	Skipped int    `json:"skipped"`
}

func printRunSummary(summary runSummary, organ *anatomy.Organ) error {
	if jsonOutput {
		out := struct {
			runSummary
			Status anatomy.OrganStatus `json:"status"`
		}{summary, organ.Snapshot()}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Organ %s: %d cycles, %d outputs, %d skipped\n",
		summary.Organ, summary.Cycles, summary.Outputs, summary.Skipped)
	if summary.RunID != "" {
		fmt.Printf("Run recorded as %s\n", summary.RunID)
	}
	for _, tissue := range organ.Snapshot().Tissues {
		for _, cell := range tissue.Cells {
			fmt.Printf("  %-24s power=%6.1f coherence=%6.1f cycles=%d\n",
				cell.ID, cell.Power, cell.Coherence, cell.Cycles)
		}
	}
	return nil
}
