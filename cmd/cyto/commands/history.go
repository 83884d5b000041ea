package commands

import (
	"encoding/json"
	"fmt"

	"github.com/cytoweave/cytoweave/pkg/stores"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var (
		dbPath string
		runID  string
		limit  int
		level  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect persisted runs",
		Long: `List persisted runs from the history database, or show the cycle
outputs and event stream of one run.`,
		Example: `  # List recent runs
  cyto history --db runs.db

  # Show one run's cycles and events
  cyto history --db runs.db --run 6f1c9a2e-...

  # Only warnings from a run
  cyto history --db runs.db --run 6f1c9a2e-... --level warning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.History.Path
			}
			if dbPath == "" {
				return fmt.Errorf("no history database configured: pass --db or set history.path")
			}

			store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			if runID == "" {
				runs, err := store.ListRuns(ctx, limit, 0)
				if err != nil {
					return err
				}
				return printRuns(runs)
			}

			run, err := store.GetRun(ctx, runID)
			if err != nil {
				return err
			}

			cycles, err := store.ListCyclesByRun(ctx, runID, limit, 0)
			if err != nil {
				return err
			}

			var levelFilter *string
			if level != "" {
				levelFilter = &level
			}
			events, err := store.ListEvents(ctx, &runID, levelFilter, limit, 0)
			if err != nil {
				return err
			}

			return printRunDetail(run, cycles, events)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite history database path")
	cmd.Flags().StringVar(&runID, "run", "", "show details of one run")
	cmd.Flags().IntVar(&limit, "limit", 100, "max records to return")
	cmd.Flags().StringVar(&level, "level", "", "filter events by level (info, warning, error)")

	return cmd
}

func printRuns(runs []*stores.Run) error {
	if jsonOutput {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%-38s %-12s %-10s %s\n", "RUN", "ORGAN", "STATUS", "STARTED")
	for _, run := range runs {
		fmt.Printf("%-38s %-12s %-10s %s\n",
			run.ID, run.Organ, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printRunDetail(run *stores.Run, cycles []*stores.CycleRecord, events []*stores.EventRecord) error {
	if jsonOutput {
		out := struct {
			Run    *stores.Run           `json:"run"`
			Cycles []*stores.CycleRecord `json:"cycles"`
			Events []*stores.EventRecord `json:"events"`
		}{run, cycles, events}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Run %s (organ %s, status %s)\n", run.ID, run.Organ, run.Status)
	if run.Error != nil {
		fmt.Printf("  error: %s\n", *run.Error)
	}

	fmt.Printf("Cycles (%d):\n", len(cycles))
	for _, rec := range cycles {
		routed := "-"
		if rec.RoutedTo != nil {
			routed = *rec.RoutedTo
		}
		fmt.Printf("  %-24s cycle=%-4d value=%-16s routed=%-12s stored=%v\n",
			rec.CellID, rec.Cycle, rec.Value, routed, rec.Stored)
	}

	fmt.Printf("Events (%d):\n", len(events))
	for _, event := range events {
		fmt.Printf("  %-8s %-18s %s\n", event.Level, event.Type, event.Message)
	}
	return nil
}
