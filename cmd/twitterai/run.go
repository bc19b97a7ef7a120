package main

import (
	"github.com/spf13/cobra"
)

var (
	runDate string
	runSync bool
)

// runCmd executes the full pipeline: scrape, summarize, export, persist
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	Long: `Run the full pipeline: load the roster, authenticate, scrape every
account, generate AI summaries, export the Excel workbook, and persist the
JSON record.

Per-account scrape and summary failures are contained: the run still
succeeds and the affected accounts get empty tweet lists or fallback
summaries. Authentication failures and artifact write failures fail the run.`,
	Example: `  # Today's run
  twitterai run

  # Re-run for an explicit date, syncing the roster first
  twitterai run --date 2026-08-24 --sync`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "record date override (YYYY-MM-DD, default today)")
	runCmd.Flags().BoolVar(&runSync, "sync", false, "sync the roster from the remote list before running")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if runSync {
		if err := syncRoster(cmd.Context(), a); err != nil {
			// A failed sync leaves the previous roster in place; the run
			// itself is still worth doing
			a.log.WarnWithFields("roster sync failed, using existing roster", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	runner, err := a.newRunner()
	if err != nil {
		return err
	}
	return runner.Run(cmd.Context(), runDate)
}
