package main

import (
	"time"

	"github.com/spf13/cobra"

	"twitterai/pkg/models"
)

var summarizeDate string

// summarizeCmd fills in AI summaries on an existing record
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate AI summaries for an existing record",
	Long: `Load the record for a date, generate a one-sentence Chinese digest for
every account through the Gemini API, and save the record back. Accounts
whose summary cannot be generated get the fallback sentinel.`,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringVar(&summarizeDate, "date", "", "record date (YYYY-MM-DD, default today)")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	date := summarizeDate
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	store, err := a.recordStore()
	if err != nil {
		return err
	}
	record, err := store.Load(date)
	if err != nil {
		return err
	}

	a.summarizer().SummarizeAll(cmd.Context(), record)

	if err := store.Save(record); err != nil {
		return err
	}

	a.log.InfoWithFields("summaries saved", map[string]interface{}{
		"date":     date,
		"accounts": len(record.Accounts),
	})
	return nil
}
