package main

import (
	"time"

	"github.com/spf13/cobra"

	"twitterai/pkg/models"
)

var scrapeDate string

// scrapeCmd runs only the scrape stage and saves a draft record
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the roster and save a draft record without summaries",
	Long: `Scrape recent tweets for every roster account and save the dated JSON
record. Summaries are left empty; run "twitterai summarize" afterwards to
fill them in.`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringVar(&scrapeDate, "date", "", "record date override (YYYY-MM-DD, default today)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	accounts, err := a.rosterStore().Load()
	if err != nil {
		return err
	}

	s, err := a.authenticate(cmd.Context())
	if err != nil {
		return err
	}

	date := scrapeDate
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	record := &models.RunRecord{
		Date:       date,
		ScrapeTime: time.Now(),
		Accounts:   s.ScrapeAll(cmd.Context(), accounts),
	}

	store, err := a.recordStore()
	if err != nil {
		return err
	}
	if err := store.Save(record); err != nil {
		return err
	}

	a.log.InfoWithFields("scrape complete", map[string]interface{}{
		"date":     record.Date,
		"accounts": len(record.Accounts),
		"tweets":   record.TweetCount(),
		"path":     store.Path(record.Date),
	})
	return nil
}
