package main

import (
	"time"

	"github.com/spf13/cobra"

	"twitterai/pkg/models"
)

var exportDate string

// exportCmd renders an existing record as an Excel workbook
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a record to a styled Excel workbook",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDate, "date", "", "record date (YYYY-MM-DD, default today)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	date := exportDate
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

	exporter, err := a.exporter()
	if err != nil {
		return err
	}
	path, err := exporter.Export(record)
	if err != nil {
		return err
	}

	a.log.InfoWithFields("workbook written", map[string]interface{}{
		"date": date,
		"path": path,
	})
	return nil
}
