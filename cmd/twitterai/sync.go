package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"twitterai/pkg/roster"
)

// syncCmd reconciles the local roster with the remote account list
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the local roster with the remote account list",
	Long: `Fetch the current account list from the remote roster API and merge it
into the local roster file. Accounts that already exist keep their category;
new accounts default to "uncategorized"; accounts no longer on the remote
list are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return syncRoster(cmd.Context(), a)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func syncRoster(ctx context.Context, a *app) error {
	remote, err := a.remoteRoster()
	if err != nil {
		return err
	}

	fetched, version, err := remote.Fetch(ctx)
	if err != nil {
		return err
	}
	a.log.InfoWithFields("fetched remote roster", map[string]interface{}{
		"accounts": len(fetched),
		"version":  version,
	})

	store := a.rosterStore()
	existing, err := store.Load()
	if err != nil {
		// A missing local file just means everything is new
		a.log.WarnWithFields("no usable local roster, starting fresh", map[string]interface{}{
			"error": err.Error(),
		})
		existing = nil
	}

	merged, changes := roster.Merge(existing, fetched)
	if err := store.Save(merged); err != nil {
		return err
	}

	if changes.Empty() {
		a.log.Info("roster unchanged")
		return nil
	}
	if len(changes.Added) > 0 {
		a.log.InfoWithFields("added accounts", map[string]interface{}{
			"count":    len(changes.Added),
			"accounts": strings.Join(changes.Added, ", "),
		})
	}
	if len(changes.Removed) > 0 {
		a.log.InfoWithFields("removed accounts", map[string]interface{}{
			"count":    len(changes.Removed),
			"accounts": strings.Join(changes.Removed, ", "),
		})
	}
	return nil
}
