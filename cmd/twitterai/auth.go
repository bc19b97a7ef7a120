package main

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"twitterai/pkg/auth"
	"twitterai/pkg/twitter"
)

// authCmd manages the cached platform session
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the cached Twitter session",
	Long: `Manage the cached Twitter session used by the scrape stage.

There is no password login: the session is a cookie export from a logged-in
browser. Sessions older than the freshness window (7 days by default) are
rejected and must be re-exported.`,
}

// authLoginCmd stores a pasted cookie export
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a browser cookie export as the session",
	Long: `Store a Twitter cookie export as the cached session.

To get the export:
1. Log into x.com in your browser
2. Open Developer Tools > Application > Cookies
3. Export the cookies as JSON (a flat {"name": "value"} object is fine)

The export is read from the terminal without echo and stored in the system
keychain when available, with a file fallback.`,
	RunE: runAuthLogin,
}

// authStatusCmd reports on the cached session
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached session's age and validity",
	RunE:  runAuthStatus,
}

// authLogoutCmd removes the cached session
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the cached session",
	RunE:  runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	fmt.Print("Paste cookie export JSON (input hidden): ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	sess, err := auth.ParseSession(raw)
	if err != nil {
		return err
	}

	client := twitter.NewClient(&a.cfg.Twitter, sess, a.log)
	if err := client.Verify(cmd.Context()); err != nil {
		return fmt.Errorf("session rejected by platform: %w", err)
	}

	if err := a.sessionManager().Save(sess); err != nil {
		return err
	}

	fmt.Printf("Session stored (%d cookies).\n", len(sess.Cookies))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	sess, err := a.sessionManager().Load()
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			fmt.Println("No session stored. Run \"twitterai auth login\".")
			return nil
		}
		if errors.Is(err, auth.ErrSessionStale) {
			fmt.Println("Stored session is stale. Re-export cookies and log in again.")
			return nil
		}
		return err
	}

	fmt.Printf("Session: %d cookies, saved %s ago (limit %s)\n",
		len(sess.Cookies),
		sess.Age().Round(time.Minute),
		a.cfg.Twitter.SessionMaxAge)

	client := twitter.NewClient(&a.cfg.Twitter, sess, a.log)
	if err := client.Verify(cmd.Context()); err != nil {
		fmt.Printf("Probe fetch failed: %v\n", err)
		return nil
	}
	fmt.Println("Probe fetch succeeded, session is usable.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.sessionManager().Delete(); err != nil {
		return err
	}
	fmt.Println("Session removed.")
	return nil
}
