// Package pipeline sequences the daily run: authenticate, scrape the roster,
// summarize, export the workbook, persist the record. Scrape and summarize
// failures are absorbed per account; authentication and artifact writes are
// the only faults that fail the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"twitterai/pkg/logger"
	"twitterai/pkg/models"
)

// RosterSource provides the account list at run start
type RosterSource interface {
	Load() ([]models.AccountSpec, error)
}

// Scraper collects tweets for the whole roster. Implementations contain
// their own per-account failures.
type Scraper interface {
	ScrapeAll(ctx context.Context, accounts []models.AccountSpec) []models.AccountResult
}

// Authenticator validates platform access and hands back a ready scraper.
// A nil error means the session works; any error is fatal to the run.
type Authenticator interface {
	Authenticate(ctx context.Context) (Scraper, error)
}

// Summarizer fills in the digest for every account in a record
type Summarizer interface {
	SummarizeAll(ctx context.Context, record *models.RunRecord)
}

// Exporter renders a record into the spreadsheet artifact
type Exporter interface {
	Export(record *models.RunRecord) (string, error)
}

// RecordSink persists run records
type RecordSink interface {
	Save(record *models.RunRecord) error
}

// Deps wires the runner's collaborators. All fields are required except
// Logger and Now.
type Deps struct {
	Roster     RosterSource
	Auth       Authenticator
	Summarizer Summarizer
	Exporter   Exporter
	Records    RecordSink
	Logger     logger.Logger
	Now        func() time.Time
}

// Runner drives one run through the state machine. Single-threaded: one
// Run call owns the record from creation to persistence.
type Runner struct {
	deps  Deps
	state State
}

// NewRunner creates a pipeline runner
func NewRunner(deps Deps) *Runner {
	if deps.Logger == nil {
		deps.Logger = logger.Get()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Runner{deps: deps, state: StateInit}
}

// LastState returns the state the most recent run ended in
func (r *Runner) LastState() State {
	return r.state
}

func (r *Runner) setState(s State) {
	r.state = s
	r.deps.Logger.InfoWithFields("pipeline state", map[string]interface{}{
		"state": string(s),
	})
}

// Run executes one full pipeline pass. dateOverride replaces today's date
// as the record key; empty means today. The returned error is non-nil only
// when the run ends in the failed state.
func (r *Runner) Run(ctx context.Context, dateOverride string) error {
	r.setState(StateInit)

	date := dateOverride
	if date == "" {
		date = r.deps.Now().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("invalid date override %q: %w", dateOverride, err)
	}

	r.setState(StateAuthenticating)
	accounts, err := r.deps.Roster.Load()
	if err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("failed to load roster: %w", err)
	}

	scraper, err := r.deps.Auth.Authenticate(ctx)
	if err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("authentication failed: %w", err)
	}

	r.setState(StateScraping)
	record := &models.RunRecord{
		Date:       date,
		ScrapeTime: r.deps.Now(),
		Accounts:   scraper.ScrapeAll(ctx, accounts),
	}

	// Draft save so a crash during summarization loses only the summaries.
	// Best effort: the final persisting stage is the write that matters.
	if err := r.deps.Records.Save(record); err != nil {
		r.deps.Logger.WarnWithFields("draft record save failed", map[string]interface{}{
			"date":  date,
			"error": err.Error(),
		})
	}

	r.setState(StateSummarizing)
	r.deps.Summarizer.SummarizeAll(ctx, record)

	r.setState(StateExporting)
	path, err := r.deps.Exporter.Export(record)
	if err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("export failed: %w", err)
	}

	r.setState(StatePersisting)
	if err := r.deps.Records.Save(record); err != nil {
		r.setState(StateFailed)
		return fmt.Errorf("failed to persist record: %w", err)
	}

	r.setState(StateDone)
	r.deps.Logger.InfoWithFields("run complete", map[string]interface{}{
		"date":     date,
		"accounts": len(record.Accounts),
		"tweets":   record.TweetCount(),
		"workbook": path,
	})
	return nil
}
