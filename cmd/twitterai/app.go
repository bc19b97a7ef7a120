package main

import (
	"context"
	"fmt"

	"twitterai/pkg/auth"
	"twitterai/pkg/config"
	"twitterai/pkg/export"
	"twitterai/pkg/logger"
	"twitterai/pkg/pipeline"
	"twitterai/pkg/record"
	"twitterai/pkg/roster"
	"twitterai/pkg/scraper"
	"twitterai/pkg/summarize"
	"twitterai/pkg/twitter"
)

// app bundles the configured components a command needs
type app struct {
	cfg *config.Config
	log logger.Logger
}

func newApp() (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func (a *app) sessionManager() *auth.Manager {
	manager := auth.NewManager(&a.cfg.Twitter, a.log)
	if err := manager.Bootstrap(config.SessionFromEnv()); err != nil {
		a.log.WarnWithFields("session bootstrap failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return manager
}

// authenticate loads the cached session, verifies it against the platform
// with a probe fetch, and returns a ready scraper.
func (a *app) authenticate(ctx context.Context) (*scraper.Scraper, error) {
	sess, err := a.sessionManager().Load()
	if err != nil {
		return nil, err
	}

	client := twitter.NewClient(&a.cfg.Twitter, sess, a.log)
	if err := client.Verify(ctx); err != nil {
		return nil, err
	}

	return scraper.New(client, &a.cfg.Scrape, a.log), nil
}

func (a *app) recordStore() (*record.Store, error) {
	return record.NewStore(a.cfg.Output.DataDir)
}

func (a *app) exporter() (*export.Exporter, error) {
	return export.NewExporter(a.cfg.Output.ExportDir, a.log)
}

func (a *app) rosterStore() *roster.Store {
	return roster.NewStore(a.cfg.Roster.File)
}

func (a *app) remoteRoster() (*roster.RemoteStore, error) {
	if a.cfg.Roster.RemoteURL == "" {
		return nil, fmt.Errorf("roster remote_url is not configured")
	}
	return roster.NewRemoteStore(a.cfg.Roster.RemoteURL, a.cfg.Roster.Token, a.log), nil
}

func (a *app) summarizer() *summarize.Client {
	return summarize.NewClient(&a.cfg.Gemini, &a.cfg.Summarize, a.log)
}

// platformAuth adapts the app's authenticate method to the pipeline
type platformAuth struct {
	app *app
}

func (p *platformAuth) Authenticate(ctx context.Context) (pipeline.Scraper, error) {
	return p.app.authenticate(ctx)
}

// newRunner wires a full pipeline runner
func (a *app) newRunner() (*pipeline.Runner, error) {
	records, err := a.recordStore()
	if err != nil {
		return nil, err
	}
	exporter, err := a.exporter()
	if err != nil {
		return nil, err
	}

	return pipeline.NewRunner(pipeline.Deps{
		Roster:     a.rosterStore(),
		Auth:       &platformAuth{app: a},
		Summarizer: a.summarizer(),
		Exporter:   exporter,
		Records:    records,
		Logger:     a.log,
	}), nil
}
