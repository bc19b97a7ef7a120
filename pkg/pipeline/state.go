package pipeline

// State is the orchestrator's position in the run lifecycle
type State string

const (
	StateInit           State = "INIT"
	StateAuthenticating State = "AUTHENTICATING"
	StateScraping       State = "SCRAPING"
	StateSummarizing    State = "SUMMARIZING"
	StateExporting      State = "EXPORTING"
	StatePersisting     State = "PERSISTING"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

// Terminal reports whether the state ends the run
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
