package domain

import "time"

// HistoryRecord is one persisted execution outcome. Recording is
// best-effort: failures are logged and never interrupt the flow.
type HistoryRecord struct {
	Timestamp time.Time
	Prompt    string
	Command   string
	Position  int
	Risky     bool
	Stateful  bool
	Kind      OutcomeKind
	ExitCode  int
}
