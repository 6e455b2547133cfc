// Package domain defines core business entities and value objects for termai.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures.
package domain

// Command is a single candidate shell command extracted from an AI response.
// It is immutable once classified: Raw and Position come from extraction,
// Risky and Stateful from classification. Position is 1-based and preserves
// extraction order; it is the only ordering key used downstream.
type Command struct {
	Raw      string
	Position int
	Risky    bool
	Stateful bool
}

// CommandBatch is the ordered set of commands extracted from one AI response.
// The slice is never re-sorted; interactive prompts reference commands by
// their original Position.
type CommandBatch struct {
	Commands []Command
}

// Len returns the number of commands in the batch.
func (b CommandBatch) Len() int {
	return len(b.Commands)
}

// RiskExplanation is the human-readable danger explanation produced for a
// risky command. It lives for a single confirmation turn and is never cached.
type RiskExplanation struct {
	CommandPosition int
	Text            string
	IsFallback      bool
}

// OutcomeKind enumerates the terminal states a command can reach.
type OutcomeKind string

const (
	OutcomeExecuted OutcomeKind = "executed"
	OutcomeCopied   OutcomeKind = "copied"
	OutcomeShown    OutcomeKind = "shown"
	OutcomeSkipped  OutcomeKind = "skipped"
)

// ExecutionOutcome records what happened to one command. ExitCode is only
// meaningful when Kind is OutcomeExecuted. Outcomes are used for reporting
// and history, never to drive control flow.
type ExecutionOutcome struct {
	CommandPosition int
	Kind            OutcomeKind
	ExitCode        int
}

// InvokeMode identifies how the process was started. The stdout-emit
// dispatch path is only reachable in ModeDirect; interactive and chat
// invocations always fall back to copy/show for stateful commands.
type InvokeMode string

const (
	ModeDirect      InvokeMode = "direct"
	ModeInteractive InvokeMode = "interactive"
	ModeChat        InvokeMode = "chat"
)

// ChatMessage is one turn of an ongoing conversation. The risk-assessment
// call never reads from or appends to this history.
type ChatMessage struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
