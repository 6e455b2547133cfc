package confirm

import (
	"strconv"
	"strings"
)

// DecisionKind tags the batch-prompt input grammar: a 1-based index, "act on
// all remaining", or "quit". Representing the grammar as a decoded variant
// keeps every state-machine transition testable on its own.
type DecisionKind int

const (
	DecisionInvalid DecisionKind = iota
	DecisionIndex
	DecisionAll
	DecisionQuit
)

// Decision is one decoded batch-prompt input. Index is 1-based and only
// meaningful for DecisionIndex.
type Decision struct {
	Kind  DecisionKind
	Index int
}

// ParseDecision decodes raw user input against a batch of size max.
// Out-of-range indexes and anything unrecognized decode to DecisionInvalid.
func ParseDecision(input string, max int) Decision {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "a", "all":
		return Decision{Kind: DecisionAll}
	case "q", "quit", "exit":
		return Decision{Kind: DecisionQuit}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= max {
		return Decision{Kind: DecisionIndex, Index: n}
	}
	return Decision{Kind: DecisionInvalid}
}
