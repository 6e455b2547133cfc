// Package confirm implements the interactive state machine that walks the
// user through a batch of extracted commands, applying the risk and
// statefulness gates before any command reaches the dispatcher.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/coaxialdolor/termai/internal/application/dispatch"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Assessor produces the danger explanation for a risky command. It never
// fails; at worst it returns the fixed fallback text.
type Assessor interface {
	Assess(ctx context.Context, cmd domain.Command, cwd string) domain.RiskExplanation
}

// Engine drives the confirmation flow over one CommandBatch. All prompts go
// to Out, which is the human channel: in eval mode that is stderr, keeping
// the machine channel byte-clean for the dispatcher.
type Engine struct {
	Assessor   Assessor
	Dispatcher *dispatch.Dispatcher
	Renderer   ports.Renderer
	In         *bufio.Reader
	Out        io.Writer
	WorkDir    string

	// AutoConfirm suppresses the execution prompt for commands that are
	// neither risky nor stateful. Risky commands always require an
	// explicit interactive affirmative; this is a hard safety invariant,
	// not configurable away.
	AutoConfirm bool

	Logger ports.Logger
}

type statefulChoice int

const (
	statefulCopy statefulChoice = iota
	statefulShow
	statefulDecline
)

// Run processes the batch to completion and returns one outcome per
// command. Ordering of prompts and "all" traversal follows the original
// extraction positions; the batch is never re-sorted.
func (e *Engine) Run(ctx context.Context, batch domain.CommandBatch) []domain.ExecutionOutcome {
	switch batch.Len() {
	case 0:
		return nil
	case 1:
		return []domain.ExecutionOutcome{e.runOne(ctx, batch.Commands[0])}
	default:
		return e.runBatch(ctx, batch)
	}
}

// runOne is the single-command flow: risk gate, then stateful gate, then
// execution.
func (e *Engine) runOne(ctx context.Context, cmd domain.Command) domain.ExecutionOutcome {
	affirmed := false
	if cmd.Risky {
		expl := e.Assessor.Assess(ctx, cmd, e.WorkDir)
		e.Renderer.RiskAssessment(expl)
		if !e.askYesNo(fmt.Sprintf("[RISKY] Execute '%s'? [y/N]: ", cmd.Raw), false) {
			e.Renderer.Notice("Skipped.")
			return skipped(cmd)
		}
		affirmed = true
	}

	if cmd.Stateful {
		return e.runStateful(cmd, affirmed)
	}

	if affirmed || e.AutoConfirm {
		return e.Dispatcher.Execute(ctx, cmd)
	}
	if e.askYesNo(fmt.Sprintf("Execute '%s'? [Y/n]: ", cmd.Raw), true) {
		return e.Dispatcher.Execute(ctx, cmd)
	}
	e.Renderer.Notice("Skipped.")
	return skipped(cmd)
}

// runStateful handles commands that mutate the invoking shell's state. With
// shell integration active in a single-shot query the confirmed command is
// emitted for the wrapper to evaluate; otherwise the only options are copy,
// show, or decline - a child process cannot change the parent shell.
func (e *Engine) runStateful(cmd domain.Command, affirmed bool) domain.ExecutionOutcome {
	if e.Dispatcher.CanEmit() {
		if affirmed || e.askYesNo(fmt.Sprintf("Run '%s' in your current shell? [Y/n]: ", cmd.Raw), true) {
			return e.Dispatcher.Emit(cmd)
		}
		e.Renderer.Notice("Skipped.")
		return skipped(cmd)
	}

	switch e.askStateful(cmd) {
	case statefulCopy:
		return e.Dispatcher.Copy(cmd)
	case statefulShow:
		return e.Dispatcher.Show(cmd)
	default:
		e.Renderer.Notice("Skipped.")
		return skipped(cmd)
	}
}

// runBatch is the multi-command flow: show the list, then loop on the
// index/all/quit grammar until everything is handled or the user quits.
func (e *Engine) runBatch(ctx context.Context, batch domain.CommandBatch) []domain.ExecutionOutcome {
	e.Renderer.CommandList(batch)

	if e.AutoConfirm {
		// -y answers the batch prompt with "all"; each command still
		// passes through its own gates
		return e.runAll(ctx, batch, nil, nil)
	}

	var outcomes []domain.ExecutionOutcome
	done := make(map[int]bool, batch.Len())

	for len(done) < batch.Len() {
		fmt.Fprintf(e.Out, "Enter command number (1-%d), 'a' for all, or 'q' to quit: ", batch.Len())
		line, err := e.In.ReadString('\n')
		if err != nil {
			// closed input aborts the batch cooperatively
			return e.fillSkipped(batch, outcomes, done)
		}

		switch decision := ParseDecision(line, batch.Len()); decision.Kind {
		case DecisionQuit:
			return e.fillSkipped(batch, outcomes, done)
		case DecisionAll:
			return e.runAll(ctx, batch, outcomes, done)
		case DecisionIndex:
			cmd := batch.Commands[decision.Index-1]
			if done[cmd.Position] {
				e.Renderer.Notice(fmt.Sprintf("Command %d already handled.", cmd.Position))
				continue
			}
			outcomes = append(outcomes, e.runOne(ctx, cmd))
			done[cmd.Position] = true
		default:
			e.Renderer.Warning("Invalid selection.")
		}
	}
	return outcomes
}

// runAll walks every remaining command, in original order, through the
// single-command flow.
func (e *Engine) runAll(ctx context.Context, batch domain.CommandBatch, outcomes []domain.ExecutionOutcome, done map[int]bool) []domain.ExecutionOutcome {
	for _, cmd := range batch.Commands {
		if done[cmd.Position] {
			continue
		}
		outcomes = append(outcomes, e.runOne(ctx, cmd))
	}
	return outcomes
}

// fillSkipped retains completed outcomes and marks everything unprocessed
// as skipped, in original order.
func (e *Engine) fillSkipped(batch domain.CommandBatch, outcomes []domain.ExecutionOutcome, done map[int]bool) []domain.ExecutionOutcome {
	for _, cmd := range batch.Commands {
		if !done[cmd.Position] {
			outcomes = append(outcomes, skipped(cmd))
		}
	}
	return outcomes
}

// askYesNo prompts and reads one line. Empty input selects the default;
// a read error never selects the affirmative.
func (e *Engine) askYesNo(prompt string, defaultYes bool) bool {
	fmt.Fprint(e.Out, prompt)
	line, err := e.In.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return defaultYes
	}
	return line == "y" || line == "yes"
}

// askStateful is the three-way prompt for stateful commands without shell
// integration. Empty input defaults to copy.
func (e *Engine) askStateful(cmd domain.Command) statefulChoice {
	fmt.Fprintf(e.Out, "[STATEFUL] '%s' changes shell state. Copy to clipboard? [Y/n/s=show]: ", cmd.Raw)
	line, err := e.In.ReadString('\n')
	if err != nil && line == "" {
		return statefulDecline
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return statefulCopy
	case "s", "show":
		return statefulShow
	default:
		return statefulDecline
	}
}

func skipped(cmd domain.Command) domain.ExecutionOutcome {
	return domain.ExecutionOutcome{CommandPosition: cmd.Position, Kind: domain.OutcomeSkipped}
}
