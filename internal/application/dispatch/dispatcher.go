// Package dispatch performs the terminal action for a confirmed command:
// execute it in a child process, copy it to the clipboard, print it
// verbatim, or emit it on the machine channel for the shell-integration
// wrapper to evaluate in the invoking shell.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Sinks separates the two output channels by message class. Human carries
// prompts, explanations, and relayed command output. Machine carries exactly
// one thing, ever: the confirmed command string in the stdout-emit path.
//
// In eval mode Human is stderr and Machine is stdout; otherwise Human is
// stdout, Err is stderr, and Machine is nil, which makes the emit path
// structurally unreachable.
type Sinks struct {
	Human   io.Writer
	Err     io.Writer
	Machine io.Writer
}

// StandardSinks builds the channel layout for the given invocation. evalMode
// is true when the process was started by the shell-integration wrapper,
// which captures stdout and evaluates it.
func StandardSinks(evalMode bool) Sinks {
	if evalMode {
		return Sinks{Human: os.Stderr, Err: os.Stderr, Machine: os.Stdout}
	}
	return Sinks{Human: os.Stdout, Err: os.Stderr, Machine: nil}
}

// Dispatcher turns a confirmed command into exactly one ExecutionOutcome.
type Dispatcher struct {
	Executor  ports.CommandExecutor
	Clipboard ports.Clipboard
	Sinks     Sinks
	Mode      domain.InvokeMode
	Logger    ports.Logger

	// Exit terminates the process after a stdout emit. Defaults to
	// os.Exit; tests inject a recorder.
	Exit func(code int)
}

// CanEmit reports whether the stdout-emit path is available: the wrapper
// must be capturing stdout and the invocation must be a single-shot direct
// query. Interactive and chat modes never emit, by design.
func (d *Dispatcher) CanEmit() bool {
	return d.Sinks.Machine != nil && d.Mode == domain.ModeDirect
}

// Execute spawns a child process for the literal command string, relays its
// output as produced, and reports the exit code. A non-zero exit code is
// information, not a dispatcher failure; batch processing continues.
func (d *Dispatcher) Execute(ctx context.Context, cmd domain.Command) domain.ExecutionOutcome {
	fmt.Fprintf(d.Sinks.Human, "\n[Executing] %s\n", cmd.Raw)

	code, err := d.Executor.Run(ctx, cmd.Raw, d.Sinks.Human, d.Sinks.Err)
	if err != nil {
		fmt.Fprintf(d.Sinks.Err, "command failed to start: %v\n", err)
		code = -1
	} else if code != 0 {
		fmt.Fprintf(d.Sinks.Human, "[exit code %d]\n", code)
	}

	return domain.ExecutionOutcome{
		CommandPosition: cmd.Position,
		Kind:            domain.OutcomeExecuted,
		ExitCode:        code,
	}
}

// Emit writes the confirmed command - and only the command, with a single
// trailing newline - to the machine channel, then terminates the process.
// Any stray byte here corrupts the statement the wrapper evaluates; the
// exactness is a wire contract, not a style choice.
func (d *Dispatcher) Emit(cmd domain.Command) domain.ExecutionOutcome {
	io.WriteString(d.Sinks.Machine, cmd.Raw)
	io.WriteString(d.Sinks.Machine, "\n")

	exit := d.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(0)

	// reached only under test, when Exit is a recorder
	return domain.ExecutionOutcome{
		CommandPosition: cmd.Position,
		Kind:            domain.OutcomeExecuted,
		ExitCode:        0,
	}
}

// Copy places the literal command text on the system clipboard. When the
// clipboard is unavailable the failure is reported and the command is shown
// verbatim in the same turn instead.
func (d *Dispatcher) Copy(cmd domain.Command) domain.ExecutionOutcome {
	if d.Clipboard == nil || !d.Clipboard.Available() {
		fmt.Fprintln(d.Sinks.Human, "clipboard unavailable; showing command instead:")
		return d.Show(cmd)
	}
	if err := d.Clipboard.Copy(cmd.Raw); err != nil {
		if d.Logger != nil {
			d.Logger.Warn("clipboard copy failed", map[string]interface{}{"error": err.Error()})
		}
		fmt.Fprintln(d.Sinks.Human, "clipboard copy failed; showing command instead:")
		return d.Show(cmd)
	}
	fmt.Fprintln(d.Sinks.Human, "Command copied to clipboard. Paste and run it manually.")
	return domain.ExecutionOutcome{CommandPosition: cmd.Position, Kind: domain.OutcomeCopied}
}

// Show prints the command verbatim, with no execution.
func (d *Dispatcher) Show(cmd domain.Command) domain.ExecutionOutcome {
	fmt.Fprintln(d.Sinks.Human, cmd.Raw)
	return domain.ExecutionOutcome{CommandPosition: cmd.Position, Kind: domain.OutcomeShown}
}
