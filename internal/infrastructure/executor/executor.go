// Package executor runs confirmed commands in a child shell process.
package executor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/coaxialdolor/termai/internal/ports"
)

// LocalExecutor spawns `shell -c command` on the host. Output streams to the
// provided writers as the child produces it; nothing is buffered or
// reordered.
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds an executor. Empty shell falls back to $SHELL,
// then /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalExecutor{shell: shell}
}

// Run implements ports.CommandExecutor. The command string is passed to the
// shell exactly as confirmed; any reformatting here would break quoting.
func (e *LocalExecutor) Run(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	c.Stdout = stdout
	c.Stderr = stderr
	c.Stdin = os.Stdin

	err := c.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
