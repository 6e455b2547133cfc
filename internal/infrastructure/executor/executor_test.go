package executor

import (
	"bytes"
	"context"
	"runtime"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunStreamsStdout(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer

	code, err := NewLocalExecutor("/bin/sh").Run(context.Background(), "echo hello", &stdout, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	if stdout.String() != "hello\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunReportsNonZeroExitWithoutError(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer

	code, err := NewLocalExecutor("/bin/sh").Run(context.Background(), "exit 3", &stdout, &stderr)
	if err != nil {
		t.Fatalf("non-zero exit must not be an error: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d", code)
	}
}

func TestRunSeparatesStderr(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer

	if _, err := NewLocalExecutor("/bin/sh").Run(context.Background(), "echo oops >&2", &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunSpawnFailure(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer

	code, err := NewLocalExecutor("/nonexistent/shell").Run(context.Background(), "echo hi", &out, &out)
	if err == nil {
		t.Fatal("expected spawn error")
	}
	if code != -1 {
		t.Errorf("exit code = %d", code)
	}
}

func TestShellFallback(t *testing.T) {
	t.Setenv("SHELL", "")
	e := NewLocalExecutor("")
	if e.shell != "/bin/sh" {
		t.Errorf("shell = %q", e.shell)
	}
}
