package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/coaxialdolor/termai/internal/domain"
)

type stubExecutor struct {
	exitCode int
	err      error
	stdout   string
	lastCmd  string
}

func (s *stubExecutor) Run(_ context.Context, command string, stdout, _ io.Writer) (int, error) {
	s.lastCmd = command
	if s.stdout != "" {
		io.WriteString(stdout, s.stdout)
	}
	return s.exitCode, s.err
}

type stubClipboard struct {
	available bool
	err       error
	copied    string
}

func (s *stubClipboard) Copy(text string) error {
	s.copied = text
	return s.err
}

func (s *stubClipboard) Available() bool { return s.available }

func testCmd(raw string, pos int) domain.Command {
	return domain.Command{Raw: raw, Position: pos}
}

func TestEmitWritesExactBytesAndExits(t *testing.T) {
	var machine, human bytes.Buffer
	exitCode := -1

	d := &Dispatcher{
		Sinks: Sinks{Human: &human, Err: &human, Machine: &machine},
		Mode:  domain.ModeDirect,
		Exit:  func(code int) { exitCode = code },
	}

	raw := `cd "/tmp/my dir" && export X=1`
	outcome := d.Emit(testCmd(raw, 1))

	if got, want := machine.String(), raw+"\n"; got != want {
		t.Fatalf("machine channel = %q, want %q", got, want)
	}
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0", exitCode)
	}
	if outcome.Kind != domain.OutcomeExecuted {
		t.Fatalf("outcome kind = %q", outcome.Kind)
	}
}

func TestCanEmitRequiresMachineSinkAndDirectMode(t *testing.T) {
	var machine bytes.Buffer
	cases := []struct {
		mode    domain.InvokeMode
		machine io.Writer
		want    bool
	}{
		{domain.ModeDirect, &machine, true},
		{domain.ModeInteractive, &machine, false},
		{domain.ModeChat, &machine, false},
		{domain.ModeDirect, nil, false},
	}
	for _, tc := range cases {
		d := &Dispatcher{Sinks: Sinks{Machine: tc.machine}, Mode: tc.mode}
		if got := d.CanEmit(); got != tc.want {
			t.Errorf("CanEmit() mode=%s machine=%v = %v, want %v", tc.mode, tc.machine != nil, got, tc.want)
		}
	}
}

func TestExecuteReportsExitCodeWithoutFailing(t *testing.T) {
	var human bytes.Buffer
	exec := &stubExecutor{exitCode: 2, stdout: "no such file\n"}
	d := &Dispatcher{
		Executor: exec,
		Sinks:    Sinks{Human: &human, Err: &human},
		Mode:     domain.ModeDirect,
	}

	outcome := d.Execute(context.Background(), testCmd("ls /nope", 3))

	if outcome.Kind != domain.OutcomeExecuted || outcome.ExitCode != 2 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.CommandPosition != 3 {
		t.Fatalf("position = %d", outcome.CommandPosition)
	}
	if exec.lastCmd != "ls /nope" {
		t.Fatalf("executed %q", exec.lastCmd)
	}
	if !bytes.Contains(human.Bytes(), []byte("exit code 2")) {
		t.Error("non-zero exit code not reported to the user")
	}
}

func TestExecuteSpawnFailureIsInformationOnly(t *testing.T) {
	var human bytes.Buffer
	d := &Dispatcher{
		Executor: &stubExecutor{err: errors.New("fork: resource unavailable")},
		Sinks:    Sinks{Human: &human, Err: &human},
	}

	outcome := d.Execute(context.Background(), testCmd("ls", 1))
	if outcome.Kind != domain.OutcomeExecuted || outcome.ExitCode != -1 {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestCopyUsesClipboard(t *testing.T) {
	var human bytes.Buffer
	clip := &stubClipboard{available: true}
	d := &Dispatcher{Clipboard: clip, Sinks: Sinks{Human: &human, Err: &human}}

	outcome := d.Copy(testCmd("export X=1", 1))
	if outcome.Kind != domain.OutcomeCopied {
		t.Fatalf("outcome = %+v", outcome)
	}
	if clip.copied != "export X=1" {
		t.Fatalf("copied %q", clip.copied)
	}
}

func TestCopyFallsBackToShowWhenClipboardUnavailable(t *testing.T) {
	var human bytes.Buffer
	d := &Dispatcher{
		Clipboard: &stubClipboard{available: false},
		Sinks:     Sinks{Human: &human, Err: &human},
	}

	outcome := d.Copy(testCmd("cd /tmp", 1))
	if outcome.Kind != domain.OutcomeShown {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !bytes.Contains(human.Bytes(), []byte("cd /tmp")) {
		t.Error("command not shown verbatim after clipboard failure")
	}
}

func TestCopyFallsBackToShowOnCopyError(t *testing.T) {
	var human bytes.Buffer
	d := &Dispatcher{
		Clipboard: &stubClipboard{available: true, err: errors.New("no display")},
		Sinks:     Sinks{Human: &human, Err: &human},
	}

	outcome := d.Copy(testCmd("cd /tmp", 1))
	if outcome.Kind != domain.OutcomeShown {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestShowPrintsVerbatim(t *testing.T) {
	var human bytes.Buffer
	d := &Dispatcher{Sinks: Sinks{Human: &human, Err: &human}}

	outcome := d.Show(testCmd("alias ll='ls -la'", 2))
	if outcome.Kind != domain.OutcomeShown {
		t.Fatalf("outcome = %+v", outcome)
	}
	if human.String() != "alias ll='ls -la'\n" {
		t.Fatalf("shown %q", human.String())
	}
}
