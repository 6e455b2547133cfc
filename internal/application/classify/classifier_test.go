package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coaxialdolor/termai/assets"
)

func newDefault(t *testing.T) *Classifier {
	t.Helper()
	return New(DefaultTables())
}

func TestIsRiskyTokenBased(t *testing.T) {
	c := newDefault(t)
	cases := []struct {
		cmd  string
		want bool
	}{
		{"rm -rf ./build", true},
		{"rm file.txt", true}, // token-based: flags are irrelevant
		{"dd if=/dev/zero of=/dev/sda", true},
		{"mkfs.ext4 /dev/sdb1", true},
		{"shutdown -h now", true},
		{"sudo apt update", true}, // privilege escalation itself is risky
		{"ls -la", false},
		{"git status", false},
		{"echo rm", false}, // rm as argument, not leading token
		{"", false},
	}
	for _, tc := range cases {
		if got := c.IsRisky(tc.cmd); got != tc.want {
			t.Errorf("IsRisky(%q) = %v, want %v", tc.cmd, got, tc.want)
		}
	}
}

func TestIsStatefulTokenBased(t *testing.T) {
	c := newDefault(t)
	cases := []struct {
		cmd  string
		want bool
	}{
		{"cd ..", true},
		{"export X=1", true},
		{"unset GOPATH", true},
		{"source ~/.bashrc", true},
		{". ./env.sh", true},
		{"alias ll='ls -la'", true},
		{"pushd /tmp", true},
		{"X=1", true}, // bare assignment mutates the shell environment
		{"ls -la", false},
		{"echo cd", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := c.IsStateful(tc.cmd); got != tc.want {
			t.Errorf("IsStateful(%q) = %v, want %v", tc.cmd, got, tc.want)
		}
	}
}

func TestCompoundCommandAnySubCommandTriggers(t *testing.T) {
	c := newDefault(t)

	if !c.IsRisky("ls && rm -rf ./build") {
		t.Error("risky sub-command after && not detected")
	}
	if !c.IsRisky("echo ok; dd if=/dev/zero of=/dev/sda") {
		t.Error("risky sub-command after ; not detected")
	}
	if !c.IsStateful("mkdir demo && cd demo") {
		t.Error("stateful sub-command after && not detected")
	}
	if !c.IsStateful("cat env | grep PATH && export PATH=/bin") {
		t.Error("stateful sub-command in pipeline compound not detected")
	}
	if c.IsRisky("ls | grep foo && pwd") {
		t.Error("benign compound flagged risky")
	}
}

func TestPrivilegePrefixResolution(t *testing.T) {
	// custom table without sudo itself, to isolate prefix resolution
	c := New(Tables{
		Risky:             []string{"rm"},
		Stateful:          []string{"cd"},
		PrivilegePrefixes: []string{"sudo", "doas"},
	})

	if !c.IsRisky("sudo rm -rf /var/log") {
		t.Error("sudo-wrapped risky command not detected")
	}
	if !c.IsRisky("sudo -u postgres rm dump.sql") {
		t.Error("sudo with -u option not resolved to effective token")
	}
	if !c.IsRisky("doas rm file") {
		t.Error("doas-wrapped risky command not detected")
	}
	if c.IsRisky("sudo apt update") {
		t.Error("sudo-wrapped benign command flagged by custom table")
	}
}

func TestPredicatesArePureAndIdempotent(t *testing.T) {
	c := newDefault(t)
	cmds := []string{"rm -rf /", "cd ..", "ls -la", "sudo reboot"}

	for _, cmd := range cmds {
		r1, r2 := c.IsRisky(cmd), c.IsRisky(cmd)
		s1, s2 := c.IsStateful(cmd), c.IsStateful(cmd)
		if r1 != r2 || s1 != s2 {
			t.Errorf("predicates for %q not idempotent", cmd)
		}
	}

	// interleaving other strings must not change results
	before := c.IsRisky("rm -rf /")
	c.IsRisky("ls")
	c.IsStateful("cd /tmp")
	if after := c.IsRisky("rm -rf /"); before != after {
		t.Error("classification depends on prior calls")
	}
}

func TestUnknownTokensAreNeitherRiskyNorStateful(t *testing.T) {
	c := newDefault(t)
	for _, cmd := range []string{"frobnicate --all", "kubectl get pods", "cargo build"} {
		if c.IsRisky(cmd) || c.IsStateful(cmd) {
			t.Errorf("%q should be outside both fixed sets", cmd)
		}
	}
}

func TestUnparseableInputFallsBackToLexicalSplit(t *testing.T) {
	c := newDefault(t)
	// unbalanced quote defeats the shell parser
	if !c.IsRisky(`rm -rf "un terminated`) {
		t.Error("lexical fallback missed risky leading token")
	}
}

func TestBatchPreservesOrderAndPositions(t *testing.T) {
	c := newDefault(t)
	batch := c.Batch([]string{"cd ..", "export X=1", "ls"})

	if batch.Len() != 3 {
		t.Fatalf("batch length = %d, want 3", batch.Len())
	}
	for i, cmd := range batch.Commands {
		if cmd.Position != i+1 {
			t.Errorf("position %d, want %d", cmd.Position, i+1)
		}
	}
	if !batch.Commands[0].Stateful || !batch.Commands[1].Stateful {
		t.Error("cd and export should both be stateful")
	}
	if batch.Commands[0].Risky || batch.Commands[1].Risky {
		t.Error("cd and export should not be risky")
	}
}

func TestLoadTablesMissingFileUsesDefaults(t *testing.T) {
	tables, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadTables error: %v", err)
	}
	if len(tables.Risky) == 0 || len(tables.Stateful) == 0 {
		t.Fatal("expected default tables")
	}
}

func TestLoadTablesReadsCustomRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "rules:\n  risky_commands: [frobnicate]\n  stateful_commands: [warp]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables error: %v", err)
	}
	c := New(tables)
	if !c.IsRisky("frobnicate --all") {
		t.Error("custom risky token not honored")
	}
	if !c.IsStateful("warp home") {
		t.Error("custom stateful token not honored")
	}
	if c.IsRisky("rm -rf /") {
		t.Error("custom table should replace defaults")
	}
}

func TestLoadTablesReadsSeededRulesFile(t *testing.T) {
	// the file written to ~/.termai/rules.yaml on first run must parse
	// into the same tables the binary compiles in
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, assets.DefaultRulesYAML, 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables error: %v", err)
	}
	if diff := cmp.Diff(DefaultTables(), tables); diff != "" {
		t.Errorf("seeded rules file diverges from built-in tables (-want +got):\n%s", diff)
	}
}

func TestLoadTablesHonorsTokenAddedToSeededFile(t *testing.T) {
	content := strings.Replace(string(assets.DefaultRulesYAML),
		"risky_commands:", "risky_commands:\n    - frobnicate", 1)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables error: %v", err)
	}
	c := New(tables)
	if !c.IsRisky("frobnicate --all") {
		t.Error("token added to the seeded rules file not honored")
	}
	if !c.IsRisky("rm -rf /") {
		t.Error("editing the seeded file must not lose its shipped entries")
	}
}

func TestLoadTablesMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTables(path); err == nil {
		t.Fatal("expected error for malformed rules file")
	}
}
