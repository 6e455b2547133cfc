package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coaxialdolor/termai/internal/domain"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestInstallWritesScriptAndRCLine(t *testing.T) {
	home := setupHome(t)
	installer := NewInstaller(nil)

	result, err := installer.Install("bash", false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Shell != domain.ShellBash || !result.ScriptUpdated || !result.RCUpdated {
		t.Fatalf("result = %+v", result)
	}

	script, err := os.ReadFile(filepath.Join(home, ".termai", "shell", "bash.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(script), "ai()") || !strings.Contains(string(script), "--eval-mode") {
		t.Errorf("wrapper script missing ai function: %s", script)
	}

	rc, err := os.ReadFile(filepath.Join(home, ".bashrc"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(rc), "source $HOME/.termai/shell/bash.sh") {
		t.Errorf("rc file = %s", rc)
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	home := setupHome(t)
	installer := NewInstaller(nil)

	if _, err := installer.Install("zsh", false); err != nil {
		t.Fatal(err)
	}
	second, err := installer.Install("zsh", false)
	if err != nil {
		t.Fatal(err)
	}
	if second.RCUpdated {
		t.Error("rc line duplicated on reinstall")
	}

	rc, _ := os.ReadFile(filepath.Join(home, ".zshrc"))
	if strings.Count(string(rc), "zsh.sh") != 2 {
		// the source line mentions the path twice
		t.Errorf("rc file = %s", rc)
	}
}

func TestStatusLifecycle(t *testing.T) {
	setupHome(t)
	installer := NewInstaller(nil)

	if installer.Status("bash").Installed() {
		t.Fatal("installed before install")
	}

	if _, err := installer.Install("bash", false); err != nil {
		t.Fatal(err)
	}
	status := installer.Status("bash")
	if !status.Installed() {
		t.Fatalf("status = %+v", status)
	}

	if _, err := installer.Uninstall("bash"); err != nil {
		t.Fatal(err)
	}
	status = installer.Status("bash")
	if status.Installed() {
		t.Fatalf("still installed after uninstall: %+v", status)
	}
	// script is retained
	if !status.ScriptExists {
		t.Error("uninstall removed the script file")
	}
}

func TestUnsupportedShellRejected(t *testing.T) {
	setupHome(t)
	t.Setenv("SHELL", "/usr/bin/fish")

	if _, err := NewInstaller(nil).Install("", false); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
	status := NewInstaller(nil).Status("fish")
	if status.Error == "" {
		t.Error("status error not set")
	}
}

func TestUninstallWithoutRCFile(t *testing.T) {
	setupHome(t)
	result, err := NewInstaller(nil).Uninstall("bash")
	if err != nil {
		t.Fatal(err)
	}
	if result.RCUpdated {
		t.Error("claimed rc update with no rc file")
	}
}
