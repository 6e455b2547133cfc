// Package shell deploys the `ai` wrapper function that captures termai's
// stdout channel and evaluates it in the invoking shell.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coaxialdolor/termai/assets"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Installer writes the wrapper script under ~/.termai/shell/ and sources it
// from the shell rc file.
type Installer struct {
	logger ports.Logger
}

func NewInstaller(logger ports.Logger) *Installer {
	return &Installer{logger: logger}
}

// Install deploys integration for the given shell (auto-detected when
// empty). force re-adds the rc line even if already present.
func (i *Installer) Install(shell string, force bool) (domain.ShellInstallResult, error) {
	name := normalizeShell(shell)
	script, err := wrapperFor(name)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := integrationPaths(name)

	if err := os.MkdirAll(filepath.Dir(scriptPath), 0o755); err != nil {
		return domain.ShellInstallResult{}, err
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return domain.ShellInstallResult{}, err
	}

	rcUpdated, err := ensureRCLine(rcFile, sourceLine(scriptPath), force)
	if err != nil {
		return domain.ShellInstallResult{}, err
	}

	if i.logger != nil {
		i.logger.Info("shell integration installed", map[string]interface{}{
			"shell":  string(name),
			"script": scriptPath,
		})
	}
	return domain.ShellInstallResult{
		Shell:         name,
		ScriptPath:    scriptPath,
		RCFile:        rcFile,
		ScriptUpdated: true,
		RCUpdated:     rcUpdated,
	}, nil
}

// Uninstall removes the rc source line. The script file is left behind so a
// reinstall is a one-line change.
func (i *Installer) Uninstall(shell string) (domain.ShellInstallResult, error) {
	name := normalizeShell(shell)
	if _, err := wrapperFor(name); err != nil {
		return domain.ShellInstallResult{}, err
	}
	scriptPath, rcFile := integrationPaths(name)

	updated, err := removeRCLine(rcFile, sourceLine(scriptPath))
	if err != nil {
		return domain.ShellInstallResult{}, err
	}
	return domain.ShellInstallResult{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
		RCUpdated:  updated,
	}, nil
}

// Status reports whether the wrapper script exists and the rc file sources
// it.
func (i *Installer) Status(shell string) domain.ShellStatus {
	name := normalizeShell(shell)
	if _, err := wrapperFor(name); err != nil {
		return domain.ShellStatus{Shell: name, Error: err.Error()}
	}
	scriptPath, rcFile := integrationPaths(name)

	status := domain.ShellStatus{
		Shell:      name,
		ScriptPath: scriptPath,
		RCFile:     rcFile,
	}
	if info, err := os.Stat(scriptPath); err == nil && info.Mode().IsRegular() {
		status.ScriptExists = true
	}
	if contents, err := os.ReadFile(rcFile); err == nil {
		status.LinePresent = strings.Contains(string(contents), sourceLine(scriptPath))
	}
	return status
}

// DetectShell inspects the SHELL env var.
func (i *Installer) DetectShell() string {
	return os.Getenv("SHELL")
}

func normalizeShell(shell string) domain.ShellName {
	if shell == "" {
		shell = filepath.Base(os.Getenv("SHELL"))
	}
	switch strings.ToLower(shell) {
	case "zsh":
		return domain.ShellZsh
	case "bash":
		return domain.ShellBash
	default:
		return domain.ShellUnknown
	}
}

func wrapperFor(shell domain.ShellName) (string, error) {
	switch shell {
	case domain.ShellZsh:
		return assets.ZshWrapper, nil
	case domain.ShellBash:
		return assets.BashWrapper, nil
	default:
		return "", fmt.Errorf("unsupported shell %q", shell)
	}
}

func integrationPaths(shell domain.ShellName) (scriptPath, rcFile string) {
	home := userHome()
	switch shell {
	case domain.ShellZsh:
		return filepath.Join(home, ".termai", "shell", "zsh.sh"), filepath.Join(home, ".zshrc")
	case domain.ShellBash:
		return filepath.Join(home, ".termai", "shell", "bash.sh"), filepath.Join(home, ".bashrc")
	default:
		return "", ""
	}
}

func ensureRCLine(path, line string, force bool) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, os.WriteFile(path, []byte("# Added by termai\n"+line+"\n"), 0o644)
	}
	if err != nil {
		return false, err
	}
	if strings.Contains(string(contents), line) && !force {
		return false, nil
	}
	var kept []string
	for _, existing := range strings.Split(string(contents), "\n") {
		if strings.Contains(existing, line) {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, line)
	final := strings.Join(kept, "\n")
	if !strings.HasSuffix(final, "\n") {
		final += "\n"
	}
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func removeRCLine(path, line string) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var kept []string
	removed := false
	for _, existing := range strings.Split(string(contents), "\n") {
		if strings.Contains(existing, line) {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return false, nil
	}
	final := strings.Join(kept, "\n")
	if !strings.HasSuffix(final, "\n") {
		final += "\n"
	}
	return true, os.WriteFile(path, []byte(final), 0o644)
}

func sourceLine(scriptPath string) string {
	p := friendlyPath(scriptPath)
	return fmt.Sprintf("[ -f %s ] && source %s", p, p)
}

func friendlyPath(path string) string {
	home := userHome()
	if strings.HasPrefix(path, home) {
		rel := strings.TrimPrefix(strings.TrimPrefix(path, home), string(os.PathSeparator))
		return filepath.Join("$HOME", rel)
	}
	return path
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ShellIntegrator = (*Installer)(nil)
