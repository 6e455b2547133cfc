package classify

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables holds the fixed command-name sets driving classification. They are
// injected into the Classifier at construction; there is no hidden global
// state, which keeps classification reproducible and testable in isolation.
type Tables struct {
	Risky             []string `yaml:"risky_commands"`
	Stateful          []string `yaml:"stateful_commands"`
	PrivilegePrefixes []string `yaml:"privilege_prefixes"`
}

// rulesFile is the YAML schema root of ~/.termai/rules.yaml.
type rulesFile struct {
	Rules Tables `yaml:"rules"`
}

// LoadTables reads classification tables from the given YAML file, falling
// back to the built-in defaults when the file is missing or a section is
// empty. A malformed file is an error; silently ignoring it would make the
// danger set smaller than the user believes.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		return DefaultTables(), nil
	}
	var rules rulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Tables{}, err
	}
	defaults := DefaultTables()
	if len(rules.Rules.Risky) == 0 {
		rules.Rules.Risky = defaults.Risky
	}
	if len(rules.Rules.Stateful) == 0 {
		rules.Rules.Stateful = defaults.Stateful
	}
	if len(rules.Rules.PrivilegePrefixes) == 0 {
		rules.Rules.PrivilegePrefixes = defaults.PrivilegePrefixes
	}
	return rules.Rules, nil
}

// DefaultTables returns the conservative built-in command sets.
func DefaultTables() Tables {
	return Tables{
		// destructive filesystem ops, disk/partition tools, power-state
		// changes, privilege escalation, hard history rewrites
		Risky: []string{
			"rm", "rmdir", "dd", "shred", "mkfs", "mkfs.ext4", "wipefs",
			"fdisk", "sfdisk", "parted", "gpart", "mkpart", "diskpart",
			"format", "chmod", "chown", "shutdown", "halt", "poweroff",
			"reboot", "init", "sudo", "doas", "su", "history",
		},
		// operations whose effect lives in the invoking shell's own
		// process: a child cannot perform them on the parent's behalf
		Stateful: []string{
			"cd", "pushd", "popd", "dirs", "export", "unset", "setenv",
			"set", "alias", "unalias", "source", ".", "exec",
		},
		PrivilegePrefixes: []string{"sudo", "doas"},
	}
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(userHomeDir(), ".termai", "rules.yaml")
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
