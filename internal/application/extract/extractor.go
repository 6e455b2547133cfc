// Package extract isolates candidate shell commands from unstructured AI
// response text. Extraction is purely lexical: it never evaluates, splits,
// or rewrites the command strings it emits.
package extract

import (
	"strings"
	"unicode"
)

// Extractor parses fenced code regions out of AI response text and filters
// the surviving lines through a shell-invocation heuristic.
type Extractor struct {
	// MaxCommands caps the number of extracted commands. Zero means no cap.
	MaxCommands int
}

// New builds an Extractor.
func New(maxCommands int) *Extractor {
	return &Extractor{MaxCommands: maxCommands}
}

// Extract returns candidate command strings in document order, concatenated
// across all fenced regions. Fences are honored regardless of language tag,
// including untagged ones; an unterminated fence extends to end of input.
// Compound lines joined with shell control operators are kept atomic.
// Duplicates are dropped, keeping the first occurrence. An empty result is
// not an error.
func (e *Extractor) Extract(response string) []string {
	var commands []string
	seen := make(map[string]struct{})

	for _, region := range fencedRegions(response) {
		for _, line := range strings.Split(region, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				// comments and shebang lines carry no command
				continue
			}
			line = strings.TrimPrefix(line, "$ ")
			if !LooksLikeCommand(line) {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			commands = append(commands, line)
			if e.MaxCommands > 0 && len(commands) >= e.MaxCommands {
				return commands
			}
		}
	}
	return commands
}

// fencedRegions returns the contents of every triple-backtick region in
// document order. The opening line's language tag is ignored.
func fencedRegions(text string) []string {
	var regions []string
	var current []string
	inFence := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inFence {
				regions = append(regions, strings.Join(current, "\n"))
				current = current[:0]
			}
			inFence = !inFence
			continue
		}
		if inFence {
			current = append(current, line)
		}
	}
	// opening marker with no closing marker runs to end of input
	if inFence && len(current) > 0 {
		regions = append(regions, strings.Join(current, "\n"))
	}
	return regions
}

// knownCommands anchors the heuristic: a line whose first token is one of
// these is accepted outright. The list is deliberately broad; extraction
// errs toward keeping lines, classification decides what is dangerous.
var knownCommands = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"ls", "cd", "cat", "echo", "cp", "mv", "rm", "find", "grep", "awk",
		"sed", "chmod", "chown", "head", "tail", "touch", "mkdir", "rmdir",
		"tree", "du", "df", "ps", "kill", "top", "htop", "less", "more",
		"man", "which", "whereis", "locate", "pwd", "whoami", "date", "cal",
		"env", "export", "unset", "alias", "unalias", "source", "pushd",
		"popd", "dirs", "set", "ssh", "scp", "rsync", "curl", "wget", "tar",
		"zip", "unzip", "gzip", "gunzip", "python", "python3", "pip", "pip3",
		"brew", "apt", "apt-get", "yum", "dnf", "pacman", "docker", "podman",
		"kubectl", "git", "npm", "npx", "yarn", "node", "make", "cmake",
		"gcc", "clang", "go", "cargo", "rustc", "java", "javac", "mvn",
		"gradle", "dotnet", "perl", "php", "ruby", "sort", "uniq", "wc",
		"cut", "tr", "tee", "xargs", "ln", "stat", "file", "diff", "patch",
		"basename", "dirname", "readlink", "printf", "sleep", "watch",
		"sudo", "doas", "su", "dd", "mkfs", "fdisk", "parted", "mount",
		"umount", "systemctl", "service", "journalctl", "crontab", "uname",
		"free", "uptime", "history", "jobs", "bg", "fg", "nohup", "time",
		"sh", "bash", "zsh", "open", "pbcopy", "pbpaste", "shutdown",
		"reboot", "halt", "vim", "vi", "nano", "emacs", "code",
	} {
		knownCommands[name] = struct{}{}
	}
}

// factualIndicators mark sentences that state facts rather than commands.
var factualIndicators = []string{
	" is ", " are ", " was ", " were ", " has ", " have ", " had ",
	" means ", " represents ", " consists ",
}

var shellOperators = []string{" | ", " && ", " || ", " > ", " >> ", " < ", "$(", "`"}

// LooksLikeCommand reports whether a single line plausibly is a shell
// invocation rather than prose left inside a fence. The boundary is
// inherently fuzzy; this is a tunable filter, not a parser.
//
// Accepted:  "ls -la", "git log --oneline", "du -sh * | sort -h"
// Rejected:  "This command lists files.", "The output is shown below"
func LooksLikeCommand(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	fields := strings.Fields(line)
	first := fields[0]

	// natural-language sentence: capitalized, several words, terminal
	// punctuation typical of prose
	if len(fields) > 3 && startsUpper(line) && strings.ContainsAny(line[len(line)-1:], ".!?") {
		return false
	}
	if startsUpper(line) {
		padded := " " + line + " "
		for _, word := range factualIndicators {
			if strings.Contains(padded, word) {
				return false
			}
		}
	}

	if _, ok := knownCommands[first]; ok {
		return true
	}

	// relative or absolute path invocation
	if strings.HasPrefix(first, "./") || strings.HasPrefix(first, "/") || strings.HasPrefix(first, "~/") {
		return true
	}

	// shell syntax around a known command name
	for _, op := range shellOperators {
		if strings.Contains(line, op) {
			for _, f := range fields {
				if _, ok := knownCommands[f]; ok {
					return true
				}
			}
		}
	}

	// option flags after an unknown but command-shaped first token
	if !startsUpper(line) && len(fields) > 1 {
		for _, f := range fields[1:] {
			if strings.HasPrefix(f, "-") && len(f) > 1 {
				return true
			}
		}
	}

	return false
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
