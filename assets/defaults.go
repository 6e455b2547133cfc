package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration, written to
// ~/.termai/config.yaml on first run.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultRulesYAML contains the embedded default classification rules.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte

// BashWrapper is the shell-integration script for bash.
//
//go:embed shell/termai.bash
var BashWrapper string

// ZshWrapper is the shell-integration script for zsh.
//
//go:embed shell/termai.zsh
var ZshWrapper string
