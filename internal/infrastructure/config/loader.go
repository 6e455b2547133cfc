// Package config loads YAML configuration from ~/.termai/config.yaml
// (overridable via TERMAI_CONFIG). On first run the embedded default file
// is written out so the user has a commented template to edit.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coaxialdolor/termai/assets"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// FileLoader loads the configuration file.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a loader. An empty path selects the default
// resolution order.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		if err := seedDefaults(path); err != nil {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path reports the resolved config file location.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("TERMAI_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".termai", "config.yaml")
}

// seedDefaults writes the embedded config template and, next to it, the
// default rules file when one does not exist yet.
func seedDefaults(configPath string) error {
	if err := os.WriteFile(configPath, assets.DefaultConfigYAML, 0o600); err != nil {
		return err
	}
	rulesPath := filepath.Join(filepath.Dir(configPath), "rules.yaml")
	if _, err := os.Stat(rulesPath); errors.Is(err, fs.ErrNotExist) {
		return os.WriteFile(rulesPath, assets.DefaultRulesYAML, 0o644)
	}
	return nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.DefaultProvider == "" && len(cfg.Providers) > 0 {
		cfg.DefaultProvider = cfg.Providers[0].Name
	}
	if cfg.Extraction.MaxCommands == nil {
		defaultCap := 10
		cfg.Extraction.MaxCommands = &defaultCap
	}
	if cfg.Risk.TimeoutSeconds == 0 {
		cfg.Risk.TimeoutSeconds = 20
	}
	return cfg
}

func expandPath(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
