// Package config validates the loaded configuration before the pipeline
// runs with it.
package config

import (
	"errors"
	"fmt"

	"github.com/coaxialdolor/termai/internal/domain"
)

// Validate ensures the config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}
	seen := make(map[string]bool, len(cfg.Providers))
	for _, def := range cfg.Providers {
		if def.Name == "" {
			return errors.New("provider with empty name")
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate provider %q", def.Name)
		}
		seen[def.Name] = true
		if err := validateProvider(def); err != nil {
			return err
		}
	}
	if cfg.DefaultProvider != "" && !seen[cfg.DefaultProvider] {
		return fmt.Errorf("default provider %q not in providers list", cfg.DefaultProvider)
	}
	if cfg.Extraction.MaxCommands != nil && *cfg.Extraction.MaxCommands < 0 {
		return errors.New("extraction.max_commands must be >= 0")
	}
	if cfg.Risk.TimeoutSeconds < 0 {
		return errors.New("risk.timeout_seconds must be >= 0")
	}
	return nil
}

func validateProvider(def domain.ProviderDefinition) error {
	switch def.Kind {
	case domain.ProviderKindOpenAI, domain.ProviderKindGemini:
	default:
		return fmt.Errorf("provider %s: kind must be openai|gemini, got %q", def.Name, def.Kind)
	}
	if def.Model == "" {
		return fmt.Errorf("provider %s: model must be set", def.Name)
	}
	if def.MaxTokens < 0 {
		return fmt.Errorf("provider %s: max_tokens must be >= 0", def.Name)
	}
	return nil
}
