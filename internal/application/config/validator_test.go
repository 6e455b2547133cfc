package config

import (
	"testing"

	"github.com/coaxialdolor/termai/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		DefaultProvider: "main",
		Providers: []domain.ProviderDefinition{
			{Name: "main", Kind: domain.ProviderKindOpenAI, Model: "m"},
			{Name: "alt", Kind: domain.ProviderKindGemini, Model: "g"},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"no providers", func(c *domain.Config) { c.Providers = nil }},
		{"unknown default", func(c *domain.Config) { c.DefaultProvider = "missing" }},
		{"duplicate name", func(c *domain.Config) { c.Providers[1].Name = "main" }},
		{"empty name", func(c *domain.Config) { c.Providers[0].Name = "" }},
		{"bad kind", func(c *domain.Config) { c.Providers[0].Kind = "soap" }},
		{"no model", func(c *domain.Config) { c.Providers[0].Model = "" }},
		{"negative max tokens", func(c *domain.Config) { c.Providers[0].MaxTokens = -1 }},
		{"negative max commands", func(c *domain.Config) { neg := -1; c.Extraction.MaxCommands = &neg }},
		{"negative timeout", func(c *domain.Config) { c.Risk.TimeoutSeconds = -1 }},
	}
	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateAllowsEmptyDefaultProvider(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultProvider = ""
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
}
