// Package doctor runs environment diagnostics for the `doctor` command.
package doctor

import (
	"context"
	"fmt"
	"os"

	appconfig "github.com/coaxialdolor/termai/internal/application/config"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Service checks config, provider credentials, shell integration, and the
// clipboard.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ShellIntegrator ports.ShellIntegrator
	Clipboard       ports.Clipboard
}

// Run executes the checks and returns a report. Only a config load failure
// is an error; everything else is reported in the checks.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("%d providers, default %s", len(cfg.Providers), cfg.DefaultProvider)))
	}

	checks = append(checks, apiKeyCheck(cfg.Providers))

	if s.ShellIntegrator != nil {
		status := s.ShellIntegrator.Status("")
		switch {
		case status.Installed():
			checks = append(checks, ok("Shell integration", fmt.Sprintf("%s ready", status.Shell)))
		case status.Error != "":
			checks = append(checks, warn("Shell integration", status.Error))
		default:
			checks = append(checks, warn("Shell integration", "not installed; stateful commands fall back to copy/show"))
		}
	}

	if s.Clipboard != nil {
		if s.Clipboard.Available() {
			checks = append(checks, ok("Clipboard", "available"))
		} else {
			checks = append(checks, warn("Clipboard", "unavailable; copy falls back to show"))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func apiKeyCheck(providers []domain.ProviderDefinition) domain.HealthCheck {
	var missing []string
	for _, def := range providers {
		if def.APIKeyEnv != "" && os.Getenv(def.APIKeyEnv) == "" {
			missing = append(missing, def.APIKeyEnv)
		}
	}
	if len(missing) == 0 {
		return ok("API keys", "set for all configured providers")
	}
	return warn("API keys", fmt.Sprintf("unset: %v", missing))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
