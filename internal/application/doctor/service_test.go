package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/coaxialdolor/termai/internal/domain"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s stubConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type stubIntegrator struct {
	status domain.ShellStatus
}

func (s stubIntegrator) Install(string, bool) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}
func (s stubIntegrator) Uninstall(string) (domain.ShellInstallResult, error) {
	return domain.ShellInstallResult{}, nil
}
func (s stubIntegrator) Status(string) domain.ShellStatus { return s.status }
func (s stubIntegrator) DetectShell() string              { return "bash" }

type stubClipboard struct{ available bool }

func (s stubClipboard) Copy(string) error { return nil }
func (s stubClipboard) Available() bool   { return s.available }

func find(report domain.HealthReport, name string) (domain.HealthCheck, bool) {
	for _, c := range report.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return domain.HealthCheck{}, false
}

func TestRunHealthy(t *testing.T) {
	t.Setenv("DOCTOR_TEST_KEY", "x")
	svc := &Service{
		ConfigProvider: stubConfig{cfg: domain.Config{
			DefaultProvider: "p",
			Providers: []domain.ProviderDefinition{
				{Name: "p", Kind: domain.ProviderKindOpenAI, Model: "m", APIKeyEnv: "DOCTOR_TEST_KEY"},
			},
		}},
		ShellIntegrator: stubIntegrator{status: domain.ShellStatus{Shell: domain.ShellBash, ScriptExists: true, LinePresent: true}},
		Clipboard:       stubClipboard{available: true},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !report.Healthy() {
		t.Fatalf("report = %+v", report)
	}
	for _, name := range []string{"Config file", "API keys", "Shell integration", "Clipboard"} {
		check, found := find(report, name)
		if !found || check.Status != domain.HealthOK {
			t.Errorf("check %s = %+v", name, check)
		}
	}
}

func TestRunReportsMissingKeyAndIntegration(t *testing.T) {
	t.Setenv("DOCTOR_MISSING_KEY", "")
	svc := &Service{
		ConfigProvider: stubConfig{cfg: domain.Config{
			Providers: []domain.ProviderDefinition{
				{Name: "p", Kind: domain.ProviderKindOpenAI, Model: "m", APIKeyEnv: "DOCTOR_MISSING_KEY"},
			},
		}},
		ShellIntegrator: stubIntegrator{status: domain.ShellStatus{Shell: domain.ShellBash}},
		Clipboard:       stubClipboard{},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !report.Healthy() {
		t.Fatal("warnings must not make the report unhealthy")
	}
	for _, name := range []string{"API keys", "Shell integration", "Clipboard"} {
		check, _ := find(report, name)
		if check.Status != domain.HealthWarn {
			t.Errorf("check %s = %+v", name, check)
		}
	}
}

func TestRunConfigLoadFailure(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{err: errors.New("corrupt")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Healthy() {
		t.Fatal("report should be unhealthy")
	}
}

func TestRunInvalidConfigIsUnhealthyNotError(t *testing.T) {
	svc := &Service{ConfigProvider: stubConfig{cfg: domain.Config{}}}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Healthy() {
		t.Fatal("empty provider list should fail validation")
	}
}
