// Package ports defines the interfaces between the application core and
// external adapters (infrastructure), following the ports-and-adapters
// pattern: the confirmation/execution core depends on these abstractions,
// never on concrete providers, clipboards, or process spawning.
package ports

import (
	"context"
	"io"

	"github.com/coaxialdolor/termai/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.termai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider is an AI backend capable of producing a text completion. It is
// used once for the primary suggestion and once per risky command for the
// secondary risk assessment.
type Provider interface {
	Name() string
	Generate(context.Context, ProviderRequest) (string, error)
}

// ProviderRequest carries one generation call. SystemPrompt always overrides
// any configured default. History is only populated in chat mode; the
// risk-assessment call sends an empty history.
type ProviderRequest struct {
	Prompt       string
	SystemPrompt string
	History      []domain.ChatMessage
}

// ProviderFactory builds provider instances from config definitions.
type ProviderFactory interface {
	ForProvider(domain.ProviderDefinition) (Provider, error)
}

// CommandExecutor runs a confirmed command in a child process, relaying its
// output to the given writers as produced, and returns the exit code. A
// non-zero exit code is not an error; err is reserved for spawn failures.
type CommandExecutor interface {
	Run(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)
}

// Clipboard provides system clipboard integration for stateful commands.
type Clipboard interface {
	Copy(text string) error
	Available() bool
}

// HistoryRepository persists execution outcomes.
type HistoryRepository interface {
	Append(domain.HistoryRecord) error
	Recent(limit int) ([]domain.HistoryRecord, error)
	Clear() error
	Close() error
}

// ShellIntegrator manages the shell wrapper function that captures the
// stdout channel and evaluates it in the invoking shell.
type ShellIntegrator interface {
	Install(shell string, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	DetectShell() string
}

// Renderer draws human-facing output. Every method writes to the human
// channel only; the machine channel is owned exclusively by the dispatcher.
type Renderer interface {
	Answer(text string)
	CommandList(batch domain.CommandBatch)
	RiskAssessment(expl domain.RiskExplanation)
	Notice(msg string)
	Warning(msg string)
}

// Logger provides structured logging for the application layer. All log
// output goes to stderr; the stdout protocol contract forbids anything else.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
