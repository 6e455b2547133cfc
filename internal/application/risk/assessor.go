// Package risk obtains a human-readable danger explanation for a risky
// command via a secondary, differently-prompted inference call. The call is
// best-effort by contract: its failure degrades the explanation shown, never
// the confirmation flow itself.
package risk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// sentinelPrefix tags the assessment query so the assessment system prompt
// can key its instructions to it.
const sentinelPrefix = "<RISK_CONFIRMATION>"

// assessmentSystemPrompt always overrides the user's configured system
// prompt for the secondary call. It restricts the model to a bare
// enumeration of concrete risks and forbids remediation advice.
const assessmentSystemPrompt = `You are a security analysis assistant. Your sole task is to explain the potential negative consequences and risks of executing the given shell command(s) within the specified user context.

Instructions:
- When the user query starts with the exact prefix "<RISK_CONFIRMATION>", strictly follow these rules.
- Focus exclusively on the potential dangers: data loss, system instability, security vulnerabilities, unintended modifications, or permission changes.
- DO NOT provide instructions on how to use the command, suggest alternatives, or offer reassurances. ONLY state the risks.
- Be specific about the impact. Refer to the full, absolute paths of any files or directories that would be affected, based on the provided Current Working Directory (CWD) and the command itself.
- If a command affects the CWD (e.g., 'rm -r .'), state clearly what the full path of the CWD is and that its contents will be affected.
- If the risks are minimal or negligible for a typically safe command, state that concisely.
- Keep the explanation concise and clear. Use bullet points if there are multiple distinct risks.
- Output only the risk explanation, with no conversational introduction or closing.`

// FallbackText is returned whenever the secondary call fails or produces an
// empty response.
const FallbackText = "Could not obtain an AI risk assessment for this command. " +
	"It is classified as potentially destructive; review it carefully before running."

// DefaultTimeout bounds the secondary call when the config does not say
// otherwise.
const DefaultTimeout = 20 * time.Second

// Assessor orchestrates the secondary inference call.
type Assessor struct {
	Provider ports.Provider
	Timeout  time.Duration
	Logger   ports.Logger
}

// New builds an Assessor. A nil provider is tolerated and always yields the
// fallback explanation.
func New(provider ports.Provider, timeout time.Duration, log ports.Logger) *Assessor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assessor{Provider: provider, Timeout: timeout, Logger: log}
}

// Assess returns an explanation of the dangers of cmd given the current
// working directory. It never returns an error: any provider failure,
// timeout, or empty response yields the fixed fallback text with
// IsFallback set. The call is stateless with respect to the session; it
// neither reads from nor appends to any conversation history.
func (a *Assessor) Assess(ctx context.Context, cmd domain.Command, cwd string) domain.RiskExplanation {
	fallback := domain.RiskExplanation{
		CommandPosition: cmd.Position,
		Text:            FallbackText,
		IsFallback:      true,
	}
	if a.Provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	query := fmt.Sprintf(
		"%s Explain the potential consequences and dangers of running the following command(s) if my current working directory is %q:\n---\n%s\n---",
		sentinelPrefix, cwd, cmd.Raw,
	)

	text, err := a.Provider.Generate(ctx, ports.ProviderRequest{
		Prompt:       query,
		SystemPrompt: assessmentSystemPrompt,
	})
	if err != nil {
		if a.Logger != nil {
			a.Logger.Warn("risk assessment call failed", map[string]interface{}{
				"provider": a.Provider.Name(),
				"error":    err.Error(),
			})
		}
		return fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return domain.RiskExplanation{
		CommandPosition: cmd.Position,
		Text:            text,
		IsFallback:      false,
	}
}
