// Package query orchestrates one query turn end-to-end: provider call,
// answer rendering, command extraction, classification, and the
// confirmation flow.
package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/coaxialdolor/termai/internal/application/classify"
	"github.com/coaxialdolor/termai/internal/application/confirm"
	"github.com/coaxialdolor/termai/internal/application/extract"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Service wires the pipeline stages together. Every stage is injected so
// tests can substitute stubs at any seam.
type Service struct {
	Config     domain.Config
	Factory    ports.ProviderFactory
	Extractor  *extract.Extractor
	Classifier *classify.Classifier
	Engine     *confirm.Engine
	Renderer   ports.Renderer
	History    ports.HistoryRepository
	Logger     ports.Logger
}

// Request is one query turn.
type Request struct {
	Prompt           string
	ProviderOverride string

	// History carries prior turns in chat mode; empty for single-shot
	// queries.
	History []domain.ChatMessage

	// AnswerOnly renders the response without extracting or confirming
	// commands. Used by --explain.
	AnswerOnly bool

	// Detailed asks for a longer answer with per-command explanations.
	// Set by --long.
	Detailed bool
}

// Result reports what one turn produced.
type Result struct {
	Answer   string
	Batch    domain.CommandBatch
	Outcomes []domain.ExecutionOutcome
}

// Run executes one query turn. Provider failures are errors; downstream
// command failures are outcomes, not errors.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return Result{}, errors.New("empty query")
	}

	def, err := ResolveProvider(s.Config, req.ProviderOverride)
	if err != nil {
		return Result{}, err
	}

	provider, err := s.Factory.ForProvider(def)
	if err != nil {
		return Result{}, fmt.Errorf("provider init: %w", err)
	}

	s.Logger.Debug("calling provider", map[string]interface{}{
		"provider": def.Name,
		"model":    def.Model,
	})

	systemPrompt := SystemPrompt(s.Config)
	if req.Detailed {
		systemPrompt += "\n" + detailedAnswerSuffix
	}

	answer, err := provider.Generate(ctx, ports.ProviderRequest{
		Prompt:       req.Prompt,
		SystemPrompt: systemPrompt,
		History:      req.History,
	})
	if err != nil {
		return Result{}, fmt.Errorf("provider %s: %w", def.Name, err)
	}

	s.Renderer.Answer(answer)
	result := Result{Answer: answer}
	if req.AnswerOnly {
		return result, nil
	}

	result.Batch = s.Classifier.Batch(s.Extractor.Extract(answer))
	if result.Batch.Len() == 0 {
		return result, nil
	}

	result.Outcomes = s.Engine.Run(ctx, result.Batch)
	s.record(req.Prompt, result.Batch, result.Outcomes)
	return result, nil
}

// record appends outcomes to history. Failures are logged and swallowed;
// history is never allowed to break a query.
func (s *Service) record(prompt string, batch domain.CommandBatch, outcomes []domain.ExecutionOutcome) {
	if s.History == nil {
		return
	}
	byPos := make(map[int]domain.Command, batch.Len())
	for _, cmd := range batch.Commands {
		byPos[cmd.Position] = cmd
	}
	for _, outcome := range outcomes {
		cmd := byPos[outcome.CommandPosition]
		rec := domain.HistoryRecord{
			Timestamp: time.Now(),
			Prompt:    prompt,
			Command:   cmd.Raw,
			Position:  cmd.Position,
			Risky:     cmd.Risky,
			Stateful:  cmd.Stateful,
			Kind:      outcome.Kind,
			ExitCode:  outcome.ExitCode,
		}
		if err := s.History.Append(rec); err != nil {
			s.Logger.Warn("history append failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// SystemPrompt resolves the effective system prompt: the configured
// template with the {os} and {shell} placeholders substituted.
func SystemPrompt(cfg domain.Config) string {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	prompt = strings.ReplaceAll(prompt, "{os}", osDescriptor())
	prompt = strings.ReplaceAll(prompt, "{shell}", shellDescriptor())
	return prompt
}

// detailedAnswerSuffix extends the system prompt when the user asks for a
// long answer.
const detailedAnswerSuffix = "Give a detailed answer: explain what each suggested command does " +
	"and why it is appropriate, before its code block."

// DefaultSystemPrompt is used when the config file does not set one.
const DefaultSystemPrompt = "You are a helpful terminal assistant running on {os} with the {shell} shell. " +
	"Answer concisely. When the answer involves shell commands, put each runnable " +
	"command in a fenced code block on its own line, with no prose inside the fences."

func osDescriptor() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

func shellDescriptor() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return "sh"
	}
	if i := strings.LastIndex(shell, "/"); i >= 0 {
		shell = shell[i+1:]
	}
	return shell
}

// ResolveProvider resolves the provider definition by name, preferring the
// per-query override over the configured default.
func ResolveProvider(cfg domain.Config, override string) (domain.ProviderDefinition, error) {
	name := override
	if name == "" {
		name = cfg.DefaultProvider
	}
	if name == "" && len(cfg.Providers) > 0 {
		return cfg.Providers[0], nil
	}
	for _, def := range cfg.Providers {
		if def.Name == name {
			return def, nil
		}
	}
	return domain.ProviderDefinition{}, fmt.Errorf("provider %q not configured", name)
}
