// Package app wires application services to infrastructure adapters.
package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/coaxialdolor/termai/internal/application/classify"
	appconfig "github.com/coaxialdolor/termai/internal/application/config"
	"github.com/coaxialdolor/termai/internal/application/confirm"
	"github.com/coaxialdolor/termai/internal/application/dispatch"
	"github.com/coaxialdolor/termai/internal/application/doctor"
	"github.com/coaxialdolor/termai/internal/application/extract"
	"github.com/coaxialdolor/termai/internal/application/query"
	"github.com/coaxialdolor/termai/internal/application/risk"
	"github.com/coaxialdolor/termai/internal/domain"
	"github.com/coaxialdolor/termai/internal/infrastructure/ai"
	"github.com/coaxialdolor/termai/internal/infrastructure/clipboard"
	"github.com/coaxialdolor/termai/internal/infrastructure/config"
	"github.com/coaxialdolor/termai/internal/infrastructure/executor"
	"github.com/coaxialdolor/termai/internal/infrastructure/history"
	"github.com/coaxialdolor/termai/internal/infrastructure/shell"
	"github.com/coaxialdolor/termai/internal/pkg/logger"
	"github.com/coaxialdolor/termai/internal/ports"
)

// Container holds the shared dependency graph for one process.
type Container struct {
	Config     domain.Config
	Loader     *config.FileLoader
	Logger     *logger.ZapLogger
	Factory    *ai.Factory
	Classifier *classify.Classifier
	Extractor  *extract.Extractor
	History    ports.HistoryRepository
	Installer  *shell.Installer
	Doctor     *doctor.Service
}

// Build constructs the dependency graph. A config that cannot be loaded or
// fails validation is a startup error.
func Build(ctx context.Context, verbose bool) (*Container, error) {
	loader := config.NewFileLoader("")
	cfg, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", loader.Path(), err)
	}

	log := logger.New(verbose)

	tables, err := classify.LoadTables(cfg.Classification.RulesFile)
	if err != nil {
		log.Warn("rules file unusable, using built-in tables", map[string]interface{}{
			"file":  cfg.Classification.RulesFile,
			"error": err.Error(),
		})
		tables = classify.DefaultTables()
	}

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore("")
	}

	installer := shell.NewInstaller(log)
	clip := clipboard.New()

	return &Container{
		Config:     cfg,
		Loader:     loader,
		Logger:     log,
		Factory:    ai.NewFactory(),
		Classifier: classify.New(tables),
		Extractor:  extract.New(extractionCap(cfg)),
		History:    historyStore,
		Installer:  installer,
		Doctor: &doctor.Service{
			ConfigProvider:  loader,
			ShellIntegrator: installer,
			Clipboard:       clip,
		},
	}, nil
}

// SessionOptions describes one invocation of the pipeline.
type SessionOptions struct {
	Mode             domain.InvokeMode
	Sinks            dispatch.Sinks
	Renderer         ports.Renderer
	In               *bufio.Reader
	AutoConfirm      bool
	ProviderOverride string
}

// NewQueryService assembles the per-invocation pipeline on top of the
// shared graph.
func (c *Container) NewQueryService(opts SessionOptions) *query.Service {
	dispatcher := &dispatch.Dispatcher{
		Executor:  executor.NewLocalExecutor(c.Config.Execution.Shell),
		Clipboard: clipboard.New(),
		Sinks:     opts.Sinks,
		Mode:      opts.Mode,
		Logger:    c.Logger,
	}

	engine := &confirm.Engine{
		Assessor:    c.newAssessor(opts.ProviderOverride),
		Dispatcher:  dispatcher,
		Renderer:    opts.Renderer,
		In:          opts.In,
		Out:         opts.Sinks.Human,
		WorkDir:     workDir(),
		AutoConfirm: opts.AutoConfirm,
		Logger:      c.Logger,
	}

	return &query.Service{
		Config:     c.Config,
		Factory:    c.Factory,
		Extractor:  c.Extractor,
		Classifier: c.Classifier,
		Engine:     engine,
		Renderer:   opts.Renderer,
		History:    c.History,
		Logger:     c.Logger,
	}
}

// newAssessor builds the risk assessor on the same provider the query uses.
// When the provider cannot be built the assessor still works; it answers
// with the fixed fallback text.
func (c *Container) newAssessor(override string) *risk.Assessor {
	var provider ports.Provider
	if def, err := query.ResolveProvider(c.Config, override); err == nil {
		if p, err := c.Factory.ForProvider(def); err == nil {
			provider = p
		} else {
			c.Logger.Warn("risk assessment provider unavailable", map[string]interface{}{"error": err.Error()})
		}
	}
	return risk.New(provider, time.Duration(c.Config.Risk.TimeoutSeconds)*time.Second, c.Logger)
}

// Close releases held resources.
func (c *Container) Close() {
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			c.Logger.Warn("closing history store", map[string]interface{}{"error": err.Error()})
		}
	}
	c.Logger.Sync()
}

// extractionCap resolves the configured command cap. The loader hydrates
// the field, so nil only occurs for configs built in code.
func extractionCap(cfg domain.Config) int {
	if cfg.Extraction.MaxCommands == nil {
		return 10
	}
	return *cfg.Extraction.MaxCommands
}

func workDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
