package domain

// Config mirrors ~/.termai/config.yaml.
type Config struct {
	ConfigFormatVersion string               `yaml:"config_format_version"`
	DefaultProvider     string               `yaml:"default_provider"`
	SystemPrompt        string               `yaml:"system_prompt"`
	Providers           []ProviderDefinition `yaml:"providers"`
	Extraction          ExtractionSettings   `yaml:"extraction"`
	Classification      ClassificationConfig `yaml:"classification"`
	Risk                RiskSettings         `yaml:"risk"`
	Execution           ExecutionSettings    `yaml:"execution"`
	History             HistorySettings      `yaml:"history"`
}

// ProviderDefinition describes one AI backend declared in the config file.
type ProviderDefinition struct {
	Name      string       `yaml:"name"`
	Kind      ProviderKind `yaml:"kind"`
	Endpoint  string       `yaml:"endpoint"`
	Model     string       `yaml:"model"`
	APIKeyEnv string       `yaml:"api_key_env,omitempty"`
	MaxTokens int          `yaml:"max_tokens,omitempty"`
}

// ProviderKind selects the wire protocol for a provider.
type ProviderKind string

const (
	// ProviderKindOpenAI covers every OpenAI-compatible chat completion
	// endpoint (OpenRouter, Mistral, Ollama).
	ProviderKindOpenAI ProviderKind = "openai"
	ProviderKindGemini ProviderKind = "gemini"
)

// ExtractionSettings tunes the command extractor.
type ExtractionSettings struct {
	// MaxCommands caps how many commands are extracted from one response.
	// Absent means the default of 10; an explicit 0 disables the cap.
	MaxCommands *int `yaml:"max_commands"`
}

// ClassificationConfig points at the classifier rules file. When the file is
// missing the embedded default tables are used.
type ClassificationConfig struct {
	RulesFile string `yaml:"rules_file"`
}

// RiskSettings bounds the secondary risk-assessment call.
type RiskSettings struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ExecutionSettings controls how confirmed commands run.
type ExecutionSettings struct {
	// Shell is the interpreter used for child processes. Empty means
	// $SHELL, falling back to /bin/sh.
	Shell string `yaml:"shell"`
}

// HistorySettings controls the outcome history store.
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
}
