// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LLMProvider names a language-model backend.
type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderOllama LLMProvider = "ollama"
)

// LLMConfig holds settings for the question generation stage.
type LLMConfig struct {
	// Provider selects the completion backend: openai or ollama.
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-3.5-turbo", "mistral").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways, Ollama server).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey authenticates against the provider. Falls back to OPENAI_API_KEY.
	APIKey string `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// SearchBackend names a web search backend.
type SearchBackend string

const (
	BackendTavily     SearchBackend = "tavily"
	BackendDuckDuckGo SearchBackend = "duckduckgo"
)

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the search service: tavily or duckduckgo.
	Backend SearchBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// MaxResults is the number of results requested per question (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Depth is Tavily's search_depth parameter: basic or advanced.
	Depth string `json:"depth" yaml:"depth" mapstructure:"depth"`

	// APIKey authenticates against the search service. Falls back to TAVILY_API_KEY.
	APIKey string `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ReportConfig holds settings for saving composed reports.
type ReportConfig struct {
	// OutputDir is where report files are written (default "reports").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// ArchiveConfig holds settings for the report archive.
type ArchiveConfig struct {
	// Dir is the directory holding the archive database (default "reports/index").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default limit for list and search queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the web interface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RequestTimeout bounds one report generation request (default 5m).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
}

// Config groups all stage configurations.
type Config struct {
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
	Archive ArchiveConfig `json:"archive" yaml:"archive" mapstructure:"archive"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the configuration used when no file or flag overrides a value.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Model:    "gpt-3.5-turbo",
		},
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "research-agent/0.1",
			},
			Backend:    BackendTavily,
			MaxResults: 5,
			Depth:      "basic",
		},
		Report: ReportConfig{
			OutputDir: "reports",
		},
		Archive: ArchiveConfig{
			Dir:        "reports/index",
			MaxResults: 20,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 5 * time.Minute,
		},
	}
}
