package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

const (
	SourceFile     = "file"
	SourceMemgraph = "memgraph"
)

type ServerConfig struct {
	Port        string `toml:"port" yaml:"port" validate:"required,numeric"`
	Environment string `toml:"environment" yaml:"environment" validate:"oneof=development production test"`
	LogLevel    string `toml:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

type BreakerConfig struct {
	Enabled         bool    `toml:"enabled" yaml:"enabled"`
	MaxRequests     uint32  `toml:"max_requests" yaml:"max_requests" validate:"gte=1"`
	IntervalSeconds int     `toml:"interval_seconds" yaml:"interval_seconds" validate:"gte=0"`
	TimeoutSeconds  int     `toml:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=1"`
	FailureRatio    float64 `toml:"failure_ratio" yaml:"failure_ratio" validate:"gt=0,lte=1"`
	MinRequests     uint32  `toml:"min_requests" yaml:"min_requests"`
}

type SourceConfig struct {
	Kind       string        `toml:"kind" yaml:"kind" validate:"oneof=file memgraph"`
	RecordsDir string        `toml:"records_dir" yaml:"records_dir" validate:"required_if=Kind file"`
	Watch      bool          `toml:"watch" yaml:"watch"`
	Breaker    BreakerConfig `toml:"breaker" yaml:"breaker"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri" yaml:"uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
}

type ExplorerConfig struct {
	DefaultYearRange model.YearRange `toml:"default_year_range" yaml:"default_year_range"`
	IncludeUnknown   bool            `toml:"include_unknown" yaml:"include_unknown"`
	SearchLimit      int             `toml:"search_limit" yaml:"search_limit" validate:"gte=1,lte=100"`
}

type LLMConfig struct {
	Provider  string `toml:"provider" yaml:"provider" validate:"omitempty,oneof=openai gemini claude ollama"`
	Model     string `toml:"model" yaml:"model"`
	APIKey    string `toml:"api_key" yaml:"api_key"`
	BaseURL   string `toml:"base_url" yaml:"base_url" validate:"omitempty,url"`
	MaxTokens int    `toml:"max_tokens" yaml:"max_tokens" validate:"gte=0"`
}

type EnrichPrompts struct {
	Attributes  string `toml:"attributes" yaml:"attributes"`
	Connections string `toml:"connections" yaml:"connections"`
}

type EnrichConfig struct {
	BiographiesDir string        `toml:"biographies_dir" yaml:"biographies_dir"`
	L1Dir          string        `toml:"l1_dir" yaml:"l1_dir"`
	OutputDir      string        `toml:"output_dir" yaml:"output_dir"`
	Force          bool          `toml:"force" yaml:"force"`
	Prompts        EnrichPrompts `toml:"prompts" yaml:"prompts"`
}

type ConcurrencyConfig struct {
	Enrich int `toml:"enrich" yaml:"enrich" validate:"gte=1,lte=16"`
}

type Config struct {
	Server      ServerConfig                `toml:"server" yaml:"server"`
	Source      SourceConfig                `toml:"source" yaml:"source"`
	Memgraph    MemgraphConfig              `toml:"memgraph" yaml:"memgraph"`
	Explorer    ExplorerConfig              `toml:"explorer" yaml:"explorer"`
	LLM         LLMConfig                   `toml:"llm" yaml:"llm"`
	Enrich      EnrichConfig                `toml:"enrich" yaml:"enrich"`
	Concurrency ConcurrencyConfig           `toml:"concurrency" yaml:"concurrency"`
	Tracing     observability.TracingConfig `toml:"tracing" yaml:"tracing"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Environment: "development",
			LogLevel:    "info",
		},
		Source: SourceConfig{
			Kind:       SourceFile,
			RecordsDir: "store/json/l2",
			Breaker: BreakerConfig{
				Enabled:         true,
				MaxRequests:     5,
				IntervalSeconds: 30,
				TimeoutSeconds:  60,
				FailureRatio:    0.8,
				MinRequests:     5,
			},
		},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		Explorer: ExplorerConfig{
			DefaultYearRange: model.YearRange{Min: 1750, Max: 1800},
			SearchLimit:      10,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "gpt-oss:latest",
			BaseURL:  "http://localhost:11434",
		},
		Enrich: EnrichConfig{
			BiographiesDir: "store/md",
			L1Dir:          "store/json/l1",
			OutputDir:      "store/json/l2",
			Prompts: EnrichPrompts{
				Attributes:  defaultAttributesPrompt,
				Connections: defaultConnectionsPrompt,
			},
		},
		Concurrency: ConcurrencyConfig{Enrich: 4},
		Tracing: observability.TracingConfig{
			Endpoint:    "localhost:4317",
			Insecure:    true,
			SampleRate:  1,
			ServiceName: "mactutor-index",
		},
	}
}

// Load reads a TOML or YAML (by extension) file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to the defaults
// otherwise. Env overrides are applied and the result validated either way.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if cfg, err = Load(path); err != nil {
				return nil, err
			}
		}
	}
	ApplyEnv(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
