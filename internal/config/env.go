package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overrides file values with environment variables when set.
func ApplyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Environment, "ENVIRONMENT")
	setString(&cfg.Server.LogLevel, "LOG_LEVEL")

	setString(&cfg.Source.Kind, "SOURCE_KIND")
	setString(&cfg.Source.RecordsDir, "RECORDS_DIR")
	setBool(&cfg.Source.Watch, "RECORDS_WATCH")

	setString(&cfg.Memgraph.URI, "MEMGRAPH_URI")
	setString(&cfg.Memgraph.User, "MEMGRAPH_USER")
	setString(&cfg.Memgraph.Password, "MEMGRAPH_PASSWORD")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")

	setBool(&cfg.Enrich.Force, "FORCE_RUN")
	setInt(&cfg.Concurrency.Enrich, "WORKER_COUNT")

	setBool(&cfg.Tracing.Enabled, "OTEL_TRACING_ENABLED")
	setString(&cfg.Tracing.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Source.Kind = strings.ToLower(cfg.Source.Kind)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		*dst = true
	case "0", "false", "no":
		*dst = false
	}
}

func setInt(dst *int, key string) {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = v
	}
}
