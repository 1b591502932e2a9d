package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the rules spanning sections.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	yr := cfg.Explorer.DefaultYearRange
	if yr.Min > yr.Max {
		return fmt.Errorf("invalid config: explorer.default_year_range min %d is after max %d", yr.Min, yr.Max)
	}
	if cfg.Source.Kind == SourceMemgraph && cfg.Memgraph.URI == "" {
		return errors.New("invalid config: memgraph.uri is required for the memgraph source")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return errors.New("invalid config: tracing.endpoint is required when tracing is enabled")
	}
	return nil
}
