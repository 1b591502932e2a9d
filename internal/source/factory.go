package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/driver"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

// New builds the configured source wrapped with instrumentation and, when
// enabled, a circuit breaker. The returned close func releases the store
// connection.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, collector *observability.Collector) (RecordSource, func(context.Context) error, error) {
	var (
		base    RecordSource
		closeFn = func(context.Context) error { return nil }
	)

	switch cfg.Source.Kind {
	case config.SourceFile:
		fs, err := NewFileSource(cfg.Source.RecordsDir, logger)
		if err != nil {
			return nil, nil, err
		}
		base = fs
	case config.SourceMemgraph:
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to memgraph: %w", err)
		}
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("Failed to build indices", zap.Error(err))
		}
		base = NewMemgraphSource(d, logger)
		closeFn = d.Close
	default:
		return nil, nil, fmt.Errorf("unsupported source kind: %s", cfg.Source.Kind)
	}

	src := RecordSource(Instrument(base, collector))
	if b := cfg.Source.Breaker; b.Enabled {
		src = NewBreakerSource(src, breakerSettings(b), logger, func(name string, to gobreaker.State) {
			collector.BreakerState.WithLabelValues(name).Set(float64(to))
		})
	}
	return src, closeFn, nil
}

// breakerSettings fills the unset fields of b from the defaults.
func breakerSettings(b config.BreakerConfig) BreakerSettings {
	st := DefaultBreakerSettings()
	if b.MaxRequests > 0 {
		st.MaxRequests = b.MaxRequests
	}
	if b.IntervalSeconds > 0 {
		st.Interval = time.Duration(b.IntervalSeconds) * time.Second
	}
	if b.TimeoutSeconds > 0 {
		st.Timeout = time.Duration(b.TimeoutSeconds) * time.Second
	}
	if b.FailureRatio > 0 {
		st.FailureRatio = b.FailureRatio
	}
	if b.MinRequests > 0 {
		st.MinRequests = b.MinRequests
	}
	return st
}
