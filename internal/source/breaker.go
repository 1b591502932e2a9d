package source

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  5,
		Interval:     30 * time.Second,
		Timeout:      60 * time.Second,
		FailureRatio: 0.8,
		MinRequests:  5,
	}
}

// BreakerSource stops calling a failing source for a while. A missing record
// is an answer, not a failure.
type BreakerSource struct {
	next RecordSource
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSource wraps next. onStateChange, when set, is told of every
// transition in addition to the log line.
func NewBreakerSource(next RecordSource, st BreakerSettings, logger *zap.Logger, onStateChange func(name string, to gobreaker.State)) *BreakerSource {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: st.MaxRequests,
		Interval:    st.Interval,
		Timeout:     st.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < st.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= st.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Record source circuit breaker changed state",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if onStateChange != nil {
				onStateChange(name, to)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerSource{next: next, cb: cb}
}

func (s *BreakerSource) Name() string { return s.next.Name() }

func (s *BreakerSource) State() gobreaker.State { return s.cb.State() }

func (s *BreakerSource) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	out, err := s.cb.Execute(func() (any, error) {
		return s.next.FetchRecords(ctx, yr)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Record), nil
}

func (s *BreakerSource) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	out, err := s.cb.Execute(func() (any, error) {
		return s.next.FetchRecordByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.Record), nil
}

// IsUnavailable reports whether err comes from an open or saturated breaker.
func IsUnavailable(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
