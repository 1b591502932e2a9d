package source

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

// Instrumented records a span and fetch metrics around every call.
type Instrumented struct {
	next      RecordSource
	collector *observability.Collector
}

func Instrument(next RecordSource, collector *observability.Collector) *Instrumented {
	return &Instrumented{next: next, collector: collector}
}

func (s *Instrumented) Name() string { return s.next.Name() }

func (s *Instrumented) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	ctx, finish := observability.StartSpan(ctx, "source.FetchRecords",
		attribute.String("source", s.next.Name()),
		attribute.Int("year.min", yr.Min),
		attribute.Int("year.max", yr.Max),
	)
	start := time.Now()
	records, err := s.next.FetchRecords(ctx, yr)
	s.collector.ObserveFetch(s.next.Name(), "fetch_records", err, len(records), time.Since(start))
	finish(err)
	return records, err
}

func (s *Instrumented) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	ctx, finish := observability.StartSpan(ctx, "source.FetchRecordByID",
		attribute.String("source", s.next.Name()),
		attribute.String("record.id", id),
	)
	start := time.Now()
	r, err := s.next.FetchRecordByID(ctx, id)
	n := 0
	if r != nil {
		n = 1
	}
	s.collector.ObserveFetch(s.next.Name(), "fetch_record", err, n, time.Since(start))
	finish(err)
	return r, err
}
