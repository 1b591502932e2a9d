package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/filter"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/graph"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/location"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
	"github.com/ReallyLiri/MacTutorIndex/internal/source"
)

// ErrInvalidFilters wraps every rejected commit.
var ErrInvalidFilters = errors.New("invalid filters")

// Snapshot is one consistent view of the session: the fetched records, the
// structures derived from them and the graph of the committed filters.
// Snapshots are never modified once published.
type Snapshot struct {
	Revision  string    `json:"revision"`
	CreatedAt time.Time `json:"created_at"`

	// Window is the coarse year range the records were fetched for.
	Window  model.YearRange `json:"window"`
	Fetched bool            `json:"fetched"`

	Records  []model.Record `json:"-"`
	Tree     *location.Tree `json:"-"`
	Options  filter.Options `json:"-"`
	Filters  model.Filters  `json:"filters"`
	Filtered []model.Record `json:"-"`
	Graph    graph.Data     `json:"-"`
	Stats    graph.Stats    `json:"stats"`

	byID map[string]int
}

// Record looks id up among the fetched records.
func (s *Snapshot) Record(id string) (model.Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Record{}, false
	}
	return s.Records[i], true
}

// Explorer owns the session state. Readers take the current snapshot without
// locking; Load and Commit are serialized and publish a new snapshot each.
type Explorer struct {
	source    source.RecordSource
	cfg       config.ExplorerConfig
	collector *observability.Collector
	logger    *zap.Logger
	validate  *validator.Validate

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewExplorer starts with an empty record set and the default filters.
// collector may be nil.
func NewExplorer(src source.RecordSource, cfg config.ExplorerConfig, collector *observability.Collector, logger *zap.Logger) *Explorer {
	e := &Explorer{
		source:    src,
		cfg:       cfg,
		collector: collector,
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
	f := model.DefaultFilters(cfg.DefaultYearRange).WithIncludeUnknown(cfg.IncludeUnknown)
	e.current.Store(e.derive(nil, model.YearRange{}, false, f))
	return e
}

// Snapshot returns the current snapshot.
func (e *Explorer) Snapshot() *Snapshot {
	return e.current.Load()
}

// Start fetches the records the default filters need.
func (e *Explorer) Start(ctx context.Context) error {
	return e.Load(ctx, filter.CoarseRange(e.Snapshot().Filters))
}

// Load fetches the records of window and re-applies the committed filters.
// The window is widened to the coarse range of those filters so the graph is
// never built from a partial record set. On failure the session is left with
// no records and the error is returned.
func (e *Explorer) Load(ctx context.Context, window model.YearRange) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	filters := e.Snapshot().Filters
	window = window.Union(filter.CoarseRange(filters))

	ctx, finish := observability.StartSpan(ctx, "explorer.load",
		attribute.Int("window.min", window.Min),
		attribute.Int("window.max", window.Max),
	)
	defer func() { finish(err) }()

	records, err := e.source.FetchRecords(ctx, window)
	if err != nil {
		e.publish(e.derive(nil, window, false, filters))
		e.logger.Error("Failed to load records", zap.Error(err))
		return fmt.Errorf("failed to load records: %w", err)
	}
	e.publish(e.derive(records, window, true, filters))
	return nil
}

// Reload refetches the current window.
func (e *Explorer) Reload(ctx context.Context) error {
	s := e.Snapshot()
	window := s.Window
	if !s.Fetched {
		window = filter.CoarseRange(s.Filters)
	}
	return e.Load(ctx, window)
}

// Commit replaces the committed filters. When their coarse window is not
// covered by the fetched one the records are fetched again first; a failed
// fetch leaves the previous snapshot in place.
func (e *Explorer) Commit(ctx context.Context, f model.Filters) (snap *Snapshot, err error) {
	if err := e.Validate(f); err != nil {
		return nil, err
	}
	f = normalizeFilters(f)

	ctx, finish := observability.StartSpan(ctx, "explorer.commit",
		attribute.Int("year.min", f.YearRange.Min),
		attribute.Int("year.max", f.YearRange.Max),
		attribute.Int("locations", len(f.Locations)),
	)
	defer func() { finish(err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.Snapshot()
	records, window := cur.Records, cur.Window
	if need := filter.CoarseRange(f); !cur.Fetched || !cur.Window.Covers(need) {
		e.logger.Debug("Refetching records",
			zap.Int("min", need.Min),
			zap.Int("max", need.Max),
		)
		fetched, err := e.source.FetchRecords(ctx, need)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch records: %w", err)
		}
		records, window = fetched, need
	}

	snap = e.derive(records, window, true, f)
	e.publish(snap)
	return snap, nil
}

// Validate rejects filters no commit can accept.
func (e *Explorer) Validate(f model.Filters) error {
	if err := e.validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidFilters, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidFilters, err)
	}
	return nil
}

// Record returns the record with id from the snapshot, or from the source when
// it lies outside the fetched window.
func (e *Explorer) Record(ctx context.Context, id string) (*model.Record, error) {
	if r, ok := e.Snapshot().Record(id); ok {
		return &r, nil
	}
	return e.source.FetchRecordByID(ctx, id)
}

// derive builds a snapshot. The tree and options are reused from the current
// snapshot when the record set did not change.
func (e *Explorer) derive(records []model.Record, window model.YearRange, fetched bool, f model.Filters) *Snapshot {
	if records == nil {
		records = []model.Record{}
	}
	s := &Snapshot{
		Revision:  uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Window:    window,
		Fetched:   fetched,
		Records:   records,
		Filters:   f,
	}

	if cur := e.current.Load(); cur != nil && sameRecords(cur.Records, records) {
		s.Tree, s.Options, s.byID = cur.Tree, cur.Options, cur.byID
	} else {
		s.byID = make(map[string]int, len(records))
		var places []string
		for i, r := range records {
			if _, dup := s.byID[r.ID]; !dup {
				s.byID[r.ID] = i
			}
			places = append(places, r.Locations()...)
		}
		s.Tree = location.Build(places)
		s.Options = filter.CollectOptions(records)
	}

	s.Filtered = filter.Apply(records, f)
	s.Graph = graph.Build(s.Filtered)
	s.Stats = graph.Summarize(s.Graph)
	return s
}

func (e *Explorer) publish(s *Snapshot) {
	e.current.Store(s)
	if e.collector != nil {
		e.collector.ObserveGraph(len(s.Graph.Nodes), len(s.Graph.Links))
	}
	e.logger.Info("Published snapshot",
		zap.String("revision", s.Revision),
		zap.Int("records", len(s.Records)),
		zap.Int("filtered", len(s.Filtered)),
		zap.Int("links", s.Stats.Links),
	)
}

// sameRecords reports whether a and b share the same backing array.
func sameRecords(a, b []model.Record) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// normalizeFilters replaces nil lists so a commit never carries null facets.
func normalizeFilters(f model.Filters) model.Filters {
	c := f.Clone()
	for _, l := range []*[]string{&c.Locations, &c.Religions, &c.Institutions, &c.WorkedIn, &c.Professions} {
		if *l == nil {
			*l = []string{}
		}
	}
	return c
}
