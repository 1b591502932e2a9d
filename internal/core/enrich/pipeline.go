package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

const (
	StatusEnriched = "enriched"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Result counts the outcome of a pipeline run.
type Result struct {
	Enriched int64 `json:"enriched"`
	Skipped  int64 `json:"skipped"`
	Failed   int64 `json:"failed"`
}

func (r Result) Total() int64 {
	return r.Enriched + r.Skipped + r.Failed
}

// Job is one biography waiting to be enriched.
type Job struct {
	ID            string
	L1Path        string
	BiographyPath string
	OutputPath    string
}

type Pipeline struct {
	enricher  *Enricher
	cfg       config.EnrichConfig
	workers   int
	collector *observability.Collector
	logger    *zap.Logger
}

// NewPipeline wires an enricher to the directories of cfg. collector may be nil.
func NewPipeline(enricher *Enricher, cfg config.EnrichConfig, workers int, collector *observability.Collector, logger *zap.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		enricher:  enricher,
		cfg:       cfg,
		workers:   workers,
		collector: collector,
		logger:    logger,
	}
}

// Jobs lists every L1 record that has a biography next to it, sorted by id.
func (p *Pipeline) Jobs() ([]Job, error) {
	paths, err := filepath.Glob(filepath.Join(p.cfg.L1Dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list l1 records: %w", err)
	}
	sort.Strings(paths)

	jobs := make([]Job, 0, len(paths))
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), ".json")
		bio := filepath.Join(p.cfg.BiographiesDir, id+".md")
		if _, err := os.Stat(bio); err != nil {
			p.logger.Debug("No biography for record", zap.String("id", id))
			continue
		}
		jobs = append(jobs, Job{
			ID:            id,
			L1Path:        path,
			BiographyPath: bio,
			OutputPath:    filepath.Join(p.cfg.OutputDir, id+".json"),
		})
	}
	return jobs, nil
}

// Run enriches every job on a bounded pool. A failing record is logged and
// counted; only cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	jobs, err := p.Jobs()
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	p.logger.Info("Starting enrichment",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", p.workers),
		zap.Bool("force", p.cfg.Force),
	)

	var enriched, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, err := p.process(gctx, job)
			p.observe(status)
			switch status {
			case StatusEnriched:
				enriched.Add(1)
			case StatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				p.logger.Error("Failed to enrich record", zap.String("id", job.ID), zap.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	res := Result{Enriched: enriched.Load(), Skipped: skipped.Load(), Failed: failed.Load()}
	if err == nil {
		err = ctx.Err()
	}
	p.logger.Info("Enrichment finished",
		zap.Int64("enriched", res.Enriched),
		zap.Int64("skipped", res.Skipped),
		zap.Int64("failed", res.Failed),
	)
	return res, err
}

func (p *Pipeline) process(ctx context.Context, job Job) (status string, err error) {
	ctx, finish := observability.StartSpan(ctx, "enrich.record", attribute.String("record.id", job.ID))
	defer func() { finish(err) }()

	if !p.cfg.Force && alreadyEnriched(job.OutputPath) {
		p.logger.Debug("Skipping enriched record", zap.String("id", job.ID))
		return StatusSkipped, nil
	}

	l1, err := readL1(job.L1Path)
	if err != nil {
		return StatusFailed, err
	}
	if l1.ID == "" {
		l1.ID = job.ID
	}
	bio, err := os.ReadFile(job.BiographyPath)
	if err != nil {
		return StatusFailed, fmt.Errorf("failed to read biography: %w", err)
	}

	record, err := p.enricher.Enrich(ctx, string(bio), l1)
	if err != nil {
		return StatusFailed, err
	}
	if err := writeRecord(job.OutputPath, record); err != nil {
		return StatusFailed, err
	}
	p.logger.Info("Enriched record",
		zap.String("id", job.ID),
		zap.Int("connections", len(record.Connections)),
	)
	return StatusEnriched, nil
}

func (p *Pipeline) observe(status string) {
	if p.collector == nil {
		return
	}
	p.collector.EnrichRecords.WithLabelValues(status).Inc()
}

// alreadyEnriched reports whether path holds a record whose connections are
// already typed objects rather than the bare ids of an L1 record.
func alreadyEnriched(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc struct {
		Connections json.RawMessage `json:"connections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Connections) == 0 || string(doc.Connections) == "null" {
		return false
	}
	var conns []model.Connection
	return json.Unmarshal(doc.Connections, &conns) == nil
}

func readL1(path string) (model.L1Record, error) {
	var l1 model.L1Record
	data, err := os.ReadFile(path)
	if err != nil {
		return l1, fmt.Errorf("failed to read l1 record: %w", err)
	}
	if err := json.Unmarshal(data, &l1); err != nil {
		return l1, fmt.Errorf("failed to decode l1 record %s: %w", filepath.Base(path), err)
	}
	return l1, nil
}

// writeRecord replaces path through a temp file so readers never see a
// partial document.
func writeRecord(path string, v any) error {
	data, err := encodeRecord(v)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}
