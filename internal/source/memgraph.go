package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/driver"
)

// MemgraphSource reads (:Person) nodes whose doc property holds the record
// document as JSON.
type MemgraphSource struct {
	driver driver.GraphDriver
	logger *zap.Logger
}

func NewMemgraphSource(d driver.GraphDriver, logger *zap.Logger) *MemgraphSource {
	return &MemgraphSource{driver: d, logger: logger}
}

func (s *MemgraphSource) Name() string { return "memgraph" }

func (s *MemgraphSource) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.FetchPersonsQuery, map[string]any{
		"min_year": int64(yr.Min),
		"max_year": int64(yr.Max),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch persons: %w", err)
	}

	records := make([]model.Record, 0, len(res.Records))
	for _, rec := range res.Records {
		r, err := decodePerson(rec)
		if err != nil {
			s.logger.Warn("Skipping undecodable person", zap.Error(err))
			continue
		}
		records = append(records, *r)
	}
	return records, nil
}

func (s *MemgraphSource) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	res, err := s.driver.ExecuteQuery(ctx, driver.GetPersonByIDQuery, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch person %s: %w", id, err)
	}
	if len(res.Records) == 0 {
		return nil, ErrNotFound
	}
	return decodePerson(res.Records[0])
}

func decodePerson(rec *neo4j.Record) (*model.Record, error) {
	id, _, err := neo4j.GetRecordValue[string](rec, "id")
	if err != nil {
		return nil, fmt.Errorf("person id: %w", err)
	}
	doc, _, err := neo4j.GetRecordValue[string](rec, "doc")
	if err != nil {
		return nil, fmt.Errorf("person %s doc: %w", id, err)
	}

	var r model.Record
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("person %s doc: %w", id, err)
	}
	if r.ID == "" {
		r.ID = id
	}
	return &r, nil
}
