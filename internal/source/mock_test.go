package source

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]any
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error { return nil }

func (m *MockDriver) VerifyConnectivity(ctx context.Context) error { return nil }

func (m *MockDriver) Close(ctx context.Context) error { return nil }

func personRow(id, doc string) *neo4j.Record {
	return &neo4j.Record{Keys: []string{"id", "doc"}, Values: []any{id, doc}}
}

// MockSource counts calls and answers from Records, or with Err.
type MockSource struct {
	mu      sync.Mutex
	Records []model.Record
	Err     error
	Calls   int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Record
	for _, r := range m.Records {
		if InCoarseRange(r, yr) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockSource) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Records {
		if m.Records[i].ID == id {
			r := m.Records[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func eagerResult(rows ...*neo4j.Record) neo4j.EagerResult {
	return neo4j.EagerResult{Keys: []string{"id", "doc"}, Records: rows}
}
