package core

import (
	"context"
	"sync"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/source"
)

type MockSource struct {
	mu      sync.Mutex
	Records []model.Record
	Err     error
	Windows []model.YearRange
	ByID    []string
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Windows = append(m.Windows, yr)
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Record
	for _, r := range m.Records {
		if source.InCoarseRange(r, yr) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockSource) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ByID = append(m.ByID, id)
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Records {
		if m.Records[i].ID == id {
			r := m.Records[i]
			return &r, nil
		}
	}
	return nil, source.ErrNotFound
}

func (m *MockSource) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Windows)
}
