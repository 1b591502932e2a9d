// Package source fetches biographical records from the external store. The
// year predicate is coarse: callers re-apply the exact year rule.
package source

import (
	"context"
	"errors"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

var ErrNotFound = errors.New("record not found")

type RecordSource interface {
	// FetchRecords returns every record born within yr plus every record
	// whose birth year is unknown.
	FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error)
	FetchRecordByID(ctx context.Context, id string) (*model.Record, error)
	Name() string
}

// InCoarseRange is the fetch predicate shared by every source.
func InCoarseRange(r model.Record, yr model.YearRange) bool {
	return !r.Born.HasYear() || yr.Contains(*r.Born.Year)
}
