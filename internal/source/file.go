package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

// FileSource reads one JSON record document per file from a directory. A
// document without an id takes the file name (minus .json) as its id.
type FileSource struct {
	dir    string
	logger *zap.Logger
}

func NewFileSource(dir string, logger *zap.Logger) (*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("records dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("records dir %s is not a directory", dir)
	}
	return &FileSource{dir: dir, logger: logger}, nil
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) FetchRecords(ctx context.Context, yr model.YearRange) ([]model.Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	sort.Strings(paths)

	records := make([]model.Record, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := readRecord(p)
		if err != nil {
			s.logger.Warn("Skipping unreadable record", zap.String("path", p), zap.Error(err))
			continue
		}
		if InCoarseRange(*r, yr) {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (s *FileSource) FetchRecordByID(ctx context.Context, id string) (*model.Record, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, ErrNotFound
	}

	r, err := readRecord(filepath.Join(s.dir, id+".json"))
	if err == nil && r.ID == id {
		return r, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// The file name and the document id may disagree; fall back to a scan.
	all, err := s.FetchRecords(ctx, model.YearRange{Min: minYear, Max: maxYear})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func readRecord(path string) (*model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r model.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if r.ID == "" {
		r.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return &r, nil
}

const (
	minYear = -1 << 31
	maxYear = 1<<31 - 1
)
