package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

// MergeResult counts what MergeDir did.
type MergeResult struct {
	Updated int `json:"updated"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// MergeDir refreshes every enriched record in l2Dir from its parsed record in
// l1Dir. Parsed fields win over enriched ones except connections, which keep
// their types. A record with no enriched counterpart is created from the
// parsed one with untyped connections.
func MergeDir(l1Dir, l2Dir string, logger *zap.Logger) (MergeResult, error) {
	var res MergeResult
	paths, err := filepath.Glob(filepath.Join(l1Dir, "*.json"))
	if err != nil {
		return res, fmt.Errorf("failed to list l1 records: %w", err)
	}
	sort.Strings(paths)
	if err := os.MkdirAll(l2Dir, 0o755); err != nil {
		return res, fmt.Errorf("failed to create output dir: %w", err)
	}

	for _, path := range paths {
		out := filepath.Join(l2Dir, filepath.Base(path))
		created, err := mergeFile(path, out)
		if err != nil {
			res.Failed++
			logger.Warn("Failed to merge record", zap.String("file", filepath.Base(path)), zap.Error(err))
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res, nil
}

func mergeFile(l1Path, l2Path string) (created bool, err error) {
	l1Data, err := os.ReadFile(l1Path)
	if err != nil {
		return false, err
	}
	var l1 map[string]json.RawMessage
	if err := json.Unmarshal(l1Data, &l1); err != nil {
		return false, fmt.Errorf("failed to decode l1 record: %w", err)
	}

	l2Data, err := os.ReadFile(l2Path)
	if errors.Is(err, fs.ErrNotExist) {
		var parsed model.L1Record
		if err := json.Unmarshal(l1Data, &parsed); err != nil {
			return false, fmt.Errorf("failed to decode l1 record: %w", err)
		}
		return true, writeRecord(l2Path, Merge(parsed, model.ExtractedAttributes{}, untyped(parsed.Connections)))
	}
	if err != nil {
		return false, err
	}

	var l2 map[string]json.RawMessage
	if err := json.Unmarshal(l2Data, &l2); err != nil {
		return false, fmt.Errorf("failed to decode l2 record: %w", err)
	}
	for k, v := range l1 {
		if k == "connections" {
			continue
		}
		l2[k] = v
	}
	return false, writeRecord(l2Path, l2)
}

func untyped(ids []string) []model.Connection {
	out := make([]model.Connection, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, model.Connection{Person: id, Key: id})
	}
	return out
}
