package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/observability"
)

var testPrompts = config.EnrichPrompts{
	Attributes:  "ATTRIBUTES",
	Connections: connectionsMarker + " %s",
}

const (
	eulerAttributes = "```json\n" + `{
	"lived_in": ["Basel, Switzerland", "St Petersburg, Russia"],
	"worked_in": ["Berlin, Germany"],
	"religions": ["Calvinist"],
	"profession": ["Mathematician"],
	"institution_affiliation": ["St Petersburg Academy"]
}` + "\n```"

	eulerConnections = `{"connections": [
	{"person": "Bernoulli_Johann", "connection_type": " Student Of "},
	{"person": "lagrange", "connection_type": "corresponded with"},
	{"person": "Someone_Else", "connection_type": "friend"}
]}`
)

func eulerL1() model.L1Record {
	return model.L1Record{
		ID:          "Euler",
		Name:        "Leonhard Euler",
		Summary:     "Swiss mathematician.",
		Born:        model.DateInfo{Year: model.Year(1707), Place: "Basel, Switzerland"},
		Died:        model.DateInfo{Year: model.Year(1783), Place: "St Petersburg, Russia"},
		Connections: []string{"Bernoulli_Johann", "Lagrange", "Goldbach", "Lagrange", "Euler"},
	}
}

func TestEnricher_Enrich(t *testing.T) {
	mock := &MockLLMClient{Attributes: eulerAttributes, Connections: eulerConnections}
	e := NewEnricher(mock, testPrompts, zap.NewNop())

	r, err := e.Enrich(context.Background(), "# Euler", eulerL1())
	require.NoError(t, err)

	assert.Equal(t, "Euler", r.ID)
	assert.Equal(t, "Leonhard Euler", r.Name)
	assert.Equal(t, 1707, *r.Born.Year)
	assert.Equal(t, []string{"Basel, Switzerland", "St Petersburg, Russia"}, r.LivedIn)
	assert.Equal(t, []string{"Calvinist"}, r.Religions)
	assert.Equal(t, []model.Connection{
		{Person: "Bernoulli_Johann", ConnectionType: "student of", Key: "Bernoulli_Johann"},
		{Person: "Lagrange", ConnectionType: "corresponded with", Key: "Lagrange"},
		{Person: "Goldbach", ConnectionType: "", Key: "Goldbach"},
	}, r.Connections)

	require.Len(t, mock.Prompts, 2)
	assert.Equal(t, "# Euler\n\nATTRIBUTES", mock.Prompts[0])
	assert.Contains(t, mock.Prompts[1], "Bernoulli_Johann, Lagrange, Goldbach")
	assert.Equal(t, attributesMaxTokens, mock.Options[0].MaxTokens)
	assert.Equal(t, connectionsMaxTokens, mock.Options[1].MaxTokens)
	assert.NotEmpty(t, mock.Options[0].System)
	assert.NotEmpty(t, mock.Options[1].JSONSchema)
}

func TestEnricher_NoConnectionsSkipsSecondCall(t *testing.T) {
	mock := &MockLLMClient{Attributes: `{"lived_in": ["Paris, France"]}`}
	e := NewEnricher(mock, testPrompts, zap.NewNop())

	l1 := eulerL1()
	l1.Connections = nil
	r, err := e.Enrich(context.Background(), "bio", l1)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Calls())
	assert.NotNil(t, r.Connections)
	assert.Empty(t, r.Connections)
	assert.NotNil(t, r.WorkedIn)
}

func TestEnricher_Errors(t *testing.T) {
	e := NewEnricher(&MockLLMClient{Err: errors.New("rate limited")}, testPrompts, zap.NewNop())
	_, err := e.Enrich(context.Background(), "bio", eulerL1())
	assert.ErrorContains(t, err, "rate limited")

	e = NewEnricher(&MockLLMClient{Attributes: "no json here"}, testPrompts, zap.NewNop())
	_, err = e.Enrich(context.Background(), "bio", eulerL1())
	assert.ErrorContains(t, err, "failed to extract attributes")
}

func TestSchemaOf(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal(attributesSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "lived_in")
	assert.Contains(t, props, "institution_affiliation")
}

type fixture struct {
	cfg config.EnrichConfig
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.EnrichConfig{
		BiographiesDir: filepath.Join(root, "md"),
		L1Dir:          filepath.Join(root, "l1"),
		OutputDir:      filepath.Join(root, "l2"),
		Prompts:        testPrompts,
	}
	for _, dir := range []string{cfg.BiographiesDir, cfg.L1Dir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return fixture{cfg: cfg}
}

func (f fixture) addL1(t *testing.T, l1 model.L1Record, withBiography bool) {
	t.Helper()
	data, err := json.Marshal(l1)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.L1Dir, l1.ID+".json"), data, 0o644))
	if withBiography {
		require.NoError(t, os.WriteFile(filepath.Join(f.cfg.BiographiesDir, l1.ID+".md"), []byte("# "+l1.Name), 0o644))
	}
}

func (f fixture) readL2(t *testing.T, id string) model.Record {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, id+".json"))
	require.NoError(t, err)
	var r model.Record
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func TestPipeline_Run(t *testing.T) {
	f := newFixture(t)
	f.addL1(t, eulerL1(), true)
	f.addL1(t, model.L1Record{ID: "Gauss", Name: "Carl Friedrich Gauss"}, true)
	f.addL1(t, model.L1Record{ID: "Orphan", Name: "No Biography"}, false)

	mock := &MockLLMClient{Attributes: eulerAttributes, Connections: eulerConnections}
	collector := observability.NewCollector("test")
	p := NewPipeline(NewEnricher(mock, f.cfg.Prompts, zap.NewNop()), f.cfg, 2, collector, zap.NewNop())

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Enriched: 2}, res)
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.EnrichRecords.WithLabelValues(StatusEnriched)))

	euler := f.readL2(t, "Euler")
	assert.Len(t, euler.Connections, 3)
	assert.Equal(t, []string{"Mathematician"}, euler.Profession)
	assert.NoFileExists(t, filepath.Join(f.cfg.OutputDir, "Orphan.json"))

	raw, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "Euler.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"id\": \"Euler\"")

	// A second run finds typed connections and leaves the records alone.
	calls := mock.Calls()
	res, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, res)
	assert.Equal(t, calls, mock.Calls())
}

func TestPipeline_Force(t *testing.T) {
	f := newFixture(t)
	f.addL1(t, model.L1Record{ID: "Gauss", Name: "Carl Friedrich Gauss"}, true)
	require.NoError(t, os.MkdirAll(f.cfg.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.OutputDir, "Gauss.json"), []byte(`{"id":"Gauss","connections":[]}`), 0o644))

	mock := &MockLLMClient{Attributes: `{"profession":["Astronomer"]}`}
	f.cfg.Force = true
	p := NewPipeline(NewEnricher(mock, f.cfg.Prompts, zap.NewNop()), f.cfg, 1, nil, zap.NewNop())

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Enriched)
	assert.Equal(t, []string{"Astronomer"}, f.readL2(t, "Gauss").Profession)
}

func TestPipeline_FailuresAreCounted(t *testing.T) {
	f := newFixture(t)
	f.addL1(t, eulerL1(), true)
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.L1Dir, "Broken.json"), []byte(`{`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.BiographiesDir, "Broken.md"), []byte("x"), 0o644))

	mock := &MockLLMClient{Attributes: eulerAttributes, Connections: eulerConnections}
	p := NewPipeline(NewEnricher(mock, f.cfg.Prompts, zap.NewNop()), f.cfg, 4, nil, zap.NewNop())

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Enriched: 1, Failed: 1}, res)
	assert.Equal(t, int64(2), res.Total())
}

func TestPipeline_Canceled(t *testing.T) {
	f := newFixture(t)
	f.addL1(t, eulerL1(), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(NewEnricher(&MockLLMClient{Attributes: "{}"}, f.cfg.Prompts, zap.NewNop()), f.cfg, 1, nil, zap.NewNop())
	_, err := p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlreadyEnriched(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	assert.False(t, alreadyEnriched(filepath.Join(dir, "missing.json")))
	assert.False(t, alreadyEnriched(write("ids.json", `{"connections":["Euler"]}`)))
	assert.False(t, alreadyEnriched(write("null.json", `{"connections":null}`)))
	assert.False(t, alreadyEnriched(write("none.json", `{"id":"x"}`)))
	assert.True(t, alreadyEnriched(write("typed.json", `{"connections":[{"person":"Euler","connection_type":"","key":"Euler"}]}`)))
	assert.True(t, alreadyEnriched(write("empty.json", `{"connections":[]}`)))
}

func TestMergeDir(t *testing.T) {
	f := newFixture(t)
	l1 := eulerL1()
	l1.Summary = "Updated summary."
	f.addL1(t, l1, false)
	f.addL1(t, model.L1Record{ID: "Gauss", Name: "Carl Friedrich Gauss", Connections: []string{"Euler", "Euler"}}, false)
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.L1Dir, "Broken.json"), []byte(`[`), 0o644))

	require.NoError(t, os.MkdirAll(f.cfg.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.OutputDir, "Euler.json"), []byte(`{
		"id": "Euler",
		"summary": "Old summary.",
		"profession": ["Mathematician"],
		"connections": [{"person": "Lagrange", "connection_type": "corresponded with", "key": "Lagrange"}]
	}`), 0o644))

	res, err := MergeDir(f.cfg.L1Dir, f.cfg.OutputDir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, MergeResult{Updated: 1, Created: 1, Failed: 1}, res)

	euler := f.readL2(t, "Euler")
	assert.Equal(t, "Updated summary.", euler.Summary)
	assert.Equal(t, []string{"Mathematician"}, euler.Profession)
	assert.Equal(t, []model.Connection{{Person: "Lagrange", ConnectionType: "corresponded with", Key: "Lagrange"}}, euler.Connections)

	gauss := f.readL2(t, "Gauss")
	assert.Equal(t, []model.Connection{{Person: "Euler", Key: "Euler"}}, gauss.Connections)
	assert.NotNil(t, gauss.LivedIn)
}
