// Package enrich turns parsed biographies into full records by asking an LLM
// for the descriptive facets and the type of every connection.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/config"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/common"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/text"
	"github.com/ReallyLiri/MacTutorIndex/internal/llm"
)

const (
	attributesMaxTokens  = 2000
	connectionsMaxTokens = 5000
)

var (
	attributesSchema  = schemaOf(model.ExtractedAttributes{})
	connectionsSchema = schemaOf(model.ExtractedConnections{})
)

type Enricher struct {
	LLM     llm.LLMClient
	Prompts config.EnrichPrompts
	logger  *zap.Logger
}

func NewEnricher(llmClient llm.LLMClient, prompts config.EnrichPrompts, logger *zap.Logger) *Enricher {
	return &Enricher{
		LLM:     llmClient,
		Prompts: prompts,
		logger:  logger,
	}
}

// Enrich extracts the facets and connection types of biography and merges
// them with l1 into a full record.
func (e *Enricher) Enrich(ctx context.Context, biography string, l1 model.L1Record) (*model.Record, error) {
	attrs, err := e.ExtractAttributes(ctx, biography)
	if err != nil {
		return nil, err
	}
	conns, err := e.ExtractConnections(ctx, biography, l1.Connections)
	if err != nil {
		return nil, err
	}
	r := Merge(l1, attrs, e.resolveConnections(l1, conns))
	return &r, nil
}

func (e *Enricher) ExtractAttributes(ctx context.Context, biography string) (model.ExtractedAttributes, error) {
	response, err := e.LLM.Generate(ctx, biography+"\n\n"+e.Prompts.Attributes,
		llm.WithSystem(llm.ExtractionSystemPrompt),
		llm.WithMaxTokens(attributesMaxTokens),
		llm.WithJSONSchema(attributesSchema),
	)
	if err != nil {
		return model.ExtractedAttributes{}, fmt.Errorf("failed to generate attributes: %w", err)
	}
	attrs, err := common.ParseJSON[model.ExtractedAttributes](response)
	if err != nil {
		return model.ExtractedAttributes{}, fmt.Errorf("failed to extract attributes: %w", err)
	}
	return attrs, nil
}

// ExtractConnections asks for the relationship type of each id. Without ids
// there is nothing to ask.
func (e *Enricher) ExtractConnections(ctx context.Context, biography string, ids []string) ([]model.ExtractedConnection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	prompt := biography + "\n\n" + fmt.Sprintf(e.Prompts.Connections, strings.Join(ids, ", "))
	response, err := e.LLM.Generate(ctx, prompt,
		llm.WithSystem(llm.ExtractionSystemPrompt),
		llm.WithMaxTokens(connectionsMaxTokens),
		llm.WithJSONSchema(connectionsSchema),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate connections: %w", err)
	}
	result, err := common.ParseJSON[model.ExtractedConnections](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract connections: %w", err)
	}
	return result.Connections, nil
}

// resolveConnections maps each extracted person back onto one of the ids the
// biography links to. Unknown persons are dropped; ids the reply missed are
// kept with an empty type. The result follows the order of l1.Connections.
func (e *Enricher) resolveConnections(l1 model.L1Record, extracted []model.ExtractedConnection) []model.Connection {
	byKey := make(map[string]string, len(l1.Connections))
	for _, id := range l1.Connections {
		byKey[connectionKey(id)] = id
	}

	types := make(map[string]string, len(extracted))
	for _, c := range extracted {
		id, ok := byKey[connectionKey(c.Person)]
		if !ok {
			e.logger.Debug("Dropping unknown connection",
				zap.String("record", l1.ID),
				zap.String("person", c.Person),
			)
			continue
		}
		if _, seen := types[id]; !seen {
			types[id] = strings.ToLower(strings.TrimSpace(c.ConnectionType))
		}
	}

	out := make([]model.Connection, 0, len(l1.Connections))
	seen := make(map[string]bool, len(l1.Connections))
	for _, id := range l1.Connections {
		if seen[id] || id == l1.ID {
			continue
		}
		seen[id] = true
		out = append(out, model.Connection{Person: id, ConnectionType: types[id], Key: id})
	}
	return out
}

// connectionKey folds an id ("Bernoulli_Johann") and its spaced, accented or
// differently cased spellings to the same lookup key.
func connectionKey(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(text.Normalize(s)), " ")
}

// Merge builds the full record: l1 fields as parsed, facets from attrs and
// the typed connections.
func Merge(l1 model.L1Record, attrs model.ExtractedAttributes, conns []model.Connection) model.Record {
	return model.Record{
		ID:                     l1.ID,
		Name:                   l1.Name,
		Summary:                l1.Summary,
		Born:                   l1.Born,
		Died:                   l1.Died,
		Picture:                l1.Picture,
		Connections:            nonNil(conns),
		LivedIn:                nonNil(attrs.LivedIn),
		WorkedIn:               nonNil(attrs.WorkedIn),
		Religions:              nonNil(attrs.Religions),
		Profession:             nonNil(attrs.Profession),
		InstitutionAffiliation: nonNil(attrs.InstitutionAffiliation),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// encodeRecord renders a record document the way the store keeps it.
func encodeRecord(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
