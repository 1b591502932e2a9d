package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/filter"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

func person(id string, born int, conns ...model.Connection) model.Record {
	return model.Record{
		ID:          id,
		Name:        id,
		Born:        model.DateInfo{Year: model.Year(born)},
		Connections: conns,
	}
}

func conn(target, kind string) model.Connection {
	return model.Connection{Person: target, ConnectionType: kind, Key: target}
}

func TestLinkColor(t *testing.T) {
	assert.Equal(t, "#F97316", LinkColor("teacher of"))
	assert.Equal(t, "#F97316", LinkColor("Teacher Of"))
	assert.Equal(t, "#22C55E", LinkColor(" STUDENT OF "))
	assert.Equal(t, "#EAB308", LinkColor("advisor to"))
	assert.Equal(t, DefaultLinkColor, LinkColor("rival of"))
	assert.Equal(t, DefaultLinkColor, LinkColor(""))
}

func TestBuild(t *testing.T) {
	records := []model.Record{
		person("A", 1700, conn("B", "teacher of"), conn("Z", "friend of")),
		person("B", 1730, conn("A", "student of")),
	}
	records[0].Picture = "a.jpg"

	data := Build(records)

	require.Len(t, data.Nodes, 2)
	assert.Equal(t, "A", data.Nodes[0].ID)
	assert.Equal(t, 2.0, data.Nodes[0].Val)
	assert.Equal(t, 1.5, data.Nodes[1].Val)
	assert.Equal(t, DefaultNodeColor, data.Nodes[0].Color)
	assert.Equal(t, "a.jpg", data.Nodes[0].Img)
	assert.Equal(t, "A", data.Nodes[0].Data.ID)

	require.Len(t, data.Links, 2)
	assert.Equal(t, Link{Source: "A", Target: "B", Type: "teacher of", Color: "#F97316"}, data.Links[0])
	assert.Equal(t, "B|A", data.Links[1].ID())
	assert.Len(t, records[0].Connections, 2, "records are not modified")
}

func TestBuild_FilteredTargetDropsLink(t *testing.T) {
	records := []model.Record{
		person("A", 1700, conn("B", "teacher of")),
		person("B", 1730, conn("C", "teacher of")),
		person("C", 1790),
	}

	full := Build(records)
	assert.Len(t, full.Links, 2)

	visible := filter.Apply(records, model.DefaultFilters(model.YearRange{Min: 1690, Max: 1740}))
	data := Build(visible)

	require.Len(t, data.Nodes, 2)
	require.Len(t, data.Links, 1)
	assert.Equal(t, "A|B", data.Links[0].ID())
	assert.Len(t, visible[1].Connections, 1)
}

func TestBuild_NoDanglingLinks(t *testing.T) {
	records := []model.Record{
		person("A", 1700, conn("B", "teacher of"), conn("C", "colleague of"), conn("D", "")),
		person("B", 1730, conn("C", "teacher of"), conn("A", "student of")),
		person("C", 1790, conn("A", "influenced by"), conn("C", "self")),
		person("D", 1810, conn("E", "friend of")),
	}

	ranges := []model.YearRange{
		{Min: 1600, Max: 1900},
		{Min: 1690, Max: 1740},
		{Min: 1780, Max: 1850},
		{Min: 1800, Max: 1800},
	}
	for _, yr := range ranges {
		data := Build(filter.Apply(records, model.DefaultFilters(yr)))
		ids := map[string]bool{}
		for _, n := range data.Nodes {
			ids[n.ID] = true
		}
		for _, l := range data.Links {
			assert.True(t, ids[l.Source], "source %s in %v", l.Source, yr)
			assert.True(t, ids[l.Target], "target %s in %v", l.Target, yr)
		}
	}
}

func TestBuild_DuplicateIDs(t *testing.T) {
	data := Build([]model.Record{
		person("A", 1700, conn("B", "teacher of")),
		person("A", 1701),
		person("B", 1730),
	})
	assert.Len(t, data.Nodes, 2)
	assert.Len(t, data.Links, 1)
	assert.Equal(t, 1700, *data.Nodes[0].Data.Born.Year)
}

func TestBuild_Empty(t *testing.T) {
	data := Build(nil)
	assert.NotNil(t, data.Nodes)
	assert.NotNil(t, data.Links)
}
