// Package graph turns a filtered record set into the node/link model the
// renderer draws, and answers highlight and search queries against it.
package graph

import (
	"strings"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
)

const (
	DefaultNodeColor = "#3B82F6"
	DefaultLinkColor = "#94A3B8"
)

var linkColors = map[string]string{
	"influenced by":      "#9333EA",
	"collaborated with":  "#14B8A6",
	"student of":         "#22C55E",
	"studied":            "#22C55E",
	"teacher of":         "#F97316",
	"mentor":             "#EAB308",
	"mentor of":          "#EAB308",
	"advisor to":         "#EAB308",
	"supervisor of":      "#EAB308",
	"colleague of":       "#3B82F6",
	"colleague":          "#3B82F6",
	"contemporary of":    "#3B82F6",
	"friend of":          "#EC4899",
	"correspondent with": "#8B5CF6",
}

// LinkColor maps a relationship type to its color, ignoring case.
func LinkColor(connectionType string) string {
	if c, ok := linkColors[strings.ToLower(strings.TrimSpace(connectionType))]; ok {
		return c
	}
	return DefaultLinkColor
}

type Node struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Val   float64       `json:"val"`
	Color string        `json:"color"`
	Img   string        `json:"img,omitempty"`
	Data  *model.Record `json:"data,omitempty"`
}

type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Color  string `json:"color"`
}

// ID identifies the link by its endpoints.
func (l Link) ID() string {
	return LinkID(l.Source, l.Target)
}

// LinkSeparator joins the endpoints of a link id. Record ids are URL path
// segments and may contain hyphens but never a pipe.
const LinkSeparator = "|"

func LinkID(source, target string) string {
	return source + LinkSeparator + target
}

type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Build emits one node per record and one link per connection whose target
// is itself among records. A repeated record id keeps its first occurrence.
func Build(records []model.Record) Data {
	data := Data{
		Nodes: make([]Node, 0, len(records)),
		Links: []Link{},
	}

	present := make(map[string]struct{}, len(records))
	for i := range records {
		r := &records[i]
		if _, dup := present[r.ID]; dup {
			continue
		}
		present[r.ID] = struct{}{}
		data.Nodes = append(data.Nodes, Node{
			ID:    r.ID,
			Name:  r.Name,
			Val:   1 + 0.5*float64(len(r.Connections)),
			Color: DefaultNodeColor,
			Img:   r.Picture,
			Data:  r,
		})
	}

	for _, n := range data.Nodes {
		for _, c := range n.Data.Connections {
			if _, ok := present[c.Person]; !ok {
				continue
			}
			data.Links = append(data.Links, Link{
				Source: n.ID,
				Target: c.Person,
				Type:   c.ConnectionType,
				Color:  LinkColor(c.ConnectionType),
			})
		}
	}
	return data
}

// Node returns the node with the given id.
func (d Data) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
