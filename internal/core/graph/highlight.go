package graph

import "sort"

// Focus is the item a highlight is computed for: a node when Node is set,
// otherwise the link from Source to Target. The zero Focus is empty.
type Focus struct {
	Node   string `json:"node,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

func NodeFocus(id string) Focus { return Focus{Node: id} }

func LinkFocus(source, target string) Focus { return Focus{Source: source, Target: target} }

func (f Focus) IsZero() bool {
	return f.Node == "" && f.Source == "" && f.Target == ""
}

// Highlight holds the ids of highlighted nodes and links, sorted.
type Highlight struct {
	Nodes []string `json:"nodes"`
	Links []string `json:"links"`
}

func (h Highlight) HasNode(id string) bool {
	i := sort.SearchStrings(h.Nodes, id)
	return i < len(h.Nodes) && h.Nodes[i] == id
}

func (h Highlight) HasLink(id string) bool {
	i := sort.SearchStrings(h.Links, id)
	return i < len(h.Links) && h.Links[i] == id
}

type highlightSet struct {
	nodes map[string]struct{}
	links map[string]struct{}
}

func newHighlightSet() *highlightSet {
	return &highlightSet{nodes: map[string]struct{}{}, links: map[string]struct{}{}}
}

func (s *highlightSet) addLink(l Link) {
	s.links[l.ID()] = struct{}{}
	s.nodes[l.Source] = struct{}{}
	s.nodes[l.Target] = struct{}{}
}

func (s *highlightSet) result() Highlight {
	h := Highlight{Nodes: make([]string, 0, len(s.nodes)), Links: make([]string, 0, len(s.links))}
	for id := range s.nodes {
		h.Nodes = append(h.Nodes, id)
	}
	for id := range s.links {
		h.Links = append(h.Links, id)
	}
	sort.Strings(h.Nodes)
	sort.Strings(h.Links)
	return h
}

// HighlightOf computes the highlight for f. A node highlights itself, every
// incident link and the node at the other end of each. A link highlights
// itself and its two endpoints. Focus on an item absent from d is empty.
func HighlightOf(d Data, f Focus) Highlight {
	s := newHighlightSet()
	collect(s, d, f, true)
	return s.result()
}

// Resolve combines the transient hover with the persistent selection. An
// active hover replaces the selection's neighborhood; only the selected item
// itself stays highlighted underneath it.
func Resolve(d Data, hover, selected Focus) Highlight {
	if hover.IsZero() {
		return HighlightOf(d, selected)
	}
	s := newHighlightSet()
	collect(s, d, hover, true)
	collect(s, d, selected, false)
	return s.result()
}

func collect(s *highlightSet, d Data, f Focus, neighborhood bool) {
	switch {
	case f.IsZero():
	case f.Node != "":
		if _, ok := d.Node(f.Node); !ok {
			return
		}
		s.nodes[f.Node] = struct{}{}
		if !neighborhood {
			return
		}
		for _, l := range d.Links {
			if l.Source == f.Node || l.Target == f.Node {
				s.addLink(l)
			}
		}
	default:
		for _, l := range d.Links {
			if l.Source == f.Source && l.Target == f.Target {
				s.addLink(l)
			}
		}
	}
}
