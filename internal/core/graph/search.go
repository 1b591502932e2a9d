package graph

import (
	"strings"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/text"
)

const DefaultSearchLimit = 10

// Search returns up to limit nodes whose name contains query, ignoring case
// and diacritics, in graph order. A blank query matches nothing.
func Search(d Data, query string, limit int) []Node {
	if strings.TrimSpace(query) == "" {
		return []Node{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := []Node{}
	for _, n := range d.Nodes {
		if text.Contains(n.Name, query) {
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
