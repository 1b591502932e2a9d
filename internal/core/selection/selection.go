// Package selection implements checkbox style multi-select over the location
// tree: checked, indeterminate and unchecked states, and the expansion of a
// set of explicitly selected paths to every path it implies.
package selection

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/location"
)

type State int

const (
	Unchecked State = iota
	Indeterminate
	Checked
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "checked":
		*s = Checked
	case "indeterminate":
		*s = Indeterminate
	case "unchecked":
		*s = Unchecked
	default:
		return fmt.Errorf("unknown selection state %q", v)
	}
	return nil
}

// Set is a set of location full paths.
type Set map[string]struct{}

func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(path string) bool {
	_, ok := s[path]
	return ok
}

func (s Set) Clone() Set {
	c := make(Set, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Slice returns the paths in sorted order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// StateOf computes the checkbox state of n. A node is checked when its own
// path is selected or, having children, when all its descendants are; it is
// indeterminate when only some descendants are. Leaves are never indeterminate.
func StateOf(n *location.Node, selected Set) State {
	if selected.Has(n.FullPath) {
		return Checked
	}
	if n.IsLeaf() {
		return Unchecked
	}

	descendants := location.Descendants(n)
	count := 0
	for _, d := range descendants {
		if selected.Has(d.FullPath) {
			count++
		}
	}
	switch {
	case count == len(descendants):
		return Checked
	case count > 0:
		return Indeterminate
	default:
		return Unchecked
	}
}

// Expand returns selected plus the path of every inner node whose complete
// descendant set is selected, computed bottom-up over tree.
func Expand(tree *location.Tree, selected Set) Set {
	out := selected.Clone()

	// complete reports whether n and every node below it end up selected.
	var complete func(n *location.Node) bool
	complete = func(n *location.Node) bool {
		if n.IsLeaf() {
			return out.Has(n.FullPath)
		}
		all := true
		for _, c := range n.Children {
			if !complete(c) {
				all = false
			}
		}
		if all {
			out[n.FullPath] = struct{}{}
		}
		return all
	}

	for _, r := range tree.Roots {
		complete(r)
	}
	return out
}

// Toggle checks or unchecks n together with all of its descendants and
// returns the new selection. selected is left untouched.
func Toggle(n *location.Node, selected Set, checked bool) Set {
	out := selected.Clone()
	for _, p := range location.Paths(n) {
		if checked {
			out[p] = struct{}{}
		} else {
			delete(out, p)
		}
	}
	return out
}

// Click applies a user click on n: a checked node is unchecked, an
// unchecked or indeterminate one gets itself and all descendants selected.
func Click(tree *location.Tree, n *location.Node, selected Set) Set {
	return Toggle(n, selected, StateOf(n, Expand(tree, selected)) != Checked)
}

// SelectAll returns every path of the tree.
func SelectAll(tree *location.Tree) Set {
	return NewSet(tree.Flatten()...)
}

// StatefulNode mirrors a location node together with its computed state.
type StatefulNode struct {
	Name     string         `json:"name"`
	FullPath string         `json:"full_path"`
	Depth    int            `json:"depth"`
	State    State          `json:"state"`
	Children []StatefulNode `json:"children"`
}

// Annotate copies the tree and attaches the state of every node under the
// expanded form of selected.
func Annotate(tree *location.Tree, selected Set) []StatefulNode {
	effective := Expand(tree, selected)

	var convert func(nodes []*location.Node) []StatefulNode
	convert = func(nodes []*location.Node) []StatefulNode {
		out := make([]StatefulNode, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, StatefulNode{
				Name:     n.Name,
				FullPath: n.FullPath,
				Depth:    n.Depth,
				State:    StateOf(n, effective),
				Children: convert(n.Children),
			})
		}
		return out
	}
	return convert(tree.Roots)
}
