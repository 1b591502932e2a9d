// Package location turns free-text place strings ("Paris, France") into a
// navigable tree of progressively broader places and implements the
// approximate place matching used by the location facet.
package location

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/ReallyLiri/MacTutorIndex/internal/core/text"
)

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

var stripBrackets = strings.NewReplacer("(", "", ")", "")

// Node is one place in the hierarchy. After construction a node whose only
// child was merged into it carries a combined name such as "Germany, Berlin"
// and the child's full path.
type Node struct {
	Name     string  `json:"name"`
	FullPath string  `json:"full_path"`
	Children []*Node `json:"children"`
	Depth    int     `json:"depth"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Tree is the ordered list of root places plus lookup indexes. The parent
// relation is kept as a path index, nodes never point upwards.
type Tree struct {
	Roots   []*Node
	parents map[string]string
	index   map[string]*Node
}

// Segments splits a place string on commas, trims each part, removes
// parenthetical annotations and drops empty parts. The result is ordered
// most specific first, like the input.
func Segments(location string) []string {
	raw := strings.Split(location, ",")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		part = parenthetical.ReplaceAllString(part, "")
		part = stripBrackets.Replace(part)
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Build constructs the hierarchy from a list of place strings. Duplicates
// collapse into the same nodes; strings with no usable segment are skipped.
func Build(locations []string) *Tree {
	root := &Node{Children: []*Node{}}

	for _, loc := range locations {
		parts := Segments(loc)
		if len(parts) == 0 {
			continue
		}

		current := root
		for i := len(parts) - 1; i >= 0; i-- {
			name := text.TitleCase(parts[i])
			next := current.child(name)
			if next == nil {
				next = &Node{
					Name:     name,
					FullPath: strings.Join(parts[i:], ", "),
					Children: []*Node{},
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortChildren(root)
	collapse(root)

	t := &Tree{Roots: root.Children}
	t.reindex()
	return t
}

func sortChildren(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Name < n.Children[j].Name
	})
	for _, c := range n.Children {
		sortChildren(c)
	}
}

// collapse merges every single-child chain below n. Children are collapsed
// before their parent is checked, so a chain of any length folds into one node.
func collapse(n *Node) {
	for _, c := range n.Children {
		collapse(c)
		if len(c.Children) == 1 {
			only := c.Children[0]
			c.Name = c.Name + ", " + only.Name
			c.FullPath = only.FullPath
			c.Children = only.Children
		}
	}
}

func (t *Tree) reindex() {
	t.parents = make(map[string]string)
	t.index = make(map[string]*Node)

	var walk func(nodes []*Node, parent string, depth int)
	walk = func(nodes []*Node, parent string, depth int) {
		for _, n := range nodes {
			n.Depth = depth
			t.parents[n.FullPath] = parent
			t.index[n.FullPath] = n
			walk(n.Children, n.FullPath, depth+1)
		}
	}
	walk(t.Roots, "", 1)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.index)
}

// Flatten lists the full path of every node in pre-order.
func (t *Tree) Flatten() []string {
	out := make([]string, 0, len(t.index))
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n.FullPath)
			walk(n.Children)
		}
	}
	walk(t.Roots)
	return out
}

// Find returns the node with the given full path, or nil.
func (t *Tree) Find(path string) *Node {
	return t.index[path]
}

// Parent returns the parent of the node at path, nil for roots and unknown paths.
func (t *Tree) Parent(path string) *Node {
	parent, ok := t.parents[path]
	if !ok || parent == "" {
		return nil
	}
	return t.index[parent]
}

// Ancestors returns the chain of parents of the node at path, root first.
func (t *Tree) Ancestors(path string) []*Node {
	var out []*Node
	for p := t.Parent(path); p != nil; p = t.Parent(p.FullPath) {
		out = append([]*Node{p}, out...)
	}
	return out
}

// Descendants returns every node below n in pre-order, n excluded.
func Descendants(n *Node) []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, c := range nodes {
			out = append(out, c)
			walk(c.Children)
		}
	}
	walk(n.Children)
	return out
}

// Leaves returns the leaf nodes under n. A leaf is its own only leaf.
func Leaves(n *Node) []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, Leaves(c)...)
	}
	return out
}

// Paths returns the full path of n followed by those of all its descendants.
func Paths(n *Node) []string {
	out := []string{n.FullPath}
	for _, d := range Descendants(n) {
		out = append(out, d.FullPath)
	}
	return out
}

// Search returns, in pre-order, the nodes whose name or full path contains
// query after diacritic folding.
func (t *Tree) Search(query string) []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if text.Contains(n.Name, query) || text.Contains(n.FullPath, query) {
				out = append(out, n)
			}
			walk(n.Children)
		}
	}
	walk(t.Roots)
	return out
}

func (t *Tree) MarshalJSON() ([]byte, error) {
	if t.Roots == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Roots)
}
