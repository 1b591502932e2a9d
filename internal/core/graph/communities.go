package graph

import "sort"

const DefaultPropagationRounds = 20

// Communities groups densely linked nodes by label propagation. Every node
// starts with its own id as label and repeatedly takes the label most common
// among its neighbors, a link in each direction counting twice. Ties go to
// the largest label so the result is deterministic. Only communities of two
// or more nodes are returned, each sorted, ordered by their first member.
func Communities(d Data, rounds int) [][]string {
	if rounds <= 0 {
		rounds = DefaultPropagationRounds
	}
	adj := adjacency(d)

	labels := make(map[string]string, len(d.Nodes))
	for _, n := range d.Nodes {
		labels[n.ID] = n.ID
	}

	for i := 0; i < rounds; i++ {
		changed := false
		for _, n := range d.Nodes {
			neighbors := adj[n.ID]
			if len(neighbors) == 0 {
				continue
			}
			counts := make(map[string]int, len(neighbors))
			best, bestCount := "", 0
			for _, v := range neighbors {
				l := labels[v]
				counts[l]++
				if c := counts[l]; c > bestCount || (c == bestCount && l > best) {
					best, bestCount = l, c
				}
			}
			if labels[n.ID] != best {
				labels[n.ID] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	groups := make(map[string][]string)
	for _, n := range d.Nodes {
		groups[labels[n.ID]] = append(groups[labels[n.ID]], n.ID)
	}
	var out [][]string
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sort.Strings(g)
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
