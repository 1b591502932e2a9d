package graph

import "sort"

type Stats struct {
	Nodes          int     `json:"nodes"`
	Links          int     `json:"links"`
	Clusters       int     `json:"clusters"`
	Communities    int     `json:"communities"`
	LargestCluster int     `json:"largest_cluster"`
	Isolated       int     `json:"isolated"`
	Density        float64 `json:"density"`
}

// Summarize reports the size and connectivity of d. Density is the share of
// possible directed links present.
func Summarize(d Data) Stats {
	st := Stats{Nodes: len(d.Nodes), Links: len(d.Links)}

	clusters := Clusters(d)
	st.Clusters = len(clusters)
	clustered := 0
	for _, c := range clusters {
		clustered += len(c)
		st.LargestCluster = max(st.LargestCluster, len(c))
	}
	st.Isolated = st.Nodes - clustered
	st.Communities = len(Communities(d, DefaultPropagationRounds))

	if st.Nodes > 1 {
		st.Density = float64(st.Links) / float64(st.Nodes*(st.Nodes-1))
	}
	return st
}

// Clusters returns the connected components of d with at least two nodes,
// treating links as undirected. Each component lists node ids in the order
// they are reached; components are ordered by their first node in d.
func Clusters(d Data) [][]string {
	adj := adjacency(d)

	visited := make(map[string]bool, len(d.Nodes))
	var clusters [][]string
	for _, n := range d.Nodes {
		if visited[n.ID] {
			continue
		}
		var component []string
		dfs(n.ID, adj, visited, &component)
		if len(component) >= 2 {
			clusters = append(clusters, component)
		}
	}
	return clusters
}

func dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			dfs(v, adj, visited, component)
		}
	}
}

// adjacency lists the neighbors of every node, links taken as undirected and
// neighbors sorted. Links to absent nodes are ignored.
func adjacency(d Data) map[string][]string {
	present := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		present[n.ID] = struct{}{}
	}

	adj := make(map[string][]string)
	for _, l := range d.Links {
		if _, ok := present[l.Source]; !ok {
			continue
		}
		if _, ok := present[l.Target]; !ok {
			continue
		}
		adj[l.Source] = append(adj[l.Source], l.Target)
		adj[l.Target] = append(adj[l.Target], l.Source)
	}
	for id := range adj {
		sort.Strings(adj[id])
	}
	return adj
}
