package itemex

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// newMatchGraph builds an undirected graph over node indices from a list of
// matched pairs. Self pairs are ignored.
func newMatchGraph(pairs [][2]int) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, p := range pairs {
		if p[0] == p[1] {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(p[0]), simple.Node(p[1])))
	}
	return g
}

// FindCliques assigns graph nodes to columns.
//
// Maximal cliques with at least minSize members are taken largest first;
// nodes already taken by a larger clique are removed from the smaller ones,
// which are dropped if they fall below minSize. The surviving cliques are
// numbered in order of their smallest node, and the returned map sends each
// node to its clique number. Nodes in no clique are absent from the map.
func FindCliques(g graph.Undirected, minSize float64) map[int]int {
	columns := make(map[int]int)
	if g.Nodes().Len() == 0 {
		return columns
	}

	var cliques [][]int
	for _, k := range topo.BronKerbosch(g) {
		if float64(len(k)) < minSize {
			continue
		}
		ids := make([]int, len(k))
		for i, node := range k {
			ids[i] = int(node.ID())
		}
		sort.Ints(ids)
		cliques = append(cliques, ids)
	}
	sort.Slice(cliques, func(a, b int) bool {
		if len(cliques[a]) != len(cliques[b]) {
			return len(cliques[a]) > len(cliques[b])
		}
		return slices.Compare(cliques[a], cliques[b]) < 0
	})

	taken := make(map[int]bool)
	var kept [][]int
	for _, k := range cliques {
		var rest []int
		for _, id := range k {
			if !taken[id] {
				rest = append(rest, id)
			}
		}
		for _, id := range rest {
			taken[id] = true
		}
		if len(rest) > 0 && float64(len(rest)) >= minSize {
			kept = append(kept, rest)
		}
	}
	sort.Slice(kept, func(a, b int) bool { return kept[a][0] < kept[b][0] })

	for c, k := range kept {
		for _, id := range k {
			columns[id] = c
		}
	}
	return columns
}
