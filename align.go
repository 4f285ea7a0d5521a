package itemex

import "go.uber.org/zap"

// labeledPath is the ancestor chain of one leaf, leaf first, with every
// element replaced by its cluster label.
type labeledPath struct {
	node   int
	labels []int
}

// itemPaths lists the labeled paths of every leaf under the roots of item.
func itemPaths(t Tree, item, labels []int) []labeledPath {
	var out []labeledPath
	for _, root := range item {
		for _, path := range PathsAt(t, root) {
			lp := labeledPath{node: path[0], labels: make([]int, len(path))}
			for k, node := range path {
				lp.labels[k] = labels[node]
			}
			out = append(out, lp)
		}
	}
	return out
}

// PathDistance is the number of elements of the longer path that are not
// part of the common prefix of p1 and p2. It is 0 for identical paths and
// never exceeds max(len(p1), len(p2)).
func PathDistance(p1, p2 []int) int {
	d := max(len(p1), len(p2))
	for k := 0; k < len(p1) && k < len(p2); k++ {
		if p1[k] != p2[k] {
			break
		}
		d--
	}
	return d
}

// pairwisePathDistance returns the flat len(a)×len(b) matrix of
// PathDistance between the paths of a and b.
func pairwisePathDistance(a, b []labeledPath) []float64 {
	m := len(b)
	out := make([]float64, len(a)*m)
	for i, pa := range a {
		for j, pb := range b {
			out[i*m+j] = float64(PathDistance(pa.labels, pb.labels))
		}
	}
	return out
}

// matchItems aligns the leaves of two items with DTW over their path
// distances and returns the matched leaf pairs.
func matchItems(a, b []labeledPath) [][2]int {
	n, m := len(a), len(b)
	cost := pairwisePathDistance(a, b)
	rows, cols := dtwPath(cost, n, m)
	var pairs [][2]int
	for i, j := range dtwMatch(rows, cols, cost, n, m) {
		if j != -1 {
			pairs = append(pairs, [2]int{a[i].node, b[j].node})
		}
	}
	return pairs
}

// AlignItems builds the table cells: row r holds, for every column, the
// node of item r mapped to it by columns. Nodes are visited in increasing
// order inside each root's span, so a later node overwrites an earlier one
// in the same column. Cells no node maps to stay -1.
func AlignItems(t Tree, items [][]int, columns map[int]int) [][]int {
	nCols := 0
	for _, c := range columns {
		nCols = max(nCols, c+1)
	}
	cells := make([][]int, len(items))
	for r, item := range items {
		row := make([]int, nCols)
		for c := range row {
			row[c] = -1
		}
		for _, root := range item {
			end := SpanEnd(t, root)
			for node := root; node < end; node++ {
				if c, ok := columns[node]; ok {
					row[c] = node
				}
			}
		}
		cells[r] = row
	}
	return cells
}

// ExtractItemTable aligns the fields of a group of items into columns.
//
// Every leaf under the item roots is described by the labels along its path
// to the root. Each pair of items is aligned with DTW over path distances,
// the matched node pairs form an undirected graph, and the maximal cliques
// spanning at least half of the items become the columns. Item pairs are
// aligned on cfg.Workers goroutines.
//
// Groups with more than cfg.MaxAlignmentNodes leaves are not aligned; their
// table has the items and no columns.
func ExtractItemTable(t Tree, items [][]int, labels []int, cfg Config) ItemTable {
	log := loggerOrNop(cfg.Logger)

	paths := make([][]labeledPath, len(items))
	total := 0
	for r, item := range items {
		paths[r] = itemPaths(t, item, labels)
		total += len(paths[r])
	}
	if cfg.MaxAlignmentNodes > 0 && total > cfg.MaxAlignmentNodes {
		log.Warn("item group too large to align, skipping columns",
			zap.Int("items", len(items)),
			zap.Int("leaves", total),
			zap.Int("max_nodes", cfg.MaxAlignmentNodes))
		return ItemTable{Items: items, Cells: AlignItems(t, items, nil)}
	}

	type itemPair struct{ a, b int }
	var pairs []itemPair
	for a := range items {
		for b := a + 1; b < len(items); b++ {
			pairs = append(pairs, itemPair{a, b})
		}
	}
	matched := make([][][2]int, len(pairs))
	parallelFor(len(pairs), cfg.Workers, func(k int) {
		p := pairs[k]
		matched[k] = matchItems(paths[p.a], paths[p.b])
	})

	var edges [][2]int
	for _, m := range matched {
		edges = append(edges, m...)
	}
	columns := FindCliques(newMatchGraph(edges), 0.5*float64(len(items)))
	cells := AlignItems(t, items, columns)

	if len(cells) > 0 {
		log.Debug("aligned item group",
			zap.Int("items", len(items)),
			zap.Int("match_edges", len(edges)),
			zap.Int("columns", len(cells[0])))
	}

	return ItemTable{Items: items, Cells: cells}
}
