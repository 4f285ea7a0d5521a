package itemex

import "gonum.org/v1/gonum/mat"

// DBSCAN runs density-based clustering over a precomputed distance matrix.
//
// The neighborhood of i is every j (i included) with D[i,j] <= eps. A node
// is a core point when its neighborhood holds at least minSamples nodes.
// Clusters grow from core points in index order through chains of core
// points; a border point joins the first cluster that reaches it. Nodes
// reached by no cluster are labeled -1. Cluster ids start at 0 and follow
// the index of each cluster's first core point.
//
// Neighborhood queries are split across numWorkers goroutines.
func DBSCAN(D mat.Symmetric, eps float64, minSamples, numWorkers int) []int {
	n := D.SymmetricDim()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	if n == 0 {
		return labels
	}

	neighbors := make([][]int, n)
	parallelRanges(n, numWorkers, func(start, end int) {
		for i := start; i < end; i++ {
			var nb []int
			for j := 0; j < n; j++ {
				if j == i || D.At(i, j) <= eps {
					nb = append(nb, j)
				}
			}
			neighbors[i] = nb
		}
	})

	core := make([]bool, n)
	for i, nb := range neighbors {
		core[i] = len(nb) >= minSamples
	}

	next := 0
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !core[i] || labels[i] != -1 {
			continue
		}
		id := next
		next++
		labels[i] = id
		queue = append(queue[:0], i)
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, q := range neighbors[p] {
				if labels[q] != -1 {
					continue
				}
				labels[q] = id
				if core[q] {
					queue = append(queue, q)
				}
			}
		}
	}

	return labels
}
