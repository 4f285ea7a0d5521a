package itemex

import "math"

// PrimMST computes a minimum spanning tree of the complete graph described
// by the dense distance matrix dist (flat, n×n row-major) using Prim's
// algorithm. It returns parent[i] and weight[i], the tree edge that
// attached node i; node 0 is the root with parent -1.
//
// +Inf entries are allowed. When the remaining nodes are only reachable
// through +Inf edges, the first of them is attached to the most recently
// added node with weight +Inf.
func PrimMST(dist []float64, n int) (parent []int, weight []float64) {
	parent = make([]int, n)
	weight = make([]float64, n)
	if n == 0 {
		return parent, weight
	}

	inTree := make([]bool, n)
	best := make([]float64, n)

	inTree[0] = true
	parent[0] = -1
	current := 0
	for j := 1; j < n; j++ {
		best[j] = dist[j]
		parent[j] = 0
	}

	for step := 1; step < n; step++ {
		minDist := math.Inf(1)
		minNode := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && best[j] < minDist {
				minDist = best[j]
				minNode = j
			}
		}

		// Disconnected remainder: attach with an infinite edge.
		if minNode == -1 {
			for j := 0; j < n; j++ {
				if !inTree[j] {
					minNode = j
					break
				}
			}
			parent[minNode] = current
			minDist = math.Inf(1)
		}

		inTree[minNode] = true
		weight[minNode] = minDist
		current = minNode

		for k := 0; k < n; k++ {
			if !inTree[k] {
				if d := dist[minNode*n+k]; d < best[k] {
					best[k] = d
					parent[k] = minNode
				}
			}
		}
	}

	return parent, weight
}

// MinimaxDistances returns the bottleneck distance between every pair of
// nodes: the smallest possible value of the largest edge on a path joining
// them. The result is flat n×n row-major with a zero diagonal.
//
// The bottleneck path between two nodes always runs along a minimum
// spanning tree, so the matrix is filled by walking the tree from every
// source while carrying the largest edge seen so far.
func MinimaxDistances(dist []float64, n int) []float64 {
	out := make([]float64, n*n)
	if n <= 1 {
		return out
	}

	parent, weight := PrimMST(dist, n)

	type edge struct {
		to int
		w  float64
	}
	adj := make([][]edge, n)
	for i := 1; i < n; i++ {
		p := parent[i]
		adj[i] = append(adj[i], edge{to: p, w: weight[i]})
		adj[p] = append(adj[p], edge{to: i, w: weight[i]})
	}

	type frame struct {
		node, from int
		maxW       float64
	}
	stack := make([]frame, 0, n)
	for src := 0; src < n; src++ {
		stack = append(stack[:0], frame{node: src, from: -1})
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out[src*n+f.node] = f.maxW
			for _, e := range adj[f.node] {
				if e.to != f.from {
					stack = append(stack, frame{node: e.to, from: f.node, maxW: math.Max(f.maxW, e.w)})
				}
			}
		}
	}

	return out
}
