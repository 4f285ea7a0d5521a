package itemex

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// MustSeparate returns the pairs (a, b) of positions into members such that
// members[b] lies strictly inside the span of members[a]. members must be
// sorted ascending.
func MustSeparate(t Tree, members []int) [][2]int {
	var pairs [][2]int
	for a, src := range members {
		end := SpanEnd(t, src)
		for b := a + 1; b < len(members) && members[b] < end; b++ {
			pairs = append(pairs, [2]int{a, b})
		}
	}
	return pairs
}

// CutDescendants splits a cluster so that no node ends up in the same part
// as one of its ancestors.
//
// The forbidden pairs get an infinite distance; the bottleneck distance E is
// computed over the resulting complete graph and the cluster is cut into
// the connected components of E < eps', where eps' is the smallest E among
// forbidden pairs. A forbidden pair can never be joined below eps', so it
// always lands in different parts.
//
// Clusters with no forbidden pair, clusters above maxSize members (when
// maxSize > 0) and clusters for which eps' is not positive are returned as
// a single part.
func CutDescendants(t Tree, D mat.Symmetric, members []int, maxSize int, log *zap.Logger) [][]int {
	whole := [][]int{members}

	pairs := MustSeparate(t, members)
	if len(pairs) == 0 {
		return whole
	}
	m := len(members)
	if maxSize > 0 && m > maxSize {
		log.Warn("cluster too large for descendant separation, keeping it whole",
			zap.Int("size", m), zap.Int("max_size", maxSize))
		return whole
	}

	local := flatten(D, members)
	for _, p := range pairs {
		local[p[0]*m+p[1]] = math.Inf(1)
		local[p[1]*m+p[0]] = math.Inf(1)
	}

	E := MinimaxDistances(local, m)
	eps := math.Inf(1)
	for _, p := range pairs {
		eps = math.Min(eps, E[p[0]*m+p[1]])
	}
	if math.IsNaN(eps) || eps <= 0 {
		log.Warn("no usable separation threshold, keeping cluster whole",
			zap.Int("size", m), zap.Float64("eps", eps))
		return whole
	}

	uf := NewUnionFind(m)
	for a := 0; a < m; a++ {
		for b := a + 1; b < m; b++ {
			if E[a*m+b] < eps {
				uf.Union(a, b)
			}
		}
	}

	groups := uf.Groups()
	parts := make([][]int, len(groups))
	for g, group := range groups {
		part := make([]int, len(group))
		for k, pos := range group {
			part[k] = members[pos]
		}
		parts[g] = part
	}
	return parts
}
