package htmltree

import "gonum.org/v1/gonum/mat"

// Kernel computes a structural similarity between every pair of subtrees of
// t. Two nodes with different tags score 0. Otherwise they score 1 plus
// decay times the similarity of their children paired by position, looking
// at most maxDepth levels down. Text nodes all share the empty tag.
func Kernel(t *Tree, maxDepth int, decay float64) *mat.SymDense {
	n := t.Len()
	if n == 0 {
		return &mat.SymDense{}
	}
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			K.SetSym(i, j, t.similarity(i, j, maxDepth, decay))
		}
	}
	return K
}

func (t *Tree) similarity(i, j, depth int, decay float64) float64 {
	if t.tags[i] != t.tags[j] {
		return 0
	}
	s := 1.0
	if depth <= 0 {
		return s
	}
	ci, cj := t.Children(i), t.Children(j)
	for k := 0; k < len(ci) && k < len(cj); k++ {
		s += decay * t.similarity(ci[k], cj[k], depth-1, decay)
	}
	return s
}
