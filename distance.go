package itemex

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormalizeKernel returns a kernel with unit diagonal:
//
//	K'[i,j] = K[i,j] / sqrt(K[i,i] * K[j,j])
//
// Zero diagonal entries are treated as 1 so the result stays finite.
func NormalizeKernel(K mat.Symmetric) *mat.SymDense {
	n := K.SymmetricDim()
	d := make([]float64, n)
	for i := range d {
		d[i] = K.At(i, i)
		if d[i] == 0 {
			d[i] = 1
		}
	}
	out := newSym(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, K.At(i, j)/math.Sqrt(d[i]*d[j]))
		}
	}
	return out
}

// KernelToDistance converts a kernel into the distance it induces in
// feature space: |u-v| = sqrt(u.u + v.v - 2 u.v). Small negative values
// caused by rounding are clamped to zero.
func KernelToDistance(K mat.Symmetric) *mat.SymDense {
	n := K.SymmetricDim()
	out := newSym(n)
	for i := 0; i < n; i++ {
		kii := K.At(i, i)
		for j := i + 1; j < n; j++ {
			sq := kii + K.At(j, j) - 2*K.At(i, j)
			if !(sq > 0) {
				sq = 0
			}
			out.SetSym(i, j, math.Sqrt(sq))
		}
	}
	return out
}

// TreeSizeDistance compares subtree sizes: |Ni - Nj| / (Ni + Nj), in [0, 1).
func TreeSizeDistance(t Tree) *mat.SymDense {
	n := t.Len()
	sizes := make([]float64, n)
	for i := range sizes {
		sizes[i] = float64(SpanSize(t, i))
	}
	out := newSym(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum := sizes[i] + sizes[j]
			if sum == 0 {
				continue
			}
			out.SetSym(i, j, math.Abs(sizes[i]-sizes[j])/sum)
		}
	}
	return out
}

// Boost stretches a distance in [0, 1] so that only large values matter:
// 1 - (1-d)^k.
func Boost(d float64, k int) float64 {
	return 1 - math.Pow(1-d, float64(k))
}

// CombinedDistance builds the distance used for clustering:
//
//	D = kernelWeight * KernelToDistance(NormalizeKernel(K)) + sizeWeight * Boost(TreeSizeDistance, 2)
func CombinedDistance(t Tree, K mat.Symmetric, kernelWeight, sizeWeight float64) *mat.SymDense {
	kd := KernelToDistance(NormalizeKernel(K))
	sd := TreeSizeDistance(t)
	n := kd.SymmetricDim()
	out := newSym(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out.SetSym(i, j, kernelWeight*kd.At(i, j)+sizeWeight*Boost(sd.At(i, j), 2))
		}
	}
	return out
}

// flatten copies the rows of D restricted to members into a row-major
// slice of length m*m.
func flatten(D mat.Symmetric, members []int) []float64 {
	m := len(members)
	out := make([]float64, m*m)
	for a, i := range members {
		for b := a + 1; b < m; b++ {
			d := D.At(i, members[b])
			out[a*m+b] = d
			out[b*m+a] = d
		}
	}
	return out
}

// newSym allocates an n x n symmetric matrix. gonum rejects zero-sized
// matrices, so n == 0 yields an empty SymDense instead.
func newSym(n int) *mat.SymDense {
	if n == 0 {
		return &mat.SymDense{}
	}
	return mat.NewSymDense(n, nil)
}
