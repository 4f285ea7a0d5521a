package itemex

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// treeBuilder assembles a PageTree in preorder. Every node has a kind used
// by kindKernel; kinds starting with '#' are not tags.
type treeBuilder struct {
	nodes []Node
	kinds []string
}

func (b *treeBuilder) add(parent int, kind string) int {
	i := len(b.nodes)
	b.nodes = append(b.nodes, Node{
		Parent: parent,
		Tag:    kind[0] != '#',
		Start:  10 * i,
		End:    10*i + 5,
	})
	b.kinds = append(b.kinds, kind)
	return i
}

func (b *treeBuilder) build(t testing.TB) *PageTree {
	t.Helper()
	tree, err := NewPageTree(b.nodes)
	if err != nil {
		t.Fatalf("NewPageTree: %v", err)
	}
	return tree
}

// kindKernel is 1 between nodes of the same kind and 0 otherwise.
func kindKernel(kinds []string) *mat.SymDense {
	n := len(kinds)
	if n == 0 {
		return &mat.SymDense{}
	}
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if kinds[i] == kinds[j] {
				K.SetSym(i, j, 1)
			}
		}
	}
	return K
}

// flatRecords builds a div whose children are n runs of h3, p, span.
func flatRecords(t testing.TB, n int) (*PageTree, *mat.SymDense) {
	t.Helper()
	b := &treeBuilder{}
	root := b.add(-1, "#root")
	list := b.add(root, "div")
	for k := 0; k < n; k++ {
		b.add(list, "h3")
		b.add(list, "p")
		b.add(list, "span")
	}
	return b.build(t), kindKernel(b.kinds)
}

// listEntries builds a ul with n li entries of three child fields each.
func listEntries(t testing.TB, n int) (*PageTree, *mat.SymDense) {
	t.Helper()
	b := &treeBuilder{}
	root := b.add(-1, "#root")
	ul := b.add(root, "ul")
	for k := 0; k < n; k++ {
		li := b.add(ul, "li")
		b.add(li, "a")
		b.add(li, "span")
		b.add(li, "em")
	}
	return b.build(t), kindKernel(b.kinds)
}

// nestedCards builds a div with n cards of three fields; card number
// nestAt also contains a full nested card. It returns the indices of that
// outer card and of the nested one.
func nestedCards(t testing.TB, n, nestAt int) (tree *PageTree, K *mat.SymDense, outer, inner int) {
	t.Helper()
	b := &treeBuilder{}
	root := b.add(-1, "#root")
	div := b.add(root, "div")
	addCard := func(parent int) int {
		card := b.add(parent, "card")
		b.add(card, "a")
		b.add(card, "span")
		b.add(card, "em")
		return card
	}
	for k := 0; k < n; k++ {
		card := addCard(div)
		if k == nestAt {
			outer = card
			inner = addCard(card)
		}
	}
	return b.build(t), kindKernel(b.kinds), outer, inner
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
