// Package itemex finds repeating records (product listings, search results,
// comment threads) inside a single parsed document and aligns their fields
// into a table, without supervision.
//
// The document is given as a linearized [Tree] together with a structural
// similarity kernel between its subtrees. Extraction runs in stages:
//
//  1. The kernel and the subtree sizes are combined into a distance matrix
//     ([CombinedDistance]).
//  2. Nodes are clustered with DBSCAN and every cluster is cut so that no
//     node shares a cluster with one of its ancestors ([ClusterDistance]).
//  3. Clusters that claim overlapping regions of the tree are ranked with a
//     containment tournament and the loser's labels are cleared
//     ([SeparateClusters]).
//  4. Sibling runs delimited by a repeating label become items, normalized
//     to a common length ([ExtractItems]).
//  5. The fields of the items are aligned into columns with DTW over
//     ancestor paths and clique partitioning of the match graph
//     ([ExtractItemTable]).
//
// Basic usage:
//
//	cfg := itemex.DefaultConfig()
//	result, err := itemex.Extract(tree, kernel, cfg)
//	// result.Tables[g].Items[r] are the root nodes of item r of group g
//	// result.Tables[g].Cells[r][c] is the node in column c (-1 = absent)
//	// result.Fragments mirrors Tables with source byte ranges
//
// Package htmltree provides a Tree and a simple kernel for HTML input:
//
//	tree, err := htmltree.Parse(r)
//	result, err := itemex.Extract(tree, htmltree.Kernel(tree, 2, 0.5), itemex.DefaultConfig())
//
// # Determinism
//
// The cluster ranking is randomized. Its random source is seeded from
// Config.Seed, so equal inputs and seeds give equal results regardless of
// Config.Workers.
package itemex
