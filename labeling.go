package itemex

// numLabels returns max(labels)+1, or 0 when every node is noise.
func numLabels(labels []int) int {
	top := -1
	for _, l := range labels {
		top = max(top, l)
	}
	return top + 1
}

// LabelsToClusters groups node indices by label. clusters[l] lists the nodes
// labeled l in ascending order; noise is dropped.
func LabelsToClusters(labels []int) [][]int {
	clusters := make([][]int, numLabels(labels))
	for i, l := range labels {
		if l >= 0 {
			clusters[l] = append(clusters[l], i)
		}
	}
	return clusters
}

// ClustersToLabels is the inverse of LabelsToClusters: node j of clusters[l]
// receives label l; unlisted nodes get -1.
func ClustersToLabels(clusters [][]int, n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	for l, c := range clusters {
		for _, node := range c {
			labels[node] = l
		}
	}
	return labels
}
