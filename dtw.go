package itemex

import "math"

// dtwPath aligns two sequences given their pairwise cost matrix (flat,
// n×m row-major) with dynamic time warping. It returns the cells of the
// optimal monotonic path from (0,0) to (n-1,m-1) as parallel row and column
// slices. On equal accumulated cost the backtrack prefers the diagonal
// step, then the step that advances the row.
func dtwPath(cost []float64, n, m int) (rows, cols []int) {
	if n == 0 || m == 0 {
		return nil, nil
	}

	acc := make([]float64, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			c := cost[i*m+j]
			switch {
			case i == 0 && j == 0:
				acc[0] = c
			case i == 0:
				acc[j] = c + acc[j-1]
			case j == 0:
				acc[i*m] = c + acc[(i-1)*m]
			default:
				acc[i*m+j] = c + math.Min(acc[(i-1)*m+j-1], math.Min(acc[(i-1)*m+j], acc[i*m+j-1]))
			}
		}
	}

	i, j := n-1, m-1
	for {
		rows = append(rows, i)
		cols = append(cols, j)
		if i == 0 && j == 0 {
			break
		}
		switch {
		case i == 0:
			j--
		case j == 0:
			i--
		default:
			diag := acc[(i-1)*m+j-1]
			up := acc[(i-1)*m+j]
			left := acc[i*m+j-1]
			switch {
			case diag <= up && diag <= left:
				i, j = i-1, j-1
			case up <= left:
				i--
			default:
				j--
			}
		}
	}

	for a, b := 0, len(rows)-1; a < b; a, b = a+1, b-1 {
		rows[a], rows[b] = rows[b], rows[a]
		cols[a], cols[b] = cols[b], cols[a]
	}
	return rows, cols
}

// dtwMatch turns a warping path into a one-to-one match: every row keeps the
// path cell with the lowest cost, and when several rows pick the same
// column only the cheapest (earliest on ties) keeps it. match[i] is the
// matched column of row i, or -1.
func dtwMatch(rows, cols []int, cost []float64, n, m int) []int {
	match := make([]int, n)
	for i := range match {
		match[i] = -1
	}
	for k, i := range rows {
		j := cols[k]
		if match[i] == -1 || cost[i*m+j] < cost[i*m+match[i]] {
			match[i] = j
		}
	}

	owner := make([]int, m)
	for j := range owner {
		owner[j] = -1
	}
	for i, j := range match {
		if j == -1 {
			continue
		}
		if o := owner[j]; o == -1 || cost[i*m+j] < cost[o*m+j] {
			if o != -1 {
				match[o] = -1
			}
			owner[j] = i
		} else {
			match[i] = -1
		}
	}
	return match
}
