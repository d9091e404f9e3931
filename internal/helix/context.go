// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package helix

// graph is the stacking context of the base pairs: an adjacency list in
// which each pair links to at most two others.
type graph struct {
	adj [][]int
}

// context links each pair to its nearest neighbour within the helix-break
// distance and to the nearest pair on the opposite side of its base-pair
// plane. Only mutual links are kept, so every pair has degree at most two
// and the graph is a set of chains and cycles.
func (a *assembler) context() graph {
	n := len(a.pairs)
	nbrs := make([][]int, n)
	for k := 0; k < n; k++ {
		nbrs[k] = a.neighbours(k)
	}

	g := graph{adj: make([][]int, n)}
	for k := 0; k < n; k++ {
		for _, m := range nbrs[k] {
			if contains(nbrs[m], k) {
				g.adj[k] = append(g.adj[k], m)
			}
		}
	}
	return g
}

func (a *assembler) neighbours(k int) []int {
	ok := a.origin(k)
	zk := a.axis(k, false)
	limit := a.cfg.HelixBreak

	first, firstDist := -1, 0.0
	for m := range a.pairs {
		if m == k {
			continue
		}
		d := a.origin(m).Dist(ok)
		if d <= limit && (first < 0 || d < firstDist) {
			first, firstDist = m, d
		}
	}
	if first < 0 {
		return nil
	}

	side := a.origin(first).Sub(ok).Dot(zk)
	second, secondDist := -1, 0.0
	for m := range a.pairs {
		if m == k || m == first {
			continue
		}
		if a.origin(m).Sub(ok).Dot(zk)*side >= 0 {
			continue
		}
		d := a.origin(m).Dist(ok)
		if d <= limit && (second < 0 || d < secondDist) {
			second, secondDist = m, d
		}
	}
	if second < 0 {
		return []int{first}
	}
	return []int{first, second}
}

// ends returns the pairs with fewer than two links, in ascending order.
func (g graph) ends() []int {
	var out []int
	for k, nb := range g.adj {
		if len(nb) < 2 {
			out = append(out, k)
		}
	}
	return out
}

// walk follows links from start, marking each pair visited.
func (g graph) walk(start int, visited []bool) []int {
	order := []int{start}
	visited[start] = true
	for cur := start; ; {
		next := -1
		for _, m := range g.adj[cur] {
			if !visited[m] {
				next = m
				break
			}
		}
		if next < 0 {
			return order
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
