// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package helix

import "github.com/pdiddy/basepair-engine/pkg/types"

// orient assigns strands along a walked chain of pairs, sets the direction
// flags and, when strand 1 runs 3'→5', reverses the order.
func (a *assembler) orient(order []int) types.Helix {
	swapped := a.assignStrands(order)
	a.fixInversions(order, swapped)

	d1, d2 := a.directions(order, swapped)
	h := types.Helix{}
	h.Parallel, h.BrokenLinkage, h.Reversal = flags(d1, d2)

	if backward(d1, d2) {
		reverse(order)
		reverseBools(swapped)
	}

	h.Pairs = make([]types.HelixPair, len(order))
	for k, idx := range order {
		h.Pairs[k] = types.HelixPair{Index: idx, Swapped: swapped[k]}
	}
	if len(order) > 1 && !h.HasAnomaly() {
		h.LeftHanded = a.leftHanded(order, swapped)
	}
	return h
}

// assignStrands decides each pair's strand roles from the backbone links
// to the previous pair. Steps without any link keep the default roles and
// are left for fixInversions.
func (a *assembler) assignStrands(order []int) []bool {
	swapped := make([]bool, len(order))
	for k := 0; k+1 < len(order); k++ {
		i1, i2 := a.strands(order[k], swapped[k])
		j1, j2 := a.strands(order[k+1], false)
		straight := a.link(i1, j1) != 0 || a.link(i2, j2) != 0
		crossed := a.link(i1, j2) != 0 || a.link(i2, j1) != 0
		swapped[k+1] = crossed && !straight
	}
	return swapped
}

// fixInversions revisits unlinked steps and swaps the downstream strand
// roles when the strand 1 bases of the two pairs point in opposite
// directions. Downstream pairs were assigned relative to their neighbour,
// so a swap propagates to the end of the chain.
func (a *assembler) fixInversions(order []int, swapped []bool) {
	for k := 0; k+1 < len(order); k++ {
		i1, i2 := a.strands(order[k], swapped[k])
		j1, j2 := a.strands(order[k+1], swapped[k+1])
		if a.link(i1, j1) != 0 || a.link(i2, j2) != 0 {
			continue
		}
		f1, _ := a.frames(order[k], swapped[k])
		g1, g2 := a.frames(order[k+1], swapped[k+1])
		if f1.Z().Dot(g1.Z()) >= f1.Z().Dot(g2.Z()) {
			continue
		}
		for m := k + 1; m < len(order); m++ {
			swapped[m] = !swapped[m]
		}
	}
}

// directions returns, per step, the backbone direction of each strand
// along the chain: +1 for 5'→3', -1 for 3'→5', 0 when unlinked.
func (a *assembler) directions(order []int, swapped []bool) ([]int, []int) {
	n := len(order) - 1
	if n < 0 {
		n = 0
	}
	d1, d2 := make([]int, n), make([]int, n)
	for k := 0; k < n; k++ {
		i1, i2 := a.strands(order[k], swapped[k])
		j1, j2 := a.strands(order[k+1], swapped[k+1])
		d1[k] = a.link(i1, j1)
		d2[k] = a.link(i2, j2)
	}
	return d1, d2
}

// flags derives the direction anomalies from per-step strand directions.
func flags(d1, d2 []int) (parallel, broken, reversal bool) {
	for k := range d1 {
		if d1[k] == 0 || d2[k] == 0 {
			broken = true
		} else if d1[k] == d2[k] {
			parallel = true
		}
	}
	reversal = mixed(d1) || mixed(d2)
	return parallel, broken, reversal
}

func mixed(d []int) bool {
	var fwd, back bool
	for _, v := range d {
		fwd = fwd || v > 0
		back = back || v < 0
	}
	return fwd && back
}

// backward reports whether strand 1 predominantly runs 3'→5' along the
// chain. Without strand 1 links the antiparallel partner decides.
func backward(d1, d2 []int) bool {
	s1, s2 := 0, 0
	for k := range d1 {
		s1 += d1[k]
		s2 += d2[k]
	}
	if s1 != 0 {
		return s1 < 0
	}
	return s2 > 0
}

// leftHanded reports whether every step moves against its pair's z axis,
// which only happens in left-handed (Z-form) helices.
func (a *assembler) leftHanded(order []int, swapped []bool) bool {
	for k := 0; k+1 < len(order); k++ {
		step := a.origin(order[k+1]).Sub(a.origin(order[k]))
		if step.Dot(a.axis(order[k], swapped[k])) >= 0 {
			return false
		}
	}
	return true
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseBools(s []bool) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
