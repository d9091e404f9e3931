// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hbond

import "github.com/pdiddy/basepair-engine/pkg/types"

// resolve assigns each candidate a conflict state and decides which are
// eligible for classification.
//
// Phase 1 repeatedly picks a candidate that is the shortest unmatched
// contact for both of its atoms, marks it a winner, and consumes every
// unmatched candidate sharing either atom. Phase 2 records, for each
// non-winner, which atoms it shares with a winner. Phase 3 promotes
// non-winners whose distance lies in [minDist, promote].
func resolve(cands []candidate, minDist, promote float64) (states []types.ConflictState, eligible, promoted []bool) {
	n := len(cands)
	winner := make([]bool, n)
	matched := make([]bool, n)

	for remaining := n; remaining > 0; {
		found := false
		for k := 0; k < n && !found; k++ {
			if matched[k] {
				continue
			}
			by1, by2 := -1, -1
			d1, d2 := 0.0, 0.0
			for m := 0; m < n; m++ {
				if matched[m] {
					continue
				}
				if cands[m].a1.Name == cands[k].a1.Name && (by1 < 0 || cands[m].dist < d1) {
					by1, d1 = m, cands[m].dist
				}
				if cands[m].a2.Name == cands[k].a2.Name && (by2 < 0 || cands[m].dist < d2) {
					by2, d2 = m, cands[m].dist
				}
			}
			if by1 != by2 {
				continue
			}
			w := by1
			winner[w] = true
			for m := 0; m < n; m++ {
				if !matched[m] && (cands[m].a1.Name == cands[w].a1.Name || cands[m].a2.Name == cands[w].a2.Name) {
					matched[m] = true
					remaining--
				}
			}
			found = true
		}
		if !found {
			break
		}
	}

	states = make([]types.ConflictState, n)
	eligible = make([]bool, n)
	promoted = make([]bool, n)
	for m := 0; m < n; m++ {
		if winner[m] {
			states[m] = types.ConflictWinner
			eligible[m] = true
			continue
		}
		var shares1, shares2 bool
		for k := 0; k < n; k++ {
			if !winner[k] {
				continue
			}
			shares1 = shares1 || cands[m].a1.Name == cands[k].a1.Name
			shares2 = shares2 || cands[m].a2.Name == cands[k].a2.Name
		}
		switch {
		case shares1 && shares2:
			states[m] = types.ConflictSharesBoth
		case shares1:
			states[m] = types.ConflictSharesDonor
		case shares2:
			states[m] = types.ConflictSharesAcceptor
		default:
			states[m] = types.ConflictNone
		}
		if promote > 0 && cands[m].dist >= minDist && cands[m].dist <= promote {
			eligible[m] = true
			promoted[m] = true
		}
	}
	return states, eligible, promoted
}
