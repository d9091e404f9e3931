// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks a conflict-free set of base pairs from the
// cached validation results by repeated mutual-best matching.
package selector

import (
	"fmt"
	"io"
	"math"

	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Results maps a normalized residue pair to its validation outcome.
type Results map[types.PairKey]types.ValidationResult

// Select returns the base pairs chosen by mutual-best matching. Residues
// are visited in ascending index order; each unmatched pairable residue
// looks for the valid partner with the lowest adjusted quality, and the
// pair is accepted only when that partner's best match is the residue
// itself. Passes repeat until one adds no pair.
//
// residues[i].Index must equal i.
func Select(results Results, residues []*types.Residue, cfg types.SelectorConfig, w io.Writer) ([]types.BasePair, error) {
	for i, r := range residues {
		if r == nil || r.Index != i {
			return nil, fmt.Errorf("residue at position %d does not carry index %d", i, i)
		}
	}

	s := state{
		results:  results,
		residues: residues,
		cfg:      cfg,
		matched:  make([]bool, len(residues)),
	}

	var pairs []types.BasePair
	for {
		added := 0
		for i := range residues {
			if s.matched[i] || !residues[i].IsPairable() {
				continue
			}
			j, _, ok := s.best(i)
			if !ok {
				continue
			}
			if k, _, ok := s.best(j); !ok || k != i {
				continue
			}

			key := types.NewPairKey(i, j)
			res, found := results[key]
			if !found || !res.Valid {
				fmt.Fprintf(w, "warning: mutual match %s–%s has no valid cached result, skipped\n",
					residues[key.I], residues[key.J])
				continue
			}

			s.matched[i], s.matched[j] = true, true
			added++
			pairs = append(pairs, newBasePair(residues[key.I], residues[key.J], res, AdjustedQuality(res, cfg)))
		}
		if added == 0 {
			break
		}
	}
	return pairs, nil
}

type state struct {
	results  Results
	residues []*types.Residue
	cfg      types.SelectorConfig
	matched  []bool
}

// best returns the unmatched residue with the lowest adjusted quality
// among valid partners of i. Ties keep the lower index.
func (s *state) best(i int) (int, float64, bool) {
	bestJ, bestScore := -1, math.Inf(1)
	for j, r := range s.residues {
		if j == i || s.matched[j] || !r.IsPairable() {
			continue
		}
		res, ok := s.results[types.NewPairKey(i, j)]
		if !ok || !res.Valid {
			continue
		}
		if score := AdjustedQuality(res, s.cfg); score < bestScore {
			bestJ, bestScore = j, score
		}
	}
	return bestJ, bestScore, bestJ >= 0
}

// AdjustedQuality lowers a pair's quality score for well-formed hydrogen
// bonds and Watson-Crick geometry. Standard bonds whose distance, rounded
// to 0.01 Å, falls in the good window earn 1 each, capped at 3 once two
// are present; Watson-Crick pairs earn the configured bonus on top.
func AdjustedQuality(res types.ValidationResult, cfg types.SelectorConfig) float64 {
	good := 0
	for _, hb := range res.HBonds {
		if hb.Class != types.HBondStandard {
			continue
		}
		if cfg.GoodHBond.Contains(math.Round(hb.Distance*100) / 100) {
			good++
		}
	}
	q := res.Quality
	if good >= 2 {
		q -= 3
	} else {
		q -= float64(good)
	}
	if res.PairType == types.PairWatsonCrick {
		q -= cfg.WatsonCrickBonus
	}
	return q
}

func newBasePair(r1, r2 *types.Residue, res types.ValidationResult, quality float64) types.BasePair {
	f1, _ := r1.Frame()
	f2, _ := r2.Frame()
	hbonds := make([]types.HydrogenBond, len(res.HBonds))
	copy(hbonds, res.HBonds)
	return types.BasePair{
		Res1:    r1.Index,
		Res2:    r2.Index,
		Frame1:  f1,
		Frame2:  f2,
		Type:    res.PairType,
		HBonds:  hbonds,
		Quality: quality,
	}
}
