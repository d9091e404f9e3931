// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package hbond finds hydrogen bonds between two residues: candidate
// search over nitrogen and oxygen atoms, conflict resolution for atoms
// claimed by more than one candidate, donor/acceptor classification, and
// optional angle scoring.
package hbond

import (
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Detector finds hydrogen bonds. It holds only configuration and is safe
// for concurrent use.
type Detector struct {
	cfg types.HBondConfig
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(cfg types.HBondConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Result exposes every stage of detection for diagnostics. Candidates
// carries all contacts in the search window with their conflict state
// and class (invalid for candidates that were not eligible); Bonds holds
// the eligible bonds that survived the angle filter.
type Result struct {
	Candidates []types.HydrogenBond `json:"candidates" yaml:"candidates"`
	Bonds      []types.HydrogenBond `json:"bonds" yaml:"bonds"`
}

// candidate is a contact with the atoms it joins.
type candidate struct {
	a1, a2 types.Atom
	dist   float64
}

// Detect returns the hydrogen bonds between r1 and r2. Each bond's Donor
// is the atom on r1 and Acceptor the atom on r2. Order is not significant.
func (d *Detector) Detect(r1, r2 *types.Residue) []types.HydrogenBond {
	return d.Analyze(r1, r2).Bonds
}

// Analyze runs the full detection and returns every intermediate
// classification.
func (d *Detector) Analyze(r1, r2 *types.Residue) Result {
	cands := d.candidates(r1, r2, d.cfg.BaseOnly)
	if len(cands) == 0 {
		return Result{}
	}

	states, eligible, promoted := resolve(cands, d.cfg.MinDistance, d.cfg.PromoteDistance)

	base1, base2 := r1.Base(), r2.Base()
	res := Result{Candidates: make([]types.HydrogenBond, len(cands))}
	for i, c := range cands {
		hb := types.HydrogenBond{
			Donor:    c.a1.Name,
			Acceptor: c.a2.Name,
			Distance: c.dist,
			Class:    types.HBondInvalid,
			Conflict: states[i],
			Promoted: promoted[i],
		}
		if eligible[i] {
			hb.Class = Classify(base1, c.a1, base2, c.a2)
			d.scoreAngles(&hb, r1, r2, c)
		}
		res.Candidates[i] = hb
		if !eligible[i] {
			continue
		}
		if d.cfg.AngleFilter && hb.HasAngles &&
			(hb.DonorAngle < d.cfg.MinAngle || hb.AcceptorAngle < d.cfg.MinAngle) {
			continue
		}
		res.Bonds = append(res.Bonds, hb)
	}
	return res
}

// Count is the simple counting mode used during pair validation. It
// returns the number of base–base nitrogen/oxygen contacts in the base
// window and the number of contacts involving an O2' atom in the backbone
// window, without conflict resolution.
func (d *Detector) Count(r1, r2 *types.Residue) (base, o2 int) {
	for _, a1 := range r1.Atoms {
		if !isNO(a1) {
			continue
		}
		for _, a2 := range r2.Atoms {
			if !isNO(a2) {
				continue
			}
			dist := a1.Position.Dist(a2.Position)
			if dist < d.cfg.MinDistance {
				continue
			}
			switch {
			case !a1.IsBackbone() && !a2.IsBackbone():
				if dist <= d.cfg.MaxBaseDistance {
					base++
				}
			case a1.Name == types.AtomO2s || a2.Name == types.AtomO2s:
				if dist <= d.cfg.MaxBackboneDistance {
					o2++
				}
			}
		}
	}
	return base, o2
}

func (d *Detector) candidates(r1, r2 *types.Residue, baseOnly bool) []candidate {
	var out []candidate
	for _, a1 := range r1.Atoms {
		if !isNO(a1) || (baseOnly && a1.IsBackbone()) {
			continue
		}
		for _, a2 := range r2.Atoms {
			if !isNO(a2) || (baseOnly && a2.IsBackbone()) {
				continue
			}
			limit := d.cfg.MaxBaseDistance
			if a1.IsBackbone() || a2.IsBackbone() {
				limit = d.cfg.MaxBackboneDistance
			}
			if d.cfg.PromoteDistance > limit {
				limit = d.cfg.PromoteDistance
			}
			dist := a1.Position.Dist(a2.Position)
			if dist >= d.cfg.MinDistance && dist <= limit {
				out = append(out, candidate{a1: a1, a2: a2, dist: dist})
			}
		}
	}
	return out
}

// scoreAngles fills the angle fields when both atoms have a covalent
// neighbour in their own residue.
func (d *Detector) scoreAngles(hb *types.HydrogenBond, r1, r2 *types.Residue, c candidate) {
	n1, ok1 := neighbour(r1, c.a1, d.cfg.BondDistance)
	n2, ok2 := neighbour(r2, c.a2, d.cfg.BondDistance)
	if !ok1 || !ok2 {
		return
	}
	p1, p2 := c.a1.Position, c.a2.Position
	hb.HasAngles = true
	hb.DonorAngle = geometry.Angle(n1.Position, p1, p2)
	hb.AcceptorAngle = geometry.Angle(n2.Position, p2, p1)
	hb.Dihedral = geometry.Dihedral(n1.Position, p1, p2, n2.Position)
}

// neighbour returns the nearest non-hydrogen atom of r bonded to a.
func neighbour(r *types.Residue, a types.Atom, bond float64) (types.Atom, bool) {
	var best types.Atom
	bestDist := bond
	found := false
	for _, b := range r.Atoms {
		if b.Name == a.Name || b.IsHydrogen() {
			continue
		}
		dist := b.Position.Dist(a.Position)
		if dist > 0 && dist < bestDist {
			best, bestDist, found = b, dist, true
		}
	}
	return best, found
}
