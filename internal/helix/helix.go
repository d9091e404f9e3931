// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package helix orders selected base pairs into helices, assigns strands
// so that strand 1 runs 5'→3', flags direction anomalies and detects
// left-handed helices.
package helix

import (
	"fmt"
	"io"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Assemble groups pairs into helices. Every pair appears in exactly one
// helix; pairs that cannot be placed on a simple chain are collected in a
// final helix marked Complicated. residues supplies the backbone atoms
// used for linkage tests and is indexed by residue index.
func Assemble(pairs []types.BasePair, residues []*types.Residue, cfg types.HelixConfig, w io.Writer) ([]types.Helix, error) {
	for k, bp := range pairs {
		if bp.Res1 < 0 || bp.Res1 >= len(residues) || bp.Res2 < 0 || bp.Res2 >= len(residues) {
			return nil, fmt.Errorf("base pair %d refers to residue outside [0,%d)", k, len(residues))
		}
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	a := &assembler{pairs: pairs, residues: residues, cfg: cfg}
	g := a.context()

	var helices []types.Helix
	visited := make([]bool, len(pairs))
	for _, start := range g.ends() {
		if visited[start] {
			continue
		}
		order := g.walk(start, visited)
		helices = append(helices, a.orient(order))
	}

	var rest []types.HelixPair
	for k := range pairs {
		if !visited[k] {
			rest = append(rest, types.HelixPair{Index: k})
		}
	}
	if len(rest) > 0 {
		fmt.Fprintf(w, "warning: %d base pairs could not be ordered into simple helices\n", len(rest))
		helices = append(helices, types.Helix{Pairs: rest, Complicated: true})
	}
	return helices, nil
}

type assembler struct {
	pairs    []types.BasePair
	residues []*types.Residue
	cfg      types.HelixConfig
}

// origin is the midpoint of the two base origins of pair k.
func (a *assembler) origin(k int) geometry.Vec3 {
	return geometry.Mid(a.pairs[k].Frame1.Origin, a.pairs[k].Frame2.Origin)
}

// frames returns the strand 1 and strand 2 frames of pair k.
func (a *assembler) frames(k int, swapped bool) (types.ReferenceFrame, types.ReferenceFrame) {
	bp := a.pairs[k]
	if swapped {
		return bp.Frame2, bp.Frame1
	}
	return bp.Frame1, bp.Frame2
}

// strands returns the strand 1 and strand 2 residue indices of pair k.
func (a *assembler) strands(k int, swapped bool) (int, int) {
	bp := a.pairs[k]
	if swapped {
		return bp.Res2, bp.Res1
	}
	return bp.Res1, bp.Res2
}

// axis is the pair's z axis oriented along strand 1.
func (a *assembler) axis(k int, swapped bool) geometry.Vec3 {
	f1, f2 := a.frames(k, swapped)
	z1, z2 := f1.Z(), f2.Z()
	if z1.Dot(z2) < 0 {
		return z1.Sub(z2).Normalize()
	}
	return z1.Add(z2).Normalize()
}

// link reports the backbone connection between residues x and y: +1 when
// O3' of x bonds to P of y, -1 when O3' of y bonds to P of x, 0 otherwise.
func (a *assembler) link(x, y int) int {
	switch {
	case a.bonded(x, y):
		return 1
	case a.bonded(y, x):
		return -1
	}
	return 0
}

func (a *assembler) bonded(from, to int) bool {
	o3, ok := a.residues[from].FindAtom(types.AtomO3s)
	if !ok {
		return false
	}
	p, ok := a.residues[to].FindAtom(types.AtomP)
	if !ok {
		return false
	}
	return o3.Position.Dist(p.Position) <= a.cfg.MaxO3PDistance
}
