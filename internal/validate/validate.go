// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate decides whether two framed residues form a base pair,
// scores the pair, and classifies valid pairs as Watson-Crick, wobble, or
// other.
package validate

import (
	"math"

	"github.com/pdiddy/basepair-engine/internal/overlap"
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// HBondFinder is the hydrogen-bond detector as seen by the validator.
type HBondFinder interface {
	// Count returns base–base and O2' contact counts without conflict resolution.
	Count(r1, r2 *types.Residue) (base, o2 int)
	// Detect returns the conflict-resolved, classified bonds.
	Detect(r1, r2 *types.Residue) []types.HydrogenBond
}

// Classification limits for Watson-Crick and wobble pairs.
const (
	maxStretch = 2.0
	maxOpening = 60.0
	minWobble  = 1.8
	maxWobble  = 2.8
)

var watsonCrickPairs = map[string]bool{
	"AT": true, "AU": true, "TA": true, "UA": true,
	"GC": true, "IC": true, "CG": true, "CI": true,
}

// Validator checks residue pairs. It is safe for concurrent use.
type Validator struct {
	cfg    types.ValidationConfig
	hbonds HBondFinder
	cfgErr error
}

// NewValidator creates a validator. A configuration that fails
// ValidationConfig.Validate produces a validator that rejects every pair;
// Err reports why.
func NewValidator(cfg types.ValidationConfig, hbonds HBondFinder) *Validator {
	return &Validator{cfg: cfg, hbonds: hbonds, cfgErr: cfg.Validate()}
}

// Err returns the configuration error, if any.
func (v *Validator) Err() error { return v.cfgErr }

// Validate evaluates r1 and r2. Both must carry a reference frame;
// otherwise the zero result (invalid, every check false) is returned.
// The geometric checks short-circuit: overlap is computed only when all
// four pass, and hydrogen bonds are counted only when overlap passes.
func (v *Validator) Validate(r1, r2 *types.Residue) types.ValidationResult {
	res := types.ValidationResult{PairType: types.PairUnknown}
	f1, ok1 := r1.Frame()
	f2, ok2 := r2.Frame()
	if !ok1 || !ok2 || v.cfgErr != nil {
		return res
	}

	dorg := f2.Origin.Sub(f1.Origin)
	res.Dorg = dorg.Len()
	res.DirX = f1.X().Dot(f2.X())
	res.DirY = f1.Y().Dot(f2.Y())
	res.DirZ = f1.Z().Dot(f2.Z())

	var zave geometry.Vec3
	if res.DirZ > 0 {
		zave = f1.Z().Add(f2.Z())
	} else {
		zave = f2.Z().Sub(f1.Z())
	}
	zave = zave.Normalize()
	oave := geometry.Mid(f1.Origin, f2.Origin)

	res.DV = math.Abs(dorg.Dot(zave))
	res.PlaneAngle = geometry.Magang(f1.Z(), f2.Z())
	if res.PlaneAngle > 90 {
		res.PlaneAngle = 180 - res.PlaneAngle
	}
	res.DNN = glycosidicDistance(r1, r2)
	res.Quality = res.Dorg + 2*res.DV + res.PlaneAngle/20

	res.DistanceOK = v.cfg.Dorg.Contains(res.Dorg)
	res.VerticalOK = v.cfg.DV.Contains(res.DV)
	res.PlaneAngleOK = v.cfg.PlaneAngle.Contains(res.PlaneAngle)
	res.DNNOK = v.cfg.DNN.Contains(res.DNN)
	if !(res.DistanceOK && res.VerticalOK && res.PlaneAngleOK && res.DNNOK) {
		return res
	}

	res.Overlap = overlap.Area(r1, r2, oave, zave)
	res.OverlapOK = res.Overlap < v.cfg.MaxOverlap
	if !res.OverlapOK {
		return res
	}

	res.BaseHBonds, res.O2HBonds = v.hbonds.Count(r1, r2)
	if v.cfg.MinBaseHBonds > 0 {
		res.HBondOK = res.BaseHBonds >= v.cfg.MinBaseHBonds
	} else {
		res.HBondOK = res.BaseHBonds+res.O2HBonds > 0
	}
	if !res.HBondOK {
		return res
	}

	res.Valid = true
	res.HBonds = v.hbonds.Detect(r1, r2)
	res.PairType = PairType(r1.Base(), r2.Base(), f1, f2, res.DirX, res.DirY, res.DirZ)
	return res
}

// PairType classifies a pair from its frames and base identities. Only
// anti-parallel pairs with x axes aligned are considered. The second frame
// is flipped onto the first strand and the step parameters from it to the
// first frame are read as shear (slot 0), stretch (slot 1) and opening
// (slot 5). Wobble pairs have |shear| in [1.8, 2.8]; Watson-Crick pairs
// have |shear| below 1.8 and a canonical base combination.
func PairType(b1, b2 types.ResidueType, f1, f2 types.ReferenceFrame, dirX, dirY, dirZ float64) types.BasePairType {
	if !(dirX > 0 && dirY < 0 && dirZ < 0) {
		return types.PairOther
	}
	pars := Step(f2.Flipped(), f1).Slots()
	shear, stretch, opening := pars[0], pars[1], pars[5]
	if math.Abs(stretch) > maxStretch || math.Abs(opening) > maxOpening {
		return types.PairOther
	}
	s := math.Abs(shear)
	if s >= minWobble && s <= maxWobble {
		return types.PairWobble
	}
	if s < minWobble && watsonCrickPairs[string([]byte{b1.Letter(), b2.Letter()})] {
		return types.PairWatsonCrick
	}
	return types.PairOther
}

// glycosidicDistance returns the distance between the glycosidic atoms of
// r1 and r2, or 0 when either is missing so that the range check fails.
func glycosidicDistance(r1, r2 *types.Residue) float64 {
	a1, ok1 := GlycosidicAtom(r1)
	a2, ok2 := GlycosidicAtom(r2)
	if !ok1 || !ok2 {
		return 0
	}
	return a1.Position.Dist(a2.Position)
}

// GlycosidicAtom returns the base atom bonded to C1': N9 for purines, N1
// for pyrimidines and C5 for pseudouridine. When that atom is missing, the
// first base atom whose name carries the same digit is used.
func GlycosidicAtom(r *types.Residue) (types.Atom, bool) {
	base := r.Base()
	name, digit := types.AtomN1, '1'
	switch {
	case base == types.ResiduePseudouridine:
		name, digit = types.AtomC5, '5'
	case base.IsPurine():
		name, digit = types.AtomN9, '9'
	}
	if a, ok := r.FindAtom(name); ok {
		return a, true
	}
	for _, a := range r.Atoms {
		if a.IsBackbone() || a.IsHydrogen() {
			continue
		}
		for _, c := range a.Name {
			if c == digit {
				return a, true
			}
		}
	}
	return types.Atom{}, false
}
