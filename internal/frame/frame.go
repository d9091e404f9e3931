// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frame computes per-residue reference frames by least-squares
// fitting a standard base template onto the residue's ring atoms.
package frame

import (
	"fmt"

	"github.com/pdiddy/basepair-engine/internal/structure"
	"github.com/pdiddy/basepair-engine/internal/template"
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// TemplateSource returns the standard geometry for a base identity.
type TemplateSource interface {
	Lookup(base types.ResidueType) (*template.Template, error)
}

// idealRing is a purine ring in standard geometry, used to screen residues
// with non-standard names before they are identified.
var idealRing = map[string]geometry.Vec3{
	" C4 ": {1.265, 3.177, 0.000},
	" N3 ": {2.342, 2.364, 0.001},
	" C2 ": {1.999, 1.087, 0.000},
	" N1 ": {0.700, 0.641, 0.000},
	" C6 ": {-0.424, 1.460, 0.000},
	" C5 ": {-0.071, 2.833, 0.000},
	" N7 ": {-0.870, 3.969, 0.000},
	" C8 ": {-0.023, 4.962, 0.000},
	" N9 ": {1.289, 4.551, 0.000},
}

// minMatched is the fewest ring atoms that define a plane for fitting.
const minMatched = 3

// Calculator fits reference frames. It is safe for concurrent use.
type Calculator struct {
	templates TemplateSource
	cfg       types.FrameConfig
}

// NewCalculator creates a calculator using the given templates.
func NewCalculator(templates TemplateSource, cfg types.FrameConfig) *Calculator {
	return &Calculator{templates: templates, cfg: cfg}
}

// Compute fits a frame for r without modifying it. Residues that are not
// nucleotide-like, or whose ring geometry fails the RMSD gate, produce a
// result with Valid false and a Reason.
func (c *Calculator) Compute(r *types.Residue) types.FrameResult {
	if r.Type == types.ResidueAminoAcid {
		return reject("amino acid")
	}

	names, exp := matchRing(r)
	if len(names) < minMatched {
		return reject(fmt.Sprintf("%d ring atoms matched", len(names)))
	}
	if !hasRingNitrogen(names) {
		return reject("no ring nitrogen")
	}

	if !structure.IsStandardName(r.ResName) {
		ideal := make([]geometry.Vec3, len(names))
		for i, n := range names {
			ideal[i] = idealRing[n]
		}
		fit, err := geometry.Fit(ideal, exp)
		if err != nil {
			return reject(err.Error())
		}
		if !(fit.RMS <= c.cfg.RMSDCutoff) {
			return reject(fmt.Sprintf("ring rmsd %.4f exceeds %.4f", fit.RMS, c.cfg.RMSDCutoff))
		}
	}

	base := r.Type
	if !base.IsNucleotide() {
		base = Identify(r)
	}

	tmpl, err := c.templates.Lookup(base)
	if err != nil {
		return reject(err.Error())
	}

	var ref, target []geometry.Vec3
	var used []string
	for i, n := range names {
		p, ok := tmpl.Position(n)
		if !ok {
			continue
		}
		ref = append(ref, p)
		target = append(target, exp[i])
		used = append(used, n)
	}
	if len(used) < minMatched {
		return reject(fmt.Sprintf("%d ring atoms shared with template %s", len(used), tmpl.ID))
	}

	fit, err := geometry.Fit(ref, target)
	if err != nil {
		return reject(err.Error())
	}
	if !fit.Rotation.IsFinite() || !fit.Translation.IsFinite() || !fit.Rotation.IsOrthonormal(1e-6) {
		return reject("fitted rotation is not orthonormal")
	}

	return types.FrameResult{
		Valid:        true,
		Frame:        types.ReferenceFrame{Rotation: fit.Rotation, Origin: fit.Translation},
		RMS:          fit.RMS,
		MatchedAtoms: used,
		NumMatched:   len(used),
		Base:         base,
		Template:     tmpl.ID,
	}
}

// Attach computes the frame for r and, when valid, stores it on the
// residue. A residue whose frame is already set keeps its first frame and
// the error wraps types.ErrFrameAlreadySet.
func (c *Calculator) Attach(r *types.Residue) (types.FrameResult, error) {
	res := c.Compute(r)
	if !res.Valid {
		return res, nil
	}
	if err := r.SetFrame(res.Frame, res.Base); err != nil {
		return res, err
	}
	return res, nil
}

func reject(reason string) types.FrameResult {
	return types.FrameResult{Valid: false, Base: types.ResidueUnknown, Reason: reason}
}

// matchRing returns the ring atoms present in r, in matching order, with
// their coordinates.
func matchRing(r *types.Residue) ([]string, []geometry.Vec3) {
	var names []string
	var pos []geometry.Vec3
	for _, n := range types.RingAtoms {
		if a, ok := r.FindAtom(n); ok {
			names = append(names, n)
			pos = append(pos, a.Position)
		}
	}
	return names, pos
}

func isPurine(names []string) bool {
	for _, n := range names {
		switch n {
		case types.AtomN7, types.AtomC8, types.AtomN9:
			return true
		}
	}
	return false
}

func hasRingNitrogen(names []string) bool {
	for _, n := range names {
		switch n {
		case types.AtomN1, types.AtomN3, types.AtomN7, types.AtomN9:
			return true
		}
	}
	return false
}

// Identify guesses the base identity of a residue from its substituent
// atoms. Purines with O6 are G, or I when N2 is absent; other purines are A.
// Pyrimidines with N4 are C; with a C5 methyl they are T; a C1'–C5
// glycosidic bond marks pseudouridine; the rest are U.
func Identify(r *types.Residue) types.ResidueType {
	var names []string
	for _, n := range types.RingAtoms {
		if r.HasAtom(n) {
			names = append(names, n)
		}
	}
	if isPurine(names) {
		if r.HasAtom(types.AtomO6) {
			if r.HasAtom(types.AtomN2) {
				return types.ResidueGuanine
			}
			return types.ResidueInosine
		}
		return types.ResidueAdenine
	}
	switch {
	case r.HasAtom(types.AtomN4):
		return types.ResidueCytosine
	case r.HasAtom(types.AtomC5M) || r.HasAtom(types.AtomC7):
		return types.ResidueThymine
	case isPseudouridine(r):
		return types.ResiduePseudouridine
	}
	return types.ResidueUracil
}

// glycosidicBond is the longest C1'–base distance treated as a bond.
const glycosidicBond = 2.0

func isPseudouridine(r *types.Residue) bool {
	c1, ok := r.FindAtom(types.AtomC1)
	if !ok {
		return false
	}
	c5, ok := r.FindAtom(types.AtomC5)
	if !ok || c1.Position.Dist(c5.Position) > glycosidicBond {
		return false
	}
	if n1, ok := r.FindAtom(types.AtomN1); ok && c1.Position.Dist(n1.Position) <= glycosidicBond {
		return false
	}
	return true
}
