// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/basepair-engine/internal/frame"
	"github.com/pdiddy/basepair-engine/internal/hbond"
	"github.com/pdiddy/basepair-engine/internal/template"
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// countingFinder wraps a detector and records how often it is consulted.
type countingFinder struct {
	inner   HBondFinder
	counts  int
	detects int
}

func (c *countingFinder) Count(r1, r2 *types.Residue) (int, int) {
	c.counts++
	return c.inner.Count(r1, r2)
}

func (c *countingFinder) Detect(r1, r2 *types.Residue) []types.HydrogenBond {
	c.detects++
	return c.inner.Detect(r1, r2)
}

func newFinder() *countingFinder {
	return &countingFinder{inner: hbond.NewDetector(types.DefaultPipelineConfig().HBond)}
}

// framed builds a residue from the standard template for base, maps each
// atom through place, and attaches its fitted frame.
func framed(t *testing.T, base types.ResidueType, index int, place func(geometry.Vec3) geometry.Vec3) *types.Residue {
	t.Helper()
	tmpl, err := template.Standard().Lookup(base)
	require.NoError(t, err)
	r := &types.Residue{Index: index, ResName: string(base), Chain: "A", SeqNum: index + 1, Type: base}
	for _, a := range tmpl.Atoms {
		r.Atoms = append(r.Atoms, types.Atom{Name: a.Name, Element: a.Name[1:2], Position: place(a.XYZ), ResidueIndex: index})
	}
	calc := frame.NewCalculator(template.Standard(), types.DefaultPipelineConfig().Frame)
	res, err := calc.Attach(r)
	require.NoError(t, err)
	require.True(t, res.Valid, res.Reason)
	return r
}

func identity(p geometry.Vec3) geometry.Vec3 { return p }

// partner rotates p 180° about the x axis and shifts it along x, which is
// how the complementary base sits in a Watson-Crick pair.
func partner(shift float64) func(geometry.Vec3) geometry.Vec3 {
	return func(p geometry.Vec3) geometry.Vec3 {
		return geometry.Vec3{p[0] + shift, -p[1], -p[2]}
	}
}

func TestWatsonCrickGC(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	c := framed(t, types.ResidueCytosine, 1, partner(0.2))

	f := newFinder()
	v := NewValidator(types.DefaultPipelineConfig().Validation, f)
	require.NoError(t, v.Err())
	res := v.Validate(g, c)

	assert.True(t, res.Valid)
	assert.True(t, res.DistanceOK && res.VerticalOK && res.PlaneAngleOK && res.DNNOK && res.OverlapOK && res.HBondOK)
	assert.Equal(t, types.PairWatsonCrick, res.PairType)
	assert.InDelta(t, 0.2, res.Dorg, 1e-6)
	assert.InDelta(t, 0, res.DV, 1e-6)
	assert.InDelta(t, 0, res.PlaneAngle, 1e-6)
	assert.InDelta(t, 9.09, res.DNN, 0.01)
	assert.Equal(t, 0.0, res.Overlap)
	assert.InDelta(t, res.Dorg+2*res.DV+res.PlaneAngle/20, res.Quality, 1e-12)
	assert.Greater(t, res.DirX, 0.0)
	assert.Less(t, res.DirY, 0.0)
	assert.Less(t, res.DirZ, 0.0)

	assert.Equal(t, 3, res.BaseHBonds)
	require.Len(t, res.HBonds, 3)
	for _, hb := range res.HBonds {
		assert.Equal(t, types.HBondStandard, hb.Class)
		assert.Equal(t, types.ConflictWinner, hb.Conflict)
		assert.True(t, hb.Distance >= 2.8 && hb.Distance <= 3.1, "distance %.3f", hb.Distance)
	}
	assert.Equal(t, 1, f.counts)
	assert.Equal(t, 1, f.detects)
}

func TestWobbleGU(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	u := framed(t, types.ResidueUracil, 1, partner(2.2))

	pt := PairType(g.Base(), u.Base(), mustFrame(t, g), mustFrame(t, u), 1, -1, -1)
	assert.Equal(t, types.PairWobble, pt)
}

func TestPairTypeRules(t *testing.T) {
	f1 := types.ReferenceFrame{Rotation: geometry.Identity()}
	flipped := f1.Flipped()

	assert.Equal(t, types.PairWatsonCrick, PairType(types.ResidueAdenine, types.ResidueUracil, f1, flipped, 1, -1, -1))
	assert.Equal(t, types.PairOther, PairType(types.ResidueAdenine, types.ResidueGuanine, f1, flipped, 1, -1, -1), "not a canonical combination")
	assert.Equal(t, types.PairOther, PairType(types.ResidueGuanine, types.ResidueCytosine, f1, f1, 1, 1, 1), "parallel frames")

	stretched := flipped
	stretched.Origin = geometry.Vec3{0, 3, 0}
	assert.Equal(t, types.PairOther, PairType(types.ResidueGuanine, types.ResidueCytosine, f1, stretched, 1, -1, -1))
}

func mustFrame(t *testing.T, r *types.Residue) types.ReferenceFrame {
	t.Helper()
	f, ok := r.Frame()
	require.True(t, ok)
	return f
}

func TestDistantPairShortCircuits(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	c := framed(t, types.ResidueCytosine, 1, partner(15.5))

	f := newFinder()
	res := NewValidator(types.DefaultPipelineConfig().Validation, f).Validate(g, c)

	assert.False(t, res.Valid)
	assert.False(t, res.DistanceOK)
	assert.Greater(t, res.Dorg, 15.0)
	assert.False(t, res.OverlapOK)
	assert.False(t, res.HBondOK)
	assert.Zero(t, f.counts, "detector consulted for a distant pair")
	assert.Zero(t, f.detects)
	assert.Empty(t, res.HBonds)
	assert.Equal(t, types.PairUnknown, res.PairType)
}

func TestStackedPairFailsOverlap(t *testing.T) {
	a := framed(t, types.ResidueAdenine, 0, identity)
	b := framed(t, types.ResidueAdenine, 1, func(p geometry.Vec3) geometry.Vec3 {
		return geometry.Vec3{p[0], p[1], p[2] + 1.0}
	})
	cfg := types.DefaultPipelineConfig().Validation
	cfg.DNN.Min = 0
	f := newFinder()
	res := NewValidator(cfg, f).Validate(a, b)

	assert.True(t, res.DistanceOK)
	assert.False(t, res.OverlapOK)
	assert.Greater(t, res.Overlap, 1.0)
	assert.False(t, res.Valid)
	assert.Zero(t, f.counts)
}

func TestMissingFrame(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	bare := &types.Residue{Index: 1, ResName: "C", Type: types.ResidueCytosine}
	res := NewValidator(types.DefaultPipelineConfig().Validation, newFinder()).Validate(g, bare)
	assert.False(t, res.Valid)
	assert.False(t, res.DistanceOK)
	assert.Zero(t, res.Quality)
}

func TestInvalidConfigRejectsEverything(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	c := framed(t, types.ResidueCytosine, 1, partner(0.2))

	cfg := types.DefaultPipelineConfig().Validation
	cfg.Dorg = types.Range{Min: 10, Max: 5}
	v := NewValidator(cfg, newFinder())
	assert.ErrorIs(t, v.Err(), types.ErrInvalidConfig)
	assert.False(t, v.Validate(g, c).Valid)
}

func TestMinBaseHBondsZero(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	c := framed(t, types.ResidueCytosine, 1, partner(0.2))
	cfg := types.DefaultPipelineConfig().Validation
	cfg.MinBaseHBonds = 0
	assert.True(t, NewValidator(cfg, newFinder()).Validate(g, c).Valid)

	cfg.MinBaseHBonds = 4
	assert.False(t, NewValidator(cfg, newFinder()).Validate(g, c).Valid)
}

func TestGlycosidicAtom(t *testing.T) {
	g := framed(t, types.ResidueGuanine, 0, identity)
	a, ok := GlycosidicAtom(g)
	require.True(t, ok)
	assert.Equal(t, types.AtomN9, a.Name)

	c := framed(t, types.ResidueCytosine, 1, identity)
	a, ok = GlycosidicAtom(c)
	require.True(t, ok)
	assert.Equal(t, types.AtomN1, a.Name)

	psi := &types.Residue{Type: types.ResiduePseudouridine, Atoms: []types.Atom{{Name: types.AtomC5}}}
	a, ok = GlycosidicAtom(psi)
	require.True(t, ok)
	assert.Equal(t, types.AtomC5, a.Name)

	odd := &types.Residue{Type: types.ResidueAdenine, Atoms: []types.Atom{
		{Name: " C1'"}, {Name: " N9A"},
	}}
	a, ok = GlycosidicAtom(odd)
	require.True(t, ok)
	assert.Equal(t, " N9A", a.Name)

	_, ok = GlycosidicAtom(&types.Residue{Type: types.ResidueUracil})
	assert.False(t, ok)
}

func TestStepIdentity(t *testing.T) {
	f := types.ReferenceFrame{Rotation: geometry.Identity()}
	p := Step(f, f)
	for _, v := range p.Slots() {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

func TestStepRiseAndTwist(t *testing.T) {
	f1 := types.ReferenceFrame{Rotation: geometry.Identity()}
	f2 := types.ReferenceFrame{
		Rotation: geometry.ArbRotation(geometry.Vec3{0, 0, 1}, 36),
		Origin:   geometry.Vec3{0, 0, 3.4},
	}
	p := Step(f1, f2)
	assert.InDelta(t, 3.4, p.Rise, 1e-9)
	assert.InDelta(t, 36, p.Twist, 1e-9)
	assert.InDelta(t, 0, p.Shift, 1e-9)
	assert.InDelta(t, 0, p.Slide, 1e-9)
	assert.InDelta(t, 0, p.Roll, 1e-9)
	assert.InDelta(t, 0, p.Tilt, 1e-9)

	f3 := types.ReferenceFrame{Rotation: geometry.Identity(), Origin: geometry.Vec3{1.5, -0.5, 0}}
	p = Step(f1, f3)
	assert.InDelta(t, 1.5, p.Shift, 1e-9)
	assert.InDelta(t, -0.5, p.Slide, 1e-9)
}
