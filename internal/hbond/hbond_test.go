// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hbond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

func atom(name string, x, y, z float64) types.Atom {
	name = types.PadName(name)
	return types.Atom{Name: name, Element: name[1:2], Position: geometry.Vec3{x, y, z}}
}

func residue(base types.ResidueType, atoms ...types.Atom) *types.Residue {
	return &types.Residue{ResName: string(base), Type: base, Atoms: atoms}
}

func findBond(t *testing.T, bonds []types.HydrogenBond, donor, acceptor string) types.HydrogenBond {
	t.Helper()
	for _, b := range bonds {
		if b.Donor == types.PadName(donor) && b.Acceptor == types.PadName(acceptor) {
			return b
		}
	}
	require.Failf(t, "bond not found", "%s-%s", donor, acceptor)
	return types.HydrogenBond{}
}

// conflictPair has three candidates: N1–N3 (2.90), N2–N3 (3.14) and
// O6–N4 (2.90). The first two share acceptor N3.
func conflictPair() (*types.Residue, *types.Residue) {
	g := residue(types.ResidueGuanine,
		atom("N1", 0, 0, 0),
		atom("N2", 0, 1.2, 0),
		atom("O6", 0, -3, 0),
	)
	c := residue(types.ResidueCytosine,
		atom("N3", 2.9, 0, 0),
		atom("N4", 2.9, -3, 0),
	)
	return g, c
}

func TestConflictResolution(t *testing.T) {
	g, c := conflictPair()
	d := NewDetector(types.DefaultPipelineConfig().HBond)
	res := d.Analyze(g, c)

	require.Len(t, res.Candidates, 3)
	winner := findBond(t, res.Candidates, "N1", "N3")
	assert.Equal(t, types.ConflictWinner, winner.Conflict)
	assert.Equal(t, types.HBondStandard, winner.Class)
	assert.InDelta(t, 2.9, winner.Distance, 1e-9)

	loser := findBond(t, res.Candidates, "N2", "N3")
	assert.Equal(t, types.ConflictSharesAcceptor, loser.Conflict)
	assert.Equal(t, types.HBondInvalid, loser.Class)
	assert.False(t, loser.Promoted)

	other := findBond(t, res.Candidates, "O6", "N4")
	assert.Equal(t, types.ConflictWinner, other.Conflict)
	assert.Equal(t, types.HBondStandard, other.Class)

	require.Len(t, res.Bonds, 2)
	for _, b := range res.Bonds {
		assert.NotEqual(t, types.PadName("N2"), b.Donor)
	}
	assert.Equal(t, res.Bonds, d.Detect(g, c))
}

func TestConflictSharesBoth(t *testing.T) {
	// N1–N3 wins; N2–O2 shares nothing; N1–O2 shares N1 with the first
	// winner and O2 with the second.
	g := residue(types.ResidueGuanine, atom("N1", 0, 0, 0), atom("N2", 0, 3.5, 0))
	c := residue(types.ResidueCytosine, atom("N3", 2.8, 0, 0), atom("O2", 2.2, 2.2, 0))
	res := NewDetector(types.DefaultPipelineConfig().HBond).Analyze(g, c)

	assert.Equal(t, types.ConflictWinner, findBond(t, res.Candidates, "N1", "N3").Conflict)
	assert.Equal(t, types.ConflictWinner, findBond(t, res.Candidates, "N2", "O2").Conflict)
	assert.Equal(t, types.ConflictSharesBoth, findBond(t, res.Candidates, "N1", "O2").Conflict)
}

func TestPromotion(t *testing.T) {
	g, c := conflictPair()
	cfg := types.DefaultPipelineConfig().HBond
	cfg.PromoteDistance = 3.2
	res := NewDetector(cfg).Analyze(g, c)

	promoted := findBond(t, res.Candidates, "N2", "N3")
	assert.True(t, promoted.Promoted)
	assert.Equal(t, types.ConflictSharesAcceptor, promoted.Conflict)
	assert.Equal(t, types.HBondStandard, promoted.Class)
	assert.Len(t, res.Bonds, 3)
}

func TestDetectNoCandidates(t *testing.T) {
	g := residue(types.ResidueGuanine, atom("N1", 0, 0, 0))
	c := residue(types.ResidueCytosine, atom("N3", 10, 0, 0), atom("C4", 2.9, 0, 0))
	d := NewDetector(types.DefaultPipelineConfig().HBond)
	assert.Empty(t, d.Detect(g, c))
	assert.Empty(t, d.Analyze(g, c).Candidates)
}

func TestBaseOnly(t *testing.T) {
	g := residue(types.ResidueGuanine, atom("O2'", 0, 0, 0))
	c := residue(types.ResidueCytosine, atom("O2", 3.0, 0, 0))
	cfg := types.DefaultPipelineConfig().HBond
	assert.Len(t, NewDetector(cfg).Detect(g, c), 1)
	cfg.BaseOnly = true
	assert.Empty(t, NewDetector(cfg).Detect(g, c))
}

func TestAngleScoring(t *testing.T) {
	cfg := types.DefaultPipelineConfig().HBond
	c := residue(types.ResidueCytosine, atom("N3", 2.9, 0, 0), atom("C4", 4.3, 0, 0))

	straight := residue(types.ResidueGuanine, atom("N1", 0, 0, 0), atom("C2", -1.4, 0, 0))
	bonds := NewDetector(cfg).Detect(straight, c)
	require.Len(t, bonds, 1)
	assert.True(t, bonds[0].HasAngles)
	assert.InDelta(t, 180, bonds[0].DonorAngle, 1e-9)
	assert.InDelta(t, 180, bonds[0].AcceptorAngle, 1e-9)

	bent := residue(types.ResidueGuanine, atom("N1", 0, 0, 0), atom("C2", 0.5, 1.3, 0))
	bonds = NewDetector(cfg).Detect(bent, c)
	require.Len(t, bonds, 1)
	assert.Less(t, bonds[0].DonorAngle, 90.0)

	cfg.AngleFilter = true
	assert.Empty(t, NewDetector(cfg).Detect(bent, c))
	assert.Len(t, NewDetector(cfg).Detect(straight, c), 1)
}

func TestCount(t *testing.T) {
	r1 := residue(types.ResidueGuanine,
		atom("N1", 0, 0, 0),
		atom("O2'", 0, 10, 0),
		atom("C8", 0, -2.9, 0),
	)
	r2 := residue(types.ResidueUracil,
		atom("N3", 3.0, 0, 0),
		atom("O4", 0, 13.5, 0),
		atom("O2", 0, -5.8, 0),
	)
	base, o2 := NewDetector(types.DefaultPipelineConfig().HBond).Count(r1, r2)
	assert.Equal(t, 1, base)
	assert.Equal(t, 1, o2)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		b1     types.ResidueType
		a1     types.Atom
		b2     types.ResidueType
		a2     types.Atom
		expect types.HBondClass
	}{
		{"donor to acceptor", types.ResidueGuanine, atom("N1", 0, 0, 0), types.ResidueCytosine, atom("N3", 0, 0, 0), types.HBondStandard},
		{"acceptor to donor", types.ResidueGuanine, atom("O6", 0, 0, 0), types.ResidueCytosine, atom("N4", 0, 0, 0), types.HBondStandard},
		{"acceptor pair", types.ResidueGuanine, atom("O6", 0, 0, 0), types.ResidueCytosine, atom("N3", 0, 0, 0), types.HBondUnlikely},
		{"donor pair", types.ResidueGuanine, atom("N1", 0, 0, 0), types.ResidueCytosine, atom("N4", 0, 0, 0), types.HBondUnlikely},
		{"ribose either", types.ResidueAdenine, atom("O2'", 0, 0, 0), types.ResidueUracil, atom("O2", 0, 0, 0), types.HBondStandard},
		{"phosphate acceptor", types.ResidueAdenine, atom("OP1", 0, 0, 0), types.ResidueGuanine, atom("N2", 0, 0, 0), types.HBondStandard},
		{"unknown role", types.ResidueAdenine, atom("N9", 0, 0, 0), types.ResidueUracil, atom("N3", 0, 0, 0), types.HBondNonStandard},
		{"carbon", types.ResidueAdenine, atom("C8", 0, 0, 0), types.ResidueUracil, atom("O4", 0, 0, 0), types.HBondInvalid},
		{"pseudouridine N1", types.ResiduePseudouridine, atom("N1", 0, 0, 0), types.ResidueAdenine, atom("N7", 0, 0, 0), types.HBondStandard},
		{"uridine N1", types.ResidueUracil, atom("N1", 0, 0, 0), types.ResidueAdenine, atom("N7", 0, 0, 0), types.HBondNonStandard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Classify(tt.b1, tt.a1, tt.b2, tt.a2))
		})
	}
}
