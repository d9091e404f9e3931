// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

func TestStandardHasEveryBase(t *testing.T) {
	p := Standard()
	for _, base := range []types.ResidueType{
		types.ResidueAdenine, types.ResidueCytosine, types.ResidueGuanine,
		types.ResidueThymine, types.ResidueUracil, types.ResidueInosine,
		types.ResiduePseudouridine,
	} {
		tmpl, err := p.Lookup(base)
		require.NoError(t, err, "base %s", base)
		assert.Equal(t, base, tmpl.Base)
		assert.NotEmpty(t, tmpl.ID)

		n := types.PyrimidineRingSize
		if base.IsPurine() {
			n = len(types.RingAtoms)
		}
		for _, name := range types.RingAtoms[:n] {
			pos, ok := tmpl.Position(name)
			require.True(t, ok, "%s missing ring atom %q", base, name)
			assert.InDelta(t, 0, pos[2], 0.01, "%s %q not planar", base, name)
		}
	}
}

func TestStandardNamesArePadded(t *testing.T) {
	tmpl, err := Standard().Lookup(types.ResidueGuanine)
	require.NoError(t, err)
	_, ok := tmpl.Position(" C1'")
	assert.True(t, ok)
	_, ok = tmpl.Position(types.AtomO6)
	assert.True(t, ok)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Standard().Lookup(types.ResidueUnknown)
	assert.Error(t, err)
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	data := `- base: U
  id: custom-U
  atoms:
    - {name: "N1", xyz: [1, 0, 0]}
    - {name: "C2", xyz: [0, 1, 0]}
    - {name: "N3", xyz: [0, 0, 1]}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "u.yaml"), []byte(data), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	p, err := Load(dir)
	require.NoError(t, err)

	u, err := p.Lookup(types.ResidueUracil)
	require.NoError(t, err)
	assert.Equal(t, "custom-U", u.ID)
	pos, ok := u.Position(types.AtomN1)
	require.True(t, ok)
	assert.Equal(t, geometry.Vec3{1, 0, 0}, pos)

	g, err := p.Lookup(types.ResidueGuanine)
	require.NoError(t, err)
	assert.Equal(t, "Atomic_G.pdb", g.ID)
}

func TestLoadRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown base", "- base: X\n  id: x\n  atoms: []\n"},
		{"too few atoms", "- base: A\n  id: a\n  atoms:\n    - {name: N1, xyz: [0, 0, 0]}\n"},
		{"malformed", "- base: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(tt.data), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
