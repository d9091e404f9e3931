// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overlap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/basepair-engine/internal/template"
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

func square(x0, y0, side float64) []Point {
	return []Point{{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side}}
}

func reversed(p []Point) []Point {
	out := make([]Point, len(p))
	for i := range p {
		out[i] = p[len(p)-1-i]
	}
	return out
}

func hexagon(cx float64) []Point {
	var p []Point
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		p = append(p, Point{cx + math.Cos(a), math.Sin(a)})
	}
	return p
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b []Point
		want float64
	}{
		{"offset squares", square(0, 0, 2), square(1, 1, 2), 1},
		{"disjoint", square(0, 0, 2), square(5, 5, 2), 0},
		{"contained", square(0, 0, 2), square(0.5, 0.5, 1), 1},
		{"container second", square(0.5, 0.5, 1), square(0, 0, 2), 1},
		{"identical", square(0, 0, 2), square(0, 0, 2), 4},
		{"opposite orientation", square(0, 0, 2), reversed(square(1, 1, 2)), 1},
		{"both clockwise", reversed(square(0, 0, 2)), reversed(square(1, 1, 2)), 1},
		{"shifted hexagons", hexagon(0), hexagon(1), math.Sqrt(3) / 2},
		{"triangles", []Point{{0, 0}, {4, 0}, {0, 4}}, []Point{{1, 1}, {3, 1}, {1, 3}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-6)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestIntersectDegenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []Point
	}{
		{"empty", nil, square(0, 0, 1)},
		{"two vertices", []Point{{0, 0}, {1, 1}}, square(0, 0, 1)},
		{"collinear", []Point{{0, 0}, {1, 0}, {2, 0}}, []Point{{0, 0}, {3, 0}, {1, 0}}},
		{"coincident points", []Point{{1, 1}, {1, 1}, {1, 1}}, []Point{{1, 1}, {1, 1}, {1, 1}}},
		{"NaN vertex", []Point{{0, 0}, {math.NaN(), 1}, {1, 1}}, square(0, 0, 1)},
		{"infinite vertex", square(0, 0, 1), []Point{{0, 0}, {math.Inf(1), 0}, {0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.a, tt.b)
			assert.Equal(t, 0.0, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSignedArea(t *testing.T) {
	assert.InDelta(t, 4, SignedArea(square(0, 0, 2)), 1e-12)
	assert.InDelta(t, -4, SignedArea(reversed(square(0, 0, 2))), 1e-12)
}

func residueFrom(t *testing.T, base types.ResidueType, shift geometry.Vec3) *types.Residue {
	t.Helper()
	tmpl, err := template.Standard().Lookup(base)
	require.NoError(t, err)
	r := &types.Residue{ResName: string(base), Type: base}
	for _, a := range tmpl.Atoms {
		r.Atoms = append(r.Atoms, types.Atom{Name: a.Name, Element: a.Name[1:2], Position: a.XYZ.Add(shift)})
	}
	return r
}

func TestPolygonUsesSubstituents(t *testing.T) {
	g := residueFrom(t, types.ResidueGuanine, geometry.Vec3{})
	p := Polygon(g, geometry.Vec3{}, geometry.Identity())
	require.Len(t, p, len(types.RingAtoms))

	c1, _ := g.FindAtom(types.AtomC1)
	last := p[len(p)-1]
	assert.InDelta(t, c1.Position[0], last.X, 1e-12, "N9 replaced by C1'")
	assert.InDelta(t, c1.Position[1], last.Y, 1e-12)

	o6, _ := g.FindAtom(types.AtomO6)
	assert.InDelta(t, o6.Position[0], p[4].X, 1e-12, "C6 replaced by O6")

	c4, _ := g.FindAtom(" C4 ")
	assert.InDelta(t, c4.Position[0], p[0].X, 1e-12, "C4 has no substituent")

	u := residueFrom(t, types.ResidueUracil, geometry.Vec3{})
	assert.Len(t, Polygon(u, geometry.Vec3{}, geometry.Identity()), types.PyrimidineRingSize)
}

func TestArea(t *testing.T) {
	z := geometry.Vec3{0, 0, 1}

	a := residueFrom(t, types.ResidueAdenine, geometry.Vec3{})
	stacked := residueFrom(t, types.ResidueAdenine, geometry.Vec3{0, 0, 3.4})
	assert.Greater(t, Area(a, stacked, geometry.Vec3{0, 0, 1.7}, z), 5.0)

	far := residueFrom(t, types.ResidueAdenine, geometry.Vec3{20, 0, 0})
	assert.Equal(t, 0.0, Area(a, far, geometry.Vec3{10, 0, 0}, z))

	assert.Equal(t, 0.0, Area(a, stacked, geometry.Vec3{}, geometry.Vec3{}))
	assert.Equal(t, 0.0, Area(a, &types.Residue{}, geometry.Vec3{}, z))
}
