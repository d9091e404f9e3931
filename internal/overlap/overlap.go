// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package overlap computes the area shared by two bases' ring polygons
// when both are projected onto a common plane.
package overlap

import (
	"math"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// BondDistance is the longest ring-to-substituent distance treated as a
// covalent bond when building ring polygons.
const BondDistance = 2.0

// Point is a vertex of a projected polygon.
type Point struct {
	X, Y float64
}

// Area returns the overlap area in Å² of the ring polygons of r1 and r2,
// translated to oave and projected onto the plane perpendicular to zave.
// Degenerate input yields 0.
func Area(r1, r2 *types.Residue, oave, zave geometry.Vec3) float64 {
	if !oave.IsFinite() || !zave.IsFinite() || zave.Len() < geometry.Eps {
		return 0
	}
	rot := geometry.AlignToZ(zave)
	a := Polygon(r1, oave, rot)
	b := Polygon(r2, oave, rot)
	return Intersect(a, b)
}

// Polygon returns the projected ring polygon of r. Each ring atom present
// contributes one vertex, in ring order; when the ring atom carries a
// bonded non-hydrogen substituent outside the ring, the nearest such
// substituent is used instead. Coordinates are taken relative to origin
// and rotated by rot before the z component is dropped.
func Polygon(r *types.Residue, origin geometry.Vec3, rot geometry.Mat3) []Point {
	var out []Point
	for _, name := range types.RingAtoms {
		ring, ok := r.FindAtom(name)
		if !ok {
			continue
		}
		pos := ring.Position
		if sub, ok := substituent(r, ring); ok {
			pos = sub.Position
		}
		p := rot.MulVec(pos.Sub(origin))
		out = append(out, Point{X: p[0], Y: p[1]})
	}
	return out
}

func substituent(r *types.Residue, ring types.Atom) (types.Atom, bool) {
	var best types.Atom
	bestDist := BondDistance
	found := false
	for _, a := range r.Atoms {
		if a.IsHydrogen() || isRingAtom(a.Name) {
			continue
		}
		d := a.Position.Dist(ring.Position)
		if d < bestDist {
			best, bestDist, found = a, d, true
		}
	}
	return best, found
}

func isRingAtom(name string) bool {
	for _, n := range types.RingAtoms {
		if n == name {
			return true
		}
	}
	return false
}

// Intersect returns the area common to polygons a and b. Both are
// normalized to counter-clockwise order first, so the result does not
// depend on traversal direction. Fewer than three vertices, a zero-extent
// bounding box, or non-finite coordinates yield 0.
func Intersect(a, b []Point) float64 {
	if len(a) < 3 || len(b) < 3 {
		return 0
	}
	for _, p := range append(a[:len(a):len(a)], b...) {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return 0
		}
	}
	area := math.Abs(latticeIntersect(counterClockwise(a), counterClockwise(b)))
	if math.IsNaN(area) || math.IsInf(area, 0) {
		return 0
	}
	return area
}

// SignedArea returns the shoelace area of p, positive when p runs
// counter-clockwise.
func SignedArea(p []Point) float64 {
	s := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		s += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return s / 2
}

func counterClockwise(p []Point) []Point {
	if SignedArea(p) >= 0 {
		return p
	}
	out := make([]Point, len(p))
	for i := range p {
		out[i] = p[len(p)-1-i]
	}
	return out
}
