// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geometry provides the vector, matrix, and angle primitives shared by
// every stage of the base-pair pipeline, plus the rigid-body least-squares
// fit used to place standard bases onto experimental coordinates.
package geometry

import "math"

// Eps is the length below which a vector is treated as zero.
const Eps = 1.0e-7

// Vec3 is a point or direction in Cartesian space (Å).
type Vec3 [3]float64

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Dot returns the scalar product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns the vector product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. A vector shorter than Eps is
// returned unchanged so callers never divide by zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < Eps {
		return v
	}
	return v.Scale(1 / l)
}

// Dist returns the distance between points v and w.
func (v Vec3) Dist(w Vec3) float64 {
	return v.Sub(w).Len()
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Mid returns the midpoint of v and w.
func Mid(v, w Vec3) Vec3 {
	return v.Add(w).Scale(0.5)
}

// Centroid returns the mean position of pts. It returns the zero vector for
// an empty slice.
func Centroid(pts []Vec3) Vec3 {
	var c Vec3
	if len(pts) == 0 {
		return c
	}
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Orthogonal returns the unit component of v perpendicular to the unit
// vector ref.
func Orthogonal(v, ref Vec3) Vec3 {
	return v.Sub(ref.Scale(v.Dot(ref))).Normalize()
}
