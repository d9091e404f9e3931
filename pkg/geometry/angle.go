// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import "math"

const (
	// Deg2Rad converts degrees to radians.
	Deg2Rad = math.Pi / 180
	// Rad2Deg converts radians to degrees.
	Rad2Deg = 180 / math.Pi
)

// Magang returns the angle between v and w in degrees, in [0, 180]. Either
// vector being zero-length yields 0.
func Magang(v, w Vec3) float64 {
	lv, lw := v.Len(), w.Len()
	if lv < Eps || lw < Eps {
		return 0
	}
	c := v.Dot(w) / (lv * lw)
	return math.Acos(clamp(c, -1, 1)) * Rad2Deg
}

// VecAng returns the signed angle in degrees from v to w after both are
// projected onto the plane perpendicular to the unit vector ref. The sign
// is positive when (v × w) points along ref.
func VecAng(v, w, ref Vec3) float64 {
	pv := Orthogonal(v, ref)
	pw := Orthogonal(w, ref)
	ang := Magang(pv, pw)
	if pv.Cross(pw).Dot(ref) < 0 {
		return -ang
	}
	return ang
}

// Angle returns the angle a-b-c at vertex b, in degrees.
func Angle(a, b, c Vec3) float64 {
	return Magang(a.Sub(b), c.Sub(b))
}

// Dihedral returns the torsion angle a-b-c-d in degrees, in (-180, 180].
func Dihedral(a, b, c, d Vec3) float64 {
	b1 := b.Sub(a)
	b2 := c.Sub(b)
	b3 := d.Sub(c)
	x := b1.Cross(b2).Dot(b2.Cross(b3))
	y := b2.Len() * b1.Dot(b2.Cross(b3))
	return math.Atan2(y, x) * Rad2Deg
}

// ArbRotation returns the matrix rotating by angle degrees (right-handed)
// about axis. A zero axis yields the identity.
func ArbRotation(axis Vec3, angle float64) Mat3 {
	if axis.Len() < Eps {
		return Identity()
	}
	u := axis.Normalize()
	a := angle * Deg2Rad
	c, s := math.Cos(a), math.Sin(a)
	d := 1 - c
	return Mat3{
		{c + d*u[0]*u[0], d*u[0]*u[1] - s*u[2], d*u[0]*u[2] + s*u[1]},
		{d*u[1]*u[0] + s*u[2], c + d*u[1]*u[1], d*u[1]*u[2] - s*u[0]},
		{d*u[2]*u[0] - s*u[1], d*u[2]*u[1] + s*u[0], c + d*u[2]*u[2]},
	}
}

// AlignToZ returns the rotation that carries the unit vector v onto the
// global +z axis.
func AlignToZ(v Vec3) Mat3 {
	z := Vec3{0, 0, 1}
	v = v.Normalize()
	axis := v.Cross(z)
	if axis.Len() < Eps {
		if v[2] < 0 {
			return ArbRotation(Vec3{1, 0, 0}, 180)
		}
		return Identity()
	}
	return ArbRotation(axis, Magang(v, z))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
