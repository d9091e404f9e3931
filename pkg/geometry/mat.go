// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import "math"

// Mat3 is a 3×3 matrix indexed [row][col]. When it holds a reference frame
// the columns are the frame's x, y, and z axes.
type Mat3 [3][3]float64

// Identity returns the 3×3 identity matrix.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// FromColumns builds a matrix whose columns are x, y, z.
func FromColumns(x, y, z Vec3) Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		m[i][0], m[i][1], m[i][2] = x[i], y[i], z[i]
	}
	return m
}

// Col returns column j.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[0][j], m[1][j], m[2][j]}
}

// Mul returns the matrix product m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var p Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return p
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// T returns the transpose of m.
func (m Mat3) T() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	return m.Col(0).Dot(m.Col(1).Cross(m.Col(2)))
}

// IsOrthonormal reports whether the columns of m are unit length and
// mutually orthogonal within tol, and m is a proper rotation (det ≈ +1).
func (m Mat3) IsOrthonormal(tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(m.Col(i).Len()-1) > tol {
			return false
		}
		for j := i + 1; j < 3; j++ {
			if math.Abs(m.Col(i).Dot(m.Col(j))) > tol {
				return false
			}
		}
	}
	return math.Abs(m.Det()-1) <= tol
}

// IsFinite reports whether no entry of m is NaN or infinite.
func (m Mat3) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if !Vec3(m[i]).IsFinite() {
			return false
		}
	}
	return true
}
