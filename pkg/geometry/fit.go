// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a least-squares fit cannot be computed
// from the supplied coordinates.
var ErrDegenerateFit = errors.New("degenerate least-squares fit")

// FitResult is the rigid-body transform that best superimposes a reference
// point set onto a target point set: target ≈ Rotation·ref + Translation.
type FitResult struct {
	Rotation    Mat3
	Translation Vec3
	RMS         float64
}

// Apply maps a reference point into the target coordinate system.
func (f FitResult) Apply(p Vec3) Vec3 {
	return f.Rotation.MulVec(p).Add(f.Translation)
}

// Fit computes the least-squares superposition of ref onto target using the
// Kabsch construction: the centroid-subtracted cross-covariance matrix is
// decomposed by SVD and the optimal rotation is V·diag(1,1,d)·Uᵀ, where
// d = sign(det(V·Uᵀ)) removes any reflection.
//
// Fewer than three points, unequal lengths, or non-finite intermediates
// return ErrDegenerateFit.
func Fit(ref, target []Vec3) (FitResult, error) {
	n := len(ref)
	if n != len(target) {
		return FitResult{}, fmt.Errorf("%w: %d reference points, %d target points", ErrDegenerateFit, n, len(target))
	}
	if n < 3 {
		return FitResult{}, fmt.Errorf("%w: %d points", ErrDegenerateFit, n)
	}

	cr := Centroid(ref)
	ct := Centroid(target)

	h := mat.NewDense(3, 3, nil)
	for k := 0; k < n; k++ {
		r := ref[k].Sub(cr)
		t := target[k].Sub(ct)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				h.Set(i, j, h.At(i, j)+r[i]*t[j])
			}
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return FitResult{}, fmt.Errorf("%w: SVD did not converge", ErrDegenerateFit)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1.0
	}

	diag := mat.NewDiagDense(3, []float64{1, 1, d})
	var vd, rot mat.Dense
	vd.Mul(&v, diag)
	rot.Mul(&vd, u.T())

	var res FitResult
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res.Rotation[i][j] = rot.At(i, j)
		}
	}
	if !res.Rotation.IsFinite() {
		return FitResult{}, fmt.Errorf("%w: non-finite rotation", ErrDegenerateFit)
	}
	res.Translation = ct.Sub(res.Rotation.MulVec(cr))

	var sum float64
	for k := 0; k < n; k++ {
		dv := res.Apply(ref[k]).Sub(target[k])
		sum += dv.Dot(dv)
	}
	res.RMS = math.Sqrt(sum / float64(n))
	if math.IsNaN(res.RMS) || math.IsInf(res.RMS, 0) {
		return FitResult{}, fmt.Errorf("%w: non-finite RMS", ErrDegenerateFit)
	}
	return res, nil
}
