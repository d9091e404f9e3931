// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"math"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// StepParams are the six rigid-body parameters relating two frames,
// expressed in their mid-step frame. Distances are in Å and angles in
// degrees.
type StepParams struct {
	Shift, Slide, Rise float64
	Tilt, Roll, Twist  float64
}

// Slots returns the parameters in their conventional order.
func (p StepParams) Slots() [6]float64 {
	return [6]float64{p.Shift, p.Slide, p.Rise, p.Tilt, p.Roll, p.Twist}
}

// Step computes the parameters that carry frame f1 onto frame f2. The two
// frames are rotated half the roll-tilt angle toward each other about the
// hinge axis; twist is measured between the resulting y axes and the
// translations are projected onto the mid-step axes.
func Step(f1, f2 types.ReferenceFrame) StepParams {
	z1, z2 := f1.Z(), f2.Z()

	hinge := z1.Cross(z2)
	rolltilt := geometry.Magang(z1, z2)
	if hinge.Len() < geometry.Eps && (math.Abs(rolltilt-180) < geometry.Eps || rolltilt < geometry.Eps) {
		hinge = f1.X().Add(f2.X()).Add(f1.Y()).Add(f2.Y())
	}

	para2 := geometry.ArbRotation(hinge, -0.5*rolltilt).Mul(f2.Rotation)
	para1 := geometry.ArbRotation(hinge, 0.5*rolltilt).Mul(f1.Rotation)

	mstz := para2.Col(2)
	y1, y2 := para1.Col(1), para2.Col(1)

	var p StepParams
	p.Twist = geometry.VecAng(y1, y2, mstz)

	msty := geometry.ArbRotation(mstz, 0.5*p.Twist).MulVec(y1)
	mstx := msty.Cross(mstz)

	d := f2.Origin.Sub(f1.Origin)
	p.Shift = d.Dot(mstx)
	p.Slide = d.Dot(msty)
	p.Rise = d.Dot(mstz)

	phi := geometry.VecAng(hinge, msty, mstz) * geometry.Deg2Rad
	p.Roll = rolltilt * math.Cos(phi)
	p.Tilt = rolltilt * math.Sin(phi)
	return p
}
