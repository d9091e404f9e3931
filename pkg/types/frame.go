// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/pdiddy/basepair-engine/pkg/geometry"

// ReferenceFrame is a right-handed orthonormal coordinate system attached
// to a base: the columns of Rotation are the x, y, z axes and Origin is the
// base's reference point.
type ReferenceFrame struct {
	Rotation geometry.Mat3 `json:"rotation" yaml:"rotation"`
	Origin   geometry.Vec3 `json:"origin" yaml:"origin"`
}

// X returns the frame's x axis.
func (f ReferenceFrame) X() geometry.Vec3 { return f.Rotation.Col(0) }

// Y returns the frame's y axis.
func (f ReferenceFrame) Y() geometry.Vec3 { return f.Rotation.Col(1) }

// Z returns the frame's z axis (the base normal).
func (f ReferenceFrame) Z() geometry.Vec3 { return f.Rotation.Col(2) }

// Flipped returns the frame rotated 180° about its x axis, i.e. with the y
// and z axes reversed. This is how the complementary base of a pair is
// viewed from its partner's strand.
func (f ReferenceFrame) Flipped() ReferenceFrame {
	return ReferenceFrame{
		Rotation: geometry.FromColumns(f.X(), f.Y().Neg(), f.Z().Neg()),
		Origin:   f.Origin,
	}
}

// FrameResult is the outcome of fitting a standard base onto a residue.
type FrameResult struct {
	// Valid is false when the residue is not nucleotide-like or the fit failed.
	Valid bool `json:"valid" yaml:"valid"`

	// Frame is the fitted reference frame; zero when Valid is false.
	Frame ReferenceFrame `json:"frame" yaml:"frame"`

	// RMS is the root-mean-square deviation of the final fit (Å).
	RMS float64 `json:"rms" yaml:"rms"`

	// MatchedAtoms lists the ring atom names used in the fit, in matching order.
	MatchedAtoms []string `json:"matched_atoms" yaml:"matched_atoms"`

	// NumMatched is len(MatchedAtoms).
	NumMatched int `json:"num_matched" yaml:"num_matched"`

	// Base is the identified base used to pick the template.
	Base ResidueType `json:"base" yaml:"base"`

	// Template is the human-readable template identifier (diagnostics only).
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// Reason explains a rejection; empty when Valid.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}
