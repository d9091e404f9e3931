// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HBondClass records the chemistry classification of a hydrogen bond.
type HBondClass string

const (
	// HBondStandard is a donor→acceptor or acceptor→donor bond.
	HBondStandard HBondClass = "standard"
	// HBondNonStandard involves an atom whose donor/acceptor role is unknown.
	HBondNonStandard HBondClass = "non-standard"
	// HBondUnlikely is an acceptor–acceptor or donor–donor contact.
	HBondUnlikely HBondClass = "unlikely-chemistry"
	// HBondInvalid is a candidate that did not survive conflict resolution
	// or involves an atom that cannot form a hydrogen bond.
	HBondInvalid HBondClass = "invalid"
)

// ConflictState records how a candidate fared in conflict resolution.
type ConflictState string

const (
	ConflictNone           ConflictState = "none"
	ConflictWinner         ConflictState = "winner"
	ConflictSharesDonor    ConflictState = "shares-donor"
	ConflictSharesAcceptor ConflictState = "shares-acceptor"
	ConflictSharesBoth     ConflictState = "shares-both"
)

// HydrogenBond is a donor/acceptor contact between two residues. Donor is
// the atom on the first residue and Acceptor the atom on the second; Class
// records whether that contact is chemically standard.
type HydrogenBond struct {
	Donor    string        `json:"donor" yaml:"donor"`
	Acceptor string        `json:"acceptor" yaml:"acceptor"`
	Distance float64       `json:"distance" yaml:"distance"`
	Class    HBondClass    `json:"class" yaml:"class"`
	Conflict ConflictState `json:"conflict" yaml:"conflict"`

	// Promoted is set when a non-winning candidate was admitted through
	// the extended distance window.
	Promoted bool `json:"promoted,omitempty" yaml:"promoted,omitempty"`

	// HasAngles is set when both covalent neighbours were found and the
	// angle fields below are meaningful.
	HasAngles     bool    `json:"has_angles,omitempty" yaml:"has_angles,omitempty"`
	DonorAngle    float64 `json:"donor_angle,omitempty" yaml:"donor_angle,omitempty"`
	AcceptorAngle float64 `json:"acceptor_angle,omitempty" yaml:"acceptor_angle,omitempty"`
	Dihedral      float64 `json:"dihedral,omitempty" yaml:"dihedral,omitempty"`
}

// BasePairType classifies the geometry of a validated pair.
type BasePairType string

const (
	PairUnknown     BasePairType = "unknown"
	PairWatsonCrick BasePairType = "watson-crick"
	PairWobble      BasePairType = "wobble"
	PairOther       BasePairType = "other"
)

// ValidationResult is the outcome of checking one residue pair. It is
// produced and consumed within pair evaluation and selection.
type ValidationResult struct {
	Valid bool `json:"valid" yaml:"valid"`

	DistanceOK   bool `json:"distance_ok" yaml:"distance_ok"`
	VerticalOK   bool `json:"vertical_ok" yaml:"vertical_ok"`
	PlaneAngleOK bool `json:"plane_angle_ok" yaml:"plane_angle_ok"`
	DNNOK        bool `json:"dnn_ok" yaml:"dnn_ok"`
	OverlapOK    bool `json:"overlap_ok" yaml:"overlap_ok"`
	HBondOK      bool `json:"hbond_ok" yaml:"hbond_ok"`

	Dorg       float64 `json:"dorg" yaml:"dorg"`
	DV         float64 `json:"d_v" yaml:"d_v"`
	PlaneAngle float64 `json:"plane_angle" yaml:"plane_angle"`
	DNN        float64 `json:"dnn" yaml:"dnn"`
	Overlap    float64 `json:"overlap" yaml:"overlap"`

	// Quality is dorg + 2·d_v + plane_angle/20; lower is better.
	Quality float64 `json:"quality" yaml:"quality"`

	// DirX, DirY, DirZ are the dot products of the two frames' axes.
	DirX float64 `json:"dir_x" yaml:"dir_x"`
	DirY float64 `json:"dir_y" yaml:"dir_y"`
	DirZ float64 `json:"dir_z" yaml:"dir_z"`

	// BaseHBonds and O2HBonds are the counts from the simple counting pass.
	BaseHBonds int `json:"base_hbonds" yaml:"base_hbonds"`
	O2HBonds   int `json:"o2_hbonds" yaml:"o2_hbonds"`

	// HBonds and PairType are populated only for valid pairs.
	HBonds   []HydrogenBond `json:"hbonds,omitempty" yaml:"hbonds,omitempty"`
	PairType BasePairType   `json:"pair_type" yaml:"pair_type"`
}

// PairKey identifies an unordered residue pair, normalized so I < J.
type PairKey struct {
	I, J int
}

// NewPairKey returns the normalized key for residues i and j.
func NewPairKey(i, j int) PairKey {
	if i > j {
		i, j = j, i
	}
	return PairKey{I: i, J: j}
}

// BasePair is a selected pair of residues. Res1 is always the lower index.
// Frames are copies so the pair does not depend on the structure's lifetime.
type BasePair struct {
	Res1   int            `json:"res1" yaml:"res1"`
	Res2   int            `json:"res2" yaml:"res2"`
	Frame1 ReferenceFrame `json:"frame1" yaml:"frame1"`
	Frame2 ReferenceFrame `json:"frame2" yaml:"frame2"`
	Type   BasePairType   `json:"type" yaml:"type"`
	HBonds []HydrogenBond `json:"hbonds" yaml:"hbonds"`

	// Quality is the adjusted score the selector used to accept the pair.
	Quality float64 `json:"quality" yaml:"quality"`
}

// Key returns the pair's normalized residue key.
func (bp BasePair) Key() PairKey { return PairKey{I: bp.Res1, J: bp.Res2} }

// HelixPair is one base pair within a helix. Swapped means strand 1 of the
// helix runs through Res2 of the base pair rather than Res1.
type HelixPair struct {
	Index   int  `json:"index" yaml:"index"`
	Swapped bool `json:"swapped,omitempty" yaml:"swapped,omitempty"`
}

// Helix is an ordered run of stacked base pairs.
type Helix struct {
	Pairs []HelixPair `json:"pairs" yaml:"pairs"`

	Parallel      bool `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	BrokenLinkage bool `json:"broken_linkage,omitempty" yaml:"broken_linkage,omitempty"`
	Reversal      bool `json:"reversal,omitempty" yaml:"reversal,omitempty"`
	LeftHanded    bool `json:"left_handed,omitempty" yaml:"left_handed,omitempty"`

	// Complicated marks the fallback region holding pairs that could not be
	// linked into a simple helix.
	Complicated bool `json:"complicated,omitempty" yaml:"complicated,omitempty"`
}

// Indices returns the base-pair indices of the helix in order.
func (h Helix) Indices() []int {
	out := make([]int, len(h.Pairs))
	for i, p := range h.Pairs {
		out[i] = p.Index
	}
	return out
}

// HasAnomaly reports whether any direction flag is set.
func (h Helix) HasAnomaly() bool {
	return h.Parallel || h.BrokenLinkage || h.Reversal
}

// Strands returns the residue indices of strand 1 and strand 2 of the
// helix at position k, honouring the stored strand assignment.
func (h Helix) Strands(pairs []BasePair, k int) (int, int) {
	hp := h.Pairs[k]
	bp := pairs[hp.Index]
	if hp.Swapped {
		return bp.Res2, bp.Res1
	}
	return bp.Res1, bp.Res2
}
