// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by every pipeline stage:
// structures, reference frames, hydrogen bonds, validation results, base
// pairs, helices, and the configuration for each stage.
package types

import (
	"strings"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
)

// Atom is a single ATOM/HETATM record. Atoms are immutable after parsing.
type Atom struct {
	// Name is the fixed four-character PDB token, e.g. " N1 " or " C1'".
	Name string `json:"name" yaml:"name"`

	// Element is the element symbol, e.g. "N" or "O".
	Element string `json:"element" yaml:"element"`

	// Position is the Cartesian position in Å.
	Position geometry.Vec3 `json:"position" yaml:"position"`

	// ResidueIndex refers back to the owning residue by index (lookup only).
	ResidueIndex int `json:"residue_index" yaml:"residue_index"`
}

// IsHydrogen reports whether the atom is a hydrogen or deuterium.
func (a Atom) IsHydrogen() bool {
	switch strings.ToUpper(a.Element) {
	case "H", "D":
		return true
	case "":
		n := strings.TrimSpace(a.Name)
		return n != "" && (n[0] == 'H' || (n[0] >= '1' && n[0] <= '9' && len(n) > 1 && n[1] == 'H'))
	}
	return false
}

// IsBackbone reports whether the atom belongs to the sugar-phosphate
// backbone rather than the base.
func (a Atom) IsBackbone() bool {
	n := strings.TrimSpace(a.Name)
	if strings.ContainsAny(n, "'*") {
		return true
	}
	switch n {
	case "P", "OP1", "OP2", "OP3", "O1P", "O2P", "O3P":
		return true
	}
	return false
}

// PadName converts a bare atom name such as "N1" into the four-character
// PDB token " N1 ". Names that are already four characters are returned
// unchanged.
func PadName(name string) string {
	if len(name) >= 4 {
		return name[:4]
	}
	return " " + name + strings.Repeat(" ", 3-len(name))
}

// Well-known atom names.
const (
	AtomN1  = " N1 "
	AtomN3  = " N3 "
	AtomN7  = " N7 "
	AtomN9  = " N9 "
	AtomC1  = " C1'"
	AtomC5  = " C5 "
	AtomC8  = " C8 "
	AtomO2s = " O2'"
	AtomO3s = " O3'"
	AtomP   = " P  "
	AtomO6  = " O6 "
	AtomN6  = " N6 "
	AtomN2  = " N2 "
	AtomN4  = " N4 "
	AtomC5M = " C5M"
	AtomC7  = " C7 "
)

// RingAtoms lists the base ring atoms in matching order. Purines use all
// nine; pyrimidines use the first six. Walking the list and closing back to
// the first atom traces the outer boundary of the ring system.
var RingAtoms = [9]string{" C4 ", " N3 ", " C2 ", " N1 ", " C6 ", " C5 ", " N7 ", " C8 ", " N9 "}

// PyrimidineRingSize is the number of ring atoms for a six-membered base.
const PyrimidineRingSize = 6
