// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrFrameAlreadySet is returned when a residue's reference frame is
// written a second time.
var ErrFrameAlreadySet = errors.New("reference frame already set")

// ResidueType classifies a residue by nucleobase identity.
type ResidueType string

const (
	ResidueAdenine       ResidueType = "A"
	ResidueCytosine      ResidueType = "C"
	ResidueGuanine       ResidueType = "G"
	ResidueThymine       ResidueType = "T"
	ResidueUracil        ResidueType = "U"
	ResidueInosine       ResidueType = "I"
	ResiduePseudouridine ResidueType = "P"
	ResidueUnknown       ResidueType = "unknown"
	ResidueAminoAcid     ResidueType = "amino-acid"
)

// IsNucleotide reports whether t names one of the standard or common
// modified nucleobases.
func (t ResidueType) IsNucleotide() bool {
	switch t {
	case ResidueAdenine, ResidueCytosine, ResidueGuanine, ResidueThymine,
		ResidueUracil, ResidueInosine, ResiduePseudouridine:
		return true
	}
	return false
}

// IsPurine reports whether t is a two-ring base.
func (t ResidueType) IsPurine() bool {
	return t == ResidueAdenine || t == ResidueGuanine || t == ResidueInosine
}

// Letter returns the one-letter base code, or '?' for non-nucleotides.
func (t ResidueType) Letter() byte {
	if t.IsNucleotide() {
		return t[0]
	}
	return '?'
}

// Residue is an ordered set of atoms with a nucleobase classification and
// a write-once reference-frame slot. Classification and atoms are fixed at
// construction; only the frame slot is written later, exactly once, by the
// frame calculator.
type Residue struct {
	// Index is the stable position of the residue in the structure.
	Index int `json:"index" yaml:"index"`

	// ResName is the trimmed residue name from the coordinate file, e.g. "G" or "PSU".
	ResName string `json:"res_name" yaml:"res_name"`

	// Chain is the chain identifier.
	Chain string `json:"chain" yaml:"chain"`

	// SeqNum is the residue sequence number.
	SeqNum int `json:"seq_num" yaml:"seq_num"`

	// InsCode is the insertion code, empty when absent.
	InsCode string `json:"ins_code,omitempty" yaml:"ins_code,omitempty"`

	// Type is the parse-time classification.
	Type ResidueType `json:"type" yaml:"type"`

	// Atoms holds the residue's atoms in file order.
	Atoms []Atom `json:"atoms" yaml:"atoms"`

	slot atomic.Pointer[frameSlot]
}

type frameSlot struct {
	frame ReferenceFrame
	base  ResidueType
}

// Name returns the residue name.
func (r *Residue) Name() string { return r.ResName }

// ChainID returns the chain identifier.
func (r *Residue) ChainID() string { return r.Chain }

// String formats the residue as chain.name+seq, e.g. "A.G12".
func (r *Residue) String() string {
	return fmt.Sprintf("%s.%s%d%s", r.Chain, r.ResName, r.SeqNum, strings.TrimSpace(r.InsCode))
}

// FindAtom returns the first atom with the given four-character name.
func (r *Residue) FindAtom(name string) (Atom, bool) {
	for _, a := range r.Atoms {
		if a.Name == name {
			return a, true
		}
	}
	return Atom{}, false
}

// HasAtom reports whether the residue carries an atom with the given name.
func (r *Residue) HasAtom(name string) bool {
	_, ok := r.FindAtom(name)
	return ok
}

// SetFrame attaches the computed reference frame and the base identity
// that was fitted. The slot can be written once; later calls leave the
// first frame in place and return ErrFrameAlreadySet.
func (r *Residue) SetFrame(f ReferenceFrame, base ResidueType) error {
	if !r.slot.CompareAndSwap(nil, &frameSlot{frame: f, base: base}) {
		return fmt.Errorf("residue %s: %w", r, ErrFrameAlreadySet)
	}
	return nil
}

// Frame returns the attached reference frame, if any.
func (r *Residue) Frame() (ReferenceFrame, bool) {
	s := r.slot.Load()
	if s == nil {
		return ReferenceFrame{}, false
	}
	return s.frame, true
}

// HasFrame reports whether a reference frame has been attached.
func (r *Residue) HasFrame() bool {
	return r.slot.Load() != nil
}

// Base returns the fitted base identity. Before a frame is attached it
// falls back to the parse-time classification.
func (r *Residue) Base() ResidueType {
	if s := r.slot.Load(); s != nil {
		return s.base
	}
	return r.Type
}

// IsPairable reports whether the residue can take part in pair selection:
// it must carry a frame and must not be classified as an amino acid.
func (r *Residue) IsPairable() bool {
	return r.HasFrame() && r.Type != ResidueAminoAcid
}
