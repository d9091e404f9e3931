// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"strings"

	"github.com/pdiddy/basepair-engine/pkg/types"
)

var nucleotideNames = map[string]types.ResidueType{
	"A": types.ResidueAdenine, "DA": types.ResidueAdenine, "ADE": types.ResidueAdenine, "RA": types.ResidueAdenine,
	"C": types.ResidueCytosine, "DC": types.ResidueCytosine, "CYT": types.ResidueCytosine, "RC": types.ResidueCytosine,
	"G": types.ResidueGuanine, "DG": types.ResidueGuanine, "GUA": types.ResidueGuanine, "RG": types.ResidueGuanine,
	"T": types.ResidueThymine, "DT": types.ResidueThymine, "THY": types.ResidueThymine,
	"U": types.ResidueUracil, "DU": types.ResidueUracil, "URA": types.ResidueUracil, "RU": types.ResidueUracil,
	"I": types.ResidueInosine, "DI": types.ResidueInosine, "INO": types.ResidueInosine,
	"PSU": types.ResiduePseudouridine,
}

var aminoAcidNames = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"MSE": true, "SEC": true, "PYL": true, "ASX": true, "GLX": true,
}

// Classify maps a residue name to its base identity. Standard nucleotide
// names and pseudouridine are recognized directly; amino acids are marked
// so they are never paired; everything else is unknown and left for the
// frame calculator to identify from its atoms.
func Classify(resName string) types.ResidueType {
	name := strings.ToUpper(strings.TrimSpace(resName))
	if t, ok := nucleotideNames[name]; ok {
		return t
	}
	if aminoAcidNames[name] {
		return types.ResidueAminoAcid
	}
	return types.ResidueUnknown
}

// IsStandardName reports whether the residue name is one of the canonical
// nucleotide names that skip the ring-geometry gate.
func IsStandardName(resName string) bool {
	_, ok := nucleotideNames[strings.ToUpper(strings.TrimSpace(resName))]
	return ok
}
