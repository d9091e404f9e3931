// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hbond

import (
	"strings"

	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Role is the hydrogen-bonding capability of an atom.
type Role byte

const (
	RoleUnknown  Role = '?'
	RoleDonor    Role = 'D'
	RoleAcceptor Role = 'A'
	// RoleEither marks atoms such as O2' that can donate or accept.
	RoleEither Role = 'X'
)

var backboneRoles = map[string]Role{
	" O1P": RoleAcceptor, " O2P": RoleAcceptor,
	" OP1": RoleAcceptor, " OP2": RoleAcceptor,
	" O5'": RoleAcceptor, " O4'": RoleAcceptor, " O3'": RoleAcceptor,
	" O2'": RoleEither,
}

var baseRoles = map[types.ResidueType]map[string]Role{
	types.ResidueAdenine: {
		" N6 ": RoleDonor, " N1 ": RoleAcceptor, " N3 ": RoleAcceptor, " N7 ": RoleAcceptor,
	},
	types.ResidueCytosine: {
		" O2 ": RoleAcceptor, " N3 ": RoleAcceptor, " N4 ": RoleDonor,
	},
	types.ResidueGuanine: {
		" N1 ": RoleDonor, " N2 ": RoleDonor, " O6 ": RoleAcceptor, " N3 ": RoleAcceptor, " N7 ": RoleAcceptor,
	},
	types.ResidueInosine: {
		" N1 ": RoleDonor, " O6 ": RoleAcceptor, " N3 ": RoleAcceptor, " N7 ": RoleAcceptor,
	},
	types.ResidueThymine: {
		" O2 ": RoleAcceptor, " N3 ": RoleDonor, " O4 ": RoleAcceptor,
	},
	types.ResidueUracil: {
		" O2 ": RoleAcceptor, " N3 ": RoleDonor, " O4 ": RoleAcceptor,
	},
	types.ResiduePseudouridine: {
		" O2 ": RoleAcceptor, " N3 ": RoleDonor, " O4 ": RoleAcceptor, " N1 ": RoleDonor,
	},
}

// RoleOf returns the donor/acceptor role of atom name in a residue whose
// base identity is base.
func RoleOf(base types.ResidueType, name string) Role {
	if r, ok := backboneRoles[name]; ok {
		return r
	}
	if r, ok := baseRoles[base][name]; ok {
		return r
	}
	return RoleUnknown
}

var standardCombos = map[[2]Role]bool{
	{RoleAcceptor, RoleDonor}:  true,
	{RoleAcceptor, RoleEither}: true,
	{RoleEither, RoleDonor}:    true,
	{RoleEither, RoleEither}:   true,
	{RoleDonor, RoleAcceptor}:  true,
	{RoleDonor, RoleEither}:    true,
	{RoleEither, RoleAcceptor}: true,
}

// Classify decides the chemistry class of a contact between atom a1 of
// base1 and atom a2 of base2. Atoms that are not nitrogen or oxygen are
// invalid; unknown roles are non-standard; acceptor–acceptor and
// donor–donor contacts are unlikely.
func Classify(base1 types.ResidueType, a1 types.Atom, base2 types.ResidueType, a2 types.Atom) types.HBondClass {
	if !isNO(a1) || !isNO(a2) {
		return types.HBondInvalid
	}
	r1 := RoleOf(base1, a1.Name)
	r2 := RoleOf(base2, a2.Name)
	if r1 == RoleUnknown || r2 == RoleUnknown {
		return types.HBondNonStandard
	}
	if standardCombos[[2]Role{r1, r2}] {
		return types.HBondStandard
	}
	return types.HBondUnlikely
}

func element(a types.Atom) string {
	if a.Element != "" {
		return strings.ToUpper(a.Element)
	}
	for _, c := range a.Name {
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
	}
	return ""
}

func isNO(a types.Atom) bool {
	e := element(a)
	return e == "N" || e == "O"
}
