// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure reads atomic coordinates from PDB files into chains,
// residues and atoms with stable residue indices.
package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// ErrNoAtoms is returned when a file holds no usable ATOM/HETATM records.
var ErrNoAtoms = errors.New("no atoms found")

// Chain groups the indices of the residues that share a chain identifier,
// in file order.
type Chain struct {
	ID       string
	Residues []int
}

// Structure is a parsed coordinate file. Residues are indexed by their
// position in Residues; the index never changes after parsing.
type Structure struct {
	ID       string
	Chains   []Chain
	Residues []*types.Residue
}

// NumAtoms returns the total atom count.
func (s *Structure) NumAtoms() int {
	n := 0
	for _, r := range s.Residues {
		n += len(r.Atoms)
	}
	return n
}

// Nucleotides returns the indices of residues classified as nucleotides
// or of unknown type, which are the ones the frame calculator examines.
func (s *Structure) Nucleotides() []int {
	var out []int
	for _, r := range s.Residues {
		if r.Type != types.ResidueAminoAcid {
			out = append(out, r.Index)
		}
	}
	return out
}

// ReadFile parses the PDB file at path. The structure ID is the file name
// without extension.
func ReadFile(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := Read(f, id)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s, nil
}

// Read parses PDB records from r. Only the first model is read; alternate
// locations other than blank or 'A' are skipped.
func Read(r io.Reader, id string) (*Structure, error) {
	s := &Structure{ID: id}
	chainIdx := make(map[string]int)

	var cur *types.Residue
	var curKey string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		record := recordName(line)

		if record == "ENDMDL" || (record == "MODEL" && len(s.Residues) > 0) {
			break
		}
		if record != "ATOM" && record != "HETATM" {
			continue
		}
		if len(line) < 54 {
			return nil, fmt.Errorf("line %d: %s record truncated to %d columns", lineNo, record, len(line))
		}
		if alt := line[16]; alt != ' ' && alt != 'A' {
			continue
		}

		rec, err := parseAtom(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		key := rec.chain + "|" + strconv.Itoa(rec.seqNum) + "|" + rec.insCode + "|" + rec.resName
		if cur == nil || key != curKey {
			cur = &types.Residue{
				Index:   len(s.Residues),
				ResName: rec.resName,
				Chain:   rec.chain,
				SeqNum:  rec.seqNum,
				InsCode: rec.insCode,
				Type:    Classify(rec.resName),
			}
			curKey = key
			s.Residues = append(s.Residues, cur)

			ci, ok := chainIdx[rec.chain]
			if !ok {
				ci = len(s.Chains)
				chainIdx[rec.chain] = ci
				s.Chains = append(s.Chains, Chain{ID: rec.chain})
			}
			s.Chains[ci].Residues = append(s.Chains[ci].Residues, cur.Index)
		}
		if _, dup := cur.FindAtom(rec.atom.Name); dup {
			continue
		}
		rec.atom.ResidueIndex = cur.Index
		cur.Atoms = append(cur.Atoms, rec.atom)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning coordinates: %w", err)
	}
	if len(s.Residues) == 0 {
		return nil, ErrNoAtoms
	}
	return s, nil
}

type atomRecord struct {
	atom    types.Atom
	resName string
	chain   string
	seqNum  int
	insCode string
}

func recordName(line string) string {
	if len(line) > 6 {
		return strings.TrimSpace(line[:6])
	}
	return strings.TrimSpace(line)
}

// parseAtom reads the fixed columns of an ATOM/HETATM record.
// https://www.wwpdb.org/documentation/file-format-content/format33/sect9.html#ATOM
func parseAtom(line string) (atomRecord, error) {
	var rec atomRecord

	name := strings.ReplaceAll(line[12:16], "*", "'")
	rec.resName = strings.TrimSpace(line[17:20])
	rec.chain = strings.TrimSpace(line[21:22])
	seq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return rec, fmt.Errorf("residue number %q: %w", line[22:26], err)
	}
	rec.seqNum = seq
	rec.insCode = strings.TrimSpace(line[26:27])

	var pos geometry.Vec3
	for i, cols := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		v, err := strconv.ParseFloat(strings.TrimSpace(line[cols[0]:cols[1]]), 64)
		if err != nil {
			return rec, fmt.Errorf("coordinate %q: %w", line[cols[0]:cols[1]], err)
		}
		pos[i] = v
	}

	element := ""
	if len(line) >= 78 {
		element = strings.TrimSpace(line[76:78])
	}
	if element == "" {
		element = elementFromName(name)
	}

	rec.atom = types.Atom{
		Name:     name,
		Element:  strings.ToUpper(element),
		Position: pos,
	}
	return rec, nil
}

// elementFromName guesses the element from a four-character atom name:
// the first letter after any leading digits or blanks.
func elementFromName(name string) string {
	for _, c := range name {
		if c >= 'A' && c <= 'Z' {
			return string(c)
		}
	}
	return ""
}
