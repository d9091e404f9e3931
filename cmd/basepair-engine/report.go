// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/basepair-engine/internal/pipeline"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

type report struct {
	Structure string        `json:"structure"`
	RunID     int64         `json:"run_id,omitempty"`
	Residues  int           `json:"residues"`
	Frames    int           `json:"frames"`
	Examined  int           `json:"examined"`
	Valid     int           `json:"valid"`
	Pairs     []pairReport  `json:"pairs"`
	Helices   []helixReport `json:"helices"`
	ElapsedMS int64         `json:"elapsed_ms"`
}

type pairReport struct {
	Res1    string               `json:"res1"`
	Res2    string               `json:"res2"`
	Type    types.BasePairType   `json:"type"`
	Quality float64              `json:"quality"`
	HBonds  []types.HydrogenBond `json:"hbonds"`
}

type helixReport struct {
	// Pairs are positions in the report's pair list, in helix order.
	Pairs   []int    `json:"pairs"`
	Strand1 []string `json:"strand1"`
	Strand2 []string `json:"strand2"`
	Flags   []string `json:"flags,omitempty"`
}

func buildReport(res *pipeline.Result) report {
	residues := res.Structure.Residues
	rep := report{
		Structure: res.Structure.ID,
		Residues:  len(residues),
		Frames:    res.NumFrames(),
		Examined:  len(res.Validations),
		Valid:     res.NumValid(),
		ElapsedMS: res.Elapsed.Milliseconds(),
		Pairs:     make([]pairReport, len(res.Pairs)),
		Helices:   make([]helixReport, len(res.Helices)),
	}
	for k, bp := range res.Pairs {
		rep.Pairs[k] = pairReport{
			Res1:    residues[bp.Res1].String(),
			Res2:    residues[bp.Res2].String(),
			Type:    bp.Type,
			Quality: bp.Quality,
			HBonds:  bp.HBonds,
		}
	}
	for k, h := range res.Helices {
		hr := helixReport{Pairs: h.Indices(), Flags: helixFlags(h)}
		if !h.Complicated {
			for pos := range h.Pairs {
				s1, s2 := h.Strands(res.Pairs, pos)
				hr.Strand1 = append(hr.Strand1, residues[s1].String())
				hr.Strand2 = append(hr.Strand2, residues[s2].String())
			}
		}
		rep.Helices[k] = hr
	}
	return rep
}

func helixFlags(h types.Helix) []string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{h.Complicated, "complicated"},
		{h.Parallel, "parallel"},
		{h.BrokenLinkage, "broken-linkage"},
		{h.Reversal, "reversal"},
		{h.LeftHanded, "left-handed"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return flags
}

func writeReport(w io.Writer, rep report) {
	fmt.Fprintf(w, "Structure %s: %d residues, %d frames, %d valid of %d examined pairs, %d base pairs, %d helices\n",
		rep.Structure, rep.Residues, rep.Frames, rep.Valid, rep.Examined, len(rep.Pairs), len(rep.Helices))
	if rep.RunID != 0 {
		fmt.Fprintf(w, "Recorded as run %d\n", rep.RunID)
	}
	if len(rep.Pairs) == 0 {
		fmt.Fprintln(w, "No base pairs found.")
		return
	}

	fmt.Fprintf(w, "\n%-4s  %-12s  %-12s  %-12s  %8s  %s\n", "#", "Residue 1", "Residue 2", "Type", "Quality", "H-bonds")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for k, p := range rep.Pairs {
		fmt.Fprintf(w, "%-4d  %-12s  %-12s  %-12s  %8.2f  %s\n", k+1, p.Res1, p.Res2, p.Type, p.Quality, hbondSummary(p.HBonds))
	}

	for k, h := range rep.Helices {
		fmt.Fprintf(w, "\nHelix %d: %d pairs", k+1, len(h.Pairs))
		if len(h.Flags) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(h.Flags, ", "))
		}
		fmt.Fprintln(w)
		for pos, idx := range h.Pairs {
			if pos < len(h.Strand1) {
				fmt.Fprintf(w, "  %4d  %-12s - %-12s\n", idx+1, h.Strand1[pos], h.Strand2[pos])
			} else {
				fmt.Fprintf(w, "  %4d  %-12s - %-12s\n", idx+1, rep.Pairs[idx].Res1, rep.Pairs[idx].Res2)
			}
		}
	}
}

// hbondSummary lists the standard bonds as donor-acceptor[distance].
func hbondSummary(hbonds []types.HydrogenBond) string {
	var parts []string
	for _, hb := range hbonds {
		if hb.Class != types.HBondStandard {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s-%s[%.2f]",
			strings.TrimSpace(hb.Donor), strings.TrimSpace(hb.Acceptor), hb.Distance))
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
