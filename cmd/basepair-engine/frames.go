// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/basepair-engine/internal/frame"
	"github.com/pdiddy/basepair-engine/internal/structure"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

var framesCmd = &cobra.Command{
	Use:   "frames [file]",
	Short: "Fit and print the reference frame of every base",
	Long: `Frames fits the standard base template to every non-amino-acid
residue of a PDB file and prints the identified base, the fit RMS and the
frame origin and z axis. Rejected residues are listed with the reason.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrames,
}

func init() {
	framesCmd.Flags().Bool("json", false, "print frame results as JSON")
	rootCmd.AddCommand(framesCmd)
}

type frameRow struct {
	Residue string            `json:"residue"`
	Result  types.FrameResult `json:"result"`
}

func runFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	templates, err := templateProvider()
	if err != nil {
		return err
	}
	s, err := structure.ReadFile(args[0])
	if err != nil {
		return err
	}

	calc := frame.NewCalculator(templates, cfg.Frame)
	var rows []frameRow
	for _, i := range s.Nucleotides() {
		r := s.Residues[i]
		rows = append(rows, frameRow{Residue: r.String(), Result: calc.Compute(r)})
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, rows)
	}

	fmt.Fprintf(out, "%-12s  %-4s  %-7s  %-26s  %-20s  %s\n", "Residue", "Base", "RMS", "Origin", "Z axis", "Note")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	valid := 0
	for _, row := range rows {
		f := row.Result
		if !f.Valid {
			fmt.Fprintf(out, "%-12s  %-4s  %-7s  %-26s  %-20s  %s\n", row.Residue, "-", "-", "-", "-", f.Reason)
			continue
		}
		valid++
		o, z := f.Frame.Origin, f.Frame.Z()
		fmt.Fprintf(out, "%-12s  %-4s  %7.4f  %8.3f %8.3f %8.3f  %6.3f %6.3f %6.3f  %s\n",
			row.Residue, f.Base, f.RMS, o[0], o[1], o[2], z[0], z[1], z[2], f.Template)
	}
	fmt.Fprintf(out, "\n%d of %d residues framed\n", valid, len(rows))
	return nil
}
