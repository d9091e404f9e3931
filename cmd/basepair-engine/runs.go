// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/basepair-engine/internal/recorder"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded runs (list, show, export)",
	Long: `Runs reads the SQLite database written by analyze --db. Use
subcommands to list runs, show one run's pairs and helices, or export a
run to YAML or JSON.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	structureID, _ := cmd.Flags().GetString("structure")
	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), recorder.ListOptions{StructureID: structureID, Limit: limit})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-10s  %-30s  %8s  %6s  %6s  %7s\n", "Run", "Structure", "Started", "Residues", "Frames", "Pairs", "Helices")
	fmt.Fprintln(out, strings.Repeat("-", 86))
	for _, r := range runs {
		fmt.Fprintf(out, "%-5d  %-10s  %-30s  %8d  %6d  %6d  %7d\n",
			r.ID, r.StructureID, r.StartedAt, r.Residues, r.Frames, r.Pairs, r.Helices)
	}
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the base pairs and helices of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.LoadExport(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return writeJSON(out, e)
	}

	fmt.Fprintf(out, "Run %d: %s (%s), %d residues, %d frames, %d valid of %d examined pairs\n",
		e.Run.ID, e.Run.StructureID, e.Run.StartedAt, e.Run.Residues, e.Run.Frames, e.Run.Valid, e.Run.Examined)
	for _, p := range e.Pairs {
		fmt.Fprintf(out, "  %4d  %-12s - %-12s  %-12s  %8.2f  %s\n",
			p.Position+1, p.Label1, p.Label2, p.Type, p.Quality, hbondSummary(p.HBonds))
	}
	for _, h := range e.Helices {
		fmt.Fprintf(out, "Helix %d: pairs %v", h.Position+1, oneBased(h.Indices()))
		if flags := helixFlags(h.Helix); len(flags) > 0 {
			fmt.Fprintf(out, " [%s]", strings.Join(flags, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export a run to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(store.Path()), fmt.Sprintf("run-%d.%s", id, format))
	}

	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), id, outPath)
	case "json":
		err = store.ExportJSON(cmd.Context(), id, outPath)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported run %d to %s\n", id, outPath)
	return nil
}

// --- shared helpers ---

func openStore() (*recorder.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Run.DBPath == "" {
		return nil, fmt.Errorf("no run database: pass --db or set run.db_path")
	}
	return recorder.Open(cfg.Run.DBPath)
}

func parseRunID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid run id %q", s)
	}
	return id, nil
}

func oneBased(idx []int) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = v + 1
	}
	return out
}

func init() {
	runsListCmd.Flags().String("structure", "", "only runs of this structure")
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs")
	runsListCmd.Flags().Bool("json", false, "print as JSON")

	runsShowCmd.Flags().Bool("json", false, "print as JSON")

	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	runsExportCmd.Flags().String("out", "", "output path (default run-<id>.<format> next to the database)")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
