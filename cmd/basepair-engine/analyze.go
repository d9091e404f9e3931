// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/basepair-engine/internal/pipeline"
	"github.com/pdiddy/basepair-engine/internal/recorder"
	"github.com/pdiddy/basepair-engine/internal/structure"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Find base pairs and helices in PDB files",
	Long: `Analyze reads each PDB file, fits reference frames to the nucleotide
bases, validates and selects base pairs and assembles them into helices.
Only the first model of each file is used.

With --db (or run.db_path in the config file) every run is recorded for
later use with the runs command. A failing file does not stop the batch.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print reports as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDB files")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	templates, err := templateProvider()
	if err != nil {
		return err
	}
	engine, err := pipeline.New(cfg.PipelineConfig, templates)
	if err != nil {
		return err
	}

	var store *recorder.Store
	if cfg.Run.DBPath != "" {
		store, err = recorder.Open(cfg.Run.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := logWriter(cmd)
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var reports []report
	analyzed, failed := 0, 0
	for _, path := range args {
		rep, err := analyzeFile(ctx, engine, store, path, w)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			failed++
			continue
		}
		analyzed++
		if jsonOutput {
			reports = append(reports, rep)
			continue
		}
		writeReport(out, rep)
	}

	if jsonOutput {
		if err := writeJSON(out, reports); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d analyzed, %d failed\n", analyzed, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func analyzeFile(ctx context.Context, engine *pipeline.Engine, store *recorder.Store, path string, w io.Writer) (report, error) {
	s, err := structure.ReadFile(path)
	if err != nil {
		return report{}, err
	}

	engine.WithRecorder(nil)
	var runID int64
	if store != nil {
		run, err := store.BeginRun(ctx, s.ID, path, engine.Config())
		if err != nil {
			return report{}, err
		}
		runID = run.ID
		engine.WithRecorder(run)
	}

	res, err := engine.Run(ctx, s, w)
	if err != nil {
		return report{}, err
	}
	rep := buildReport(res)
	rep.RunID = runID
	return rep, nil
}
