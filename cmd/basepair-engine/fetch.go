// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/basepair-engine/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [ids...]",
	Short: "Download PDB entries from the RCSB archive",
	Long: `Fetch downloads coordinate files for four-character PDB identifiers
into the structures directory. Files already present are skipped; rate
limiting is retried with backoff.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("dir", "", "directory for downloaded files (default structures)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().String("base-url", "", "download prefix (default https://files.rcsb.org/download)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDB identifiers")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fc := cfg.Fetch
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		fc.Dir = dir
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		fc.Timeout = timeout
	}
	if base, _ := cmd.Flags().GetString("base-url"); base != "" {
		fc.BaseURL = base
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	_, summary, err := fetch.New(fc, nil).Fetch(ctx, args, logWriter(cmd))
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d identifier(s) failed", summary.Failed)
	}
	return nil
}
