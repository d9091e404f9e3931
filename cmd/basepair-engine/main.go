// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the basepair-engine CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/basepair-engine/internal/template"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the basepair-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "basepair-engine",
	Short: "Find base pairs and helices in nucleic-acid structures",
	Long: `basepair-engine reads PDB coordinate files, fits a standard reference
frame to every nucleotide base, validates candidate base pairs by geometry
and hydrogen bonding, selects a conflict-free pair set and assembles the
pairs into helices.

Runs can be recorded in a local SQLite database for later inspection and
export. Structures can be fetched from the RCSB archive.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./basepair-engine.yaml or ~/.config/basepair-engine/basepair-engine.yaml)")
	pf.Bool("quiet", false, "suppress progress and warning output")
	pf.String("db", "", "record runs in this SQLite database")
	pf.Int("workers", 0, "goroutines for the frame and validation stages (default GOMAXPROCS)")
	pf.String("templates", "", "directory of base templates overriding the built-in set")

	viper.BindPFlag("run.db_path", pf.Lookup("db"))
	viper.BindPFlag("run.workers", pf.Lookup("workers"))
	viper.BindPFlag("templates", pf.Lookup("templates"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("basepair-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "basepair-engine"))
		}
	}

	viper.SetEnvPrefix("BASEPAIR_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	q, _ := rootCmd.PersistentFlags().GetBool("quiet")
	if err := viper.ReadInConfig(); err == nil && !q {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// fileConfig is the layout of the configuration file: the pipeline
// sections at the top level plus a fetch section.
type fileConfig struct {
	types.PipelineConfig `yaml:",inline" mapstructure:",squash"`

	Fetch types.FetchConfig `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
}

// loadConfig returns the defaults overlaid with the config file,
// environment and flags.
func loadConfig() (fileConfig, error) {
	cfg := fileConfig{
		PipelineConfig: types.DefaultPipelineConfig(),
		Fetch:          types.DefaultFetchConfig(),
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.PipelineConfig.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// templateProvider returns the override templates when configured.
func templateProvider() (*template.Provider, error) {
	if dir := viper.GetString("templates"); dir != "" {
		return template.Load(dir)
	}
	return template.Standard(), nil
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

// logWriter is where progress and warnings go.
func logWriter(cmd *cobra.Command) io.Writer {
	if quiet(cmd) {
		return io.Discard
	}
	return os.Stderr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
