// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Export is the portable form of one recorded run.
type Export struct {
	Run     RunSummary    `json:"run" yaml:"run"`
	Pairs   []PairRecord  `json:"pairs" yaml:"pairs"`
	Helices []HelixRecord `json:"helices" yaml:"helices"`
}

// LoadExport reads a run with its pairs and helices.
func (s *Store) LoadExport(ctx context.Context, runID int64) (*Export, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	pairs, err := s.Pairs(ctx, runID)
	if err != nil {
		return nil, err
	}
	helices, err := s.Helices(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &Export{Run: run, Pairs: pairs, Helices: helices}, nil
}

// ExportYAML writes the run to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, runID int64, path string) error {
	e, err := s.LoadExport(ctx, runID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the run to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, runID int64, path string) error {
	e, err := s.LoadExport(ctx, runID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
