// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/basepair-engine/pkg/types"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID          int64  `json:"id" yaml:"id"`
	StructureID string `json:"structure_id" yaml:"structure_id"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	StartedAt   string `json:"started_at" yaml:"started_at"`
	Residues    int    `json:"residues" yaml:"residues"`
	Frames      int    `json:"frames" yaml:"frames"`
	Examined    int    `json:"examined" yaml:"examined"`
	Valid       int    `json:"valid" yaml:"valid"`
	Pairs       int    `json:"pairs" yaml:"pairs"`
	Helices     int    `json:"helices" yaml:"helices"`
}

// ListOptions filters the run listing.
type ListOptions struct {
	// StructureID restricts the listing to one structure.
	StructureID string

	// Limit caps the number of runs; zero means no cap.
	Limit int
}

// PairRecord is a stored base pair.
type PairRecord struct {
	Position int                  `json:"position" yaml:"position"`
	Res1     int                  `json:"res1" yaml:"res1"`
	Res2     int                  `json:"res2" yaml:"res2"`
	Label1   string               `json:"label1" yaml:"label1"`
	Label2   string               `json:"label2" yaml:"label2"`
	Type     types.BasePairType   `json:"type" yaml:"type"`
	Quality  float64              `json:"quality" yaml:"quality"`
	HBonds   []types.HydrogenBond `json:"hbonds" yaml:"hbonds"`
}

// HelixRecord is a stored helix.
type HelixRecord struct {
	Position int `json:"position" yaml:"position"`
	types.Helix `yaml:",inline"`
}

// Runs lists recorded runs, newest first.
func (s *Store) Runs(ctx context.Context, opts ListOptions) ([]RunSummary, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT id, structure_id, source, started_at, num_residues, num_frames,
			num_examined, num_valid, num_pairs, num_helices
		FROM runs WHERE 1=1`)
	if opts.StructureID != "" {
		qb.WriteString(` AND structure_id = ?`)
		args = append(args, opts.StructureID)
	}
	qb.WriteString(` ORDER BY id DESC`)
	if opts.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		rs, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Run returns the summary of one run.
func (s *Store) Run(ctx context.Context, id int64) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, structure_id, source, started_at, num_residues, num_frames,
			num_examined, num_valid, num_pairs, num_helices
		FROM runs WHERE id = ?`, id)
	rs, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return rs, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunSummary, error) {
	var (
		rs     RunSummary
		source sql.NullString
	)
	err := sc.Scan(&rs.ID, &rs.StructureID, &source, &rs.StartedAt, &rs.Residues, &rs.Frames,
		&rs.Examined, &rs.Valid, &rs.Pairs, &rs.Helices)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, fmt.Errorf("scanning run: %w", err)
	}
	rs.Source = source.String
	return rs, nil
}

// Pairs returns the base pairs of a run in selection order.
func (s *Store) Pairs(ctx context.Context, runID int64) ([]PairRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, res1, res2, label1, label2, type, quality, hbonds
		FROM pairs WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var out []PairRecord
	for rows.Next() {
		var (
			p      PairRecord
			typ    string
			hbJSON sql.NullString
		)
		if err := rows.Scan(&p.Position, &p.Res1, &p.Res2, &p.Label1, &p.Label2, &typ, &p.Quality, &hbJSON); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		p.Type = types.BasePairType(typ)
		if hbJSON.Valid && hbJSON.String != "" {
			if err := json.Unmarshal([]byte(hbJSON.String), &p.HBonds); err != nil {
				return nil, fmt.Errorf("decoding hbonds of pair %d: %w", p.Position, err)
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Helices returns the helices of a run in assembly order.
func (s *Store) Helices(ctx context.Context, runID int64) ([]HelixRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, pairs, parallel, broken_linkage, reversal, left_handed, complicated
		FROM helices WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying helices: %w", err)
	}
	defer rows.Close()

	var out []HelixRecord
	for rows.Next() {
		var (
			h         HelixRecord
			pairsJSON string
		)
		if err := rows.Scan(&h.Position, &pairsJSON, &h.Parallel, &h.BrokenLinkage, &h.Reversal, &h.LeftHanded, &h.Complicated); err != nil {
			return nil, fmt.Errorf("scanning helix: %w", err)
		}
		if err := json.Unmarshal([]byte(pairsJSON), &h.Pairs); err != nil {
			return nil, fmt.Errorf("decoding pairs of helix %d: %w", h.Position, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CountFrames returns the number of valid and rejected frames of a run.
func (s *Store) CountFrames(ctx context.Context, runID int64) (valid, rejected int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(valid), 0), COALESCE(SUM(1 - valid), 0) FROM frames WHERE run_id = ?`, runID,
	).Scan(&valid, &rejected)
	if err != nil {
		return 0, 0, fmt.Errorf("counting frames: %w", err)
	}
	return valid, rejected, nil
}
