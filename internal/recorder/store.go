// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recorder persists pipeline runs in SQLite for later inspection
// and cross-checking: frames, examined pairs, selected base pairs and
// helices, one row set per run.
package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/basepair-engine/internal/selector"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Store manages the run database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating its directory and
// schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			structure_id TEXT NOT NULL,
			source TEXT,
			started_at TEXT NOT NULL,
			config TEXT,
			num_residues INTEGER NOT NULL DEFAULT 0,
			num_frames INTEGER NOT NULL DEFAULT 0,
			num_examined INTEGER NOT NULL DEFAULT 0,
			num_valid INTEGER NOT NULL DEFAULT 0,
			num_pairs INTEGER NOT NULL DEFAULT 0,
			num_helices INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS frames (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			residue_index INTEGER NOT NULL,
			residue TEXT NOT NULL,
			base TEXT,
			valid INTEGER NOT NULL,
			rms REAL,
			num_matched INTEGER,
			template TEXT,
			reason TEXT,
			frame TEXT,
			PRIMARY KEY (run_id, residue_index)
		)`,
		`CREATE TABLE IF NOT EXISTS validations (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			res1 INTEGER NOT NULL,
			res2 INTEGER NOT NULL,
			valid INTEGER NOT NULL,
			dorg REAL, d_v REAL, plane_angle REAL, dnn REAL, overlap REAL,
			quality REAL,
			base_hbonds INTEGER, o2_hbonds INTEGER,
			pair_type TEXT,
			hbonds TEXT,
			PRIMARY KEY (run_id, res1, res2)
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			res1 INTEGER NOT NULL,
			res2 INTEGER NOT NULL,
			label1 TEXT,
			label2 TEXT,
			type TEXT,
			quality REAL,
			hbonds TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS helices (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			pairs TEXT NOT NULL,
			parallel INTEGER, broken_linkage INTEGER, reversal INTEGER,
			left_handed INTEGER, complicated INTEGER,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validations_valid ON validations(run_id, valid)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run records one pipeline run. It satisfies the pipeline's recorder
// interface; each method writes its stage in a single transaction.
type Run struct {
	store *Store
	ID    int64
}

// BeginRun inserts a run row for structureID and returns its recorder.
// The configuration is stored as YAML so a run can be reproduced.
func (s *Store) BeginRun(ctx context.Context, structureID, source string, cfg types.PipelineConfig) (*Run, error) {
	cfgYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (structure_id, source, started_at, config) VALUES (?, ?, ?, ?)`,
		structureID, source, time.Now().UTC().Format(time.RFC3339Nano), string(cfgYAML),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}
	return &Run{store: s, ID: id}, nil
}

// RecordFrames stores one row per residue that was attempted.
func (r *Run) RecordFrames(ctx context.Context, residues []*types.Residue, frames []types.FrameResult) error {
	if len(frames) != len(residues) {
		return fmt.Errorf("%d frame results for %d residues", len(frames), len(residues))
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO frames (run_id, residue_index, residue, base, valid, rms, num_matched, template, reason, frame)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		valid := 0
		for i, f := range frames {
			if residues[i].Type == types.ResidueAminoAcid {
				continue
			}
			var frameJSON []byte
			if f.Valid {
				valid++
				frameJSON, _ = json.Marshal(f.Frame)
			}
			_, err := stmt.ExecContext(ctx,
				r.ID, i, residues[i].String(), string(f.Base), f.Valid, f.RMS,
				f.NumMatched, f.Template, f.Reason, string(frameJSON),
			)
			if err != nil {
				return fmt.Errorf("inserting frame %d: %w", i, err)
			}
		}
		return r.setCounts(ctx, tx, "num_residues = ?, num_frames = ?", len(residues), valid)
	})
}

// RecordValidations stores every examined pair.
func (r *Run) RecordValidations(ctx context.Context, residues []*types.Residue, results selector.Results) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO validations (run_id, res1, res2, valid, dorg, d_v, plane_angle, dnn, overlap,
				quality, base_hbonds, o2_hbonds, pair_type, hbonds)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		valid := 0
		for key, v := range results {
			if key.I < 0 || key.J >= len(residues) {
				return fmt.Errorf("pair (%d,%d) outside %d residues", key.I, key.J, len(residues))
			}
			if v.Valid {
				valid++
			}
			hbJSON, _ := json.Marshal(v.HBonds)
			_, err := stmt.ExecContext(ctx,
				r.ID, key.I, key.J, v.Valid, v.Dorg, v.DV, v.PlaneAngle, v.DNN, v.Overlap,
				v.Quality, v.BaseHBonds, v.O2HBonds, string(v.PairType), string(hbJSON),
			)
			if err != nil {
				return fmt.Errorf("inserting validation (%d,%d): %w", key.I, key.J, err)
			}
		}
		return r.setCounts(ctx, tx, "num_examined = ?, num_valid = ?", len(results), valid)
	})
}

// RecordPairs stores the selected base pairs in selection order.
func (r *Run) RecordPairs(ctx context.Context, residues []*types.Residue, pairs []types.BasePair) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO pairs (run_id, position, res1, res2, label1, label2, type, quality, hbonds)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for k, bp := range pairs {
			if bp.Res1 < 0 || bp.Res2 >= len(residues) {
				return fmt.Errorf("pair %d refers to residue outside [0,%d)", k, len(residues))
			}
			hbJSON, _ := json.Marshal(bp.HBonds)
			_, err := stmt.ExecContext(ctx,
				r.ID, k, bp.Res1, bp.Res2, residues[bp.Res1].String(), residues[bp.Res2].String(),
				string(bp.Type), bp.Quality, string(hbJSON),
			)
			if err != nil {
				return fmt.Errorf("inserting pair %d: %w", k, err)
			}
		}
		return r.setCounts(ctx, tx, "num_pairs = ?", len(pairs))
	})
}

// RecordHelices stores each helix with its ordered pair list.
func (r *Run) RecordHelices(ctx context.Context, helices []types.Helix) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO helices (run_id, position, pairs, parallel, broken_linkage, reversal, left_handed, complicated)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for k, h := range helices {
			pairsJSON, _ := json.Marshal(h.Pairs)
			_, err := stmt.ExecContext(ctx,
				r.ID, k, string(pairsJSON), h.Parallel, h.BrokenLinkage, h.Reversal, h.LeftHanded, h.Complicated,
			)
			if err != nil {
				return fmt.Errorf("inserting helix %d: %w", k, err)
			}
		}
		return r.setCounts(ctx, tx, "num_helices = ?", len(helices))
	})
}

func (r *Run) setCounts(ctx context.Context, tx *sql.Tx, assignments string, args ...any) error {
	args = append(args, r.ID)
	if _, err := tx.ExecContext(ctx, `UPDATE runs SET `+assignments+` WHERE id = ?`, args...); err != nil {
		return fmt.Errorf("updating run counts: %w", err)
	}
	return nil
}

func (r *Run) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
