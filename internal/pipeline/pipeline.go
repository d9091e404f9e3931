// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the base-pair stages over one structure: frames,
// pair validation, selection and helix assembly. The frame and validation
// stages fan out over a bounded worker pool; selection and assembly run
// sequentially because their iteration order is part of the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pdiddy/basepair-engine/internal/frame"
	"github.com/pdiddy/basepair-engine/internal/hbond"
	"github.com/pdiddy/basepair-engine/internal/helix"
	"github.com/pdiddy/basepair-engine/internal/selector"
	"github.com/pdiddy/basepair-engine/internal/structure"
	"github.com/pdiddy/basepair-engine/internal/validate"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// Recorder receives the outcome of each stage after it completes. Calls
// are made from a single goroutine in stage order. A failing recorder
// produces a warning and never changes the result.
type Recorder interface {
	RecordFrames(ctx context.Context, residues []*types.Residue, frames []types.FrameResult) error
	RecordValidations(ctx context.Context, residues []*types.Residue, results selector.Results) error
	RecordPairs(ctx context.Context, residues []*types.Residue, pairs []types.BasePair) error
	RecordHelices(ctx context.Context, helices []types.Helix) error
}

// Result holds everything the pipeline computed for one structure.
type Result struct {
	Structure *structure.Structure

	// Frames is indexed by residue index. Amino acids keep a zero result.
	Frames []types.FrameResult

	// Validations holds every examined pair: those whose origins are close
	// enough for the distance check to pass. Pairs absent from the map are
	// invalid.
	Validations selector.Results

	Pairs   []types.BasePair
	Helices []types.Helix

	Elapsed time.Duration
}

// NumFrames returns the number of residues with a valid frame.
func (r *Result) NumFrames() int {
	n := 0
	for _, f := range r.Frames {
		if f.Valid {
			n++
		}
	}
	return n
}

// NumValid returns the number of pairs that passed validation.
func (r *Result) NumValid() int {
	n := 0
	for _, v := range r.Validations {
		if v.Valid {
			n++
		}
	}
	return n
}

// Engine runs the pipeline with a fixed configuration. It holds no
// per-structure state and may be reused.
type Engine struct {
	cfg       types.PipelineConfig
	frames    *frame.Calculator
	validator *validate.Validator
	recorder  Recorder
}

// New validates cfg and builds an engine using templates for base fitting.
func New(cfg types.PipelineConfig, templates frame.TemplateSource) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &Engine{
		cfg:       cfg,
		frames:    frame.NewCalculator(templates, cfg.Frame),
		validator: validate.NewValidator(cfg.Validation, hbond.NewDetector(cfg.HBond)),
	}, nil
}

// WithRecorder attaches a diagnostic recorder. Passing nil disables it.
func (e *Engine) WithRecorder(r Recorder) *Engine {
	e.recorder = r
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() types.PipelineConfig { return e.cfg }

func (e *Engine) workers() int {
	if e.cfg.Run.Workers > 0 {
		return e.cfg.Run.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run computes frames, validations, base pairs and helices for s. The
// structure's residues receive their frames in place, so a structure can
// be run only once. Warnings go to w.
func (e *Engine) Run(ctx context.Context, s *structure.Structure, w io.Writer) (*Result, error) {
	start := time.Now()
	res := &Result{Structure: s}

	frames, err := e.computeFrames(s.Residues, w)
	if err != nil {
		return nil, err
	}
	res.Frames = frames
	e.record(w, "frames", func() error { return e.recorder.RecordFrames(ctx, s.Residues, frames) })
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Validations = e.validatePairs(s.Residues)
	e.record(w, "validations", func() error { return e.recorder.RecordValidations(ctx, s.Residues, res.Validations) })
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Pairs, err = selector.Select(res.Validations, s.Residues, e.cfg.Selector, w)
	if err != nil {
		return nil, fmt.Errorf("selecting pairs: %w", err)
	}
	e.record(w, "pairs", func() error { return e.recorder.RecordPairs(ctx, s.Residues, res.Pairs) })

	res.Helices, err = helix.Assemble(res.Pairs, s.Residues, e.cfg.Helix, w)
	if err != nil {
		return nil, fmt.Errorf("assembling helices: %w", err)
	}
	e.record(w, "helices", func() error { return e.recorder.RecordHelices(ctx, res.Helices) })

	res.Elapsed = time.Since(start)
	return res, nil
}

func (e *Engine) record(w io.Writer, stage string, call func() error) {
	if e.recorder == nil {
		return
	}
	if err := call(); err != nil {
		fmt.Fprintf(w, "warning: recording %s: %v\n", stage, err)
	}
}

type frameOutcome struct {
	index  int
	result types.FrameResult
	err    error
}

// computeFrames attaches a frame to every non-amino-acid residue. Each
// residue is handled by exactly one task.
func (e *Engine) computeFrames(residues []*types.Residue, w io.Writer) ([]types.FrameResult, error) {
	for i, r := range residues {
		if r == nil || r.Index != i {
			return nil, fmt.Errorf("residue at position %d does not carry index %d", i, i)
		}
	}

	p := pool.NewWithResults[frameOutcome]().WithMaxGoroutines(e.workers())
	for i, r := range residues {
		if r.Type == types.ResidueAminoAcid {
			continue
		}
		p.Go(func() frameOutcome {
			res, err := e.frames.Attach(r)
			return frameOutcome{index: i, result: res, err: err}
		})
	}

	frames := make([]types.FrameResult, len(residues))
	for _, o := range p.Wait() {
		frames[o.index] = o.result
		if errors.Is(o.err, types.ErrFrameAlreadySet) {
			fmt.Fprintf(w, "warning: %s already carries a frame, kept the first\n", residues[o.index])
		}
	}
	return frames, nil
}

type validationRow struct {
	keys    []types.PairKey
	results []types.ValidationResult
}

// validatePairs validates every pair of pairable residues. Work is split
// by row so each task owns the pairs (i, j>i) and results are merged into
// the map after the pool drains.
func (e *Engine) validatePairs(residues []*types.Residue) selector.Results {
	var pairable []int
	for i, r := range residues {
		if r.IsPairable() {
			pairable = append(pairable, i)
		}
	}

	p := pool.NewWithResults[validationRow]().WithMaxGoroutines(e.workers())
	for a, i := range pairable {
		rest := pairable[a+1:]
		p.Go(func() validationRow {
			var row validationRow
			for _, j := range rest {
				v := e.validator.Validate(residues[i], residues[j])
				if !v.DistanceOK {
					continue
				}
				row.keys = append(row.keys, types.NewPairKey(i, j))
				row.results = append(row.results, v)
			}
			return row
		})
	}

	results := make(selector.Results)
	for _, row := range p.Wait() {
		for k, key := range row.keys {
			results[key] = row.results[k]
		}
	}
	return results
}
