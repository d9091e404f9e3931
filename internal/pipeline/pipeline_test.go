// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/basepair-engine/internal/selector"
	"github.com/pdiddy/basepair-engine/internal/structure"
	"github.com/pdiddy/basepair-engine/internal/template"
	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

// pdbResidue appends ATOM records for a standard base placed by place.
func pdbResidue(t *testing.T, b *strings.Builder, serial *int, base types.ResidueType, chain string, seq int, place func(geometry.Vec3) geometry.Vec3) {
	t.Helper()
	tmpl, err := template.Standard().Lookup(base)
	require.NoError(t, err)
	for _, a := range tmpl.Atoms {
		p := place(a.XYZ)
		*serial++
		fmt.Fprintf(b, "ATOM  %5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00          %2s\n",
			*serial, a.Name, string(base), chain, seq, p[0], p[1], p[2], strings.TrimSpace(a.Name)[:1])
	}
}

// sampleStructure holds a Watson-Crick G-C pair, a distant adenine and
// one alanine.
func sampleStructure(t *testing.T) *structure.Structure {
	t.Helper()
	var b strings.Builder
	serial := 0
	pdbResidue(t, &b, &serial, types.ResidueGuanine, "A", 1, func(p geometry.Vec3) geometry.Vec3 { return p })
	pdbResidue(t, &b, &serial, types.ResidueCytosine, "A", 2, func(p geometry.Vec3) geometry.Vec3 {
		return geometry.Vec3{p[0] + 0.2, -p[1], -p[2]}
	})
	pdbResidue(t, &b, &serial, types.ResidueAdenine, "A", 3, func(p geometry.Vec3) geometry.Vec3 {
		return p.Add(geometry.Vec3{60, 0, 0})
	})
	fmt.Fprintf(&b, "ATOM  %5d  CA  ALA B   1      30.000  30.000  30.000  1.00  0.00           C\n", serial+1)
	b.WriteString("END\n")

	s, err := structure.Read(strings.NewReader(b.String()), "sample")
	require.NoError(t, err)
	require.Len(t, s.Residues, 4)
	return s
}

type fakeRecorder struct {
	calls []string
	fail  bool
	valid int
}

func (f *fakeRecorder) step(name string) error {
	f.calls = append(f.calls, name)
	if f.fail {
		return errors.New("disk full")
	}
	return nil
}

func (f *fakeRecorder) RecordFrames(_ context.Context, _ []*types.Residue, _ []types.FrameResult) error {
	return f.step("frames")
}

func (f *fakeRecorder) RecordValidations(_ context.Context, _ []*types.Residue, results selector.Results) error {
	for _, v := range results {
		if v.Valid {
			f.valid++
		}
	}
	return f.step("validations")
}

func (f *fakeRecorder) RecordPairs(_ context.Context, _ []*types.Residue, _ []types.BasePair) error {
	return f.step("pairs")
}

func (f *fakeRecorder) RecordHelices(_ context.Context, _ []types.Helix) error {
	return f.step("helices")
}

func newEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	cfg := types.DefaultPipelineConfig()
	cfg.Run.Workers = workers
	e, err := New(cfg, template.Standard())
	require.NoError(t, err)
	return e
}

func TestRunFindsWatsonCrickPair(t *testing.T) {
	s := sampleStructure(t)
	rec := &fakeRecorder{}
	var buf bytes.Buffer
	res, err := newEngine(t, 4).WithRecorder(rec).Run(context.Background(), s, &buf)
	require.NoError(t, err)

	assert.Equal(t, 3, res.NumFrames())
	assert.False(t, res.Frames[3].Valid, "amino acid gets no frame")
	assert.Equal(t, types.ResidueGuanine, res.Frames[0].Base)

	assert.Equal(t, 1, res.NumValid())
	_, examined := res.Validations[types.NewPairKey(0, 2)]
	assert.False(t, examined, "distant pair kept in the table")

	require.Len(t, res.Pairs, 1)
	bp := res.Pairs[0]
	assert.Equal(t, [2]int{0, 1}, [2]int{bp.Res1, bp.Res2})
	assert.Equal(t, types.PairWatsonCrick, bp.Type)
	assert.Len(t, bp.HBonds, 3)

	require.Len(t, res.Helices, 1)
	assert.Equal(t, []int{0}, res.Helices[0].Indices())

	assert.Equal(t, []string{"frames", "validations", "pairs", "helices"}, rec.calls)
	assert.Equal(t, 1, rec.valid)
	assert.Empty(t, buf.String())
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	one, err := newEngine(t, 1).Run(context.Background(), sampleStructure(t), &bytes.Buffer{})
	require.NoError(t, err)
	many, err := newEngine(t, 8).Run(context.Background(), sampleStructure(t), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, one.Frames, many.Frames)
	assert.Equal(t, one.Validations, many.Validations)
	assert.Equal(t, one.Pairs, many.Pairs)
	assert.Equal(t, one.Helices, many.Helices)
}

func TestRecorderFailureOnlyWarns(t *testing.T) {
	rec := &fakeRecorder{fail: true}
	var buf bytes.Buffer
	res, err := newEngine(t, 2).WithRecorder(rec).Run(context.Background(), sampleStructure(t), &buf)
	require.NoError(t, err)
	assert.Len(t, res.Pairs, 1)
	assert.Len(t, rec.calls, 4)
	assert.Equal(t, 4, strings.Count(buf.String(), "warning: recording"))
}

func TestRunTwiceKeepsFirstFrames(t *testing.T) {
	s := sampleStructure(t)
	e := newEngine(t, 2)
	first, err := e.Run(context.Background(), s, &bytes.Buffer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	second, err := e.Run(context.Background(), s, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(buf.String(), "already carries a frame"))
	assert.Equal(t, first.Pairs, second.Pairs)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Helix.HelixBreak = -1
	_, err := New(cfg, template.Standard())
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newEngine(t, 1).Run(ctx, sampleStructure(t), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsMisindexedResidues(t *testing.T) {
	s := sampleStructure(t)
	s.Residues[2].Index = 7
	_, err := newEngine(t, 1).Run(context.Background(), s, &bytes.Buffer{})
	assert.Error(t, err)
}
