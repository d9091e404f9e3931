// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"
)

// ErrInvalidConfig is returned when a threshold is malformed or out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min" mapstructure:"min"`
	Max float64 `json:"max" yaml:"max" mapstructure:"max"`
}

// Contains reports whether Min ≤ v ≤ Max.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
		return fmt.Errorf("%w: %s has NaN bound", ErrInvalidConfig, name)
	}
	if r.Min < 0 {
		return fmt.Errorf("%w: %s minimum %g is negative", ErrInvalidConfig, name, r.Min)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s minimum %g exceeds maximum %g", ErrInvalidConfig, name, r.Min, r.Max)
	}
	return nil
}

// FrameConfig holds settings for the reference frame calculator.
type FrameConfig struct {
	// RMSDCutoff rejects non-standard residues whose ring atoms deviate
	// from ideal geometry by more than this (default 0.2618 Å).
	RMSDCutoff float64 `json:"rmsd_cutoff" yaml:"rmsd_cutoff" mapstructure:"rmsd_cutoff"`

	// TemplateDir optionally overrides the embedded standard bases with
	// YAML templates from a directory.
	TemplateDir string `json:"template_dir,omitempty" yaml:"template_dir,omitempty" mapstructure:"template_dir"`
}

// HBondConfig holds settings for hydrogen-bond detection.
type HBondConfig struct {
	// MinDistance is the lower bound of the candidate window (default 2.2 Å).
	MinDistance float64 `json:"min_distance" yaml:"min_distance" mapstructure:"min_distance"`

	// MaxBaseDistance is the upper bound for base–base candidates (default 3.4 Å).
	MaxBaseDistance float64 `json:"max_base_distance" yaml:"max_base_distance" mapstructure:"max_base_distance"`

	// MaxBackboneDistance is the upper bound when either atom belongs to
	// the sugar-phosphate backbone (default 4.0 Å).
	MaxBackboneDistance float64 `json:"max_backbone_distance" yaml:"max_backbone_distance" mapstructure:"max_backbone_distance"`

	// PromoteDistance is the upper bound of the extended window in which
	// non-winning candidates are promoted. Zero disables promotion.
	PromoteDistance float64 `json:"promote_distance" yaml:"promote_distance" mapstructure:"promote_distance"`

	// BaseOnly restricts the full detector to base atoms.
	BaseOnly bool `json:"base_only" yaml:"base_only" mapstructure:"base_only"`

	// AngleFilter drops bonds whose donor or acceptor angle is below MinAngle.
	AngleFilter bool `json:"angle_filter" yaml:"angle_filter" mapstructure:"angle_filter"`

	// MinAngle is the minimum neighbour–atom–partner angle (default 90°).
	MinAngle float64 `json:"min_angle" yaml:"min_angle" mapstructure:"min_angle"`

	// BondDistance is the covalent-bond cutoff used to find neighbours (default 2.0 Å).
	BondDistance float64 `json:"bond_distance" yaml:"bond_distance" mapstructure:"bond_distance"`
}

// ValidationConfig holds the geometric thresholds for pair validation.
type ValidationConfig struct {
	Dorg       Range `json:"dorg" yaml:"dorg" mapstructure:"dorg"`
	DV         Range `json:"d_v" yaml:"d_v" mapstructure:"d_v"`
	PlaneAngle Range `json:"plane_angle" yaml:"plane_angle" mapstructure:"plane_angle"`
	DNN        Range `json:"dnn" yaml:"dnn" mapstructure:"dnn"`

	// MaxOverlap is the exclusive upper bound on ring overlap area (default 0.01 Å²).
	MaxOverlap float64 `json:"max_overlap" yaml:"max_overlap" mapstructure:"max_overlap"`

	// MinBaseHBonds is the required number of base–base hydrogen bonds
	// (default 1). Zero accepts any base or O2' bond.
	MinBaseHBonds int `json:"min_base_hbonds" yaml:"min_base_hbonds" mapstructure:"min_base_hbonds"`
}

// SelectorConfig holds settings for mutual-best-match selection.
type SelectorConfig struct {
	// GoodHBond is the distance window for bonds that earn a quality bonus
	// (default [2.5, 3.5] Å).
	GoodHBond Range `json:"good_hbond" yaml:"good_hbond" mapstructure:"good_hbond"`

	// WatsonCrickBonus is subtracted from the quality of Watson-Crick pairs (default 2.0).
	WatsonCrickBonus float64 `json:"watson_crick_bonus" yaml:"watson_crick_bonus" mapstructure:"watson_crick_bonus"`
}

// HelixConfig holds settings for helix assembly.
type HelixConfig struct {
	// HelixBreak is the maximum origin distance between stacked pairs (default 7.5 Å).
	HelixBreak float64 `json:"helix_break" yaml:"helix_break" mapstructure:"helix_break"`

	// MaxO3PDistance is the longest O3'–P distance that counts as a backbone link (default 2.5 Å).
	MaxO3PDistance float64 `json:"max_o3p_distance" yaml:"max_o3p_distance" mapstructure:"max_o3p_distance"`
}

// RunConfig holds execution settings that do not affect results.
type RunConfig struct {
	// Workers bounds the goroutines used by the frame and validation stages.
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// DBPath is the recorder database; empty disables recording.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty" mapstructure:"db_path"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Frame      FrameConfig      `json:"frame" yaml:"frame" mapstructure:"frame"`
	HBond      HBondConfig      `json:"hbond" yaml:"hbond" mapstructure:"hbond"`
	Validation ValidationConfig `json:"validation" yaml:"validation" mapstructure:"validation"`
	Selector   SelectorConfig   `json:"selector" yaml:"selector" mapstructure:"selector"`
	Helix      HelixConfig      `json:"helix" yaml:"helix" mapstructure:"helix"`
	Run        RunConfig        `json:"run" yaml:"run" mapstructure:"run"`
}

// DefaultPipelineConfig returns the reference thresholds.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Frame: FrameConfig{RMSDCutoff: 0.2618},
		HBond: HBondConfig{
			MinDistance:         2.2,
			MaxBaseDistance:     3.4,
			MaxBackboneDistance: 4.0,
			MinAngle:            90,
			BondDistance:        2.0,
		},
		Validation: ValidationConfig{
			Dorg:          Range{Min: 0, Max: 15},
			DV:            Range{Min: 0, Max: 2.5},
			PlaneAngle:    Range{Min: 0, Max: 65},
			DNN:           Range{Min: 4.5, Max: 1e18},
			MaxOverlap:    0.01,
			MinBaseHBonds: 1,
		},
		Selector: SelectorConfig{
			GoodHBond:        Range{Min: 2.5, Max: 3.5},
			WatsonCrickBonus: 2.0,
		},
		Helix: HelixConfig{
			HelixBreak:     7.5,
			MaxO3PDistance: 2.5,
		},
		Run: RunConfig{Workers: runtime.GOMAXPROCS(0)},
	}
}

// Validate checks every threshold and returns ErrInvalidConfig for the
// first malformed one.
func (c FrameConfig) Validate() error {
	if !(c.RMSDCutoff > 0) {
		return fmt.Errorf("%w: frame rmsd_cutoff %g must be positive", ErrInvalidConfig, c.RMSDCutoff)
	}
	return nil
}

// Validate checks the hydrogen-bond windows.
func (c HBondConfig) Validate() error {
	if err := (Range{Min: c.MinDistance, Max: c.MaxBaseDistance}).validate("hbond base window"); err != nil {
		return err
	}
	if err := (Range{Min: c.MinDistance, Max: c.MaxBackboneDistance}).validate("hbond backbone window"); err != nil {
		return err
	}
	if math.IsNaN(c.PromoteDistance) || c.PromoteDistance < 0 {
		return fmt.Errorf("%w: hbond promote_distance %g", ErrInvalidConfig, c.PromoteDistance)
	}
	if math.IsNaN(c.MinAngle) || c.MinAngle < 0 || c.MinAngle > 180 {
		return fmt.Errorf("%w: hbond min_angle %g outside [0,180]", ErrInvalidConfig, c.MinAngle)
	}
	if !(c.BondDistance > 0) {
		return fmt.Errorf("%w: hbond bond_distance %g must be positive", ErrInvalidConfig, c.BondDistance)
	}
	return nil
}

// Validate checks the geometric ranges.
func (c ValidationConfig) Validate() error {
	for _, r := range []struct {
		name string
		rng  Range
	}{
		{"dorg", c.Dorg}, {"d_v", c.DV}, {"plane_angle", c.PlaneAngle}, {"dnn", c.DNN},
	} {
		if err := r.rng.validate(r.name); err != nil {
			return err
		}
	}
	if c.PlaneAngle.Max > 90 {
		return fmt.Errorf("%w: plane_angle maximum %g exceeds 90", ErrInvalidConfig, c.PlaneAngle.Max)
	}
	if math.IsNaN(c.MaxOverlap) || c.MaxOverlap < 0 {
		return fmt.Errorf("%w: max_overlap %g", ErrInvalidConfig, c.MaxOverlap)
	}
	if c.MinBaseHBonds < 0 {
		return fmt.Errorf("%w: min_base_hbonds %d is negative", ErrInvalidConfig, c.MinBaseHBonds)
	}
	return nil
}

// Validate checks the selector bonus settings.
func (c SelectorConfig) Validate() error {
	if err := c.GoodHBond.validate("good_hbond"); err != nil {
		return err
	}
	if math.IsNaN(c.WatsonCrickBonus) || c.WatsonCrickBonus < 0 {
		return fmt.Errorf("%w: watson_crick_bonus %g", ErrInvalidConfig, c.WatsonCrickBonus)
	}
	return nil
}

// Validate checks the helix distances.
func (c HelixConfig) Validate() error {
	if !(c.HelixBreak > 0) {
		return fmt.Errorf("%w: helix_break %g must be positive", ErrInvalidConfig, c.HelixBreak)
	}
	if !(c.MaxO3PDistance > 0) {
		return fmt.Errorf("%w: max_o3p_distance %g must be positive", ErrInvalidConfig, c.MaxO3PDistance)
	}
	return nil
}

// Validate checks every stage configuration.
func (c PipelineConfig) Validate() error {
	for _, v := range []interface{ Validate() error }{c.Frame, c.HBond, c.Validation, c.Selector, c.Helix} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidConfig, c.Run.Workers)
	}
	return nil
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	Timeout   time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for downloading coordinate files from a
// structure archive.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the download prefix; files are requested as BaseURL/<ID>.pdb.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Dir is where downloaded files are written.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxRetries bounds retries on rate-limit and unavailable responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Delay is the pause between consecutive downloads.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// DefaultFetchConfig returns settings for the RCSB download service.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "basepair-engine/0.1",
		},
		BaseURL:    "https://files.rcsb.org/download",
		Dir:        "structures",
		MaxRetries: 5,
		Delay:      500 * time.Millisecond,
	}
}
