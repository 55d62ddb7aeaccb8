// Package config defines all configuration structures for the OCR fusion and
// post-correction core. No I/O or parsing logic lives here, only plain data
// types and validation; loading is in loader.go.
package config

import (
	"fmt"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
)

// FusionConfig holds multi-engine fusion tunables.
type FusionConfig struct {
	// IoUThreshold is the minimum bounding-box intersection-over-union for
	// two observations to be treated as the same region.
	IoUThreshold float64 `mapstructure:"iou_threshold"`

	// EngineWeights maps engine IDs to their reliability weights used in
	// character voting and weighted fallback selection.
	EngineWeights map[string]float64 `mapstructure:"engine_weights"`

	// EnableCharacterVote toggles character-level voting for disagreeing
	// observations. When false the weighted fallback is used instead.
	EnableCharacterVote bool `mapstructure:"enable_character_vote"`
}

// CorrectionConfig holds beam-search correction tunables.
type CorrectionConfig struct {
	BeamWidth             int     `mapstructure:"beam_width"`
	MaxCorrectionsPerWord int     `mapstructure:"max_corrections_per_word"`

	// MinCorrectionConfidence prunes branches whose score falls below this
	// fraction of their parent path's score.
	MinCorrectionConfidence float64 `mapstructure:"min_correction_confidence"`

	// MinCandidateProbability drops confusion candidates below this
	// probability before branching.
	MinCandidateProbability float64 `mapstructure:"min_candidate_probability"`

	// ImprovementMargin is how much the winning path must exceed the
	// unmodified baseline's score before a correction is accepted.
	ImprovementMargin float64 `mapstructure:"improvement_margin"`

	// DictionaryBonus multiplies the score of a branch whose resulting word
	// is a known dictionary word.
	DictionaryBonus float64 `mapstructure:"dictionary_bonus"`

	// TriggerConfidence is the fused-word confidence below which correction
	// is attempted at all. Words at or above it are passed through.
	TriggerConfidence float64 `mapstructure:"trigger_confidence"`
}

// ConfidenceConfig holds final confidence calibration tunables.
type ConfidenceConfig struct {
	// Threshold is the minimum overall confidence for a result to be valid.
	Threshold float64 `mapstructure:"threshold"`

	// MaxIssues is the issue count at or above which a result is invalid
	// regardless of its overall score.
	MaxIssues int `mapstructure:"max_issues"`

	// CalibrationFactors corrects systematic per-language engine
	// overconfidence, keyed by language tag.
	CalibrationFactors map[string]float64 `mapstructure:"calibration_factors"`

	// DotConfusablePenalty scales the OCR-signal penalty applied per
	// fraction of dot-confusable Arabic characters in the text.
	DotConfusablePenalty float64 `mapstructure:"dot_confusable_penalty"`
}

// BidiConfig holds bidirectional-text tunables.
type BidiConfig struct {
	// DefaultParagraphDirection applies when no strong character is found:
	// "rtl" (default for invoice documents) or "ltr".
	DefaultParagraphDirection string `mapstructure:"default_paragraph_direction"`
}

// PipelineConfig holds orchestration tunables.
type PipelineConfig struct {
	// Workers bounds document-level region fan-out. Zero means
	// runtime.NumCPU.
	Workers int `mapstructure:"workers"`

	// KeepRegions includes per-region results in the final FusionResult.
	KeepRegions bool `mapstructure:"keep_regions"`
}

// DataConfig points at the static data files consumed at construction.
// All maps are keyed by language tag ("arabic", "english"). Missing entries
// fall back to the compiled-in default tables.
type DataConfig struct {
	Dictionaries    map[string]string `mapstructure:"dictionaries"`
	TrigramTables   map[string]string `mapstructure:"trigram_tables"`
	ConfusionTables map[string]string `mapstructure:"confusion_tables"`
}

// MetricsConfig holds metrics collection tunables.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration for the core.
type Config struct {
	Fusion     FusionConfig     `mapstructure:"fusion"`
	Correction CorrectionConfig `mapstructure:"correction"`
	Confidence ConfidenceConfig `mapstructure:"confidence"`
	Bidi       BidiConfig       `mapstructure:"bidi"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Data       DataConfig       `mapstructure:"data"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        logging.Config   `mapstructure:"log"`
}

// Validate checks every tunable against its legal range. Validation failures
// are fail-fast: the pipeline must refuse to start rather than run with a
// threshold or weight that silently skews results.
func (c *Config) Validate() error {
	if c.Fusion.IoUThreshold <= 0 || c.Fusion.IoUThreshold > 1 {
		return errors.Newf(errors.ErrCodeConfigInvalidThreshold,
			"fusion.iou_threshold %.3f outside (0,1]", c.Fusion.IoUThreshold)
	}
	for engine, w := range c.Fusion.EngineWeights {
		if w <= 0 {
			return errors.Newf(errors.ErrCodeConfigInvalidWeight,
				"fusion.engine_weights[%s] = %.3f must be positive", engine, w)
		}
	}

	if c.Correction.BeamWidth < 1 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"correction.beam_width %d must be at least 1", c.Correction.BeamWidth)
	}
	if c.Correction.MaxCorrectionsPerWord < 0 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"correction.max_corrections_per_word %d must not be negative",
			c.Correction.MaxCorrectionsPerWord)
	}
	for name, v := range map[string]float64{
		"correction.min_correction_confidence": c.Correction.MinCorrectionConfidence,
		"correction.min_candidate_probability": c.Correction.MinCandidateProbability,
		"confidence.threshold":                 c.Confidence.Threshold,
	} {
		if v < 0 || v > 1 {
			return errors.Newf(errors.ErrCodeConfigInvalidThreshold,
				"%s %.3f outside [0,1]", name, v)
		}
	}
	if c.Correction.ImprovementMargin < 0 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"correction.improvement_margin %.3f must not be negative",
			c.Correction.ImprovementMargin)
	}
	if c.Correction.DictionaryBonus < 1 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"correction.dictionary_bonus %.3f must be at least 1",
			c.Correction.DictionaryBonus)
	}
	if c.Correction.TriggerConfidence < 0 || c.Correction.TriggerConfidence > 1 {
		return errors.Newf(errors.ErrCodeConfigInvalidThreshold,
			"correction.trigger_confidence %.3f outside [0,1]",
			c.Correction.TriggerConfidence)
	}

	for lang, f := range c.Confidence.CalibrationFactors {
		if f <= 0 || f > 1 {
			return errors.Newf(errors.ErrCodeConfigValidation,
				"confidence.calibration_factors[%s] = %.3f outside (0,1]", lang, f)
		}
	}
	if c.Confidence.MaxIssues < 1 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"confidence.max_issues %d must be at least 1", c.Confidence.MaxIssues)
	}

	switch c.Bidi.DefaultParagraphDirection {
	case "rtl", "ltr":
	default:
		return errors.New(errors.ErrCodeConfigValidation,
			fmt.Sprintf("bidi.default_paragraph_direction %q must be \"rtl\" or \"ltr\"",
				c.Bidi.DefaultParagraphDirection))
	}

	if c.Pipeline.Workers < 0 {
		return errors.Newf(errors.ErrCodeConfigValidation,
			"pipeline.workers %d must not be negative", c.Pipeline.Workers)
	}

	return nil
}
