// Package types defines the public data model of the OCR fusion and
// post-correction core: per-engine observations going in, fused and
// corrected words coming out, and the enumerations shared by every
// component in between.
package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
)

// ID is a string alias for UUID v4, used for document and region identifiers.
type ID string

// NewID returns a freshly generated UUID v4 ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Validate reports whether the ID is a well-formed UUID.
func (id ID) Validate() error {
	if id == "" {
		return errors.InvalidInput("id cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return errors.InvalidInput(fmt.Sprintf("id %q is not a valid UUID", id))
	}
	return nil
}

// ScriptType classifies a single character by Unicode script membership.
type ScriptType int

const (
	ScriptUnknown ScriptType = iota
	ScriptArabic
	ScriptLatin
	ScriptNumeric
	ScriptPunctuation
)

// String returns the human-readable representation of a ScriptType.
func (s ScriptType) String() string {
	switch s {
	case ScriptArabic:
		return "arabic"
	case ScriptLatin:
		return "latin"
	case ScriptNumeric:
		return "numeric"
	case ScriptPunctuation:
		return "punctuation"
	default:
		return "unknown"
	}
}

// LanguageTag classifies a whole word.
type LanguageTag string

const (
	LangArabic  LanguageTag = "arabic"
	LangEnglish LanguageTag = "english"
	LangNumeric LanguageTag = "numeric"
	LangMixed   LanguageTag = "mixed"
	LangUnknown LanguageTag = "unknown"
)

// IsTextual reports whether the tag represents natural-language content,
// i.e. participates in code-switch detection. Numeric and Unknown tokens
// are transparent for switching purposes.
func (l LanguageTag) IsTextual() bool {
	return l == LangArabic || l == LangEnglish || l == LangMixed
}

// Direction is a text direction.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == DirectionRTL {
		return DirectionLTR
	}
	return DirectionRTL
}

// FusionMethod records which decision rule produced a FusedWord. The method
// fully determines which confidence formula produced the word's confidence.
type FusionMethod string

const (
	// FusionPrimary: a single observation existed; confidence is passed through.
	FusionPrimary FusionMethod = "primary"
	// FusionUnanimous: all engines agreed; confidence = min(1, mean*1.1).
	FusionUnanimous FusionMethod = "unanimous"
	// FusionCharacterVote: character-level weighted voting;
	// confidence = 0.5 + 0.5 * share of engine texts equal to the result.
	FusionCharacterVote FusionMethod = "character_vote"
	// FusionWeighted: fallback selection of the observation with the highest
	// engine_weight * confidence product; confidence is that observation's.
	FusionWeighted FusionMethod = "weighted"
)

// EngineObservation is one OCR engine's reading of one detected text region.
// Observations are immutable once constructed and owned by the caller; the
// core only reads them.
type EngineObservation struct {
	EngineID   string  `json:"engine_id"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// Validate checks the observation invariants: non-empty engine ID,
// confidence within [0,1], and a non-degenerate bounding box.
func (o EngineObservation) Validate() error {
	if o.EngineID == "" {
		return errors.InvalidInput("observation engine_id cannot be empty")
	}
	if o.Confidence < 0 || o.Confidence > 1 {
		return errors.Newf(errors.ErrCodeInvalidInput,
			"observation confidence %.4f outside [0,1]", o.Confidence)
	}
	if !o.BBox.Valid() {
		return errors.New(errors.ErrCodeFusionInvalidBBox,
			"observation bbox is degenerate").WithDetail(o.BBox.String())
	}
	return nil
}

// FusedWord is the outcome of fusing one region's observations.
// Immutable after creation. Sources preserves each engine's original
// reading keyed by engine ID, so callers can audit what the fusion saw.
type FusedWord struct {
	Text       string            `json:"text"`
	Confidence float64           `json:"confidence"`
	Sources    map[string]string `json:"sources"`
	Method     FusionMethod      `json:"method"`
}

// TaggedWord is a whitespace token with its detected language.
type TaggedWord struct {
	Text         string      `json:"text"`
	Language     LanguageTag `json:"language"`
	Confidence   float64     `json:"confidence"`
	IsCodeSwitch bool        `json:"is_code_switch"`
	Start        int         `json:"start"`
	End          int         `json:"end"`
}

// BidiRun is a maximal same-direction span of text. For any input, the
// ordered runs fully partition [0,len(text)) with no gaps or overlaps.
type BidiRun struct {
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
}

// Correction records a single accepted character- or word-level change.
type Correction struct {
	Position   int     `json:"position"`
	Before     string  `json:"before"`
	After      string  `json:"after"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// ConfidenceBreakdown decomposes a final confidence score into its signals.
// All components are in [0,1].
type ConfidenceBreakdown struct {
	OCR      float64  `json:"ocr"`
	Language float64  `json:"language"`
	Context  float64  `json:"context"`
	Spelling float64  `json:"spelling"`
	Overall  float64  `json:"overall"`
	IsValid  bool     `json:"is_valid"`
	Issues   []string `json:"issues,omitempty"`
}
