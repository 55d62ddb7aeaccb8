package types

import (
	"github.com/bytedance/sonic"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
)

// RegionResult is the corrected outcome of one detected text region.
type RegionResult struct {
	RegionID    ID                  `json:"region_id"`
	Text        string              `json:"text"`
	Words       []FusedWord         `json:"words"`
	Language    LanguageTag         `json:"language"`
	Direction   Direction           `json:"direction"`
	BBox        BBox                `json:"bbox"`
	Confidence  ConfidenceBreakdown `json:"confidence"`
	Corrections []Correction        `json:"corrections"`
	EnginesUsed []string            `json:"engines_used"`
}

// FusionResult is the assembled output of the whole pipeline for one
// document: final logical-order text plus per-word provenance.
type FusionResult struct {
	DocumentID        ID           `json:"document_id"`
	Text              string       `json:"text"`
	Words             []FusedWord  `json:"words"`
	OverallConfidence float64      `json:"overall_confidence"`
	EnginesUsed       []string     `json:"engines_used"`
	Corrections       []Correction `json:"corrections"`
	Regions           []RegionResult `json:"regions,omitempty"`
}

// JSON serializes the result with sonic.
func (r *FusionResult) JSON() ([]byte, error) {
	data, err := sonic.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "marshal fusion result")
	}
	return data, nil
}

// ParseFusionResult deserializes a result previously produced by JSON.
func ParseFusionResult(data []byte) (*FusionResult, error) {
	var r FusionResult
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "unmarshal fusion result")
	}
	return &r, nil
}
