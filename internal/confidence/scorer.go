// Package confidence turns raw engine confidence into a calibrated,
// explainable breakdown. Raw scores from OCR engines are systematically
// optimistic, especially on Arabic, where dot-confusable letter shapes
// inflate apparent certainty.
package confidence

import (
	"strings"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/model"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/script"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Component weights for the overall score. The OCR signal dominates because
// it is the only component that sees the engine's own evidence.
const (
	weightOCR      = 0.4
	weightLanguage = 0.2
	weightContext  = 0.2
	weightSpelling = 0.2
)

// neutralScore stands in for a component that has no model to consult.
const neutralScore = 0.7

// Scorer computes calibrated confidence breakdowns. Safe for concurrent use.
type Scorer struct {
	cfg    config.ConfidenceConfig
	models *model.Set
}

// NewScorer builds a scorer over the loaded model set.
func NewScorer(cfg config.ConfidenceConfig, models *model.Set) *Scorer {
	return &Scorer{cfg: cfg, models: models}
}

// Score produces the breakdown for a region's text given the raw engine
// confidence and the region's detected language.
func (s *Scorer) Score(text string, raw float64, lang types.LanguageTag) types.ConfidenceBreakdown {
	models := s.models.For(lang)

	var issues []string
	ocr := s.ocrScore(text, raw, lang, models)
	language := s.languageScore(text, lang)
	context := s.contextScore(text, models)
	spelling := s.spellingScore(text, models)

	if ocr < 0.5 {
		issues = append(issues, "low calibrated engine confidence")
	}
	if language < 0.6 {
		issues = append(issues, "script does not match detected language")
	}
	if context < 0.5 {
		issues = append(issues, "implausible character sequences")
	}
	if spelling < 0.5 {
		issues = append(issues, "most words missing from dictionary")
	}

	overall := clamp01(weightOCR*ocr + weightLanguage*language +
		weightContext*context + weightSpelling*spelling)
	return types.ConfidenceBreakdown{
		OCR:      ocr,
		Language: language,
		Context:  context,
		Spelling: spelling,
		Overall:  overall,
		IsValid:  overall >= s.cfg.Threshold && len(issues) < s.cfg.MaxIssues,
		Issues:   issues,
	}
}

// ocrScore calibrates the raw engine confidence per language, then applies
// the dot-confusable penalty in proportion to how much of the text is made
// of characters the confusion matrix knows to be ambiguous.
func (s *Scorer) ocrScore(text string, raw float64, lang types.LanguageTag, models *model.Models) float64 {
	factor, ok := s.cfg.CalibrationFactors[string(lang)]
	if !ok {
		factor = 1.0
	}
	score := raw * factor
	if models != nil {
		score -= s.cfg.DotConfusablePenalty * models.Confusion.ConfusableRatio(text)
	}
	return clamp01(score)
}

// languageScore measures how consistently the text's strong characters match
// the claimed language. Digits and punctuation are neutral and ignored.
func (s *Scorer) languageScore(text string, lang types.LanguageTag) float64 {
	want := types.ScriptUnknown
	switch lang {
	case types.LangArabic:
		want = types.ScriptArabic
	case types.LangEnglish:
		want = types.ScriptLatin
	default:
		return 1.0
	}

	var matching, strong int
	for _, r := range text {
		switch script.ClassifyChar(r) {
		case types.ScriptArabic, types.ScriptLatin:
			strong++
			if script.ClassifyChar(r) == want {
				matching++
			}
		}
	}
	if strong == 0 {
		return 1.0
	}
	return float64(matching) / float64(strong)
}

// contextScore maps the word-level trigram score into [0,1]. Scores above
// one indicate frequent sequences and saturate at full confidence.
func (s *Scorer) contextScore(text string, models *model.Models) float64 {
	if models == nil {
		return neutralScore
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return neutralScore
	}
	total := 0.0
	for _, w := range words {
		total += min(1.0, models.NGram.ScoreWord(w))
	}
	return clamp01(total / float64(len(words)))
}

// spellingScore is the fraction of words found in the dictionary. Words that
// normalise to nothing (pure punctuation, digits) do not count against it.
func (s *Scorer) spellingScore(text string, models *model.Models) float64 {
	if models == nil {
		return neutralScore
	}
	var hits, counted int
	for _, w := range strings.Fields(text) {
		norm := model.NormalizeWord(w)
		if norm == "" || isNumeric(norm) {
			continue
		}
		counted++
		if models.Dictionary.Contains(norm) {
			hits++
		}
	}
	if counted == 0 {
		return neutralScore
	}
	return float64(hits) / float64(counted)
}

func isNumeric(word string) bool {
	for _, r := range word {
		if script.ClassifyChar(r) != types.ScriptNumeric {
			return false
		}
	}
	return word != ""
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
