// Package fusion merges word observations from multiple OCR engines into a
// single consensus word with a calibrated confidence.
package fusion

import (
	"sort"
	"strings"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	apperrors "github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Engine fuses per-word observations using engine reliability weights. An
// engine absent from the weight table participates with the default weight.
type Engine struct {
	weights        map[string]float64
	enableCharVote bool
	logger         logging.Logger
}

// NewEngine builds a fusion engine from the fusion section of the config.
func NewEngine(cfg config.FusionConfig, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	weights := make(map[string]float64, len(cfg.EngineWeights))
	for id, w := range cfg.EngineWeights {
		weights[id] = w
	}
	return &Engine{
		weights:        weights,
		enableCharVote: cfg.EnableCharacterVote,
		logger:         logger.Named("fusion"),
	}
}

// Weight returns the reliability weight for an engine.
func (e *Engine) Weight(engineID string) float64 {
	if w, ok := e.weights[engineID]; ok {
		return w
	}
	return config.DefaultEngineWeight()
}

// Fuse merges the observations of a single word. The result does not depend
// on the order of the input slice: observations are sorted by weight and
// engine identifier before any positional rule runs.
func (e *Engine) Fuse(observations []types.EngineObservation) (types.FusedWord, error) {
	if len(observations) == 0 {
		return types.FusedWord{}, apperrors.InvalidInput("fusion requires at least one observation")
	}
	for i := range observations {
		if err := observations[i].Validate(); err != nil {
			return types.FusedWord{}, err
		}
	}

	obs := e.sorted(observations)
	sources := make(map[string]string, len(obs))
	for _, o := range obs {
		sources[o.EngineID] = o.Text
	}

	if len(obs) == 1 {
		return types.FusedWord{
			Text:       obs[0].Text,
			Confidence: obs[0].Confidence,
			Sources:    sources,
			Method:     types.FusionPrimary,
		}, nil
	}

	if text, ok := unanimousText(obs); ok {
		mean := 0.0
		for _, o := range obs {
			mean += o.Confidence
		}
		mean /= float64(len(obs))
		return types.FusedWord{
			Text:       text,
			Confidence: min(1.0, mean*1.1),
			Sources:    sources,
			Method:     types.FusionUnanimous,
		}, nil
	}

	if e.enableCharVote {
		if word, ok := e.characterVote(obs, sources); ok {
			return word, nil
		}
	}

	best := obs[0]
	bestScore := e.Weight(best.EngineID) * best.Confidence
	for _, o := range obs[1:] {
		if score := e.Weight(o.EngineID) * o.Confidence; score > bestScore {
			best, bestScore = o, score
		}
	}
	return types.FusedWord{
		Text:       best.Text,
		Confidence: best.Confidence,
		Sources:    sources,
		Method:     types.FusionWeighted,
	}, nil
}

// sorted returns a copy ordered by descending weight, then by engine
// identifier. The copy keeps Fuse free of side effects on its input.
func (e *Engine) sorted(observations []types.EngineObservation) []types.EngineObservation {
	obs := make([]types.EngineObservation, len(observations))
	copy(obs, observations)
	sort.SliceStable(obs, func(i, j int) bool {
		wi, wj := e.Weight(obs[i].EngineID), e.Weight(obs[j].EngineID)
		if wi != wj {
			return wi > wj
		}
		return obs[i].EngineID < obs[j].EngineID
	})
	return obs
}

func unanimousText(obs []types.EngineObservation) (string, bool) {
	text := obs[0].Text
	for _, o := range obs[1:] {
		if o.Text != text {
			return "", false
		}
	}
	return text, true
}

// characterVote resolves disagreements position by position up to the
// longest observation. Shorter texts simply stop voting at their length;
// only fully empty input is degenerate and falls through to the weighted
// rule. Confidence reflects how many engines read exactly the voted text.
func (e *Engine) characterVote(obs []types.EngineObservation, sources map[string]string) (types.FusedWord, bool) {
	runes := make([][]rune, len(obs))
	maxLen := 0
	for i, o := range obs {
		runes[i] = []rune(o.Text)
		if len(runes[i]) > maxLen {
			maxLen = len(runes[i])
		}
	}
	if maxLen == 0 {
		return types.FusedWord{}, false
	}

	var sb strings.Builder
	for pos := 0; pos < maxLen; pos++ {
		votes := make(map[rune]float64)
		order := make([]rune, 0, len(obs))
		for i, o := range obs {
			if pos >= len(runes[i]) {
				continue
			}
			c := runes[i][pos]
			if _, seen := votes[c]; !seen {
				order = append(order, c)
			}
			votes[c] += e.Weight(o.EngineID) * o.Confidence
		}

		// obs is already in priority order, so the first candidate seen
		// wins ties deterministically.
		winner := order[0]
		for _, c := range order[1:] {
			if votes[c] > votes[winner] {
				winner = c
			}
		}
		sb.WriteRune(winner)
	}

	text := sb.String()
	matching := 0
	for _, o := range obs {
		if o.Text == text {
			matching++
		}
	}
	agreement := float64(matching) / float64(len(obs))
	word := types.FusedWord{
		Text:       text,
		Confidence: 0.5 + agreement*0.5,
		Sources:    sources,
		Method:     types.FusionCharacterVote,
	}
	e.logger.Debug("character vote resolved disagreement",
		logging.String("text", word.Text),
		logging.Float64("agreement", agreement))
	return word, true
}

// GroupObservations clusters raw observations into per-word groups by
// bounding box overlap. An observation joins the first existing group whose
// anchor box overlaps it with IoU at or above the threshold; otherwise it
// starts a new group. Grouping order follows the sorted priority order, so
// the result is deterministic for a given observation set.
func (e *Engine) GroupObservations(observations []types.EngineObservation, iouThreshold float64) [][]types.EngineObservation {
	if len(observations) == 0 {
		return nil
	}
	obs := e.sorted(observations)

	var groups [][]types.EngineObservation
	var anchors []types.BBox
	for _, o := range obs {
		placed := false
		for i, anchor := range anchors {
			if anchor.IoU(o.BBox) >= iouThreshold {
				groups[i] = append(groups[i], o)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []types.EngineObservation{o})
			anchors = append(anchors, o.BBox)
		}
	}
	return groups
}
