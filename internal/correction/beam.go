// Package correction implements probabilistic word correction: a beam search
// over per-character confusion candidates, scored by trigram plausibility and
// dictionary membership. Correction is best effort and never fails; when no
// candidate beats the original word, the word is returned unchanged.
package correction

import (
	"sort"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/model"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

const reasonConfusion = "confusion"

// Corrector applies confusion-driven corrections to single words. It is
// stateless apart from its immutable models and is safe for concurrent use.
type Corrector struct {
	cfg    config.CorrectionConfig
	models *model.Set
	logger logging.Logger
}

// NewCorrector builds a corrector over the loaded model set.
func NewCorrector(cfg config.CorrectionConfig, models *model.Set, logger logging.Logger) *Corrector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Corrector{cfg: cfg, models: models, logger: logger.Named("correction")}
}

// candidate is one beam state: the word built so far, its accumulated score,
// and the substitutions that produced it.
type candidate struct {
	runes       []rune
	score       float64
	corrections []types.Correction
}

// CorrectWord returns the most plausible reading of word for the given
// language, with the substitutions that produced it. Words found in the
// dictionary are returned untouched. The original word is always a valid
// outcome: a correction is only accepted when its score beats the keep
// everything baseline by the configured margin.
//
// The output is a fixed point: the search repeats until a pass yields no
// further change within the substitution budget, and a changed result is
// kept only when it is a dictionary word or itself stable, so feeding a
// corrected word back in returns it unchanged.
func (c *Corrector) CorrectWord(word string, lang types.LanguageTag) (string, []types.Correction) {
	models := c.models.For(lang)
	if models == nil || word == "" {
		return word, nil
	}

	current := word
	var all []types.Correction
	for budget := c.cfg.MaxCorrectionsPerWord; budget > 0; {
		if models.Dictionary.Contains(model.NormalizeWord(current)) {
			break
		}
		next, corrs := c.search(current, models, budget)
		if len(corrs) == 0 {
			break
		}
		current = next
		all = append(all, corrs...)
		budget -= len(corrs)
	}
	// A non-dictionary result must itself be a stable reading: if another
	// full pass would rewrite it, the correction is not trustworthy and
	// the original word stands.
	if current != word && !models.Dictionary.Contains(model.NormalizeWord(current)) {
		if _, more := c.search(current, models, c.cfg.MaxCorrectionsPerWord); len(more) > 0 {
			return word, nil
		}
	}
	if current != word {
		c.logger.Debug("word corrected",
			logging.String("before", word),
			logging.String("after", current),
			logging.Int("substitutions", len(all)))
	}
	return current, all
}

// search runs one beam pass over word, allowing at most budget
// substitutions, and returns the best accepted state or the word unchanged.
func (c *Corrector) search(word string, models *model.Models, budget int) (string, []types.Correction) {
	runes := []rune(word)
	beam := []candidate{{runes: append([]rune(nil), runes...), score: 1.0}}
	baseline := 1.0

	for i := range runes {
		before := rune(0)
		if i > 0 {
			before = runes[i-1]
		}
		cands := c.admissible(models.Confusion.Candidates(runes[i], before, model.PositionOf(i, len(runes))))
		if len(cands) == 0 {
			continue
		}

		// A branching position: every surviving state pays the trigram
		// cost of whatever it places here, keep branches included, so
		// an implausible original loses ground to its replacements.
		var next []candidate
		for _, state := range beam {
			keep := state
			keep.score *= c.trigramAt(models.NGram, keep.runes, i)
			next = append(next, keep)

			if len(state.corrections) >= budget {
				continue
			}
			for _, cand := range cands {
				sub := candidate{
					runes:       append([]rune(nil), state.runes...),
					corrections: append(append([]types.Correction(nil), state.corrections...), types.Correction{
						Position:   i,
						Before:     string(runes[i]),
						After:      string(cand.Target),
						Reason:     reasonConfusion,
						Confidence: cand.Probability,
					}),
				}
				sub.runes[i] = cand.Target
				sub.score = state.score * cand.Probability * c.trigramAt(models.NGram, sub.runes, i)
				if sub.score >= c.cfg.MinCorrectionConfidence*state.score {
					next = append(next, sub)
				}
			}
		}
		baseline *= c.trigramAt(models.NGram, runes, i)
		beam = c.prune(next)
	}

	best, ok := c.pickBest(beam, models.Dictionary, baseline)
	if !ok {
		return word, nil
	}
	return string(best.runes), best.corrections
}

// admissible filters out candidates below the probability floor.
func (c *Corrector) admissible(cands []model.Candidate) []model.Candidate {
	out := cands[:0:0]
	for _, cand := range cands {
		if cand.Probability >= c.cfg.MinCandidateProbability {
			out = append(out, cand)
		}
	}
	return out
}

// trigramAt scores the trigram window centred on position i. The window is
// clipped at word edges; words shorter than three runes score neutrally.
func (c *Corrector) trigramAt(ngram *model.NGramModel, runes []rune, i int) float64 {
	n := len(runes)
	if n < 3 {
		return 1.0
	}
	lo := i - 1
	switch {
	case lo < 0:
		lo = 0
	case lo > n-3:
		lo = n - 3
	}
	return ngram.ScoreTrigram(string(runes[lo : lo+3]))
}

// prune keeps at most BeamWidth states, ordered by score descending. The
// text tie-break keeps the search deterministic when scores collide.
func (c *Corrector) prune(states []candidate) []candidate {
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].score != states[j].score {
			return states[i].score > states[j].score
		}
		return string(states[i].runes) < string(states[j].runes)
	})
	if len(states) > c.cfg.BeamWidth {
		states = states[:c.cfg.BeamWidth]
	}
	return states
}

// pickBest finalises the beam: dictionary hits earn the configured bonus,
// and the best changed state wins only if it clears the baseline score of
// keeping every character plus the improvement margin.
func (c *Corrector) pickBest(beam []candidate, dict *model.Dictionary, baseline float64) (candidate, bool) {
	var best candidate
	found := false
	for _, state := range beam {
		if len(state.corrections) == 0 {
			continue
		}
		score := state.score
		if dict.Contains(model.NormalizeWord(string(state.runes))) {
			score *= c.cfg.DictionaryBonus
		}
		if !found || score > best.score {
			state.score = score
			best = state
			found = true
		}
	}
	if !found || best.score <= baseline+c.cfg.ImprovementMargin {
		return candidate{}, false
	}
	return best, true
}
