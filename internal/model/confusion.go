// Package model holds the immutable statistical models consumed by the
// correction pipeline: per-language character confusion matrices, trigram
// language models, and dictionaries. Everything here is loaded once at
// construction and never mutated, so a single instance is safely shared by
// any number of concurrent workers without locking.
package model

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Position describes where a character sits within its word. Arabic letter
// shapes differ per position, and so do their confusion likelihoods.
type Position int

const (
	PositionIsolated Position = iota
	PositionInitial
	PositionMedial
	PositionFinal
)

// PositionOf returns the position class of the character at rune index idx
// in a word of the given rune length.
func PositionOf(idx, length int) Position {
	switch {
	case length <= 1:
		return PositionIsolated
	case idx == 0:
		return PositionInitial
	case idx == length-1:
		return PositionFinal
	default:
		return PositionMedial
	}
}

// Candidate is one possible misread source for a character, with the
// probability that the OCR engine produced the observed character when the
// true character was Target.
type Candidate struct {
	Target      rune
	Probability float64
}

// charClass selects which preceding characters a context rule fires on.
type charClass int

const (
	classAny charClass = iota
	classArabicLetter
	classLatinLetter
	classDigit
	classNone // no preceding character (word-initial)
)

func (c charClass) matches(r rune) bool {
	switch c {
	case classAny:
		return true
	case classArabicLetter:
		return r >= 0x0600 && r <= 0x06FF
	case classLatinLetter:
		return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
	case classDigit:
		return r >= '0' && r <= '9' || (r >= 0x0660 && r <= 0x0669)
	case classNone:
		return r == 0
	}
	return false
}

// contextRule adjusts a base confusion probability multiplicatively when the
// preceding character matches the rule's class.
type contextRule struct {
	source rune
	target rune
	before charClass
	factor float64
}

// ConfusionMatrix is an immutable per-language probabilistic model of which
// characters an OCR engine misreads as which others.
type ConfusionMatrix struct {
	lang            types.LanguageTag
	base            map[rune][]Candidate
	rules           []contextRule
	positionFactors map[Position]float64
}

// NewConfusionMatrix constructs a matrix from base probabilities. Every
// probability must lie in [0,1]; out-of-range values are a fail-fast
// data-load error.
func NewConfusionMatrix(lang types.LanguageTag, base map[rune]map[rune]float64) (*ConfusionMatrix, error) {
	compiled := make(map[rune][]Candidate, len(base))
	for source, targets := range base {
		cands := make([]Candidate, 0, len(targets))
		for target, p := range targets {
			if p < 0 || p > 1 {
				return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
					"confusion probability %q->%q = %.4f outside [0,1]",
					string(source), string(target), p)
			}
			cands = append(cands, Candidate{Target: target, Probability: p})
		}
		sortCandidates(cands)
		compiled[source] = cands
	}

	return &ConfusionMatrix{
		lang:            lang,
		base:            compiled,
		rules:           contextRulesFor(lang),
		positionFactors: defaultPositionFactors(),
	}, nil
}

// defaultPositionFactors reflects that medial Arabic letter forms lose their
// distinguishing dots most often, isolated forms least.
func defaultPositionFactors() map[Position]float64 {
	return map[Position]float64{
		PositionIsolated: 0.95,
		PositionInitial:  1.0,
		PositionMedial:   1.1,
		PositionFinal:    1.05,
	}
}

// Language returns the matrix's language tag.
func (m *ConfusionMatrix) Language() types.LanguageTag {
	return m.lang
}

// IsConfusable reports whether the character has registered confusions.
func (m *ConfusionMatrix) IsConfusable(r rune) bool {
	if m == nil {
		return false
	}
	_, ok := m.base[r]
	return ok
}

// ConfusableRatio returns the fraction of characters in text that have
// registered confusions. Used by the confidence scorer to penalise raw OCR
// confidence on visually ambiguous content.
func (m *ConfusionMatrix) ConfusableRatio(text string) float64 {
	if m == nil || text == "" {
		return 0
	}
	var confusable, total int
	for _, r := range text {
		total++
		if m.IsConfusable(r) {
			confusable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(confusable) / float64(total)
}

// Candidates returns the possible true characters for an observed character
// c, sorted by probability descending. Base probabilities are adjusted
// multiplicatively by context rules matching the preceding character and by
// the character's position class; results are clamped to [0,1]. Characters
// with no registered confusions yield nil.
//
// before is the preceding rune, or 0 at word start. Candidates is nil-safe:
// a nil matrix has no confusions.
func (m *ConfusionMatrix) Candidates(c rune, before rune, pos Position) []Candidate {
	if m == nil {
		return nil
	}
	base, ok := m.base[c]
	if !ok {
		return nil
	}

	posFactor := m.positionFactors[pos]
	if posFactor == 0 {
		posFactor = 1
	}

	out := make([]Candidate, 0, len(base))
	for _, cand := range base {
		p := cand.Probability * posFactor
		for _, rule := range m.rules {
			if rule.source == c && rule.target == cand.Target && rule.before.matches(before) {
				p *= rule.factor
			}
		}
		out = append(out, Candidate{Target: cand.Target, Probability: clamp01(p)})
	}
	sortCandidates(out)
	return out
}

func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Probability != cands[j].Probability {
			return cands[i].Probability > cands[j].Probability
		}
		return cands[i].Target < cands[j].Target
	})
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

// LoadConfusionTable reads a confusion table file: one entry per line,
// whitespace-separated "source target probability". Blank lines and lines
// starting with '#' are skipped. Malformed lines and an empty table are
// fail-fast errors.
func LoadConfusionTable(path string) (map[rune]map[rune]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"open confusion table").WithDetail(path)
	}
	defer f.Close()

	table := make(map[rune]map[rune]float64)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"confusion table %s:%d: want \"source target probability\", got %q",
				path, lineNo, line)
		}
		source, okS := singleRune(fields[0])
		target, okT := singleRune(fields[1])
		if !okS || !okT {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"confusion table %s:%d: source and target must be single characters",
				path, lineNo)
		}
		p, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || p < 0 || p > 1 {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"confusion table %s:%d: probability %q outside [0,1]",
				path, lineNo, fields[2])
		}
		if table[source] == nil {
			table[source] = make(map[rune]float64)
		}
		table[source][target] = p
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"read confusion table").WithDetail(path)
	}
	if len(table) == 0 {
		return nil, errors.New(errors.ErrCodeDataFileEmpty,
			"confusion table contains no entries").WithDetail(path)
	}
	return table, nil
}

func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}
