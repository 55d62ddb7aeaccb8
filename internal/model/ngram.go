package model

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Trigram score bounds. Known frequent trigrams score above 1.0, impossible
// sequences well below, unseen trigrams sit at the neutral default.
const (
	trigramScoreMin = 0.1
	trigramScoreMax = 2.0
	trigramNeutral  = 0.8
)

// NGramModel is an immutable per-language character trigram model used to
// score the plausibility of short character sequences.
type NGramModel struct {
	lang     types.LanguageTag
	trigrams map[string]float64
}

// NewNGramModel constructs a model from a trigram score table. Scores are
// clamped into [trigramScoreMin, trigramScoreMax]; keys that are not exactly
// three runes long are a fail-fast data error.
func NewNGramModel(lang types.LanguageTag, table map[string]float64) (*NGramModel, error) {
	trigrams := make(map[string]float64, len(table))
	for tri, score := range table {
		if len([]rune(tri)) != 3 {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"trigram key %q is not three characters", tri)
		}
		trigrams[tri] = math.Min(trigramScoreMax, math.Max(trigramScoreMin, score))
	}
	return &NGramModel{lang: lang, trigrams: trigrams}, nil
}

// Language returns the model's language tag.
func (m *NGramModel) Language() types.LanguageTag {
	return m.lang
}

// ScoreTrigram scores a three-character sequence. Unseen trigrams score the
// neutral default; sequences shorter or longer than three runes score 1.0
// so that word boundaries do not distort beam-search comparisons.
// Nil-safe: a nil model scores everything 1.0.
func (m *NGramModel) ScoreTrigram(tri string) float64 {
	if m == nil {
		return 1.0
	}
	if len([]rune(tri)) != 3 {
		return 1.0
	}
	if score, ok := m.trigrams[tri]; ok {
		return score
	}
	if m.lang == types.LangArabic && hasImpossibleArabicSequence(tri) {
		return trigramImpossible
	}
	return trigramNeutral
}

// trigramImpossible is the score for structurally impossible sequences.
const trigramImpossible = 0.3

// hasImpossibleArabicSequence detects character pairs Arabic orthography
// forbids: doubled hamza, doubled taa marbuta, and taa marbuta followed by
// a letter (it only occurs word-finally).
func hasImpossibleArabicSequence(tri string) bool {
	runes := []rune(tri)
	for i := 0; i+1 < len(runes); i++ {
		a, b := runes[i], runes[i+1]
		if a == 'ء' && b == 'ء' {
			return true
		}
		if a == 'ة' && b == 'ة' {
			return true
		}
		if a == 'ة' && b >= 0x0621 && b <= 0x064A {
			return true
		}
	}
	return false
}

// ScoreWord returns the geometric mean of the word's overlapping trigram
// scores. Words shorter than three runes score 1.0 (neutral).
func (m *NGramModel) ScoreWord(word string) float64 {
	if m == nil {
		return 1.0
	}
	runes := []rune(word)
	if len(runes) < 3 {
		return 1.0
	}

	logSum := 0.0
	n := 0
	for i := 0; i+3 <= len(runes); i++ {
		logSum += math.Log(m.ScoreTrigram(string(runes[i : i+3])))
		n++
	}
	return math.Exp(logSum / float64(n))
}

// LoadTrigramTable reads a trigram table file: one "trigram score" pair per
// line, whitespace-separated. Blank lines and '#' comments are skipped.
func LoadTrigramTable(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"open trigram table").WithDetail(path)
	}
	defer f.Close()

	table := make(map[string]float64)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"trigram table %s:%d: want \"trigram score\", got %q", path, lineNo, line)
		}
		if len([]rune(fields[0])) != 3 {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"trigram table %s:%d: key %q is not three characters", path, lineNo, fields[0])
		}
		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeDataFileMalformed,
				"trigram table %s:%d: score %q is not a number", path, lineNo, fields[1])
		}
		table[fields[0]] = score
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"read trigram table").WithDetail(path)
	}
	if len(table) == 0 {
		return nil, errors.New(errors.ErrCodeDataFileEmpty,
			"trigram table contains no entries").WithDetail(path)
	}
	return table, nil
}
