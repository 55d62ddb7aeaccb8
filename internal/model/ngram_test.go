package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func TestNewNGramModel_RejectsBadKey(t *testing.T) {
	_, err := NewNGramModel(types.LangEnglish, map[string]float64{"ab": 1.2})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataFileMalformed))
}

func TestNewNGramModel_ClampsScores(t *testing.T) {
	m, err := NewNGramModel(types.LangEnglish, map[string]float64{
		"abc": 99.0,
		"def": 0.0001,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.ScoreTrigram("abc"), 1e-9)
	assert.InDelta(t, 0.1, m.ScoreTrigram("def"), 1e-9)
}

func TestScoreTrigram(t *testing.T) {
	m, err := NewNGramModel(types.LangArabic, map[string]float64{"لضر": 1.3})
	require.NoError(t, err)

	assert.InDelta(t, 1.3, m.ScoreTrigram("لضر"), 1e-9)
	// Unseen trigrams sit at the neutral default.
	assert.InDelta(t, 0.8, m.ScoreTrigram("لصر"), 1e-9)
	// Wrong lengths are scoring no-ops.
	assert.InDelta(t, 1.0, m.ScoreTrigram("اب"), 1e-9)
	assert.InDelta(t, 1.0, m.ScoreTrigram("ابجد"), 1e-9)
}

func TestScoreTrigram_ImpossibleArabicSequences(t *testing.T) {
	m, err := NewNGramModel(types.LangArabic, map[string]float64{"لضر": 1.3})
	require.NoError(t, err)

	assert.InDelta(t, 0.3, m.ScoreTrigram("ءءا"), 1e-9)
	assert.InDelta(t, 0.3, m.ScoreTrigram("اةة"), 1e-9)
	// Taa marbuta followed by a letter only occurs in misreads.
	assert.InDelta(t, 0.3, m.ScoreTrigram("ةمر"), 1e-9)
}

func TestScoreTrigram_ImpossibleRuleIsArabicOnly(t *testing.T) {
	m, err := NewNGramModel(types.LangEnglish, map[string]float64{"abc": 1.2})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, m.ScoreTrigram("ةمر"), 1e-9)
}

func TestScoreTrigram_NilModel(t *testing.T) {
	var m *NGramModel
	assert.InDelta(t, 1.0, m.ScoreTrigram("abc"), 1e-9)
}

func TestScoreWord_GeometricMean(t *testing.T) {
	m, err := NewNGramModel(types.LangEnglish, map[string]float64{
		"abc": 2.0,
		"bcd": 0.5,
	})
	require.NoError(t, err)

	// Two trigrams: sqrt(2.0 * 0.5) = 1.0.
	assert.InDelta(t, 1.0, m.ScoreWord("abcd"), 1e-9)
	// Short words are neutral.
	assert.InDelta(t, 1.0, m.ScoreWord("ab"), 1e-9)
}

func TestScoreWord_BoundedByClamps(t *testing.T) {
	m, err := NewNGramModel(types.LangEnglish, map[string]float64{"the": 1.6})
	require.NoError(t, err)

	for _, word := range []string{"the", "theory", "xqzkwv", "invoice"} {
		s := m.ScoreWord(word)
		assert.GreaterOrEqual(t, s, 0.1, "word %q", word)
		assert.LessOrEqual(t, s, 2.0, "word %q", word)
	}
}

func TestLoadTrigramTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trigrams.txt")
	content := "# arabic trigrams\nلضر 1.3\nضري 1.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadTrigramTable(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.3, table["لضر"], 1e-9)
	assert.Len(t, table, 2)
}

func TestLoadTrigramTable_BadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trigrams.txt")
	require.NoError(t, os.WriteFile(path, []byte("ab 1.3\n"), 0o600))

	_, err := LoadTrigramTable(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataFileMalformed))
}
