package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/model"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func newTestCorrector(t *testing.T, cfg config.CorrectionConfig) *Corrector {
	t.Helper()
	models, err := model.LoadSet(config.DataConfig{})
	require.NoError(t, err)
	return NewCorrector(cfg, models, logging.NewNop())
}

func TestCorrectWord_DotConfusableSubstitution(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	corrected, corrections := c.CorrectWord("الصريبي", types.LangArabic)

	assert.Equal(t, "الضريبي", corrected)
	require.Len(t, corrections, 1)
	assert.Equal(t, 2, corrections[0].Position)
	assert.Equal(t, "ص", corrections[0].Before)
	assert.Equal(t, "ض", corrections[0].After)
	assert.Equal(t, "confusion", corrections[0].Reason)
	assert.Greater(t, corrections[0].Confidence, 0.0)
}

func TestCorrectWord_DictionaryHitFastPath(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	for _, word := range []string{"الضريبي", "المبلغ", "الفاتورة"} {
		corrected, corrections := c.CorrectWord(word, types.LangArabic)
		assert.Equal(t, word, corrected)
		assert.Empty(t, corrections)
	}
}

func TestCorrectWord_FastPathNormalizesLookup(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	// Trailing punctuation must not defeat the dictionary check.
	corrected, corrections := c.CorrectWord("المبلغ،", types.LangArabic)
	assert.Equal(t, "المبلغ،", corrected)
	assert.Empty(t, corrections)
}

func TestCorrectWord_UnknownWordUnchangedWhenNoBetterReading(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	corrected, corrections := c.CorrectWord("ريال", types.LangArabic)
	assert.Equal(t, "ريال", corrected)
	assert.Empty(t, corrections)
}

func TestCorrectWord_EnglishConservativeByDefault(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	// With default pruning the digit fix cannot beat the keep baseline.
	corrected, corrections := c.CorrectWord("inv0ice", types.LangEnglish)
	assert.Equal(t, "inv0ice", corrected)
	assert.Empty(t, corrections)
}

func TestCorrectWord_EnglishDigitFixWithRelaxedPruning(t *testing.T) {
	cfg := config.Default().Correction
	cfg.MinCorrectionConfidence = 0.2
	c := newTestCorrector(t, cfg)

	corrected, corrections := c.CorrectWord("inv0ice", types.LangEnglish)
	assert.Equal(t, "invoice", corrected)
	require.Len(t, corrections, 1)
	assert.Equal(t, 3, corrections[0].Position)
	assert.Equal(t, "0", corrections[0].Before)
	assert.Equal(t, "o", corrections[0].After)
}

func TestCorrectWord_NumericLanguageUntouched(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	corrected, corrections := c.CorrectWord("1500", types.LangNumeric)
	assert.Equal(t, "1500", corrected)
	assert.Empty(t, corrections)
}

func TestCorrectWord_Empty(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	corrected, corrections := c.CorrectWord("", types.LangArabic)
	assert.Empty(t, corrected)
	assert.Empty(t, corrections)
}

func TestCorrectWord_MaxCorrectionsBound(t *testing.T) {
	cfg := config.Default().Correction
	cfg.MaxCorrectionsPerWord = 1
	cfg.MinCorrectionConfidence = 0.1
	c := newTestCorrector(t, cfg)

	_, corrections := c.CorrectWord("الصريبي", types.LangArabic)
	assert.LessOrEqual(t, len(corrections), 1)
}

func TestCorrectWord_OutputIsFixedPoint(t *testing.T) {
	relaxed := config.Default().Correction
	relaxed.MinCorrectionConfidence = 0.2

	cases := []struct {
		name string
		cfg  config.CorrectionConfig
		word string
		lang types.LanguageTag
	}{
		{"arabic dot confusion", config.Default().Correction, "الصريبي", types.LangArabic},
		{"english digit fix relaxed", relaxed, "inv0ice", types.LangEnglish},
		{"unknown word kept", config.Default().Correction, "ريال", types.LangArabic},
		{"relaxed unknown word", relaxed, "xqzqy", types.LangEnglish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCorrector(t, tc.cfg)

			once, _ := c.CorrectWord(tc.word, tc.lang)
			twice, again := c.CorrectWord(once, tc.lang)
			assert.Equal(t, once, twice)
			assert.Empty(t, again)
		})
	}
}

func TestCorrectWord_PreservesRuneLength(t *testing.T) {
	c := newTestCorrector(t, config.Default().Correction)

	words := []string{"الصريبي", "inv0ice", "المبلغ", "xyzzy", "فاتورت"}
	langs := []types.LanguageTag{
		types.LangArabic, types.LangEnglish, types.LangArabic,
		types.LangEnglish, types.LangArabic,
	}
	for i, word := range words {
		corrected, _ := c.CorrectWord(word, langs[i])
		assert.Equal(t, len([]rune(word)), len([]rune(corrected)), "word %q", word)
	}
}
