package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func TestTag_SingleLanguage(t *testing.T) {
	words := NewTagger().Tag("رقم الفاتورة")
	require.Len(t, words, 2)
	for _, w := range words {
		assert.Equal(t, types.LangArabic, w.Language)
		assert.False(t, w.IsCodeSwitch)
	}
}

func TestTag_CodeSwitchMarked(t *testing.T) {
	words := NewTagger().Tag("المبلغ Total 1500 ريال")
	require.Len(t, words, 4)

	assert.Equal(t, types.LangArabic, words[0].Language)
	assert.False(t, words[0].IsCodeSwitch)

	assert.Equal(t, types.LangEnglish, words[1].Language)
	assert.True(t, words[1].IsCodeSwitch)

	// Numeric tokens are transparent: no switch on the number itself...
	assert.Equal(t, types.LangNumeric, words[2].Language)
	assert.False(t, words[2].IsCodeSwitch)

	// ...and the Arabic word after it switches against "Total", not "1500".
	assert.Equal(t, types.LangArabic, words[3].Language)
	assert.True(t, words[3].IsCodeSwitch)
}

func TestTag_GluedScriptsSplit(t *testing.T) {
	words := NewTagger().Tag("Invoiceرقم")
	require.Len(t, words, 2)
	assert.Equal(t, "Invoice", words[0].Text)
	assert.Equal(t, "رقم", words[1].Text)
	assert.True(t, words[1].IsCodeSwitch)
}

func TestTag_RuneOffsets(t *testing.T) {
	text := "رقم INV"
	words := NewTagger().Tag(text)
	require.Len(t, words, 2)

	runes := []rune(text)
	for _, w := range words {
		assert.Equal(t, w.Text, string(runes[w.Start:w.End]))
	}
	assert.Equal(t, 0, words[0].Start)
	assert.Equal(t, 3, words[0].End)
	assert.Equal(t, 4, words[1].Start)
	assert.Equal(t, 7, words[1].End)
}

func TestTag_Empty(t *testing.T) {
	assert.Nil(t, NewTagger().Tag(""))
	assert.Nil(t, NewTagger().Tag("   "))
}

func TestSegments_GroupsByLanguage(t *testing.T) {
	tagger := NewTagger()
	words := tagger.Tag("رقم الفاتورة INV 2024 المبلغ")
	segments := tagger.Segments(words)

	require.Len(t, segments, 3)
	assert.Equal(t, types.LangArabic, segments[0].Language)
	assert.Len(t, segments[0].Words, 2)

	// "2024" extends the English run instead of starting its own segment.
	assert.Equal(t, types.LangEnglish, segments[1].Language)
	assert.Len(t, segments[1].Words, 2)

	assert.Equal(t, types.LangArabic, segments[2].Language)
	assert.Len(t, segments[2].Words, 1)
}

func TestSegments_LeadingNumericAttaches(t *testing.T) {
	tagger := NewTagger()
	segments := tagger.Segments(tagger.Tag("2024 Invoice"))

	require.Len(t, segments, 1)
	assert.Equal(t, types.LangEnglish, segments[0].Language)
	assert.Len(t, segments[0].Words, 2)
}

func TestSegments_OnlyNumeric(t *testing.T) {
	tagger := NewTagger()
	segments := tagger.Segments(tagger.Tag("123 456"))

	require.Len(t, segments, 1)
	assert.Equal(t, types.LangNumeric, segments[0].Language)
}
