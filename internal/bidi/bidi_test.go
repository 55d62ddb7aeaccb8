package bidi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func TestDetectParagraphDirection(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	assert.Equal(t, types.DirectionRTL, p.DetectParagraphDirection("المبلغ Total"))
	assert.Equal(t, types.DirectionLTR, p.DetectParagraphDirection("Total المبلغ"))
	// Leading digits and punctuation are skipped.
	assert.Equal(t, types.DirectionRTL, p.DetectParagraphDirection("123: المبلغ"))
	// No strong character: configured fallback.
	assert.Equal(t, types.DirectionRTL, p.DetectParagraphDirection("1,234.56"))

	ltr := NewProcessor(types.DirectionLTR)
	assert.Equal(t, types.DirectionLTR, ltr.DetectParagraphDirection("1,234.56"))
}

func TestRuns_CoverTextWithoutGaps(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)
	text := "المبلغ Total: 1,234.56"
	runs := p.Runs(text)
	require.NotEmpty(t, runs)

	runes := []rune(text)
	pos := 0
	for _, run := range runs {
		assert.Equal(t, pos, run.Start)
		assert.Equal(t, run.Text, string(runes[run.Start:run.End]))
		pos = run.End
	}
	assert.Equal(t, len(runes), pos)
}

func TestRuns_DigitsFormLTRRuns(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)
	runs := p.Runs("المبلغ 1,234.56 ريال")

	require.Len(t, runs, 3)
	assert.Equal(t, types.DirectionRTL, runs[0].Direction)
	assert.Equal(t, types.DirectionLTR, runs[1].Direction)
	assert.Equal(t, "1,234.56", runs[1].Text)
	assert.Equal(t, types.DirectionRTL, runs[2].Direction)
}

func TestRuns_NeutralGapJoinsAgreeingFlanks(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)
	runs := p.Runs("Total: Amount")

	require.Len(t, runs, 1)
	assert.Equal(t, types.DirectionLTR, runs[0].Direction)
}

func TestRuns_Empty(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)
	assert.Nil(t, p.Runs(""))
}

func TestLogicalToVisual_MixedLine(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	logical := "المبلغ Total: 1,234.56"
	visual := p.LogicalToVisual(logical)

	// The Arabic word is mirrored and moves to the right edge; the Latin
	// text and the number keep their character order.
	assert.Equal(t, "Total: 1,234.56 غلبملا", visual)
}

func TestVisualToLogical_MixedLine(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	visual := "Total: 1,234.56 غلبملا"
	assert.Equal(t, "المبلغ Total: 1,234.56", p.VisualToLogical(visual))
}

func TestReorder_PureLTRUnchanged(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)
	text := "Invoice Total 1500"
	assert.Equal(t, text, p.VisualToLogical(text))
	assert.Equal(t, text, p.LogicalToVisual(text))
}

func TestReorder_PureRTLMirrors(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	logical := "رقم"
	visual := p.LogicalToVisual(logical)
	assert.Equal(t, "مقر", visual)
	assert.Equal(t, logical, p.VisualToLogical(visual))
}

func TestReorder_RoundTripLaw(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	texts := []string{
		"",
		"Invoice",
		"رقم الفاتورة",
		"المبلغ Total: 1,234.56",
		"مرحبا Hello عالم",
		"Total المبلغ 42",
		"١٢٣ المبلغ",
		"  padded  المبلغ  ",
	}
	for _, text := range texts {
		assert.Equal(t, text, p.VisualToLogical(p.LogicalToVisual(text)), "text %q", text)
		assert.Equal(t, text, p.LogicalToVisual(p.VisualToLogical(text)), "text %q", text)
	}
}

func TestReorder_NumbersNeverReversed(t *testing.T) {
	p := NewProcessor(types.DirectionRTL)

	visual := p.LogicalToVisual("المبلغ 1,234.56")
	assert.Contains(t, visual, "1,234.56")
}
