// Package bidi converts between the visual character order OCR engines emit
// (left-to-right pixel scan) and the logical storage order of mixed
// Arabic/English text.
//
// This is deliberately not the full Unicode Bidirectional Algorithm: OCR
// output has no embedding controls, no nesting, and no formatting
// characters, so a single-level run model is sufficient and keeps the
// visual/logical conversion exactly invertible.
package bidi

import (
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Processor performs paragraph direction detection, run segmentation, and
// visual/logical reordering. Stateless apart from the configured fallback
// direction; safe for concurrent use.
type Processor struct {
	defaultDir types.Direction
}

// NewProcessor returns a Processor that falls back to defaultDir when a
// text contains no strong directional character.
func NewProcessor(defaultDir types.Direction) *Processor {
	if defaultDir != types.DirectionLTR {
		defaultDir = types.DirectionRTL
	}
	return &Processor{defaultDir: defaultDir}
}

// strongDirection returns the direction of a strong character, or "" for
// weak (digits) and neutral (everything else) characters.
func strongDirection(r rune) types.Direction {
	switch {
	case isArabicStrong(r):
		return types.DirectionRTL
	case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		return types.DirectionLTR
	}
	return ""
}

func isArabicStrong(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		// Digits and punctuation inside the block are not strong.
		return !(r >= 0x0660 && r <= 0x0669) && !(r >= 0x06F0 && r <= 0x06F9) &&
			r != 0x060C && r != 0x061B && r != 0x061F
	case r >= 0x0750 && r <= 0x077F,
		r >= 0x08A0 && r <= 0x08FF,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// DetectParagraphDirection applies the first-strong-character rule, falling
// back to the configured default when no strong character exists.
func (p *Processor) DetectParagraphDirection(text string) types.Direction {
	for _, r := range text {
		if d := strongDirection(r); d != "" {
			return d
		}
	}
	return p.defaultDir
}

// Runs partitions text into maximal same-direction runs. Strong characters
// carry their own direction and digits are weak LTR. Neutral characters
// (punctuation, whitespace) resolve against their flanking resolved
// characters: when both flanks agree they join that direction, otherwise
// the paragraph direction applies; the same holds at the text edges. The
// symmetric flank rule keeps VisualToLogical and LogicalToVisual exact
// inverses.
//
// The returned runs cover [0, rune-length) with no gaps or overlaps; Start
// and End are rune offsets.
func (p *Processor) Runs(text string) []types.BidiRun {
	return p.runsFor(text, p.DetectParagraphDirection(text))
}

// runsFor computes runs under an explicit paragraph direction. reorder
// passes its symmetric direction here so that gap filling agrees between a
// text and its reordered image.
func (p *Processor) runsFor(text string, paraDir types.Direction) []types.BidiRun {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	dirs := p.resolveDirections(runes, paraDir)

	var runs []types.BidiRun
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) || dirs[i] != dirs[start] {
			runs = append(runs, types.BidiRun{
				Text:      string(runes[start:i]),
				Direction: dirs[start],
				Start:     start,
				End:       i,
			})
			start = i
		}
	}
	return runs
}

// isWeakNumber covers European and Arabic-Indic digits. Both render
// left-to-right regardless of the surrounding paragraph direction.
func isWeakNumber(r rune) bool {
	return (r >= '0' && r <= '9') ||
		(r >= 0x0660 && r <= 0x0669) ||
		(r >= 0x06F0 && r <= 0x06F9)
}

// resolveDirections assigns every rune a definite direction.
func (p *Processor) resolveDirections(runes []rune, paraDir types.Direction) []types.Direction {
	dirs := make([]types.Direction, len(runes))
	for i, r := range runes {
		dirs[i] = strongDirection(r)
	}

	// Digits are weak LTR: a number embedded in Arabic text still reads
	// left to right, so it must form its own LTR run rather than be
	// mirrored with the surrounding word. Separators with digits on both
	// sides belong to the number.
	for i, r := range runes {
		if dirs[i] == "" && isWeakNumber(r) {
			dirs[i] = types.DirectionLTR
		}
	}
	for i, r := range runes {
		if dirs[i] == "" && (r == '.' || r == ',') &&
			i > 0 && i+1 < len(runes) &&
			isWeakNumber(runes[i-1]) && isWeakNumber(runes[i+1]) {
			dirs[i] = types.DirectionLTR
		}
	}

	i := 0
	for i < len(runes) {
		if dirs[i] != "" {
			i++
			continue
		}
		// Find the gap of unresolved characters [i, j).
		j := i
		for j < len(runes) && dirs[j] == "" {
			j++
		}

		var before, after types.Direction
		if i > 0 {
			before = dirs[i-1]
		}
		if j < len(runes) {
			after = dirs[j]
		}

		fill := paraDir
		if before != "" && before == after {
			fill = before
		}
		for k := i; k < j; k++ {
			dirs[k] = fill
		}
		i = j
	}
	return dirs
}

// VisualToLogical recovers logical (storage) order from the left-to-right
// scan order OCR reports. For an RTL paragraph the run sequence is reversed
// and characters within each RTL run are reversed, undoing the mirroring
// applied when those runs were rendered right-to-left. LTR runs keep their
// character order; an LTR paragraph is returned unchanged.
func (p *Processor) VisualToLogical(text string) string {
	return p.reorder(text)
}

// LogicalToVisual renders logical-order text into left-to-right scan order.
// It is the exact inverse of VisualToLogical: the reordering is an
// involution, so applying it twice restores the input.
func (p *Processor) LogicalToVisual(text string) string {
	return p.reorder(text)
}

// reorderDirection decides the paragraph direction used for reordering.
// It differs from DetectParagraphDirection in one way: the paragraph is
// treated as RTL when either the first or the last strong character is RTL.
// Reordering swaps the first and last runs, so any asymmetric rule would
// classify a text and its reordered image differently and break the
// round-trip guarantee.
func (p *Processor) reorderDirection(text string) types.Direction {
	var first, last types.Direction
	for _, r := range text {
		if d := strongDirection(r); d != "" {
			if first == "" {
				first = d
			}
			last = d
		}
	}
	if first == "" {
		return p.defaultDir
	}
	if first == types.DirectionRTL || last == types.DirectionRTL {
		return types.DirectionRTL
	}
	return types.DirectionLTR
}

func (p *Processor) reorder(text string) string {
	dir := p.reorderDirection(text)
	if dir != types.DirectionRTL {
		return text
	}

	runs := p.runsFor(text, dir)
	out := make([]rune, 0, len([]rune(text)))
	for i := len(runs) - 1; i >= 0; i-- {
		run := []rune(runs[i].Text)
		if runs[i].Direction == types.DirectionRTL {
			for j := len(run) - 1; j >= 0; j-- {
				out = append(out, run[j])
			}
		} else {
			out = append(out, run...)
		}
	}
	return string(out)
}
