package script

import (
	"unicode"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Tagger tokenizes text and tags each token with its detected language,
// marking code-switch points between Arabic and English. Tagger is
// stateless and safe for concurrent use.
type Tagger struct{}

// NewTagger returns a ready Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Segment is a maximal run of consecutive words sharing one language.
// Numeric tokens extend the surrounding run rather than breaking it.
type Segment struct {
	Language types.LanguageTag
	Words    []types.TaggedWord
}

// token is an intermediate whitespace-or-script-bounded span.
type token struct {
	text       string
	start, end int // rune offsets in the source text
}

// Tag tokenizes text on whitespace, additionally splitting tokens at strong
// Arabic/Latin script transitions (OCR output frequently glues adjacent
// fields together), and tags every token.
//
// A token is marked IsCodeSwitch when its language differs from the nearest
// preceding token whose language is textual, and the token itself is
// textual. Numeric and Unknown tokens never trigger or receive a switch
// mark.
func (t *Tagger) Tag(text string) []types.TaggedWord {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	words := make([]types.TaggedWord, 0, len(tokens))
	prevTextual := types.LangUnknown

	for _, tok := range tokens {
		lang, conf := WordLanguage(tok.text)

		switched := false
		if lang.IsTextual() && prevTextual.IsTextual() && lang != prevTextual {
			switched = true
		}
		if lang.IsTextual() {
			prevTextual = lang
		}

		words = append(words, types.TaggedWord{
			Text:         tok.text,
			Language:     lang,
			Confidence:   conf,
			IsCodeSwitch: switched,
			Start:        tok.start,
			End:          tok.end,
		})
	}

	return words
}

// Segments groups consecutive tagged words into same-language runs.
// Numeric and Unknown tokens continue the current run instead of starting a
// new one; a leading numeric run is attached to the first textual segment
// that follows, or emitted as its own Numeric segment when nothing follows.
func (t *Tagger) Segments(words []types.TaggedWord) []Segment {
	if len(words) == 0 {
		return nil
	}

	var segments []Segment
	var pending []types.TaggedWord // numeric/unknown words before any textual run

	for _, w := range words {
		if !w.Language.IsTextual() {
			if len(segments) == 0 {
				pending = append(pending, w)
				continue
			}
			last := &segments[len(segments)-1]
			last.Words = append(last.Words, w)
			continue
		}

		if len(segments) > 0 && segments[len(segments)-1].Language == w.Language {
			last := &segments[len(segments)-1]
			last.Words = append(last.Words, w)
			continue
		}

		seg := Segment{Language: w.Language}
		if len(pending) > 0 {
			seg.Words = append(seg.Words, pending...)
			pending = nil
		}
		seg.Words = append(seg.Words, w)
		segments = append(segments, seg)
	}

	if len(pending) > 0 {
		segments = append(segments, Segment{Language: types.LangNumeric, Words: pending})
	}

	return segments
}

// tokenize splits text into whitespace-delimited tokens and further splits a
// token wherever the strong script flips between Arabic and Latin. Digits
// and punctuation stay attached to the current token.
func tokenize(text string) []token {
	var tokens []token

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		start := i
		currentScript := types.ScriptUnknown
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			s := ClassifyChar(runes[i])
			if s == types.ScriptArabic || s == types.ScriptLatin {
				if currentScript != types.ScriptUnknown && s != currentScript {
					break
				}
				currentScript = s
			}
			i++
		}

		tokens = append(tokens, token{
			text:  string(runes[start:i]),
			start: start,
			end:   i,
		})
	}

	return tokens
}
