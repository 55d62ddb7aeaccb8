package model

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Dictionary is an immutable per-language word list. Lookups normalize the
// query the same way entries were normalized at load time, so OCR artifacts
// like tatweel stretching or stray diacritics do not defeat matching.
type Dictionary struct {
	lang  types.LanguageTag
	words map[string]struct{}
}

// NewDictionary constructs a dictionary from a word list.
func NewDictionary(lang types.LanguageTag, words []string) *Dictionary {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		n := NormalizeWord(w)
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return &Dictionary{lang: lang, words: set}
}

// Language returns the dictionary's language tag.
func (d *Dictionary) Language() types.LanguageTag {
	return d.lang
}

// Size returns the number of entries.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Contains reports whether word (after normalization) is a known word.
// Nil-safe: a nil dictionary contains nothing.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[NormalizeWord(word)]
	return ok
}

// NormalizeWord canonicalises a word for dictionary matching: Unicode NFC,
// Latin lowercasing, and removal of tatweel and Arabic diacritical marks.
// Surrounding punctuation is trimmed so that tokens like "Total:" match
// the entry "total".
func NormalizeWord(word string) string {
	word = norm.NFC.String(word)
	word = strings.ToLower(word)

	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if isArabicDiacritic(r) || r == tatweel {
			continue
		}
		b.WriteRune(r)
	}
	word = b.String()

	return strings.TrimFunc(word, isEdgePunct)
}

const tatweel = 0x0640

// isArabicDiacritic covers the harakat and Quranic annotation ranges that
// OCR engines occasionally hallucinate onto invoice text.
func isArabicDiacritic(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) ||
		(r >= 0x0610 && r <= 0x061A) ||
		r == 0x0670
}

func isEdgePunct(r rune) bool {
	switch r {
	case '.', ',', ':', ';', '!', '?', '(', ')', '[', ']', '"', '\'',
		0x060C /* Arabic comma */, 0x061B /* Arabic semicolon */, 0x061F /* Arabic question mark */ :
		return true
	}
	return false
}

// LoadDictionary reads a newline-delimited UTF-8 word list. Blank lines and
// '#' comments are skipped. An empty list is a fail-fast error: a pipeline
// must not run believing it has a dictionary when it has none.
func LoadDictionary(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"open dictionary").WithDetail(path)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataFileUnreadable,
			"read dictionary").WithDetail(path)
	}
	if len(words) == 0 {
		return nil, errors.New(errors.ErrCodeDataFileEmpty,
			"dictionary contains no words").WithDetail(path)
	}
	return words, nil
}
