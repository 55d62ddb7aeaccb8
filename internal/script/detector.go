// Package script classifies characters and words by writing system and tags
// tokenized text with per-word language, including code-switch detection for
// mixed Arabic/English content.
package script

import (
	"unicode"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Thresholds for word-level classification. A word is Mixed when no script
// reaches dominantRatio and at least two scripts exceed presenceRatio.
const (
	dominantRatio = 0.8
	presenceRatio = 0.1
)

// isArabicLetter reports membership in the Arabic Unicode blocks:
// U+0600-06FF, U+0750-077F, U+08A0-08FF, U+FB50-FDFF, U+FE70-FEFF.
// Digits and punctuation inside the base block are excluded; they carry
// their own classes.
func isArabicLetter(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return !isArabicIndicDigit(r) && !unicode.IsPunct(r)
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0x08A0 && r <= 0x08FF:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

func isLatinLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// isArabicIndicDigit covers U+0660-0669 and the extended U+06F0-06F9 forms
// used in Persian-influenced layouts.
func isArabicIndicDigit(r rune) bool {
	return (r >= 0x0660 && r <= 0x0669) || (r >= 0x06F0 && r <= 0x06F9)
}

func isDigit(r rune) bool {
	return (r >= '0' && r <= '9') || isArabicIndicDigit(r)
}

// ClassifyChar assigns a single character to a script class by Unicode
// range membership. Pure function, no side effects.
func ClassifyChar(r rune) types.ScriptType {
	switch {
	case isDigit(r):
		return types.ScriptNumeric
	case isArabicLetter(r):
		return types.ScriptArabic
	case isLatinLetter(r):
		return types.ScriptLatin
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		return types.ScriptPunctuation
	}
	return types.ScriptUnknown
}

// ClassifyWord classifies a whole word and reports the classification
// confidence: the dominant-script character ratio over the word's alphabetic
// characters. A word with no script above 80% and at least two scripts above
// 10% is reported Unknown with zero confidence at the script level; word
// language classification in WordLanguage maps that case to Mixed.
// Empty input yields (ScriptUnknown, 0).
func ClassifyWord(word string) (types.ScriptType, float64) {
	if word == "" {
		return types.ScriptUnknown, 0
	}

	var arabic, latin, digits, total int
	for _, r := range word {
		switch ClassifyChar(r) {
		case types.ScriptArabic:
			arabic++
			total++
		case types.ScriptLatin:
			latin++
			total++
		case types.ScriptNumeric:
			digits++
		}
	}

	if total == 0 {
		if digits > 0 {
			return types.ScriptNumeric, 1.0
		}
		return types.ScriptUnknown, 0
	}

	arabicRatio := float64(arabic) / float64(total)
	latinRatio := float64(latin) / float64(total)

	if arabicRatio >= latinRatio {
		if arabicRatio < dominantRatio && latinRatio > presenceRatio {
			return types.ScriptUnknown, 0
		}
		return types.ScriptArabic, arabicRatio
	}
	if latinRatio < dominantRatio && arabicRatio > presenceRatio {
		return types.ScriptUnknown, 0
	}
	return types.ScriptLatin, latinRatio
}

// WordLanguage maps a word to its language tag with a confidence. Words
// whose alphabetic content splits across scripts (neither dominant) are
// Mixed; digit-only words are Numeric.
func WordLanguage(word string) (types.LanguageTag, float64) {
	if word == "" {
		return types.LangUnknown, 0
	}

	var arabic, latin, digits, total int
	for _, r := range word {
		switch ClassifyChar(r) {
		case types.ScriptArabic:
			arabic++
			total++
		case types.ScriptLatin:
			latin++
			total++
		case types.ScriptNumeric:
			digits++
		}
	}

	if total == 0 {
		if digits > 0 {
			return types.LangNumeric, 1.0
		}
		return types.LangUnknown, 0
	}

	arabicRatio := float64(arabic) / float64(total)
	latinRatio := float64(latin) / float64(total)

	dominant, ratio := types.LangArabic, arabicRatio
	if latinRatio > arabicRatio {
		dominant, ratio = types.LangEnglish, latinRatio
	}
	if ratio < dominantRatio && arabicRatio > presenceRatio && latinRatio > presenceRatio {
		return types.LangMixed, max(arabicRatio, latinRatio)
	}
	return dominant, ratio
}
