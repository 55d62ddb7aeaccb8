package model

import (
	_ "embed"
	"strings"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Compiled-in default lexicons. Small, invoice-domain word lists so the core
// is usable with zero external data files; file-configured dictionaries
// extend them.
//
//go:embed data/arabic_words.txt
var arabicWordsRaw string

//go:embed data/english_words.txt
var englishWordsRaw string

func embeddedWords(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}

// DefaultArabicConfusions returns the compiled-in Arabic confusion table.
// The entries follow the dot-confusable letter families: letters sharing a
// base skeleton and differing only in dot count or placement, which is
// exactly what degraded scans lose first.
func DefaultArabicConfusions() map[rune]map[rune]float64 {
	return map[rune]map[rune]float64{
		// ب ت ث ن ي skeleton family
		'ب': {'ت': 0.40, 'ث': 0.30, 'ن': 0.35, 'ي': 0.20},
		'ت': {'ب': 0.40, 'ث': 0.35, 'ن': 0.30},
		'ث': {'ت': 0.40, 'ب': 0.30, 'ن': 0.25},
		'ن': {'ب': 0.35, 'ت': 0.30, 'ي': 0.25},
		'ي': {'ب': 0.20, 'ن': 0.25, 'ى': 0.40, 'ت': 0.15},
		'ى': {'ي': 0.45},
		// ج ح خ
		'ج': {'ح': 0.40, 'خ': 0.35},
		'ح': {'ج': 0.40, 'خ': 0.40},
		'خ': {'ح': 0.40, 'ج': 0.30},
		// single-dot pairs
		'د': {'ذ': 0.45},
		'ذ': {'د': 0.45},
		'ر': {'ز': 0.45},
		'ز': {'ر': 0.45},
		'س': {'ش': 0.50},
		'ش': {'س': 0.50},
		'ص': {'ض': 0.55},
		'ض': {'ص': 0.55},
		'ط': {'ظ': 0.50},
		'ظ': {'ط': 0.50},
		'ع': {'غ': 0.45},
		'غ': {'ع': 0.45},
		'ف': {'ق': 0.40},
		'ق': {'ف': 0.40},
		// taa marbuta / haa
		'ه': {'ة': 0.35},
		'ة': {'ه': 0.35},
		// hamza carrier forms
		'ا': {'أ': 0.30, 'إ': 0.25, 'آ': 0.15},
		'أ': {'ا': 0.35, 'إ': 0.25},
		'إ': {'ا': 0.35, 'أ': 0.25},
	}
}

// DefaultEnglishConfusions returns the compiled-in Latin/digit confusion
// table: the classic OCR look-alikes 0/O, 1/l/I, 5/S and friends. The rn/m
// digraph collapse is not representable in a single-character model; the
// trigram scorer penalises its artifacts instead.
func DefaultEnglishConfusions() map[rune]map[rune]float64 {
	return map[rune]map[rune]float64{
		'0': {'O': 0.50, 'o': 0.30},
		'O': {'0': 0.45},
		'o': {'0': 0.25, 'c': 0.10},
		'1': {'l': 0.45, 'I': 0.35, 'i': 0.10},
		'l': {'1': 0.40, 'I': 0.35, 'i': 0.15},
		'I': {'l': 0.40, '1': 0.35},
		'i': {'l': 0.20, '1': 0.10},
		'5': {'S': 0.35},
		'S': {'5': 0.30},
		'8': {'B': 0.30},
		'B': {'8': 0.25},
		'6': {'b': 0.20},
		'b': {'6': 0.15, 'h': 0.10},
		'2': {'Z': 0.20},
		'Z': {'2': 0.25},
		'9': {'g': 0.20, 'q': 0.15},
		'g': {'9': 0.20, 'q': 0.15},
		'q': {'g': 0.20, '9': 0.10},
		'm': {'n': 0.20},
		'n': {'m': 0.20, 'r': 0.10},
		'c': {'e': 0.20, 'o': 0.10},
		'e': {'c': 0.20},
		'u': {'v': 0.20},
		'v': {'u': 0.20, 'y': 0.10},
	}
}

// contextRulesFor returns the compiled-in context adjustments for a
// language. A rule boosts or damps a specific source->target confusion when
// the preceding character matches its class.
func contextRulesFor(lang types.LanguageTag) []contextRule {
	switch lang {
	case types.LangArabic:
		return []contextRule{
			// Connected (preceded-by-letter) forms lose dots more often.
			{source: 'ن', target: 'ب', before: classArabicLetter, factor: 1.2},
			{source: 'ت', target: 'ب', before: classArabicLetter, factor: 1.15},
			{source: 'ي', target: 'ى', before: classArabicLetter, factor: 1.2},
			// Word-initial alef is overwhelmingly the definite article's.
			{source: 'ا', target: 'أ', before: classNone, factor: 1.3},
		}
	case types.LangEnglish:
		return []contextRule{
			// Inside digit sequences, letter shapes are usually misread digits.
			{source: 'l', target: '1', before: classDigit, factor: 1.3},
			{source: 'O', target: '0', before: classDigit, factor: 1.3},
			{source: 'S', target: '5', before: classDigit, factor: 1.2},
			{source: 'I', target: '1', before: classDigit, factor: 1.3},
			// And vice versa inside words.
			{source: '0', target: 'O', before: classLatinLetter, factor: 1.2},
			{source: '1', target: 'l', before: classLatinLetter, factor: 1.2},
		}
	}
	return nil
}

// DefaultArabicTrigrams seeds the Arabic trigram model with high-frequency
// sequences from business documents: the definite article's combinations and
// the core invoice vocabulary.
func DefaultArabicTrigrams() map[string]float64 {
	return map[string]float64{
		"الم": 1.5, "الف": 1.4, "الض": 1.4, "الت": 1.4, "الإ": 1.3,
		"الر": 1.3, "الس": 1.3, "الب": 1.3, "الع": 1.3, "الا": 1.3,
		"الخ": 1.2, "الك": 1.2, "الج": 1.2, "الح": 1.2, "الو": 1.2,
		"وال": 1.4, "بال": 1.3, "لال": 1.1,
		"لضر": 1.3, "ضري": 1.3, "ريب": 1.2, "يبي": 1.2, "يبة": 1.2,
		"مبل": 1.3, "بلغ": 1.3, "لمب": 1.2,
		"فات": 1.3, "اتو": 1.2, "تور": 1.2, "ورة": 1.3, "فوا": 1.1,
		"رقم": 1.3, "لرق": 1.2,
		"جما": 1.2, "جمو": 1.2, "مجم": 1.2, "موع": 1.2,
		"تار": 1.2, "اري": 1.3, "ريخ": 1.3,
		"سعر": 1.2, "لسع": 1.1,
		"كمي": 1.2, "مية": 1.2,
		"قيم": 1.2, "يمة": 1.2, "ضاف": 1.2, "مضا": 1.1,
		"خصم": 1.1, "لخص": 1.1,
		"حسا": 1.2, "ساب": 1.2,
		"شرك": 1.2, "ركة": 1.2,
	}
}

// DefaultEnglishTrigrams seeds the English trigram model with general
// high-frequency sequences plus invoice vocabulary.
func DefaultEnglishTrigrams() map[string]float64 {
	return map[string]float64{
		"the": 1.6, "ing": 1.5, "and": 1.5, "ion": 1.5, "tio": 1.4,
		"ent": 1.4, "ati": 1.3, "for": 1.4, "ter": 1.3, "res": 1.2,
		"inv": 1.4, "nvo": 1.2, "voi": 1.3, "oic": 1.2, "ice": 1.4,
		"tot": 1.3, "ota": 1.2, "tal": 1.3,
		"num": 1.3, "umb": 1.2, "mbe": 1.2, "ber": 1.3,
		"dat": 1.3, "ate": 1.4,
		"amo": 1.2, "mou": 1.2, "oun": 1.3, "unt": 1.3,
		"tax": 1.3, "vat": 1.2,
		"pri": 1.2, "ric": 1.2,
		"qua": 1.2, "uan": 1.1, "ant": 1.3, "nti": 1.2, "tit": 1.2, "ity": 1.3,
		"dis": 1.2, "isc": 1.1, "cou": 1.2,
		"pay": 1.2, "aym": 1.1, "yme": 1.1, "men": 1.3,
		"des": 1.2, "esc": 1.1, "cri": 1.2, "rip": 1.1, "pti": 1.2,
		"bal": 1.1, "ala": 1.1, "anc": 1.2, "nce": 1.3,
		"cus": 1.1, "ust": 1.2, "sto": 1.2, "tom": 1.2, "ome": 1.2, "mer": 1.2,
	}
}

// DefaultArabicWords returns the embedded Arabic invoice lexicon.
func DefaultArabicWords() []string {
	return embeddedWords(arabicWordsRaw)
}

// DefaultEnglishWords returns the embedded English invoice lexicon.
func DefaultEnglishWords() []string {
	return embeddedWords(englishWordsRaw)
}
