package model

import (
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Models bundles the per-language model triple used by correction and
// confidence scoring.
type Models struct {
	Confusion  *ConfusionMatrix
	NGram      *NGramModel
	Dictionary *Dictionary
}

// Set holds one Models bundle per supported language. Construct once, then
// share read-only across workers.
type Set struct {
	arabic  *Models
	english *Models
}

// LoadSet builds the model set from the compiled-in defaults, extended by
// any data files named in cfg. File words are added on top of the embedded
// lexicons; file confusion and trigram tables replace the default table for
// their language (a table is a coherent whole, not a patch). Any unreadable
// or malformed file is a fail-fast error.
func LoadSet(cfg config.DataConfig) (*Set, error) {
	arabic, err := loadLanguage(types.LangArabic, cfg,
		DefaultArabicConfusions(), DefaultArabicTrigrams(), DefaultArabicWords())
	if err != nil {
		return nil, err
	}
	english, err := loadLanguage(types.LangEnglish, cfg,
		DefaultEnglishConfusions(), DefaultEnglishTrigrams(), DefaultEnglishWords())
	if err != nil {
		return nil, err
	}
	return &Set{arabic: arabic, english: english}, nil
}

func loadLanguage(
	lang types.LanguageTag,
	cfg config.DataConfig,
	confusions map[rune]map[rune]float64,
	trigrams map[string]float64,
	words []string,
) (*Models, error) {
	key := string(lang)

	if path, ok := cfg.ConfusionTables[key]; ok && path != "" {
		loaded, err := LoadConfusionTable(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "load "+key+" confusion table")
		}
		confusions = loaded
	}
	if path, ok := cfg.TrigramTables[key]; ok && path != "" {
		loaded, err := LoadTrigramTable(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "load "+key+" trigram table")
		}
		trigrams = loaded
	}
	if path, ok := cfg.Dictionaries[key]; ok && path != "" {
		loaded, err := LoadDictionary(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "load "+key+" dictionary")
		}
		words = append(words, loaded...)
	}

	confusion, err := NewConfusionMatrix(lang, confusions)
	if err != nil {
		return nil, err
	}
	ngram, err := NewNGramModel(lang, trigrams)
	if err != nil {
		return nil, err
	}

	return &Models{
		Confusion:  confusion,
		NGram:      ngram,
		Dictionary: NewDictionary(lang, words),
	}, nil
}

// For returns the model bundle for a language tag. Mixed and unknown
// content resolves to Arabic, the primary script of the target documents;
// numeric content has no models and yields nil.
func (s *Set) For(lang types.LanguageTag) *Models {
	if s == nil {
		return nil
	}
	switch lang {
	case types.LangEnglish:
		return s.english
	case types.LangNumeric:
		return nil
	default:
		return s.arabic
	}
}

// Arabic returns the Arabic bundle.
func (s *Set) Arabic() *Models { return s.arabic }

// English returns the English bundle.
func (s *Set) English() *Models { return s.english }
