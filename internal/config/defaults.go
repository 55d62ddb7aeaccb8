package config

// Default engine weights, named after the OCR engines the surrounding
// application runs. Unknown engine IDs fall back to defaultEngineWeight at
// fusion time; weights here are starting points, not a closed set.
const defaultEngineWeight = 1.0

// ApplyDefaults fills every unset field of cfg with its production default.
// Explicitly configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Fusion.IoUThreshold == 0 {
		cfg.Fusion.IoUThreshold = 0.5
	}
	if cfg.Fusion.EngineWeights == nil {
		cfg.Fusion.EngineWeights = map[string]float64{
			"paddleocr": 1.2,
			"easyocr":   1.0,
			"tesseract": 0.8,
			"qari":      0.6,
		}
	}

	if cfg.Correction.BeamWidth == 0 {
		cfg.Correction.BeamWidth = 5
	}
	if cfg.Correction.MaxCorrectionsPerWord == 0 {
		cfg.Correction.MaxCorrectionsPerWord = 3
	}
	if cfg.Correction.MinCorrectionConfidence == 0 {
		cfg.Correction.MinCorrectionConfidence = 0.5
	}
	if cfg.Correction.MinCandidateProbability == 0 {
		cfg.Correction.MinCandidateProbability = 0.05
	}
	if cfg.Correction.ImprovementMargin == 0 {
		cfg.Correction.ImprovementMargin = 0.05
	}
	if cfg.Correction.DictionaryBonus == 0 {
		cfg.Correction.DictionaryBonus = 1.3
	}
	if cfg.Correction.TriggerConfidence == 0 {
		cfg.Correction.TriggerConfidence = 0.85
	}

	if cfg.Confidence.Threshold == 0 {
		cfg.Confidence.Threshold = 0.5
	}
	if cfg.Confidence.MaxIssues == 0 {
		cfg.Confidence.MaxIssues = 3
	}
	if cfg.Confidence.CalibrationFactors == nil {
		// Arabic OCR output is systematically overconfident relative to its
		// actual character error rate; English less so.
		cfg.Confidence.CalibrationFactors = map[string]float64{
			"arabic":  0.85,
			"english": 0.95,
		}
	}
	if cfg.Confidence.DotConfusablePenalty == 0 {
		cfg.Confidence.DotConfusablePenalty = 0.1
	}

	if cfg.Bidi.DefaultParagraphDirection == "" {
		cfg.Bidi.DefaultParagraphDirection = "rtl"
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "ocrfusion"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// defaultSettings lists every config key with its production default in
// viper key notation. Must stay in sync with ApplyDefaults; the loader
// registers these so environment overrides resolve for all keys.
func defaultSettings() map[string]any {
	return map[string]any{
		"fusion.iou_threshold":         0.5,
		"fusion.enable_character_vote": true,
		"fusion.engine_weights": map[string]float64{
			"paddleocr": 1.2,
			"easyocr":   1.0,
			"tesseract": 0.8,
			"qari":      0.6,
		},
		"correction.beam_width":                5,
		"correction.max_corrections_per_word":  3,
		"correction.min_correction_confidence": 0.5,
		"correction.min_candidate_probability": 0.05,
		"correction.improvement_margin":        0.05,
		"correction.dictionary_bonus":          1.3,
		"correction.trigger_confidence":        0.85,
		"confidence.threshold":                 0.5,
		"confidence.max_issues":                3,
		"confidence.calibration_factors": map[string]float64{
			"arabic":  0.85,
			"english": 0.95,
		},
		"confidence.dot_confusable_penalty": 0.1,
		"bidi.default_paragraph_direction":  "rtl",
		"pipeline.workers":                  0,
		"pipeline.keep_regions":             false,
		"metrics.enabled":                   false,
		"metrics.namespace":                 "ocrfusion",
		"log.level":                         "info",
		"log.format":                        "json",
	}
}

// DefaultEngineWeight returns the weight used for engines absent from the
// configured weight map.
func DefaultEngineWeight() float64 { return defaultEngineWeight }

// Default returns a fully defaulted, valid configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Fusion.EnableCharacterVote = true
	return cfg
}
