// Package pipeline orchestrates the full correction flow: observation
// grouping, multi-engine fusion, bidi normalisation, language tagging,
// confusion-driven correction, and confidence calibration.
package pipeline

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/bidi"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/confidence"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/correction"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/fusion"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/model"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/script"
	apperrors "github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Region is one detected text region with the raw observations every engine
// produced for it. Observation text is in visual order, exactly as the
// engines emitted it.
type Region struct {
	ID           types.ID
	Observations []types.EngineObservation
}

// Pipeline wires the processing stages together. Construct once with New
// and share across goroutines; all stages are stateless or immutable.
type Pipeline struct {
	cfg       *config.Config
	fuser     *fusion.Engine
	tagger    *script.Tagger
	bidi      *bidi.Processor
	corrector *correction.Corrector
	scorer    *confidence.Scorer
	logger    logging.Logger
	metrics   PipelineMetrics
}

// New builds a pipeline from a validated configuration, loading the model
// set for every configured language. Data-load failures are fail-fast.
func New(cfg *config.Config, logger logging.Logger, metrics PipelineMetrics) (*Pipeline, error) {
	if cfg == nil {
		return nil, apperrors.InvalidInput("pipeline requires a configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}

	models, err := model.LoadSet(cfg.Data)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		fuser:     fusion.NewEngine(cfg.Fusion, logger),
		tagger:    script.NewTagger(),
		bidi:      bidi.NewProcessor(types.Direction(cfg.Bidi.DefaultParagraphDirection)),
		corrector: correction.NewCorrector(cfg.Correction, models, logger),
		scorer:    confidence.NewScorer(cfg.Confidence, models),
		logger:    logger.Named("pipeline"),
		metrics:   metrics,
	}, nil
}

// ProcessRegion runs the full stage sequence on one region and returns its
// result. Correction is best effort; only fusion and input validation can
// fail the region.
func (p *Pipeline) ProcessRegion(ctx context.Context, region Region) (*types.RegionResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(region.Observations) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeFusionNoObservations,
			"region has no observations").WithDetail(string(region.ID))
	}
	if region.ID == "" {
		region.ID = types.NewID()
	}

	words, boxes, err := p.fuseRegion(ctx, region.Observations)
	if err != nil {
		return nil, err
	}

	visual := cleanText(joinWords(words))
	logical := p.bidi.VisualToLogical(norm.NFC.String(visual))
	direction := p.bidi.DetectParagraphDirection(logical)

	tagged := p.tagger.Tag(logical)
	finalText, corrections := p.correctLowConfidence(ctx, logical, tagged, words)

	lang := regionLanguage(tagged)
	breakdown := p.scorer.Score(finalText, meanConfidence(words), lang)

	result := &types.RegionResult{
		RegionID:    region.ID,
		Text:        finalText,
		Words:       words,
		Language:    lang,
		Direction:   direction,
		BBox:        unionAll(boxes),
		Confidence:  breakdown,
		Corrections: corrections,
		EnginesUsed: engineIDs(region.Observations),
	}
	p.metrics.RecordRegion(ctx, &RegionMetricParams{
		Language:   lang,
		Direction:  direction,
		Words:      len(words),
		DurationMs: float64(time.Since(start).Microseconds()) / 1000,
		Valid:      breakdown.IsValid,
	})
	return result, nil
}

// ProcessDocument fans regions out across a bounded worker pool and
// assembles the per-region results into reading-order document text. A
// failing region is logged and skipped; the document fails only when the
// context is cancelled or every region fails.
func (p *Pipeline) ProcessDocument(ctx context.Context, regions []Region) (*types.FusionResult, error) {
	start := time.Now()
	if len(regions) == 0 {
		return nil, apperrors.InvalidInput("document has no regions")
	}

	workers := p.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*types.RegionResult, len(regions))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range regions {
		i := i
		g.Go(func() error {
			res, err := p.ProcessRegion(gctx, regions[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.logger.Warn("region skipped",
					logging.String("region_id", string(regions[i].ID)),
					logging.Err(err))
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	processed := results[:0:0]
	for _, r := range results {
		if r != nil {
			processed = append(processed, r)
		}
	}
	if len(processed) == 0 {
		return nil, apperrors.Internal("every region in the document failed")
	}

	doc := p.assemble(processed)
	p.metrics.RecordDocument(ctx, &DocumentMetricParams{
		TotalRegions:  len(regions),
		FailedRegions: failed,
		Workers:       workers,
		DurationMs:    float64(time.Since(start).Microseconds()) / 1000,
	})
	return doc, nil
}

// fuseRegion groups observations by box overlap and fuses each group into
// one word. Words come back in visual left-to-right order.
func (p *Pipeline) fuseRegion(ctx context.Context, observations []types.EngineObservation) ([]types.FusedWord, []types.BBox, error) {
	groups := p.fuser.GroupObservations(observations, p.cfg.Fusion.IoUThreshold)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i][0].BBox.X1 < groups[j][0].BBox.X1
	})

	words := make([]types.FusedWord, 0, len(groups))
	boxes := make([]types.BBox, 0, len(groups))
	for _, group := range groups {
		word, err := p.fuser.Fuse(group)
		if err != nil {
			return nil, nil, err
		}
		p.metrics.RecordFusion(ctx, word.Method, len(group))
		words = append(words, word)
		boxes = append(boxes, group[0].BBox)
	}
	return words, boxes, nil
}

// correctLowConfidence runs the corrector over every textual word whose
// fused confidence falls below the trigger threshold. Corrections are
// substitutions, so span lengths never change and replacement is a rune
// level overwrite. Returned correction positions are absolute offsets into
// the region text.
func (p *Pipeline) correctLowConfidence(ctx context.Context, logical string, tagged []types.TaggedWord, words []types.FusedWord) (string, []types.Correction) {
	runes := []rune(logical)
	fusedConf := make(map[string]float64, len(words))
	for _, w := range words {
		if c, ok := fusedConf[w.Text]; !ok || w.Confidence < c {
			fusedConf[w.Text] = w.Confidence
		}
	}
	fallback := meanConfidence(words)

	var all []types.Correction
	for _, w := range tagged {
		if !w.Language.IsTextual() {
			continue
		}
		conf, ok := fusedConf[w.Text]
		if !ok {
			conf = fallback
		}
		if conf >= p.cfg.Correction.TriggerConfidence {
			continue
		}

		corrected, corrs := p.corrector.CorrectWord(w.Text, w.Language)
		p.metrics.RecordCorrection(ctx, w.Language, len(corrs) > 0)
		if len(corrs) == 0 {
			continue
		}
		copy(runes[w.Start:w.End], []rune(corrected))
		for _, c := range corrs {
			c.Position += w.Start
			all = append(all, c)
		}
	}
	return string(runes), all
}

// assemble orders region results into lines by vertical midpoint, then
// orders each line horizontally, right to left for RTL lines. Lines join
// with newlines, regions within a line with spaces.
func (p *Pipeline) assemble(results []*types.RegionResult) *types.FusionResult {
	lines := groupLines(results)

	var (
		text        string
		words       []types.FusedWord
		corrections []types.Correction
		engines     = map[string]struct{}{}
		confSum     float64
		confWeight  float64
	)
	for li, line := range lines {
		rtl := lineDirection(line) == types.DirectionRTL
		sort.SliceStable(line, func(i, j int) bool {
			if rtl {
				return line[i].BBox.X2 > line[j].BBox.X2
			}
			return line[i].BBox.X1 < line[j].BBox.X1
		})
		if li > 0 {
			text += "\n"
		}
		for ri, r := range line {
			if ri > 0 {
				text += " "
			}
			text += r.Text
			words = append(words, r.Words...)
			corrections = append(corrections, r.Corrections...)
			for _, e := range r.EnginesUsed {
				engines[e] = struct{}{}
			}
			weight := float64(len(r.Words))
			if weight == 0 {
				weight = 1
			}
			confSum += r.Confidence.Overall * weight
			confWeight += weight
		}
	}

	engineList := make([]string, 0, len(engines))
	for e := range engines {
		engineList = append(engineList, e)
	}
	sort.Strings(engineList)

	overall := 0.0
	if confWeight > 0 {
		overall = confSum / confWeight
	}

	doc := &types.FusionResult{
		DocumentID:        types.NewID(),
		Text:              text,
		Words:             words,
		OverallConfidence: overall,
		EnginesUsed:       engineList,
		Corrections:       corrections,
	}
	if p.cfg.Pipeline.KeepRegions {
		regions := make([]types.RegionResult, len(results))
		for i, r := range results {
			regions[i] = *r
		}
		doc.Regions = regions
	}
	return doc
}

// groupLines clusters regions into lines: regions whose vertical midpoints
// sit within half the average region height of a line's running midpoint
// share that line. Lines come back top to bottom.
func groupLines(results []*types.RegionResult) [][]*types.RegionResult {
	sorted := make([]*types.RegionResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.MidY() < sorted[j].BBox.MidY()
	})

	avgHeight := 0.0
	for _, r := range sorted {
		avgHeight += r.BBox.Height()
	}
	avgHeight /= float64(len(sorted))
	tolerance := avgHeight / 2
	if tolerance <= 0 {
		tolerance = 1
	}

	var lines [][]*types.RegionResult
	var lineMidY float64
	for _, r := range sorted {
		mid := r.BBox.MidY()
		if len(lines) == 0 || mid-lineMidY > tolerance {
			lines = append(lines, []*types.RegionResult{r})
			lineMidY = mid
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], r)
	}
	return lines
}

// lineDirection is the direction of the majority of a line's regions, RTL
// winning ties so mixed invoice lines keep their Arabic reading order.
func lineDirection(line []*types.RegionResult) types.Direction {
	rtl := 0
	for _, r := range line {
		if r.Direction == types.DirectionRTL {
			rtl++
		}
	}
	if rtl*2 >= len(line) {
		return types.DirectionRTL
	}
	return types.DirectionLTR
}

func regionLanguage(tagged []types.TaggedWord) types.LanguageTag {
	var hasArabic, hasEnglish, hasNumeric bool
	for _, w := range tagged {
		switch w.Language {
		case types.LangArabic:
			hasArabic = true
		case types.LangEnglish:
			hasEnglish = true
		case types.LangNumeric:
			hasNumeric = true
		}
	}
	switch {
	case hasArabic && hasEnglish:
		return types.LangMixed
	case hasArabic:
		return types.LangArabic
	case hasEnglish:
		return types.LangEnglish
	case hasNumeric:
		return types.LangNumeric
	default:
		return types.LangUnknown
	}
}

// cleanText drops control characters OCR engines occasionally leak into
// word text. Engines disagree on embedding marks and NULs around Arabic
// segments; keeping them would corrupt run detection.
func cleanText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, text)
}

func joinWords(words []types.FusedWord) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w.Text
	}
	return out
}

func meanConfidence(words []types.FusedWord) float64 {
	if len(words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range words {
		sum += w.Confidence
	}
	return sum / float64(len(words))
}

func unionAll(boxes []types.BBox) types.BBox {
	if len(boxes) == 0 {
		return types.BBox{}
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u
}

func engineIDs(observations []types.EngineObservation) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, o := range observations {
		if _, ok := seen[o.EngineID]; !ok {
			seen[o.EngineID] = struct{}{}
			out = append(out, o.EngineID)
		}
	}
	sort.Strings(out)
	return out
}
