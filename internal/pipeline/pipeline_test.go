package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	apperrors "github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/errors"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func newTestPipeline(t *testing.T, mutate func(*config.Config)) (*Pipeline, *InMemoryMetrics) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	metrics := NewInMemoryMetrics()
	p, err := New(cfg, logging.NewNop(), metrics)
	require.NoError(t, err)
	return p, metrics
}

func obs(engine, text string, conf float64, box types.BBox) types.EngineObservation {
	return types.EngineObservation{EngineID: engine, Text: text, Confidence: conf, BBox: box}
}

func box(x1, y1, x2, y2 float64) types.BBox {
	return types.BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
}

func TestProcessRegion_CorrectsLowConfidenceArabicWord(t *testing.T) {
	p, metrics := newTestPipeline(t, nil)

	// The engine emits visual order, so the word arrives reversed.
	region := Region{
		ID: types.NewID(),
		Observations: []types.EngineObservation{
			obs("tesseract", "يبيرصلا", 0.80, box(0, 0, 80, 20)),
		},
	}

	res, err := p.ProcessRegion(context.Background(), region)
	require.NoError(t, err)

	assert.Equal(t, "الضريبي", res.Text)
	assert.Equal(t, types.LangArabic, res.Language)
	assert.Equal(t, types.DirectionRTL, res.Direction)
	assert.Equal(t, []string{"tesseract"}, res.EnginesUsed)
	require.Len(t, res.Corrections, 1)
	assert.Equal(t, 2, res.Corrections[0].Position)
	assert.Equal(t, "ص", res.Corrections[0].Before)
	assert.Equal(t, "ض", res.Corrections[0].After)
	assert.True(t, res.Confidence.IsValid)

	assert.Equal(t, int64(1), metrics.FusionCount(types.FusionPrimary))
	assert.Equal(t, int64(1), metrics.CorrectionCount(types.LangArabic, "applied"))
	require.Len(t, metrics.Regions(), 1)
	assert.True(t, metrics.Regions()[0].Valid)
}

func TestProcessRegion_MixedLineRestoresLogicalOrder(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	// Visual reading order across the region: "Total: 1,234.56 غلبملا".
	region := Region{Observations: []types.EngineObservation{
		obs("paddleocr", "Total:", 0.92, box(0, 0, 50, 20)),
		obs("paddleocr", "1,234.56", 0.95, box(60, 0, 120, 20)),
		obs("paddleocr", "غلبملا", 0.90, box(130, 0, 180, 20)),
	}}

	res, err := p.ProcessRegion(context.Background(), region)
	require.NoError(t, err)

	assert.Equal(t, "المبلغ Total: 1,234.56", res.Text)
	assert.Equal(t, types.LangMixed, res.Language)
	assert.Equal(t, types.DirectionRTL, res.Direction)
	assert.NotEmpty(t, res.RegionID)
	assert.Equal(t, box(0, 0, 180, 20), res.BBox)
}

func TestProcessRegion_CharacterVoteAcrossEngines(t *testing.T) {
	p, metrics := newTestPipeline(t, nil)

	b := box(0, 0, 70, 20)
	region := Region{Observations: []types.EngineObservation{
		obs("paddleocr", "Invoice", 0.95, b),
		obs("easyocr", "lnvoice", 0.60, b),
	}}

	res, err := p.ProcessRegion(context.Background(), region)
	require.NoError(t, err)

	assert.Equal(t, "Invoice", res.Text)
	assert.Equal(t, types.LangEnglish, res.Language)
	assert.Equal(t, types.DirectionLTR, res.Direction)
	require.Len(t, res.Words, 1)
	assert.Equal(t, types.FusionCharacterVote, res.Words[0].Method)
	assert.Empty(t, res.Corrections)
	assert.Equal(t, int64(1), metrics.FusionCount(types.FusionCharacterVote))
}

func TestProcessRegion_StripsControlAndFormatRunes(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	// A leaked RLM and a NUL must not survive into the region text.
	region := Region{Observations: []types.EngineObservation{
		obs("tesseract", "‏Total\x00", 0.92, box(0, 0, 50, 20)),
	}}

	res, err := p.ProcessRegion(context.Background(), region)
	require.NoError(t, err)
	assert.Equal(t, "Total", res.Text)
}

func TestProcessRegion_NoObservations(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	_, err := p.ProcessRegion(context.Background(), Region{})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeFusionNoObservations))
}

func TestProcessRegion_InvalidObservation(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	region := Region{Observations: []types.EngineObservation{
		obs("tesseract", "total", 1.5, box(0, 0, 10, 10)),
	}}
	_, err := p.ProcessRegion(context.Background(), region)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
}

func TestProcessRegion_CancelledContext(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessRegion(ctx, Region{Observations: []types.EngineObservation{
		obs("tesseract", "total", 0.9, box(0, 0, 10, 10)),
	}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessDocument_AssemblesLinesTopToBottom(t *testing.T) {
	p, metrics := newTestPipeline(t, nil)

	regions := []Region{
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Invoice", 0.95, box(0, 20, 70, 30)),
		}},
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Total", 0.92, box(0, 0, 50, 10)),
		}},
	}

	doc, err := p.ProcessDocument(context.Background(), regions)
	require.NoError(t, err)

	assert.Equal(t, "Total\nInvoice", doc.Text)
	assert.NotEmpty(t, doc.DocumentID)
	assert.Equal(t, []string{"paddleocr"}, doc.EnginesUsed)
	assert.Greater(t, doc.OverallConfidence, 0.0)
	assert.LessOrEqual(t, doc.OverallConfidence, 1.0)
	assert.Empty(t, doc.Regions)

	docs := metrics.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].TotalRegions)
	assert.Zero(t, docs[0].FailedRegions)
}

func TestProcessDocument_RTLLineOrdersRightToLeft(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	// Two Arabic regions on one line; the right one reads first.
	regions := []Region{
		{Observations: []types.EngineObservation{
			obs("paddleocr", "غلبملا", 0.95, box(0, 0, 50, 20)),
		}},
		{Observations: []types.EngineObservation{
			obs("paddleocr", "ةروتافلا", 0.95, box(60, 0, 110, 20)),
		}},
	}

	doc, err := p.ProcessDocument(context.Background(), regions)
	require.NoError(t, err)
	assert.Equal(t, "الفاتورة المبلغ", doc.Text)
}

func TestProcessDocument_SkipsFailedRegions(t *testing.T) {
	p, metrics := newTestPipeline(t, nil)

	regions := []Region{
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Total", 0.92, box(0, 0, 50, 10)),
		}},
		{Observations: nil},
	}

	doc, err := p.ProcessDocument(context.Background(), regions)
	require.NoError(t, err)
	assert.Equal(t, "Total", doc.Text)

	docs := metrics.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].FailedRegions)
}

func TestProcessDocument_AllRegionsFailed(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	_, err := p.ProcessDocument(context.Background(), []Region{{}, {}})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternal))
}

func TestProcessDocument_NoRegions(t *testing.T) {
	p, _ := newTestPipeline(t, nil)

	_, err := p.ProcessDocument(context.Background(), nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
}

func TestProcessDocument_CancelledContext(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessDocument(ctx, []Region{
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Total", 0.92, box(0, 0, 50, 10)),
		}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessDocument_KeepRegions(t *testing.T) {
	p, _ := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Pipeline.KeepRegions = true
	})

	doc, err := p.ProcessDocument(context.Background(), []Region{
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Invoice", 0.95, box(0, 0, 70, 10)),
		}},
		{Observations: []types.EngineObservation{
			obs("paddleocr", "Total", 0.92, box(0, 20, 50, 30)),
		}},
	})
	require.NoError(t, err)
	require.Len(t, doc.Regions, 2)
	for _, r := range doc.Regions {
		assert.NotEmpty(t, r.Text)
	}
}

func TestProcessDocument_WorkerLimitRespected(t *testing.T) {
	p, _ := newTestPipeline(t, func(cfg *config.Config) {
		cfg.Pipeline.Workers = 1
	})

	regions := make([]Region, 8)
	for i := range regions {
		y := float64(i * 20)
		regions[i] = Region{Observations: []types.EngineObservation{
			obs("paddleocr", "Total", 0.92, box(0, y, 50, y+10)),
		}}
	}

	doc, err := p.ProcessDocument(context.Background(), regions)
	require.NoError(t, err)
	assert.Len(t, doc.Words, 8)
}
