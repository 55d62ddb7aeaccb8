package pipeline

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

func TestNewPrometheusMetrics_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics("ocrfusion", reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()
	m.RecordRegion(ctx, &RegionMetricParams{
		Language: types.LangArabic, Direction: types.DirectionRTL,
		Words: 3, DurationMs: 12.5, Valid: true,
	})
	m.RecordDocument(ctx, &DocumentMetricParams{TotalRegions: 4, FailedRegions: 1, Workers: 2, DurationMs: 40})
	m.RecordFusion(ctx, types.FusionUnanimous, 3)
	m.RecordCorrection(ctx, types.LangArabic, true)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ocrfusion_region_duration_milliseconds"])
	assert.True(t, names["ocrfusion_region_total"])
	assert.True(t, names["ocrfusion_document_duration_milliseconds"])
	assert.True(t, names["ocrfusion_document_regions_total"])
	assert.True(t, names["ocrfusion_fusion_total"])
	assert.True(t, names["ocrfusion_correction_total"])
}

func TestNewPrometheusMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics("ocrfusion", reg)
	require.NoError(t, err)

	_, err = NewPrometheusMetrics("ocrfusion", reg)
	assert.Error(t, err)
}

func TestPrometheusMetrics_NilParamsIgnored(t *testing.T) {
	m, err := NewPrometheusMetrics("ocrfusion", prometheus.NewRegistry())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RecordRegion(context.Background(), nil)
		m.RecordDocument(context.Background(), nil)
	})
}

func TestNoopMetrics_NoPanic(t *testing.T) {
	m := NewNoopMetrics()
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordRegion(ctx, nil)
		m.RecordRegion(ctx, &RegionMetricParams{})
		m.RecordDocument(ctx, &DocumentMetricParams{})
		m.RecordFusion(ctx, types.FusionWeighted, 2)
		m.RecordCorrection(ctx, types.LangEnglish, false)
	})
}

func TestInMemoryMetrics_Accessors(t *testing.T) {
	m := NewInMemoryMetrics()
	ctx := context.Background()

	m.RecordRegion(ctx, &RegionMetricParams{Language: types.LangMixed, Words: 5, Valid: true})
	m.RecordRegion(ctx, nil)
	m.RecordDocument(ctx, &DocumentMetricParams{TotalRegions: 2, Workers: 4})
	m.RecordFusion(ctx, types.FusionCharacterVote, 2)
	m.RecordFusion(ctx, types.FusionCharacterVote, 3)
	m.RecordFusion(ctx, types.FusionPrimary, 1)
	m.RecordCorrection(ctx, types.LangArabic, true)
	m.RecordCorrection(ctx, types.LangArabic, false)
	m.RecordCorrection(ctx, types.LangArabic, true)

	regions := m.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, types.LangMixed, regions[0].Language)
	assert.Equal(t, 5, regions[0].Words)

	docs := m.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].TotalRegions)

	assert.Equal(t, int64(2), m.FusionCount(types.FusionCharacterVote))
	assert.Equal(t, int64(1), m.FusionCount(types.FusionPrimary))
	assert.Equal(t, int64(0), m.FusionCount(types.FusionUnanimous))
	assert.Equal(t, int64(2), m.CorrectionCount(types.LangArabic, "applied"))
	assert.Equal(t, int64(1), m.CorrectionCount(types.LangArabic, "kept"))
}

func TestInMemoryMetrics_ReturnsCopies(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordRegion(context.Background(), &RegionMetricParams{Words: 1})

	regions := m.Regions()
	regions[0].Words = 99
	assert.Equal(t, 1, m.Regions()[0].Words)
}
