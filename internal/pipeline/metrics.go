package pipeline

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// PipelineMetrics is the telemetry API for the fusion pipeline. The pipeline
// records through this interface so the backing implementation (Prometheus,
// in-memory, noop) can be swapped without touching processing code.
type PipelineMetrics interface {
	// RecordRegion records one processed region.
	RecordRegion(ctx context.Context, params *RegionMetricParams)

	// RecordDocument records one processed document.
	RecordDocument(ctx context.Context, params *DocumentMetricParams)

	// RecordFusion records a single word fusion and the rule that decided it.
	RecordFusion(ctx context.Context, method types.FusionMethod, engines int)

	// RecordCorrection records a correction attempt on a low-confidence word.
	RecordCorrection(ctx context.Context, lang types.LanguageTag, applied bool)
}

// RegionMetricParams carries the data for a processed region.
type RegionMetricParams struct {
	Language   types.LanguageTag `json:"language"`
	Direction  types.Direction   `json:"direction"`
	Words      int               `json:"words"`
	DurationMs float64           `json:"duration_ms"`
	Valid      bool              `json:"valid"`
}

// DocumentMetricParams carries the data for a processed document.
type DocumentMetricParams struct {
	TotalRegions  int     `json:"total_regions"`
	FailedRegions int     `json:"failed_regions"`
	Workers       int     `json:"workers"`
	DurationMs    float64 `json:"duration_ms"`
}

var latencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

type prometheusMetrics struct {
	regionDuration   *prometheus.HistogramVec
	regionTotal      *prometheus.CounterVec
	documentDuration prometheus.Histogram
	documentRegions  *prometheus.CounterVec
	fusionTotal      *prometheus.CounterVec
	correctionTotal  *prometheus.CounterVec
}

// NewPrometheusMetrics creates a Prometheus-backed collector and registers
// every metric with the supplied Registerer under the given namespace.
func NewPrometheusMetrics(namespace string, registerer prometheus.Registerer) (PipelineMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &prometheusMetrics{
		regionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "region_duration_milliseconds",
			Help:      "Histogram of per-region processing latency in milliseconds.",
			Buckets:   latencyBuckets,
		}, []string{"language", "direction"}),
		regionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_total",
			Help:      "Total number of regions processed.",
		}, []string{"language", "status"}),
		documentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_milliseconds",
			Help:      "Histogram of per-document processing latency in milliseconds.",
			Buckets:   latencyBuckets,
		}),
		documentRegions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_regions_total",
			Help:      "Total number of regions seen across documents.",
		}, []string{"status"}),
		fusionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fusion_total",
			Help:      "Total number of word fusions by decision rule.",
		}, []string{"method"}),
		correctionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correction_total",
			Help:      "Total number of correction attempts.",
		}, []string{"language", "outcome"}),
	}

	collectors := []prometheus.Collector{
		m.regionDuration,
		m.regionTotal,
		m.documentDuration,
		m.documentRegions,
		m.fusionTotal,
		m.correctionTotal,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordRegion(_ context.Context, p *RegionMetricParams) {
	if p == nil {
		return
	}
	status := "valid"
	if !p.Valid {
		status = "invalid"
	}
	m.regionDuration.WithLabelValues(string(p.Language), string(p.Direction)).Observe(p.DurationMs)
	m.regionTotal.WithLabelValues(string(p.Language), status).Inc()
}

func (m *prometheusMetrics) RecordDocument(_ context.Context, p *DocumentMetricParams) {
	if p == nil {
		return
	}
	m.documentDuration.Observe(p.DurationMs)
	m.documentRegions.WithLabelValues("ok").Add(float64(p.TotalRegions - p.FailedRegions))
	m.documentRegions.WithLabelValues("failed").Add(float64(p.FailedRegions))
}

func (m *prometheusMetrics) RecordFusion(_ context.Context, method types.FusionMethod, _ int) {
	m.fusionTotal.WithLabelValues(string(method)).Inc()
}

func (m *prometheusMetrics) RecordCorrection(_ context.Context, lang types.LanguageTag, applied bool) {
	outcome := "kept"
	if applied {
		outcome = "applied"
	}
	m.correctionTotal.WithLabelValues(string(lang), outcome).Inc()
}

type noopMetrics struct{}

// NewNoopMetrics returns a metrics implementation that records nothing.
func NewNoopMetrics() PipelineMetrics {
	return noopMetrics{}
}

func (noopMetrics) RecordRegion(context.Context, *RegionMetricParams)         {}
func (noopMetrics) RecordDocument(context.Context, *DocumentMetricParams)     {}
func (noopMetrics) RecordFusion(context.Context, types.FusionMethod, int)     {}
func (noopMetrics) RecordCorrection(context.Context, types.LanguageTag, bool) {}

// InMemoryMetrics records events in memory for unit tests.
type InMemoryMetrics struct {
	mu          sync.Mutex
	regions     []RegionMetricParams
	documents   []DocumentMetricParams
	fusions     map[types.FusionMethod]int64
	corrections map[string]int64
}

// NewInMemoryMetrics returns an in-memory metrics implementation.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		fusions:     make(map[types.FusionMethod]int64),
		corrections: make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordRegion(_ context.Context, p *RegionMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = append(m.regions, *p)
}

func (m *InMemoryMetrics) RecordDocument(_ context.Context, p *DocumentMetricParams) {
	if p == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = append(m.documents, *p)
}

func (m *InMemoryMetrics) RecordFusion(_ context.Context, method types.FusionMethod, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fusions[method]++
}

func (m *InMemoryMetrics) RecordCorrection(_ context.Context, lang types.LanguageTag, applied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := "kept"
	if applied {
		outcome = "applied"
	}
	m.corrections[string(lang)+"/"+outcome]++
}

// Regions returns a copy of all recorded region events.
func (m *InMemoryMetrics) Regions() []RegionMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RegionMetricParams, len(m.regions))
	copy(out, m.regions)
	return out
}

// Documents returns a copy of all recorded document events.
func (m *InMemoryMetrics) Documents() []DocumentMetricParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DocumentMetricParams, len(m.documents))
	copy(out, m.documents)
	return out
}

// FusionCount returns the number of fusions recorded for a decision rule.
func (m *InMemoryMetrics) FusionCount(method types.FusionMethod) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fusions[method]
}

// CorrectionCount returns the recorded correction attempts for a language
// and outcome ("applied" or "kept").
func (m *InMemoryMetrics) CorrectionCount(lang types.LanguageTag, outcome string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corrections[string(lang)+"/"+outcome]
}

var (
	_ PipelineMetrics = (*prometheusMetrics)(nil)
	_ PipelineMetrics = noopMetrics{}
	_ PipelineMetrics = (*InMemoryMetrics)(nil)
)
