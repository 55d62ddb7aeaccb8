// Package ocr is the public entry point of the fusion library. It hides the
// internal stage wiring behind a single Processor configured with
// functional options.
package ocr

import (
	"context"

	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/config"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/logging"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/internal/pipeline"
	"github.com/HS420-CODER/OCR-ERP-Tool-sub000/pkg/types"
)

// Region aliases the pipeline input type so callers only import this
// package.
type Region = pipeline.Region

// Metrics aliases the pipeline telemetry interface.
type Metrics = pipeline.PipelineMetrics

// Processor fuses and corrects multi-engine OCR output. Construct with New
// and share freely; Processor is safe for concurrent use.
type Processor struct {
	cfg        *config.Config
	configPath string
	logger     logging.Logger
	metrics    Metrics

	pipe *pipeline.Pipeline
}

// Option customises a Processor during construction.
type Option func(*Processor)

// WithConfigFile loads configuration from the given YAML file instead of
// the built-in defaults.
func WithConfigFile(path string) Option {
	return func(p *Processor) {
		p.configPath = path
	}
}

// WithConfig supplies an already built configuration. It takes precedence
// over WithConfigFile.
func WithConfig(cfg *config.Config) Option {
	return func(p *Processor) {
		p.cfg = cfg
	}
}

// WithLogger replaces the default production logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithMetrics replaces the default noop metrics collector.
func WithMetrics(metrics Metrics) Option {
	return func(p *Processor) {
		p.metrics = metrics
	}
}

// New builds a Processor. Without options it runs on built-in defaults:
// bundled dictionaries and models, JSON logging at info level, no metrics.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}

	if p.cfg == nil {
		if p.configPath != "" {
			cfg, err := config.Load(p.configPath)
			if err != nil {
				return nil, err
			}
			p.cfg = cfg
		} else {
			cfg := config.Default()
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			p.cfg = cfg
		}
	}

	if p.logger == nil {
		logger, err := logging.New(p.cfg.Log)
		if err != nil {
			return nil, err
		}
		p.logger = logger
	}
	if p.metrics == nil {
		if p.cfg.Metrics.Enabled {
			m, err := pipeline.NewPrometheusMetrics(p.cfg.Metrics.Namespace, nil)
			if err != nil {
				return nil, err
			}
			p.metrics = m
		} else {
			p.metrics = pipeline.NewNoopMetrics()
		}
	}

	pipe, err := pipeline.New(p.cfg, p.logger, p.metrics)
	if err != nil {
		return nil, err
	}
	p.pipe = pipe
	return p, nil
}

// ProcessRegion fuses, reorders, corrects, and scores a single region.
func (p *Processor) ProcessRegion(ctx context.Context, region Region) (*types.RegionResult, error) {
	return p.pipe.ProcessRegion(ctx, region)
}

// ProcessDocument processes every region concurrently and assembles the
// document text in reading order.
func (p *Processor) ProcessDocument(ctx context.Context, regions []Region) (*types.FusionResult, error) {
	return p.pipe.ProcessDocument(ctx, regions)
}

// Config exposes the effective configuration, defaults applied.
func (p *Processor) Config() *config.Config {
	return p.cfg
}
