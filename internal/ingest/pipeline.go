// Package ingest converts the upstream case repositories into the gallery dataset:
// one JSON file per model and language plus the images they reference.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/promptgallery/internal/config"
	"github.com/hyperjump/promptgallery/internal/extract"
	"github.com/hyperjump/promptgallery/internal/models"
	"github.com/hyperjump/promptgallery/internal/storage"
)

// Options locate the inputs and outputs of a run.
type Options struct {
	Sources config.SourcesConfig
	Output  config.OutputConfig
}

// Pipeline runs ingestion. It is not safe for concurrent use.
type Pipeline struct {
	opts      Options
	store     storage.Storage
	extractor *extract.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for skipped cases and dropped images.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStorage replaces the default file storage rooted at the output directories.
func WithStorage(s storage.Storage) Option {
	return func(p *Pipeline) { p.store = s }
}

// New creates a pipeline.
func New(opts Options, options ...Option) *Pipeline {
	p := &Pipeline{
		opts:      opts,
		extractor: extract.NewExtractor(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, o := range options {
		o(p)
	}
	if p.store == nil {
		p.store = storage.NewFileStorage(opts.Output.DataDir, opts.Output.AssetsDir)
	}
	return p
}

// Result is the computed dataset of a run, before anything is written.
type Result struct {
	Data   map[models.Model]models.ModelData
	Assets []AssetCopy
	Report *Report
}

// Build computes every model's records. It reads the sources only; nothing is written.
// A fatal error for any model fails the whole build.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	start := p.now()
	report := newReport(start)
	plan := newAssetPlan(p.opts.Output.AssetsURLPrefix)
	result := &Result{Data: make(map[models.Model]models.ModelData), Report: report}

	builders := map[models.Model]func(*assetPlan, *ModelReport) (models.ModelData, error){
		models.ModelGPT4o:      p.buildGPT4o,
		models.ModelNanoBanana: p.buildNano,
	}
	for _, m := range models.Models() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		build, ok := builders[m]
		if !ok {
			continue
		}
		mr := newModelReport(m)
		data, err := build(plan, mr)
		if err != nil {
			return nil, err
		}
		mr.CasesEN, mr.CasesZH = len(data.EN), len(data.ZH)
		result.Data[m] = data
		report.Models = append(report.Models, mr)
		p.logger.Info("model built", zap.String("model", string(m)), zap.Int("cases_en", mr.CasesEN),
			zap.Int("cases_zh", mr.CasesZH), zap.Int("skipped", len(mr.Skipped)),
			zap.Int("dropped_images", len(mr.DroppedImages)))
	}
	result.Assets = plan.copies
	for _, c := range plan.copies {
		name, _, _ := strings.Cut(c.Dest, "/")
		if mr := report.Model(models.Model(name)); mr != nil {
			mr.AssetsPlanned++
		}
	}
	report.Duration = p.now().Sub(start)
	return result, nil
}

// Run builds the dataset, copies the planned assets and writes the case files.
// Case files are only written after every model built successfully.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	result, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}
	report := result.Report
	for _, c := range result.Assets {
		if err := p.store.CopyAsset(ctx, c.Source, c.Dest); err != nil {
			return report, err
		}
		report.AssetsCopied++
	}
	for _, m := range models.Models() {
		data, ok := result.Data[m]
		if !ok {
			continue
		}
		for _, lang := range models.Languages() {
			records := data.EN
			if lang == models.LanguageZH {
				records = data.ZH
			}
			if err := p.store.WriteCases(ctx, m, lang, records); err != nil {
				return report, fmt.Errorf("write %s %s: %w", m, lang, err)
			}
			report.Files = append(report.Files, storage.CasesFileName(m, lang))
		}
	}
	report.Written = true
	report.Duration = p.now().Sub(report.StartedAt)
	p.logger.Info("dataset written", zap.String("run_id", report.RunID), zap.Int("files", len(report.Files)),
		zap.Int("assets", report.AssetsCopied), zap.Duration("duration", report.Duration))
	return report, nil
}
