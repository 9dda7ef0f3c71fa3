// Package pipeline turns questions into intents: raw text goes through
// abbreviation expansion and the annotator, annotated sentences go straight
// to the Analyzer.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ppiankov/nlquery/internal/annotate"
	"github.com/ppiankov/nlquery/internal/cache"
	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/worker"
)

// Pipeline orchestrates annotation, analysis and rendering
type Pipeline struct {
	analyzer  *Analyzer
	annotator annotate.Annotator // nil: only annotated sentences are accepted
	gazetteer *lexicon.Gazetteer
	renderer  *Renderer
	logger    *slog.Logger
}

// NewPipeline creates a pipeline. The gazetteer named in the configuration
// replaces the embedded one.
func NewPipeline(cfg *model.Config, annotator annotate.Annotator, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g := lexicon.Default()
	if cfg.Extract.Gazetteer != "" {
		loaded, err := lexicon.LoadFile(cfg.Extract.Gazetteer)
		if err != nil {
			return nil, fmt.Errorf("load gazetteer: %w", err)
		}
		g = loaded
	}

	return &Pipeline{
		analyzer:  NewAnalyzer(cfg.Extract, g, logger),
		annotator: annotator,
		gazetteer: g,
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		logger:    logger,
	}, nil
}

// NewAnnotator builds the CoreNLP client described by the configuration,
// with its response cache and rate limiter
func NewAnnotator(cfg *model.Config, userAgent string, logger *slog.Logger) (*annotate.CoreNLP, error) {
	c := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.MemoryTTL, cfg.Cache.DiskTTL)
	return annotate.NewCoreNLP(annotate.CoreNLPOptions{
		URL:        cfg.Annotator.URL,
		Timeout:    cfg.Annotator.Timeout,
		UserAgent:  userAgent,
		HTTPProxy:  cfg.Annotator.HTTPProxy,
		HTTPSProxy: cfg.Annotator.HTTPSProxy,
		Limiter:    worker.NewLimiter(cfg.Annotator.RequestsPerSecond, cfg.Annotator.Burst),
		Cache:      c,
		CacheTTL:   cfg.Cache.DiskTTL,
		Logger:     logger,
	})
}

// Analyzer returns the analyzer of the pipeline
func (p *Pipeline) Analyzer() *Analyzer {
	return p.analyzer
}

// AnalyzeSentence analyses an annotated sentence
func (p *Pipeline) AnalyzeSentence(ctx context.Context, s *model.Sentence) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.Report{
		Intent:     *p.analyzer.Analyze(s),
		AnalyzedAt: time.Now().UTC(),
		Source:     "file",
	}, nil
}

// AnalyzeText expands abbreviations in text, annotates it and analyses the
// result. An annotator failure fails the question.
func (p *Pipeline) AnalyzeText(ctx context.Context, id, text string) (*model.Report, error) {
	if p.annotator == nil {
		return nil, fmt.Errorf("no annotator configured for %q", text)
	}

	expanded := p.gazetteer.ExpandAbbreviations(text)
	if expanded != text {
		p.logger.Debug("expanded abbreviations", "id", id, "text", expanded)
	}

	s, err := p.annotator.Annotate(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	sent := *s
	sent.ID = id
	sent.Text = text

	in := p.analyzer.Analyze(&sent)
	return &model.Report{
		Intent:     *in,
		AnalyzedAt: time.Now().UTC(),
		Source:     "annotator",
		Annotator:  p.annotator.Name(),
	}, nil
}

// RenderReport writes the report to the requested files and prints its
// summary to w
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, w io.Writer, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			p.logger.Info("wrote JSON", "path", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			p.logger.Info("wrote Markdown", "path", mdPath)
		}
	}

	p.renderer.RenderSummary(w, report)
	return nil
}
