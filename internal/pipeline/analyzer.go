package pipeline

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ppiankov/nlquery/internal/compare"
	"github.com/ppiankov/nlquery/internal/extract"
	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
)

// Analyzer reads the intent of annotated questions. It holds only read-only
// lexicons, so one Analyzer may serve many goroutines.
type Analyzer struct {
	times   *extract.TimeExtractor
	places  *extract.PlaceExtractor
	compare *compare.Extractor
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil gazetteer selects the embedded one,
// a nil logger the default one.
func NewAnalyzer(cfg model.ExtractConfig, g *lexicon.Gazetteer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	times := extract.NewTimeExtractor(cfg.EarliestYear, cfg.Year())
	places := extract.NewPlaceExtractor(g)
	return &Analyzer{
		times:   times,
		places:  places,
		compare: compare.NewExtractor(times, places),
		logger:  logger,
	}
}

// Analyze classifies s, extracts its time and place scope, then its
// comparisons and aggregation. A structural failure of the comparison rules
// leaves the intent without comparison or aggregation and records a warning.
func (a *Analyzer) Analyze(s *model.Sentence) *model.Intent {
	in := &model.Intent{
		ID:          s.ID,
		Text:        s.Text,
		Comparisons: []model.Comparison{},
	}
	if in.Text == "" {
		in.Text = strings.Join(s.Tokens, " ")
	}

	in.Type = extract.ClassifySentence(s)
	in.Returned = in.Type.Returned
	if in.Type.Kind == model.KindYesNo {
		in.Warnings = append(in.Warnings, "yes/no questions are not supported")
		return in
	}

	in.Time = a.times.Extract(s)
	in.Places = a.places.Extract(s)

	comps, agg, err := a.compare.Extract(s, in.Type.Returned, in.Type.TriggerWords)
	if err != nil {
		var se *compare.StructuralError
		if errors.As(err, &se) {
			a.logger.Debug("comparison rules rejected sentence",
				"id", s.ID, "kind", se.Kind.String(), "clause", se.Clause, "detail", se.Detail)
		} else {
			a.logger.Warn("comparison extraction failed", "id", s.ID, "error", err)
		}
		in.Warnings = append(in.Warnings, err.Error())
		return in
	}

	if len(comps) > 0 {
		in.Comparisons = comps
	}
	in.Aggregation = agg
	if in.Returned == model.ResultValue && (len(comps) > 0 || agg != nil) {
		in.Returned = model.ResultPlaces
	}
	return in
}
