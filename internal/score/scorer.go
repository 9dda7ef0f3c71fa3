// Package score measures extraction accuracy against labelled questions.
package score

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ppiankov/nlquery/internal/model"
)

// Metric names, in report order
const (
	MetricType             = "type"
	MetricReturned         = "returned"
	MetricComparison       = "comparison"
	MetricAggregation      = "aggregation"
	MetricAggregationSense = "aggregation_sense"
	MetricAggregationCount = "aggregation_count"
	MetricTime             = "time"
	MetricPlaces           = "places"
)

var metricOrder = []string{
	MetricType, MetricReturned, MetricComparison, MetricAggregation,
	MetricAggregationSense, MetricAggregationCount, MetricTime, MetricPlaces,
}

// Scorer accumulates per-metric accuracy over evaluation cases
type Scorer struct {
	currentYear  int
	earliestYear int

	cases    int
	errors   int
	metrics  map[string]*model.Metric
	failures []model.EvalFailure
}

// NewScorer creates a scorer. Open time bounds are scored as the defaults a
// query would use: from the earliest year for lists of years, otherwise the
// current year, and to the current year.
func NewScorer(currentYear, earliestYear int) *Scorer {
	return &Scorer{
		currentYear:  currentYear,
		earliestYear: earliestYear,
		metrics:      make(map[string]*model.Metric),
	}
}

// Add scores one analysed case
func (s *Scorer) Add(c model.EvalCase, in *model.Intent) {
	s.cases++
	e := c.Expect

	if e.Kind != nil {
		s.record(c, MetricType, string(*e.Kind), string(in.Type.Kind))
	}
	if e.Returned != nil {
		s.record(c, MetricReturned, string(*e.Returned), string(in.Returned))
	}
	if e.Comparison != nil {
		s.record(c, MetricComparison, strconv.FormatBool(*e.Comparison), strconv.FormatBool(len(in.Comparisons) > 0))
	}
	if e.Aggregation != nil {
		s.record(c, MetricAggregation, strconv.FormatBool(*e.Aggregation), strconv.FormatBool(in.Aggregation != nil))
	}
	if e.AggregationSense != nil {
		got := "none"
		if in.Aggregation != nil {
			got = string(in.Aggregation.Sense)
		}
		s.record(c, MetricAggregationSense, string(*e.AggregationSense), got)
	}
	if e.AggregationCount != nil {
		got := "none"
		if in.Aggregation != nil {
			got = strconv.Itoa(in.Aggregation.Count)
		}
		s.record(c, MetricAggregationCount, strconv.Itoa(*e.AggregationCount), got)
	}
	if e.From != nil || e.To != nil || e.Than != nil {
		s.record(c, MetricTime, s.expectedTime(e), s.gotTime(in))
	}
	if e.ScorePlaces || e.PlacesIn != nil || e.PlacesTo != nil || e.PlacesThan != nil {
		want := formatPlaceNames(e.PlacesIn, e.PlacesTo, e.PlacesThan)
		got := formatPlaceNames(names(in.Places.In), names(in.Places.To), names(in.Places.Than))
		s.record(c, MetricPlaces, want, got)
	}
}

// AddError records a case that could not be analysed. It counts against no
// metric.
func (s *Scorer) AddError(c model.EvalCase, err error) {
	s.cases++
	s.errors++
	s.failures = append(s.failures, model.EvalFailure{
		CaseID: c.ID,
		Text:   c.Text,
		Metric: "error",
		Got:    err.Error(),
	})
}

// Report returns the accuracy of every metric scored at least once
func (s *Scorer) Report() model.EvalReport {
	r := model.EvalReport{Cases: s.cases, Errors: s.errors, Failures: slices.Clone(s.failures)}
	for _, name := range metricOrder {
		m, ok := s.metrics[name]
		if !ok {
			continue
		}
		out := *m
		if out.Total > 0 {
			out.Accuracy = float64(out.Correct) / float64(out.Total)
		}
		r.Metrics = append(r.Metrics, out)
	}
	return r
}

func (s *Scorer) record(c model.EvalCase, metric, want, got string) {
	m, ok := s.metrics[metric]
	if !ok {
		m = &model.Metric{Name: metric}
		s.metrics[metric] = m
	}
	m.Total++
	if want == got {
		m.Correct++
		return
	}
	s.failures = append(s.failures, model.EvalFailure{
		CaseID:   c.ID,
		Text:     c.Text,
		Metric:   metric,
		Expected: want,
		Got:      got,
	})
}

// expectedTime renders the labelled window. A bound missing from the label
// takes the same default as a bound missing from the extraction.
func (s *Scorer) expectedTime(e model.Expectation) string {
	from, to := s.currentYear, s.currentYear
	if e.Returned != nil && *e.Returned == model.ResultYears {
		from = s.earliestYear
	}
	if e.From != nil {
		from = *e.From
	}
	if e.To != nil {
		to = *e.To
	}
	than := "none"
	if e.Than != nil && *e.Than != 0 {
		than = strconv.Itoa(*e.Than)
	}
	return fmt.Sprintf("%d-%d than %s", from, to, than)
}

func (s *Scorer) gotTime(in *model.Intent) string {
	from, to := s.currentYear, s.currentYear
	if in.Type.Returned == model.ResultYears {
		from = s.earliestYear
	}
	if in.Time.From != nil {
		from = *in.Time.From
	}
	if in.Time.To != nil {
		to = *in.Time.To
	}
	than := "none"
	switch len(in.Time.Than) {
	case 0:
	case 1:
		than = strconv.Itoa(in.Time.Than[0])
	default:
		var ys []string
		for _, y := range in.Time.Than {
			ys = append(ys, strconv.Itoa(y))
		}
		than = strings.Join(ys, "/")
	}
	return fmt.Sprintf("%d-%d than %s", from, to, than)
}

func names(places []model.Place) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = p.Name
	}
	return out
}

func formatPlaceNames(in, to, than []string) string {
	join := func(ns []string) string {
		if len(ns) == 0 {
			return "None"
		}
		return strings.Join(ns, "/")
	}
	return "in " + join(in) + "; to " + join(to) + "; than " + join(than)
}
