// Package extract holds the rule-based extractors that read time windows,
// places and the sentence type out of an annotated question.
package extract

import (
	"strconv"
	"strings"

	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
)

// TimeExtractor extracts the time window of a question
type TimeExtractor struct {
	earliest  int // years must be strictly greater
	now       int // current year, upper bound and anchor of "the last ..."
	durations map[string]duration
}

type duration struct {
	years  int
	plural bool
}

// NewTimeExtractor creates a time extractor accepting years in (earliest, now]
func NewTimeExtractor(earliest, now int) *TimeExtractor {
	return &TimeExtractor{
		earliest: earliest,
		now:      now,
		durations: map[string]duration{
			"year":      {1, false},
			"years":     {1, true},
			"decade":    {10, false},
			"decades":   {10, true},
			"century":   {100, false},
			"centuries": {100, true},
		},
	}
}

// IsYear reports whether word is an integer year in (earliest, now]
func (e *TimeExtractor) IsYear(word string) bool {
	_, ok := e.year(word)
	return ok
}

func (e *TimeExtractor) year(word string) (int, bool) {
	y, err := strconv.Atoi(word)
	if err != nil {
		return 0, false
	}
	return y, e.earliest < y && y <= e.now
}

// Extract returns the time window of s. Years after the first "than" go to
// Than; of the rest, one year is read through its governing preposition and
// two or more give a span. With no year, "the last N decades" style phrases
// are resolved against the current year.
func (e *TimeExtractor) Extract(s *model.Sentence) model.TimeWindow {
	var w model.TimeWindow

	than := s.IndexFold("than")
	var years []int
	var yearPos []int
	var other []int // positions of non-year DATE tokens
	for i, tok := range s.Tokens {
		if s.Entity(i) != model.EntityDate {
			continue
		}
		y, ok := e.year(tok)
		switch {
		case !ok:
			other = append(other, i)
		case than >= 0 && i > than:
			w.Than = append(w.Than, y)
		default:
			years = append(years, y)
			yearPos = append(yearPos, i)
		}
	}

	switch {
	case len(years) == 1:
		e.resolveSingle(s, years[0], yearPos[0], &w)
	case len(years) >= 2:
		lo, hi := years[0], years[0]
		for _, y := range years[1:] {
			lo = min(lo, y)
			hi = max(hi, y)
		}
		w.From, w.To = model.Year(lo), model.Year(hi)
	case len(other) > 0:
		if n := e.lastSpan(s, other); n > 0 {
			w.From, w.To = model.Year(e.now-n), model.Year(e.now)
		}
	}
	return w
}

// resolveSingle reads the role of a lone year from its prepositional phrase,
// or from its dependency links when it sits in none
func (e *TimeExtractor) resolveSingle(s *model.Sentence, y, pos int, w *model.TimeWindow) {
	var context []string
	for _, pp := range tree.SubtreesOfLabel(s.Tree, "PP") {
		if pp.Covers(pos) {
			context = pp.Leaves()
		}
	}
	if context == nil {
		context = linkedAt(s, pos)
	}

	switch {
	case tree.ContainsFold(context, "in"):
		w.From, w.To = model.Year(y), model.Year(y)
	case tree.ContainsFold(context, "since"), tree.ContainsFold(context, "after"):
		w.From = model.Year(y)
	case tree.ContainsFold(context, "till"), tree.ContainsFold(context, "until"), tree.ContainsFold(context, "before"):
		w.To = model.Year(y)
	default:
		w.From, w.To = model.Year(y), model.Year(y)
	}
}

// lastSpan returns the number of years covered by a "last ..." expression
// among the DATE tokens at positions, or 0
func (e *TimeExtractor) lastSpan(s *model.Sentence, positions []int) int {
	words := make([]string, len(positions))
	for i, p := range positions {
		words[i] = s.Tokens[p]
	}
	if !tree.ContainsFold(words, "last") {
		return 0
	}

	counts := integers(words)
	if len(counts) == 0 {
		// The count is often left out of the DATE span: "the last two decades".
		for _, pp := range tree.SubtreesOfLabel(s.Tree, "PP") {
			if pp.Covers(positions...) {
				counts = integers(pp.Leaves())
			}
		}
	}
	n, explicit := 1, false
	if len(counts) == 1 {
		n, explicit = counts[0], true
	}

	var unit *duration
	for _, w := range words {
		if d, ok := e.durations[strings.ToLower(w)]; ok {
			unit = &d
			break
		}
	}
	if unit == nil {
		return 0
	}
	if !explicit && unit.plural {
		n = 5
	}
	return n * unit.years
}

func integers(words []string) []int {
	var res []int
	for _, w := range words {
		if n, ok := lexicon.ParseInt(w); ok {
			res = append(res, n)
		}
	}
	return res
}

// DateFigures returns the positions of numbers (CD) that denote dates: tagged
// DATE themselves or linked by a dependency to a DATE token
func DateFigures(s *model.Sentence) map[int]bool {
	res := make(map[int]bool)
	for i := range s.Tokens {
		if s.Tag(i) != "CD" {
			continue
		}
		if s.Entity(i) == model.EntityDate {
			res[i] = true
			continue
		}
		for _, d := range s.Deps {
			if d.HeadIndex < 0 {
				continue
			}
			if (d.DependentIndex == i && s.Entity(d.HeadIndex) == model.EntityDate) ||
				(d.HeadIndex == i && s.Entity(d.DependentIndex) == model.EntityDate) {
				res[i] = true
				break
			}
		}
	}
	return res
}

// linkedAt returns the tokens linked by a dependency to the token at pos
func linkedAt(s *model.Sentence, pos int) []string {
	var res []string
	for _, d := range s.Deps {
		if d.HeadIndex < 0 {
			continue
		}
		switch pos {
		case d.HeadIndex:
			res = append(res, d.Dependent)
		case d.DependentIndex:
			res = append(res, d.Head)
		}
	}
	return res
}
