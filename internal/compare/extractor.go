// Package compare detects comparative and superlative constructions in an
// annotated question and turns them into Comparison and Aggregation records.
package compare

import (
	"github.com/ppiankov/nlquery/internal/extract"
	"github.com/ppiankov/nlquery/internal/model"
)

// Extractor finds the comparisons and the aggregation of a question
type Extractor struct {
	times  *extract.TimeExtractor
	places *extract.PlaceExtractor
}

// NewExtractor creates an extractor that re-runs the given time and place
// extractors on every comparative clause
func NewExtractor(times *extract.TimeExtractor, places *extract.PlaceExtractor) *Extractor {
	return &Extractor{times: times, places: places}
}

// Extract returns one comparison per comparative clause of s and the
// aggregation of the whole sentence. returned is the result kind of the
// question and listWords the list nouns that decided it. A structural error
// aborts the whole sentence: nothing partial is returned with it.
func (e *Extractor) Extract(s *model.Sentence, returned model.ResultKind, listWords []string) ([]model.Comparison, *model.Aggregation, error) {
	dates := extract.DateFigures(s)

	comps, err := findComparators(s, dates)
	if err != nil {
		return nil, nil, err
	}

	var comparisons []model.Comparison
	if len(comps) > 0 {
		clauses, err := assignClauses(s.Tokens, comps)
		if err != nil {
			return nil, nil, err
		}
		for i, sp := range clauses {
			c, err := e.resolve(i, s, sp, comps[i], dates, returned)
			if err != nil {
				return nil, nil, err
			}
			comparisons = append(comparisons, c)
		}
	}

	return comparisons, findAggregation(s, listWords, dates), nil
}

// resolve builds the comparison of one clause
func (e *Extractor) resolve(index int, s *model.Sentence, sp span, comp comparator, dates map[int]bool, returned model.ResultKind) (model.Comparison, error) {
	sub := s.Slice(sp.Start, sp.End)
	comp.Pos -= sp.Start

	local := make(map[int]bool)
	for p := range dates {
		if sp.contains(p) {
			local[p-sp.Start] = true
		}
	}

	c := &clause{
		index:  index,
		sent:   sub,
		comp:   comp,
		dates:  local,
		times:  e.times.Extract(sub),
		places: e.places.Extract(sub),
	}
	if returned == model.ResultYears {
		return c.forYears()
	}
	// A value question with a comparison is read as a list of places.
	return c.forPlaces()
}
