package compare

import (
	"strconv"

	"github.com/ppiankov/nlquery/internal/model"
)

// clause is one comparison's share of the sentence, with the time and place
// extractors re-run on it alone. Positions are relative to the clause.
type clause struct {
	index  int
	sent   *model.Sentence
	comp   comparator
	dates  map[int]bool
	times  model.TimeWindow
	places model.PlaceSet
}

// than returns the position of "than" in the clause
func (c *clause) than() (int, error) {
	i := c.sent.IndexFold("than")
	if i < 0 {
		return 0, structural(MissingThan, c.index, "comparative %q has no \"than\" in its clause", c.comp.Word)
	}
	return i, nil
}

// singleYear is the common time of a comparison between places: one year
func (c *clause) singleYear() *model.Period {
	if y, ok := c.times.SingleYear(); ok {
		return model.SinglePeriod(y)
	}
	return nil
}

// span is the common time of a comparison between years: a range
func (c *clause) span() *model.Period {
	if p, ok := c.times.Span(); ok {
		return &p
	}
	return nil
}

// yearBefore reports whether year is written as a DATE token before limit
func (c *clause) yearBefore(year, limit int) bool {
	want := strconv.Itoa(year)
	for i := 0; i < limit && i < c.sent.Len(); i++ {
		if c.sent.Tokens[i] == want && c.sent.Entity(i) == model.EntityDate {
			return true
		}
	}
	return false
}

// regionScope returns the IN places as area restrictions. A list of places
// may only be narrowed by regions.
func (c *clause) regionScope() ([]string, error) {
	var areas []string
	for _, p := range c.places.In {
		if p.Kind == model.PlaceCountry {
			return nil, structural(IllegalScope, c.index, "country %q scopes a list of places", p.Name)
		}
		areas = append(areas, p.Name)
	}
	return areas, nil
}

// countryScope returns the IN place of a list of years: at most one country
func (c *clause) countryScope() ([]string, error) {
	switch in := c.places.In; {
	case len(in) == 0:
		return nil, nil
	case len(in) > 1:
		return nil, structural(TooManyReferents, c.index, "%d places scope a list of years", len(in))
	case in[0].Kind != model.PlaceCountry:
		return nil, structural(IllegalScope, c.index, "region %q scopes a list of years", in[0].Name)
	default:
		return []string{in[0].Name}, nil
	}
}

// forPlaces builds the comparison of a clause in a question asking for places
func (c *clause) forPlaces() (model.Comparison, error) {
	sense := c.comp.sense()

	if c.comp.Kind == thresholdComparator {
		v, ok := threshold(c.sent, c.comp.Pos, c.dates)
		if !ok {
			return nil, structural(NoThreshold, c.index, "no number after %q", c.comp.Word)
		}
		areas, err := c.regionScope()
		if err != nil {
			return nil, err
		}
		return model.ThresholdComparison{
			Sense:     sense,
			Common:    model.Scope{Time: c.singleYear(), Areas: areas},
			Threshold: v,
		}, nil
	}

	than, err := c.than()
	if err != nil {
		return nil, err
	}

	var place string
	switch against := c.places.Than; {
	case len(against) > 1:
		return nil, structural(TooManyReferents, c.index, "%d places after \"than\"", len(against))
	case len(against) == 1 && against[0].Kind != model.PlaceCountry:
		return nil, structural(IllegalScope, c.index, "comparison with region %q", against[0].Name)
	case len(against) == 1:
		place = against[0].Name
	}

	areas, err := c.regionScope()
	if err != nil {
		return nil, err
	}
	common := model.Scope{Areas: areas}

	// A year on each side of "than" compares two values; otherwise the one
	// year found is shared. No year at all leaves the time open.
	var left, right *int
	switch {
	case len(c.times.Than) == 1 && c.times.From != nil && c.yearBefore(*c.times.From, than):
		left, right = model.Year(*c.times.From), model.Year(c.times.Than[0])
	case len(c.times.Than) == 1:
		common.Time = model.SinglePeriod(c.times.Than[0])
	default:
		common.Time = c.singleYear()
	}

	switch {
	case place != "":
		return model.PlaceComparison{Sense: sense, Common: common, Place: place, LeftYear: left, RightYear: right}, nil
	case left != nil:
		return model.TwoValueComparison{
			Sense:  sense,
			Common: common,
			Left:   model.Side{Year: left},
			Right:  model.Side{Year: right},
		}, nil
	}
	if v, ok := threshold(c.sent, than, c.dates); ok {
		return model.ThresholdComparison{Sense: sense, Common: common, Threshold: v}, nil
	}
	return model.TwoValueComparison{Sense: sense, Common: common}, nil
}

// forYears builds the comparison of a clause in a question asking for years.
// Places and times swap roles: one country scopes the series and a year
// after "than" is the reference.
func (c *clause) forYears() (model.Comparison, error) {
	sense := c.comp.sense()

	if c.comp.Kind == thresholdComparator {
		v, ok := threshold(c.sent, c.comp.Pos, c.dates)
		if !ok {
			return nil, structural(NoThreshold, c.index, "no number after %q", c.comp.Word)
		}
		areas, err := c.countryScope()
		if err != nil {
			return nil, err
		}
		return model.ThresholdComparison{
			Sense:     sense,
			Common:    model.Scope{Time: c.span(), Areas: areas},
			Threshold: v,
		}, nil
	}

	than, err := c.than()
	if err != nil {
		return nil, err
	}

	common := model.Scope{Time: c.span()}
	var left, right model.Side
	twoPlaces := false
	switch against, in := c.places.Than, c.places.In; {
	case len(against) > 1:
		return nil, structural(TooManyReferents, c.index, "%d places after \"than\"", len(against))
	case len(against) == 1 && against[0].Kind != model.PlaceCountry:
		return nil, structural(IllegalScope, c.index, "comparison with region %q", against[0].Name)
	case len(against) == 1 && len(in) == 0:
		common.Areas = []string{against[0].Name}
	case len(against) == 1 && len(in) > 1:
		return nil, structural(TooManyReferents, c.index, "%d places before \"than\"", len(in))
	case len(against) == 1 && in[0].Kind != model.PlaceCountry:
		return nil, structural(IllegalScope, c.index, "comparison of region %q", in[0].Name)
	case len(against) == 1:
		left.Area, right.Area = in[0].Name, against[0].Name
		twoPlaces = true
	default:
		areas, err := c.countryScope()
		if err != nil {
			return nil, err
		}
		common.Areas = areas
	}

	switch n := len(c.times.Than); {
	case n > 1:
		return nil, structural(TooManyReferents, c.index, "%d years after \"than\"", n)
	case n == 1:
		right.Year = model.Year(c.times.Than[0])
	}

	switch {
	case twoPlaces:
		return model.TwoValueComparison{Sense: sense, Common: common, Left: left, Right: right}, nil
	case right.Year != nil:
		return model.YearComparison{Sense: sense, Common: common, Year: *right.Year}, nil
	}
	if v, ok := threshold(c.sent, than, c.dates); ok {
		return model.ThresholdComparison{Sense: sense, Common: common, Threshold: v}, nil
	}
	return model.TwoValueComparison{Sense: sense, Common: common}, nil
}
