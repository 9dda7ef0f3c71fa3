package model

import "encoding/json"

// ComparisonType names what a comparison measures against
type ComparisonType string

const (
	ComparisonThreshold        ComparisonType = "threshold"
	ComparisonAgainstPlace     ComparisonType = "against_place"
	ComparisonAgainstTwoValues ComparisonType = "against_two_values"
	ComparisonAgainstYear      ComparisonType = "against_year"
)

// Sense is the direction of a comparison
type Sense string

const (
	GreaterThan Sense = "greater_than"
	LessThan    Sense = "less_than"
)

// Period is a single year (From == To) or an inclusive span
type Period struct {
	From int
	To   int
}

// MarshalJSON writes a single year as a number and a span as [from, to]
func (p Period) MarshalJSON() ([]byte, error) {
	if p.From == p.To {
		return json.Marshal(p.From)
	}
	return json.Marshal([2]int{p.From, p.To})
}

// SinglePeriod returns the period covering only year y
func SinglePeriod(y int) *Period {
	return &Period{From: y, To: y}
}

// Scope holds the attributes shared by both sides of a comparison
type Scope struct {
	Time  *Period
	Areas []string
}

// Side holds the attributes of one side of a two-value comparison
type Side struct {
	Year *int
	Area string
}

// Attributes is the flat TIME/AREA/THRESHOLD view of one side, the shape
// downstream dimension filling consumes.
type Attributes struct {
	Time      *Period  `json:"TIME,omitempty"`
	Area      []string `json:"AREA,omitempty"`
	Threshold *float64 `json:"THRESHOLD,omitempty"`
}

// Comparison is one comparative clause. The concrete types are
// ThresholdComparison, PlaceComparison, YearComparison and TwoValueComparison.
type Comparison interface {
	Type() ComparisonType
	Direction() Sense
	// Attributes returns the common, left and right attribute views
	Attributes() (common, left, right Attributes)
}

// ThresholdComparison compares against a number: "population over 50 million"
type ThresholdComparison struct {
	Sense     Sense
	Common    Scope
	Threshold float64
}

// PlaceComparison compares against one country: "higher GDP than Germany".
// LeftYear and RightYear are set when each side has its own year.
type PlaceComparison struct {
	Sense     Sense
	Common    Scope
	Place     string
	LeftYear  *int
	RightYear *int
}

// YearComparison compares against one year: "years with more exports than 2010"
type YearComparison struct {
	Sense  Sense
	Common Scope
	Year   int
}

// TwoValueComparison compares two values of the same series, told apart by
// year or by country.
type TwoValueComparison struct {
	Sense  Sense
	Common Scope
	Left   Side
	Right  Side
}

func (c ThresholdComparison) Type() ComparisonType { return ComparisonThreshold }
func (c PlaceComparison) Type() ComparisonType     { return ComparisonAgainstPlace }
func (c YearComparison) Type() ComparisonType      { return ComparisonAgainstYear }
func (c TwoValueComparison) Type() ComparisonType  { return ComparisonAgainstTwoValues }

func (c ThresholdComparison) Direction() Sense { return c.Sense }
func (c PlaceComparison) Direction() Sense     { return c.Sense }
func (c YearComparison) Direction() Sense      { return c.Sense }
func (c TwoValueComparison) Direction() Sense  { return c.Sense }

func (c ThresholdComparison) Attributes() (common, left, right Attributes) {
	t := c.Threshold
	return c.Common.attributes(), Attributes{}, Attributes{Threshold: &t}
}

func (c PlaceComparison) Attributes() (common, left, right Attributes) {
	left = Attributes{Time: yearPeriod(c.LeftYear)}
	right = Attributes{Time: yearPeriod(c.RightYear), Area: []string{c.Place}}
	return c.Common.attributes(), left, right
}

func (c YearComparison) Attributes() (common, left, right Attributes) {
	return c.Common.attributes(), Attributes{}, Attributes{Time: SinglePeriod(c.Year)}
}

func (c TwoValueComparison) Attributes() (common, left, right Attributes) {
	return c.Common.attributes(), c.Left.attributes(), c.Right.attributes()
}

func (s Scope) attributes() Attributes {
	return Attributes{Time: s.Time, Area: s.Areas}
}

func (s Side) attributes() Attributes {
	a := Attributes{Time: yearPeriod(s.Year)}
	if s.Area != "" {
		a.Area = []string{s.Area}
	}
	return a
}

func yearPeriod(y *int) *Period {
	if y == nil {
		return nil
	}
	return SinglePeriod(*y)
}

type comparisonJSON struct {
	Type   ComparisonType `json:"type"`
	Sense  Sense          `json:"sense"`
	Common Attributes     `json:"common"`
	Left   Attributes     `json:"left"`
	Right  Attributes     `json:"right"`
}

func marshalComparison(c Comparison) ([]byte, error) {
	common, left, right := c.Attributes()
	return json.Marshal(comparisonJSON{
		Type:   c.Type(),
		Sense:  c.Direction(),
		Common: common,
		Left:   left,
		Right:  right,
	})
}

func (c ThresholdComparison) MarshalJSON() ([]byte, error) { return marshalComparison(c) }
func (c PlaceComparison) MarshalJSON() ([]byte, error)     { return marshalComparison(c) }
func (c YearComparison) MarshalJSON() ([]byte, error)      { return marshalComparison(c) }
func (c TwoValueComparison) MarshalJSON() ([]byte, error)  { return marshalComparison(c) }

// AggregationSense is the direction of a ranking
type AggregationSense string

const (
	Maximal AggregationSense = "maximal"
	Minimal AggregationSense = "minimal"
)

// Aggregation is the ranking requested by a superlative ("top 5", "lowest")
type Aggregation struct {
	Sense AggregationSense `json:"sense"`
	Count int              `json:"count"`
}
