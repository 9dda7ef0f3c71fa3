package model

import "strings"

// SentenceKind is the grammatical shape of a question
type SentenceKind string

const (
	KindNounPhrase SentenceKind = "NP"    // "Top 10 countries with ..."
	KindWhQuestion SentenceKind = "WH"    // "Which countries ..."
	KindYesNo      SentenceKind = "YN"    // unsupported, passed through
	KindOther      SentenceKind = "Other" // declarative or imperative
)

// ResultKind is the shape of the answer the user wants
type ResultKind string

const (
	ResultValue  ResultKind = "value"
	ResultPlaces ResultKind = "places"
	ResultYears  ResultKind = "years"
)

// ParseResultKind accepts both the native names and the legacy labels
// (Value, Agr_Area, Agr_Time) found in evaluation files.
func ParseResultKind(s string) (ResultKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "value":
		return ResultValue, true
	case "places", "agr_area":
		return ResultPlaces, true
	case "years", "agr_time":
		return ResultYears, true
	}
	return "", false
}

// CountRequest tells whether the user asked for a count ("how many", "number of")
type CountRequest string

const (
	CountUnknown CountRequest = "unknown"
	CountYes     CountRequest = "yes"
	CountNo      CountRequest = "no"
)

// SentenceType is the classification of one question
type SentenceType struct {
	Kind         SentenceKind `json:"kind"`
	Returned     ResultKind   `json:"returned"`
	Count        CountRequest `json:"count"`
	TriggerWords []string     `json:"trigger_words,omitempty"` // tokens that decided Returned
}

// TimeWindow is the time scope of a question. Than holds the years written
// after the first "than"; whether they take part in a comparison is decided
// later by the comparison extractor.
type TimeWindow struct {
	From *int  `json:"from,omitempty"`
	To   *int  `json:"to,omitempty"`
	Than []int `json:"than,omitempty"`
}

// Year returns a pointer to y
func Year(y int) *int {
	return &y
}

// SingleYear returns the year when From and To are set and equal
func (w TimeWindow) SingleYear() (int, bool) {
	if w.From != nil && w.To != nil && *w.From == *w.To {
		return *w.From, true
	}
	return 0, false
}

// Span returns From and To when both are set and differ
func (w TimeWindow) Span() (Period, bool) {
	if w.From != nil && w.To != nil && *w.From != *w.To {
		return Period{From: *w.From, To: *w.To}, true
	}
	return Period{}, false
}

// PlaceKind separates countries from regions
type PlaceKind string

const (
	PlaceCountry PlaceKind = "country"
	PlaceRegion  PlaceKind = "region"
)

// Place is a canonical gazetteer entry
type Place struct {
	Name string    `json:"name"`
	Kind PlaceKind `json:"kind"`
}

// PlaceSet holds the places of a question by role
type PlaceSet struct {
	In   []Place `json:"in,omitempty"`
	To   []Place `json:"to,omitempty"`
	Than []Place `json:"than,omitempty"`
}

// Intent is the complete structured reading of one question
type Intent struct {
	ID          string       `json:"id,omitempty"`
	Text        string       `json:"text"`
	Type        SentenceType `json:"type"`
	Returned    ResultKind   `json:"returned"` // Type.Returned after the list-result default
	Time        TimeWindow   `json:"time"`
	Places      PlaceSet     `json:"places"`
	Comparisons []Comparison `json:"comparisons"`
	Aggregation *Aggregation `json:"aggregation,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}
