package model

import "time"

// Report wraps one analysed question for rendering
type Report struct {
	Intent     Intent    `json:"intent"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Source     string    `json:"source"`              // "file" or "annotator"
	Annotator  string    `json:"annotator,omitempty"` // annotator endpoint when Source is "annotator"
}

// Expectation is the labelled answer of an evaluation case. Nil fields are
// not scored.
type Expectation struct {
	Kind             *SentenceKind     `json:"kind,omitempty"`
	Returned         *ResultKind       `json:"returned,omitempty"`
	Comparison       *bool             `json:"comparison,omitempty"`  // at least one comparison expected
	Aggregation      *bool             `json:"aggregation,omitempty"` // an aggregation expected
	AggregationSense *AggregationSense `json:"aggregation_sense,omitempty"`
	AggregationCount *int              `json:"aggregation_count,omitempty"`
	From             *int              `json:"from,omitempty"`
	To               *int              `json:"to,omitempty"`
	Than             *int              `json:"than,omitempty"` // 0 means no than-year
	PlacesIn         []string          `json:"places_in,omitempty"`
	PlacesTo         []string          `json:"places_to,omitempty"`
	PlacesThan       []string          `json:"places_than,omitempty"`
	ScorePlaces      bool              `json:"score_places,omitempty"`
}

// EvalCase is one labelled question. Sentence is optional: without it the
// text is sent to the annotator.
type EvalCase struct {
	ID       string      `json:"id,omitempty"`
	Text     string      `json:"text,omitempty"`
	Sentence *Sentence   `json:"sentence,omitempty"`
	Expect   Expectation `json:"expect"`
}

// Metric is the accuracy of one scored aspect
type Metric struct {
	Name     string  `json:"name"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// EvalFailure records one mismatch
type EvalFailure struct {
	CaseID   string `json:"case_id"`
	Text     string `json:"text"`
	Metric   string `json:"metric"`
	Expected string `json:"expected"`
	Got      string `json:"got"`
}

// EvalReport is the outcome of scoring a case file
type EvalReport struct {
	Cases    int           `json:"cases"`
	Errors   int           `json:"errors"` // cases that could not be analysed
	Metrics  []Metric      `json:"metrics"`
	Failures []EvalFailure `json:"failures,omitempty"`
}
