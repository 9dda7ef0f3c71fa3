package score

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/nlquery/internal/model"
)

// ReadCasesFile reads evaluation cases; ".csv" files use ReadCSV, anything
// else ReadJSON
func ReadCasesFile(path string) ([]model.EvalCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f)
	}
	return ReadJSON(f)
}

// ReadJSON reads cases as a JSON array or one object per line
func ReadJSON(r io.Reader) ([]model.EvalCase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	var cases []model.EvalCase
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &cases); err != nil {
			return nil, fmt.Errorf("decode cases: %w", err)
		}
	} else {
		for i, line := range strings.Split(trimmed, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			var c model.EvalCase
			if err := json.Unmarshal([]byte(line), &c); err != nil {
				return nil, fmt.Errorf("line %d: decode case: %w", i+1, err)
			}
			cases = append(cases, c)
		}
	}

	for i := range cases {
		if err := finishCase(&cases[i], i); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

func finishCase(c *model.EvalCase, i int) error {
	if c.ID == "" {
		c.ID = fmt.Sprintf("case-%d", i+1)
	}
	if c.Sentence == nil && c.Text == "" {
		return fmt.Errorf("case %s: neither text nor sentence", c.ID)
	}
	if c.Sentence != nil {
		c.Sentence.ID = c.ID
		if c.Text == "" {
			c.Text = c.Sentence.Text
		}
		if c.Sentence.Text == "" {
			c.Sentence.Text = c.Text
		}
	}
	return nil
}

// ReadCSV reads ';'-separated cases. The header names the columns; only
// Query is required: Type, Returned, Comp, Sup, Sens, Value, Date_from,
// Date_to, Date_than, Loc_from, Loc_to and Loc_than are scored when present.
// Place lists are '/'-separated, and "None" marks an empty list or no year.
func ReadCSV(r io.Reader) ([]model.EvalCase, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["query"]; !ok {
		return nil, errors.New("csv header has no Query column")
	}

	var cases []model.EvalCase
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row := csvRow{cols: cols, rec: rec}
		c := model.EvalCase{ID: fmt.Sprintf("row-%d", line), Text: row.get("query")}
		if c.Text == "" {
			continue
		}
		if err := row.fill(&c.Expect); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

type csvRow struct {
	cols map[string]int
	rec  []string
}

func (r csvRow) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) fill(e *model.Expectation) error {
	if v := r.get("type"); v != "" {
		k := model.SentenceKind(v)
		e.Kind = &k
	}
	if v := r.get("returned"); v != "" {
		k, ok := model.ParseResultKind(v)
		if !ok {
			return fmt.Errorf("unknown result kind %q", v)
		}
		e.Returned = &k
	}
	var err error
	if e.Comparison, err = r.flag("comp"); err != nil {
		return err
	}
	if e.Aggregation, err = r.flag("sup"); err != nil {
		return err
	}
	if v := r.get("sens"); v != "" {
		sense, err := parseSense(v)
		if err != nil {
			return err
		}
		e.AggregationSense = &sense
	}
	if e.AggregationCount, err = r.number("value", false); err != nil {
		return err
	}
	if e.From, err = r.number("date_from", false); err != nil {
		return err
	}
	if e.To, err = r.number("date_to", false); err != nil {
		return err
	}
	if e.Than, err = r.number("date_than", true); err != nil {
		return err
	}

	for name, dst := range map[string]*[]string{"loc_from": &e.PlacesIn, "loc_to": &e.PlacesTo, "loc_than": &e.PlacesThan} {
		v := r.get(name)
		if v == "" {
			continue
		}
		e.ScorePlaces = true
		*dst = []string{}
		if !strings.EqualFold(v, "none") {
			*dst = strings.Split(v, "/")
		}
	}
	return nil
}

func (r csvRow) flag(name string) (*bool, error) {
	switch v := r.get(name); v {
	case "":
		return nil, nil
	case "1", "true", "True", "yes":
		b := true
		return &b, nil
	case "0", "false", "False", "no":
		b := false
		return &b, nil
	default:
		return nil, fmt.Errorf("column %s: %q is not 0 or 1", name, v)
	}
}

// number parses an integer column. "None" leaves the value unscored, or
// labels it absent (0) when noneIsZero is set.
func (r csvRow) number(name string, noneIsZero bool) (*int, error) {
	v := r.get(name)
	if v == "" {
		return nil, nil
	}
	if strings.EqualFold(v, "none") {
		if !noneIsZero {
			return nil, nil
		}
		n := 0
		return &n, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", name, err)
	}
	return &n, nil
}

func parseSense(v string) (model.AggregationSense, error) {
	switch strings.ToLower(v) {
	case "max", "maximal", "maximum":
		return model.Maximal, nil
	case "min", "minimal", "minimum":
		return model.Minimal, nil
	}
	return "", fmt.Errorf("unknown aggregation sense %q", v)
}
