package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ppiankov/nlquery/internal/model"
)

// Analyzer turns one question into a report
type Analyzer interface {
	AnalyzeSentence(ctx context.Context, s *model.Sentence) (*model.Report, error)
	AnalyzeText(ctx context.Context, id, text string) (*model.Report, error)
}

// Item is one question of a batch: pre-annotated when Sentence is set,
// otherwise raw text for the annotator
type Item struct {
	Index    int
	ID       string
	Text     string
	Sentence *model.Sentence
}

// AnalysisJob analyses one item
type AnalysisJob struct {
	Item     Item
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	var (
		report *model.Report
		err    error
	)
	if j.Item.Sentence != nil {
		report, err = j.Analyzer.AnalyzeSentence(ctx, j.Item.Sentence)
	} else {
		report, err = j.Analyzer.AnalyzeText(ctx, j.Item.ID, j.Item.Text)
	}
	return &ItemResult{Item: j.Item, Report: report, Error: err}
}

// ItemResult is the outcome of one item
type ItemResult struct {
	Item   Item
	Report *model.Report
	Error  error
}

// GetError returns the analysis error
func (r *ItemResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses many questions concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// Process analyses items and returns their results in input order. Items
// left unprocessed by a cancelled context carry the context error.
func (b *BatchProcessor) Process(ctx context.Context, items []Item) []*ItemResult {
	out := make([]*ItemResult, len(items))
	if len(items) == 0 {
		return out
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, it := range items {
			it.Index = i
			if !pool.Submit(&AnalysisJob{Item: it, Analyzer: b.analyzer}) {
				return
			}
		}
	}()

	for r := range pool.Results() {
		res := r.(*ItemResult)
		out[res.Item.Index] = res
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			items[i].Index = i
			out[i] = &ItemResult{Item: items[i], Error: err}
		}
	}
	return out
}

// ProcessFile reads items from a file and analyses them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ItemResult, error) {
	items, err := ReadItemsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return b.Process(ctx, items), nil
}

// ReadItemsFromFile reads a batch file, see ReadItems
func ReadItemsFromFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadItems(f)
}

// ReadItems reads one question per line. A line starting with '{' is an
// annotated sentence in JSON; a JSON line without tokens or tree is sent to
// the annotator by its text. Any other line is a raw question. Blank lines
// and lines starting with '#' are skipped; repeated raw questions are read once.
func ReadItems(r io.Reader) ([]Item, error) {
	var items []Item
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if strings.HasPrefix(text, "{") {
			var s model.Sentence
			if err := json.Unmarshal([]byte(text), &s); err != nil {
				return nil, fmt.Errorf("line %d: decode sentence: %w", line, err)
			}
			it := Item{ID: s.ID, Text: s.Text}
			if it.ID == "" {
				it.ID = fmt.Sprintf("line-%d", line)
			}
			if len(s.Tokens) > 0 || s.Tree != nil {
				it.Sentence = &s
			} else if s.Text == "" {
				return nil, fmt.Errorf("line %d: sentence has neither tokens nor text", line)
			}
			items = append(items, it)
			continue
		}

		if seen[text] {
			continue
		}
		seen[text] = true
		items = append(items, Item{ID: fmt.Sprintf("line-%d", line), Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return items, nil
}

// Failed returns the results that carry an error
func Failed(results []*ItemResult) []*ItemResult {
	return slices.DeleteFunc(slices.Clone(results), func(r *ItemResult) bool {
		return r.Error == nil
	})
}
