package worker

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/nlquery/internal/model"
)

type mockAnalyzer struct {
	calls int32
	fail  string
}

func (m *mockAnalyzer) AnalyzeSentence(ctx context.Context, s *model.Sentence) (*model.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	return &model.Report{Intent: model.Intent{ID: s.ID, Text: strings.Join(s.Tokens, " ")}, Source: "file"}, nil
}

func (m *mockAnalyzer) AnalyzeText(ctx context.Context, id, text string) (*model.Report, error) {
	atomic.AddInt32(&m.calls, 1)
	if text == m.fail {
		return nil, errors.New("annotator down")
	}
	// finish later items first to shuffle completion order
	time.Sleep(time.Duration(len(text)%3) * time.Millisecond)
	return &model.Report{Intent: model.Intent{ID: id, Text: text}, Source: "annotator"}, nil
}

func TestBatchProcessor_Order(t *testing.T) {
	a := &mockAnalyzer{fail: "broken"}
	b := NewBatchProcessor(a, 4)

	var items []Item
	for _, q := range []string{"one", "two two", "broken", "four four four", "five"} {
		items = append(items, Item{ID: q, Text: q})
	}
	items = append(items, Item{ID: "s", Sentence: &model.Sentence{ID: "s", Tokens: []string{"a", "b"}}})

	results := b.Process(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Item.Index != i {
			t.Errorf("result %d carries index %d", i, r.Item.Index)
		}
		if r.Item.ID != items[i].ID {
			t.Errorf("result %d: expected %q, got %q", i, items[i].ID, r.Item.ID)
		}
	}
	if results[2].Error == nil {
		t.Error("expected the broken item to fail")
	}
	if results[5].Report.Source != "file" {
		t.Errorf("annotated item should not go to the annotator, got %q", results[5].Report.Source)
	}
	if n := len(Failed(results)); n != 1 {
		t.Errorf("expected 1 failure, got %d", n)
	}
	if a.calls != int32(len(items)) {
		t.Errorf("expected %d calls, got %d", len(items), a.calls)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&mockAnalyzer{}, 2)
	if got := b.Process(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchProcessor(&mockAnalyzer{}, 2)
	results := b.Process(ctx, []Item{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d missing", i)
		}
	}
}

func TestReadItems(t *testing.T) {
	input := `# questions
Which countries have more than 50 million inhabitants?

{"id":"q2","tree":"(ROOT (NP (NNS countries)))"}
{"id":"q3","text":"What is the population of France?"}
Which countries have more than 50 million inhabitants?
`
	items, err := ReadItems(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "line-2" || items[0].Sentence != nil {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Sentence == nil || items[1].Sentence.Tokens[0] != "countries" {
		t.Errorf("expected an annotated sentence, got %+v", items[1])
	}
	if items[2].Sentence != nil || items[2].Text != "What is the population of France?" {
		t.Errorf("expected a text item, got %+v", items[2])
	}
}

func TestReadItems_Errors(t *testing.T) {
	for _, input := range []string{`{"id":`, `{"id":"empty"}`} {
		if _, err := ReadItems(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
