// Package annotate obtains annotated sentences: from a CoreNLP server for raw
// text, or from JSON files prepared beforehand.
package annotate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ppiankov/nlquery/internal/model"
)

// Annotator tokenizes, tags, parses and dependency-parses one question
type Annotator interface {
	Annotate(ctx context.Context, text string) (*model.Sentence, error)
	Name() string
}

// Static serves annotations recorded in advance, keyed by their text
type Static struct {
	mu        sync.RWMutex
	sentences map[string]*model.Sentence
}

// NewStatic creates a static annotator over sentences. Sentences without text
// are keyed by their tokens joined with spaces.
func NewStatic(sentences ...*model.Sentence) *Static {
	st := &Static{sentences: make(map[string]*model.Sentence)}
	for _, s := range sentences {
		st.Add(s)
	}
	return st
}

// Add records one sentence
func (st *Static) Add(s *model.Sentence) {
	key := s.Text
	if key == "" {
		key = strings.Join(s.Tokens, " ")
	}
	st.mu.Lock()
	st.sentences[normalize(key)] = s
	st.mu.Unlock()
}

// Annotate returns the recorded sentence of text
func (st *Static) Annotate(_ context.Context, text string) (*model.Sentence, error) {
	st.mu.RLock()
	s, ok := st.sentences[normalize(text)]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no annotation for %q", text)
	}
	return s, nil
}

// Name identifies the annotator in reports
func (st *Static) Name() string {
	return "static"
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
