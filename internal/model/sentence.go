package model

import (
	"encoding/json"
	"strings"

	"github.com/ppiankov/nlquery/internal/tree"
)

// Sentence is one question as delivered by the external annotators.
// POS, NER and tree leaves run parallel to Tokens.
type Sentence struct {
	ID     string            `json:"id,omitempty"`
	Text   string            `json:"text,omitempty"`
	Tokens []string          `json:"tokens"`
	POS    []string          `json:"pos,omitempty"`
	NER    []string          `json:"ner,omitempty"`
	Tree   *tree.Node        `json:"tree,omitempty"`
	Deps   []tree.Dependency `json:"deps,omitempty"`
}

// Named-entity tags the extractors look at
const (
	EntityDate     = "DATE"
	EntityLocation = "LOCATION"
	EntityOther    = "O"
)

// UnmarshalJSON decodes a sentence. An unparsable tree is dropped rather than
// failing the whole sentence; extractors then find nothing in it.
func (s *Sentence) UnmarshalJSON(data []byte) error {
	type alias Sentence
	var raw struct {
		alias
		Tree json.RawMessage `json:"tree,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Sentence(raw.alias)
	s.Tree = nil

	var text string
	if len(raw.Tree) > 0 && json.Unmarshal(raw.Tree, &text) == nil && text != "" {
		if root, err := tree.Parse(text); err == nil {
			s.Tree = root
		}
	}
	s.fillFromTree()
	return nil
}

// FromTree builds a sentence from a parse tree alone: tokens and POS tags are
// read off the preterminals, every NER tag is "O".
func FromTree(root *tree.Node) *Sentence {
	s := &Sentence{Tree: root}
	s.fillFromTree()
	return s
}

// fillFromTree supplies tokens, POS and NER tags missing from the annotation
func (s *Sentence) fillFromTree() {
	if s.Tree == nil {
		return
	}
	pre := s.Tree.Preterminals()
	if len(s.Tokens) == 0 {
		for _, p := range pre {
			s.Tokens = append(s.Tokens, p.Word)
		}
	}
	if len(s.POS) == 0 && len(pre) == len(s.Tokens) {
		for _, p := range pre {
			s.POS = append(s.POS, p.Label)
		}
	}
	if len(s.NER) == 0 {
		s.NER = make([]string, len(s.Tokens))
		for i := range s.NER {
			s.NER[i] = EntityOther
		}
	}
}

// MarkEntity sets the named-entity tag of the tokens at positions
func (s *Sentence) MarkEntity(entity string, positions ...int) *Sentence {
	for _, p := range positions {
		if p >= 0 && p < len(s.NER) {
			s.NER[p] = entity
		}
	}
	return s
}

// Link adds the dependency head -> dependent. A head of -1 attaches the
// dependent to the root.
func (s *Sentence) Link(head int, relation string, dependent int) *Sentence {
	d := tree.Dependency{
		HeadIndex:      head,
		Relation:       relation,
		Dependent:      s.Tokens[dependent],
		DependentIndex: dependent,
	}
	if head >= 0 {
		d.Head = s.Tokens[head]
	} else {
		d.Head = "ROOT"
	}
	s.Deps = append(s.Deps, d)
	return s
}

// Len returns the number of tokens
func (s *Sentence) Len() int {
	return len(s.Tokens)
}

// Tag returns the part-of-speech tag of token i ("" when missing)
func (s *Sentence) Tag(i int) string {
	if i < 0 || i >= len(s.POS) {
		return ""
	}
	return s.POS[i]
}

// Entity returns the named-entity tag of token i ("O" when missing)
func (s *Sentence) Entity(i int) string {
	if i < 0 || i >= len(s.NER) {
		return EntityOther
	}
	return s.NER[i]
}

// IndexFold returns the position of the first token equal to word ignoring
// case, or -1.
func (s *Sentence) IndexFold(word string) int {
	for i, t := range s.Tokens {
		if strings.EqualFold(t, word) {
			return i
		}
	}
	return -1
}

// Slice projects the sentence onto the tokens in [start, end). Tags are
// sliced, the tree is pruned and the dependency triples are restricted to the
// range, all with positions rebased to 0.
func (s *Sentence) Slice(start, end int) *Sentence {
	if start < 0 {
		start = 0
	}
	if end > len(s.Tokens) {
		end = len(s.Tokens)
	}
	if start > end {
		start = end
	}
	return &Sentence{
		ID:     s.ID,
		Tokens: s.Tokens[start:end],
		POS:    sliceTags(s.POS, start, end),
		NER:    sliceTags(s.NER, start, end),
		Tree:   tree.Project(s.Tree, start, end),
		Deps:   tree.ProjectDeps(s.Deps, start, end),
	}
}

func sliceTags(tags []string, start, end int) []string {
	if start >= len(tags) {
		return nil
	}
	if end > len(tags) {
		end = len(tags)
	}
	return tags[start:end]
}
