package compare

import (
	"strings"

	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
)

var (
	// threshold words compare against a number and need no "than"
	thresholdWords = []string{"over", "under", "below", "above"}
	thresholdLess  = []string{"under", "below"}

	// comparative words beyond the JJR/RBR tags
	comparativeWords = []string{"superior", "inferior"}
	comparativeLess  = []string{"less", "lower", "inferior", "poorer"}
)

type comparatorKind int

const (
	thresholdComparator comparatorKind = iota // "over 50 million"
	thanComparator                            // "higher ... than"
)

// comparator is an accepted comparative word and its token position
type comparator struct {
	Pos  int
	Word string
	Kind comparatorKind
}

func (c comparator) sense() model.Sense {
	less := comparativeLess
	if c.Kind == thresholdComparator {
		less = thresholdLess
	}
	if tree.ContainsFold(less, c.Word) {
		return model.LessThan
	}
	return model.GreaterThan
}

func isComparative(s *model.Sentence, i int) bool {
	switch s.Tag(i) {
	case "JJR", "RBR":
		return true
	}
	return tree.ContainsFold(comparativeWords, s.Tokens[i])
}

// findComparators returns the accepted comparators in sentence order. A
// threshold word counts when a number can be found for it. A comparative word
// counts when a "than" follows it with no other accepted comparator between;
// of several comparatives before one "than", the last wins.
func findComparators(s *model.Sentence, dates map[int]bool) ([]comparator, error) {
	var accepted []comparator
	pending := -1
	for i, tok := range s.Tokens {
		switch {
		case isComparative(s, i):
			pending = i
		case tree.ContainsFold(thresholdWords, tok):
			if _, ok := threshold(s, i, dates); !ok {
				continue
			}
			// A threshold between a comparative and its "than" would nest
			// two comparisons; the comparative is dropped.
			pending = -1
			accepted = append(accepted, comparator{Pos: i, Word: tok, Kind: thresholdComparator})
		case strings.EqualFold(tok, "than"):
			if pending < 0 {
				return nil, structural(DanglingThan, -1, "%q at position %d follows no comparative word", tok, i)
			}
			accepted = append(accepted, comparator{Pos: pending, Word: s.Tokens[pending], Kind: thanComparator})
			pending = -1
		}
	}
	return accepted, nil
}

// threshold returns the number the word at pos compares against: the first
// non-date number after it in its phrase, scaled by a unit word right after
// the number ("50 million").
func threshold(s *model.Sentence, pos int, dates map[int]bool) (float64, bool) {
	ctx := thresholdContext(s.Tree, pos)
	if ctx == nil {
		return 0, false
	}
	for _, p := range ctx.Preterminals() {
		if p.Label != "CD" || p.Index <= pos || dates[p.Index] {
			continue
		}
		v, ok := lexicon.ParseNumber(p.Word)
		if !ok {
			continue
		}
		if next := p.Index + 1; next < len(s.Tokens) {
			if m, ok := lexicon.Multiplier(s.Tokens[next]); ok {
				v *= m
			}
		}
		return v, true
	}
	return 0, false
}

// thresholdContext returns the phrase a threshold is searched in: a PP opened
// by the word, else the lowest PP, NP or QP holding it, in that order
func thresholdContext(root *tree.Node, pos int) *tree.Node {
	if pp := deepestStartingAt(root, "PP", pos); pp != nil {
		return pp
	}
	for _, label := range []string{"PP", "NP", "QP"} {
		for _, n := range tree.SubtreesOfLabel(root, label) {
			if n.Covers(pos) {
				return n
			}
		}
	}
	return nil
}

func deepestStartingAt(n *tree.Node, label string, pos int) *tree.Node {
	if n == nil {
		return nil
	}
	var found *tree.Node
	if n.Label == label {
		if idx := n.Indices(); len(idx) > 0 && idx[0] == pos {
			found = n
		}
	}
	for _, c := range n.Children {
		if m := deepestStartingAt(c, label, pos); m != nil {
			found = m
		}
	}
	return found
}
