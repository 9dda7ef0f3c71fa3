package compare

import (
	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
)

var (
	superlativeWords = []string{"top", "minimum", "maximum"}
	minimalWords     = []string{"least", "lowest", "worst", "minimum"}
	pluralListNouns  = []string{"areas", "countries", "places", "states", "nations", "years"}
)

const (
	defaultListCount   = 10
	defaultSingleCount = 1
)

func isSuperlative(s *model.Sentence, i int) bool {
	switch s.Tag(i) {
	case "JJS", "RBS":
		return true
	}
	return tree.ContainsFold(superlativeWords, s.Tokens[i])
}

// findAggregation returns the ranking asked by the superlatives of s, or nil.
// The count is the number written in the noun phrase of a superlative or list
// noun ("top 5 countries"); without one, a plural list noun asks for ten and
// anything else for one.
func findAggregation(s *model.Sentence, listWords []string, dates map[int]bool) *model.Aggregation {
	var anchors []int
	sense := model.Maximal
	for i, tok := range s.Tokens {
		if !isSuperlative(s, i) {
			continue
		}
		anchors = append(anchors, i)
		if tree.ContainsFold(minimalWords, tok) {
			sense = model.Minimal
		}
	}
	if len(anchors) == 0 {
		return nil
	}
	for i, tok := range s.Tokens {
		if tree.ContainsFold(listWords, tok) {
			anchors = append(anchors, i)
		}
	}

	agg := &model.Aggregation{Sense: sense, Count: defaultSingleCount}
	for _, pos := range anchors {
		if n := countIn(tree.Smallest(s.Tree, "NP", pos), dates); n > 0 {
			agg.Count = n
			return agg
		}
	}
	for _, w := range listWords {
		if tree.ContainsFold(pluralListNouns, w) {
			agg.Count = defaultListCount
		}
	}
	return agg
}

// countIn returns the first positive integer of a noun phrase that is not a date
func countIn(np *tree.Node, dates map[int]bool) int {
	for _, p := range np.Preterminals() {
		if p.Label != "CD" || dates[p.Index] {
			continue
		}
		if n, ok := lexicon.ParseInt(p.Word); ok && n > 0 {
			return n
		}
	}
	return 0
}
