package compare

import "github.com/ppiankov/nlquery/internal/tree"

var clauseBoundaries = []string{"and", "or", "but", "while"}

// span is a token range [Start, End)
type span struct {
	Start, End int
}

func (s span) contains(i int) bool {
	return i >= s.Start && i < s.End
}

// splitClauses cuts tokens at the first boundary word after each comparator.
// Boundary words are dropped; the tail after the last cut is a clause of its own.
func splitClauses(tokens []string, comps []comparator) []span {
	isComp := make(map[int]bool, len(comps))
	for _, c := range comps {
		isComp[c.Pos] = true
	}

	var res []span
	start, seen := 0, false
	for i, tok := range tokens {
		if isComp[i] {
			seen = true
		}
		if seen && tree.ContainsFold(clauseBoundaries, tok) {
			res = append(res, span{Start: start, End: i})
			start, seen = i+1, false
		}
	}
	if start < len(tokens) {
		res = append(res, span{Start: start, End: len(tokens)})
	}
	return res
}

// assignClauses pairs comparator i with clause i, or fails when the split
// does not give exactly one comparator per clause
func assignClauses(tokens []string, comps []comparator) ([]span, error) {
	clauses := splitClauses(tokens, comps)
	if len(clauses) != len(comps) {
		return nil, structural(ClauseMismatch, -1, "%d comparators but %d clauses", len(comps), len(clauses))
	}
	for i, c := range comps {
		if !clauses[i].contains(c.Pos) {
			return nil, structural(ClauseMismatch, i, "comparator %q is not in its clause", c.Word)
		}
	}
	return clauses, nil
}
