package extract

import (
	"strings"

	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
)

var (
	placeNouns = []string{"area", "areas", "country", "countries", "place", "places", "state", "states", "nation", "nations"}
	timeNouns  = []string{"time", "times", "year", "years"}

	whPhrases = []string{"WHADJP", "WHADVP", "WHNP", "WHPP"}
	whTags    = map[string]bool{"WRB": true, "WP": true, "WP$": true, "WDT": true}
)

// triggerKind returns the result kind a list noun asks for
func triggerKind(word string) (model.ResultKind, bool) {
	switch {
	case tree.ContainsFold(placeNouns, word):
		return model.ResultPlaces, true
	case tree.ContainsFold(timeNouns, word):
		return model.ResultYears, true
	}
	return model.ResultValue, false
}

// ClassifySentence reads the shape of a question and the kind of answer it
// wants from its parse tree and dependency graph
func ClassifySentence(s *model.Sentence) model.SentenceType {
	st := model.SentenceType{
		Kind:     model.KindOther,
		Returned: model.ResultValue,
		Count:    model.CountUnknown,
	}
	if s.Tree == nil {
		return st
	}

	switch {
	case len(s.Tree.Children) > 0 && s.Tree.Children[0].Label == "NP":
		st.Kind = model.KindNounPhrase
		scanTriggers(s, &st)
	case tree.HasLabel(s.Tree, whPhrases...):
		st.Kind = model.KindWhQuestion
		classifyWh(s, &st)
	case tree.HasLabel(s.Tree, "SQ"):
		st.Kind = model.KindYesNo
	default:
		scanTriggers(s, &st)
	}
	return st
}

// scanTriggers takes the first list noun of the sentence. A count is asked
// when that noun is linked to "number" ("number of countries").
func scanTriggers(s *model.Sentence, st *model.SentenceType) {
	for _, tok := range s.Tokens {
		kind, ok := triggerKind(tok)
		if !ok {
			continue
		}
		st.Returned = kind
		st.TriggerWords = []string{tok}
		st.Count = model.CountNo
		if tree.ContainsFold(tree.LinkedTokens(s.Deps, tok), "number") {
			st.Count = model.CountYes
		}
		return
	}
}

func classifyWh(s *model.Sentence, st *model.SentenceType) {
	var wh string
	for _, p := range s.Tree.Preterminals() {
		if whTags[p.Label] {
			wh = strings.ToLower(p.Word)
			break
		}
	}

	switch wh {
	case "how":
		classifyHow(s, st)
	case "what", "which":
		for _, l := range tree.LinkedTokens(s.Deps, wh) {
			if kind, ok := triggerKind(l); ok {
				st.Returned = kind
				st.TriggerWords = []string{l}
				st.Count = model.CountNo
				return
			}
		}
	case "when":
		st.Returned = model.ResultYears
		st.Count = model.CountNo
	case "where", "who":
		st.Returned = model.ResultPlaces
		st.Count = model.CountNo
	}
}

// classifyHow handles "how many countries ..." and "how much time ...". Any
// other adjective ("how big") asks for a value.
func classifyHow(s *model.Sentence, st *model.SentenceType) {
	adjp := tree.SubtreesOfLabel(s.Tree, "WHADJP")
	if len(adjp) != 1 {
		return
	}
	adj := tree.NodesOfLabel(adjp[0], "JJ")
	if !tree.ContainsFold(adj, "many") && !tree.ContainsFold(adj, "much") {
		return
	}
	np := tree.SubtreesOfLabel(s.Tree, "WHNP")
	if len(np) == 0 {
		return
	}
	for _, w := range np[0].Leaves() {
		if kind, ok := triggerKind(w); ok {
			st.Returned = kind
			st.TriggerWords = []string{w}
			st.Count = model.CountYes
			return
		}
	}
}
