package extract

import (
	"testing"

	"github.com/ppiankov/nlquery/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassifySentence(t *testing.T) {
	tests := []struct {
		name    string
		build   func(t *testing.T) *model.Sentence
		kind    model.SentenceKind
		ret     model.ResultKind
		count   model.CountRequest
		trigger []string
	}{
		{
			name: "which countries",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHNP (WDT Which) (NNS countries)) (SQ (VP (VBD had) (NP (NP (JJR higher) (NNP GDP)) (PP (IN than) (NP (NNP Germany))) (PP (IN in) (NP (CD 2015)))))) (. ?)))`).
					Link(1, "det", 0)
			},
			kind: model.KindWhQuestion, ret: model.ResultPlaces, count: model.CountNo, trigger: []string{"countries"},
		},
		{
			name: "noun phrase list",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (NP (NP (JJ Top) (CD 10) (NNS countries)) (PP (IN with) (NP (NP (NN population)) (PP (IN over) (NP (QP (CD 50) (CD million))))))))`)
			},
			kind: model.KindNounPhrase, ret: model.ResultPlaces, count: model.CountNo, trigger: []string{"countries"},
		},
		{
			name: "number of",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (NP (NP (NN Number)) (PP (IN of) (NP (NNS years)))))`).
					Link(0, "nmod", 2)
			},
			kind: model.KindNounPhrase, ret: model.ResultYears, count: model.CountYes, trigger: []string{"years"},
		},
		{
			name: "noun phrase value",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (NP (NP (NN GDP)) (PP (IN of) (NP (NNP France)))))`)
			},
			kind: model.KindNounPhrase, ret: model.ResultValue, count: model.CountUnknown,
		},
		{
			name: "how many",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHNP (WHADJP (WRB How) (JJ many)) (NNS countries)) (SQ (VP (VBD had) (NP (NN GDP)))) (. ?)))`)
			},
			kind: model.KindWhQuestion, ret: model.ResultPlaces, count: model.CountYes, trigger: []string{"countries"},
		},
		{
			name: "how big",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHADJP (WRB How) (JJ big)) (SQ (VBZ is) (NP (NNP France))) (. ?)))`)
			},
			kind: model.KindWhQuestion, ret: model.ResultValue, count: model.CountUnknown,
		},
		{
			name: "when",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHADVP (WRB When)) (SQ (VBD was) (NP (NN inflation)) (ADJP (JJS highest))) (. ?)))`)
			},
			kind: model.KindWhQuestion, ret: model.ResultYears, count: model.CountNo,
		},
		{
			name: "where",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHADVP (WRB Where)) (SQ (VBZ is) (NP (NN inflation)) (ADJP (JJS highest))) (. ?)))`)
			},
			kind: model.KindWhQuestion, ret: model.ResultPlaces, count: model.CountNo,
		},
		{
			name: "what without list noun",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHNP (WP What)) (SQ (VBZ is) (NP (NP (DT the) (NN GDP)) (PP (IN of) (NP (NNP France))))) (. ?)))`).
					Link(1, "nsubj", 0)
			},
			kind: model.KindWhQuestion, ret: model.ResultValue, count: model.CountUnknown,
		},
		{
			name: "what are the years",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SBARQ (WHNP (WP What)) (SQ (VBP are) (NP (DT the) (NNS years))) (. ?)))`).
					Link(3, "nsubj", 0)
			},
			kind: model.KindWhQuestion, ret: model.ResultYears, count: model.CountNo, trigger: []string{"years"},
		},
		{
			name: "yes no",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (SQ (VBZ Is) (NP (NNP France)) (ADJP (JJR richer) (PP (IN than) (NP (NNP Germany)))) (. ?)))`)
			},
			kind: model.KindYesNo, ret: model.ResultValue, count: model.CountUnknown,
		},
		{
			name: "imperative",
			build: func(t *testing.T) *model.Sentence {
				return sentence(t, `(ROOT (S (VP (VB Show) (NP (NP (DT the) (NNS years)) (PP (IN with) (NP (JJS highest) (NN inflation)))))))`)
			},
			kind: model.KindOther, ret: model.ResultYears, count: model.CountNo, trigger: []string{"years"},
		},
		{
			name: "no tree",
			build: func(t *testing.T) *model.Sentence {
				return &model.Sentence{Tokens: []string{"countries"}}
			},
			kind: model.KindOther, ret: model.ResultValue, count: model.CountUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ClassifySentence(tt.build(t))
			assert.Equal(t, tt.kind, st.Kind)
			assert.Equal(t, tt.ret, st.Returned)
			assert.Equal(t, tt.count, st.Count)
			assert.Equal(t, tt.trigger, st.TriggerWords)
		})
	}
}
