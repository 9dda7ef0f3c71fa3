package extract

import (
	"testing"

	"github.com/ppiankov/nlquery/internal/model"
	"github.com/stretchr/testify/assert"
)

func names(places []model.Place) []string {
	var res []string
	for _, p := range places {
		res = append(res, p.Name)
	}
	return res
}

func TestPlaceExtractor_FromTo(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN tourism)) (PP (IN from) (NP (NNP France))) (PP (TO to) (NP (NNP Germany)))))`)

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []string{"France"}, names(set.In))
	assert.Equal(t, []string{"Germany"}, names(set.To))
	assert.Empty(t, set.Than)
}

func TestPlaceExtractor_Than(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN population)) (PP (IN in) (NP (NNP France))) (ADJP (JJR higher) (PP (IN than) (NP (NNP Germany))))))`)

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []string{"France"}, names(set.In))
	assert.Equal(t, []string{"Germany"}, names(set.Than))
	assert.Empty(t, set.To)
}

func TestPlaceExtractor_Between(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN trade)) (PP (IN between) (NP (NNP France) (CC and) (NNP Germany)))))`)

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []string{"France"}, names(set.In))
	assert.Equal(t, []string{"Germany"}, names(set.To))
}

func TestPlaceExtractor_NestedPhraseUsesLowest(t *testing.T) {
	// "from France" holds a nested PP, so France has no lowest PP of its own.
	s := sentence(t, `(ROOT (NP (NP (NN tourism)) (PP (IN from) (NP (NP (NNP France)) (PP (TO to) (NP (NNP Germany)))))))`)

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []string{"France"}, names(set.In))
	assert.Equal(t, []string{"Germany"}, names(set.To))
}

func TestPlaceExtractor_DemonymsAndRegions(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (JJ Russian) (NNS exports)) (PP (TO to) (NP (NNP South) (NNP America)))))`)

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []model.Place{{Name: "Russia", Kind: model.PlaceCountry}}, set.In)
	assert.Equal(t, []model.Place{{Name: "South America", Kind: model.PlaceRegion}}, set.To)
}

func TestPlaceExtractor_NoTree(t *testing.T) {
	s := &model.Sentence{Tokens: []string{"exports", "to", "Germany"}}

	set := NewPlaceExtractor(nil).Extract(s)
	assert.Equal(t, []string{"Germany"}, names(set.In))
}
