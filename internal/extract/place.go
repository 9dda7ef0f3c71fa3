package extract

import (
	"github.com/ppiankov/nlquery/internal/lexicon"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
)

// PlaceRole is the part a place plays in a question
type PlaceRole string

const (
	RoleIn   PlaceRole = "in"   // scope of the question: "GDP of France"
	RoleTo   PlaceRole = "to"   // destination of a flow: "exports to Germany"
	RoleThan PlaceRole = "than" // written after "than"
)

// PlaceExtractor extracts the places of a question and their roles
type PlaceExtractor struct {
	gazetteer *lexicon.Gazetteer
	toWords   []string
}

// NewPlaceExtractor creates a place extractor over a gazetteer (nil for the
// embedded one)
func NewPlaceExtractor(g *lexicon.Gazetteer) *PlaceExtractor {
	if g == nil {
		g = lexicon.Default()
	}
	return &PlaceExtractor{
		gazetteer: g,
		toWords:   []string{"to", "into", "towards"},
	}
}

// Gazetteer returns the gazetteer the extractor matches against
func (e *PlaceExtractor) Gazetteer() *lexicon.Gazetteer {
	return e.gazetteer
}

// Extract returns the places of s grouped by role, in sentence order
func (e *PlaceExtractor) Extract(s *model.Sentence) model.PlaceSet {
	var set model.PlaceSet
	for _, m := range e.gazetteer.Find(s.Tokens) {
		p := model.Place{Name: m.Name, Kind: m.Kind}
		switch e.Role(s, m) {
		case RoleThan:
			set.Than = append(set.Than, p)
		case RoleTo:
			set.To = append(set.To, p)
		default:
			set.In = append(set.In, p)
		}
	}
	return set
}

// Role classifies one mention. A mention after the first "than" is THAN-side.
// Otherwise the lowest prepositional phrase holding the whole mention decides:
// to/into/towards give TO, "between X and Y" gives TO to whichever of the two
// comes after "and", anything else gives IN.
func (e *PlaceExtractor) Role(s *model.Sentence, m lexicon.Mention) PlaceRole {
	if than := s.IndexFold("than"); than >= 0 && m.Start > than {
		return RoleThan
	}

	positions := make([]int, 0, m.End-m.Start)
	for i := m.Start; i < m.End; i++ {
		positions = append(positions, i)
	}
	var context []string
	for _, pp := range tree.SubtreesOfLabel(s.Tree, "PP") {
		if pp.Covers(positions...) {
			context = pp.Leaves()
		}
	}
	if context == nil {
		return RoleIn
	}

	for _, w := range e.toWords {
		if tree.ContainsFold(context, w) {
			return RoleTo
		}
	}
	// Positional only: whichever of the mention and "and" comes first in the
	// sentence decides, which is right for "between X and Y" but not a parse.
	if tree.ContainsFold(context, "between") && tree.ContainsFold(context, "and") {
		if tree.FirstOccurring(m.Surface, "and", s.Tokens) == "and" {
			return RoleTo
		}
	}
	return RoleIn
}
