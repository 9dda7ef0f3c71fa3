package extract

import (
	"testing"

	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentence builds an annotated sentence from a bracketed parse
func sentence(t *testing.T, bracketed string) *model.Sentence {
	t.Helper()
	root, err := tree.Parse(bracketed)
	require.NoError(t, err)
	return model.FromTree(root)
}

func intp(v int) *int { return &v }

func TestTimeExtractor_SinceYear(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN Population)) (PP (IN of) (NP (NNP Iran))) (PP (IN since) (NP (CD 1995)))))`).
		MarkEntity(model.EntityDate, 4)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	assert.Equal(t, intp(1995), w.From)
	assert.Nil(t, w.To)
	assert.Empty(t, w.Than)
}

func TestTimeExtractor_InYear(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN GDP)) (PP (IN of) (NP (NNP France))) (PP (IN in) (NP (CD 2010)))))`).
		MarkEntity(model.EntityDate, 4)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	y, ok := w.SingleYear()
	require.True(t, ok)
	assert.Equal(t, 2010, y)
}

func TestTimeExtractor_BeforeThroughDependency(t *testing.T) {
	s := sentence(t, `(ROOT (FRAG (NP (NN GDP)) (ADVP (RB before) (CD 2010))))`).
		MarkEntity(model.EntityDate, 2).
		Link(2, "case", 1)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	assert.Nil(t, w.From)
	assert.Equal(t, intp(2010), w.To)
}

func TestTimeExtractor_UngovernedYear(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NN GDP) (CD 2010)))`).MarkEntity(model.EntityDate, 1)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	assert.Equal(t, intp(2010), w.From)
	assert.Equal(t, intp(2010), w.To)
}

func TestTimeExtractor_TwoYearsAnyOrder(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN GDP)) (PP (IN between) (NP (CD 2010) (CC and) (CD 2000)))))`).
		MarkEntity(model.EntityDate, 2, 4)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	span, ok := w.Span()
	require.True(t, ok)
	assert.Equal(t, model.Period{From: 2000, To: 2010}, span)
}

func TestTimeExtractor_ThanYears(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NNS Countries)) (PP (IN with) (NP (NP (JJR more) (NNS exports)) (PP (IN in) (NP (CD 2010))) (PP (IN than) (NP (CD 2000)))))))`).
		MarkEntity(model.EntityDate, 5, 7)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	assert.Equal(t, []int{2000}, w.Than)
	y, ok := w.SingleYear()
	require.True(t, ok)
	assert.Equal(t, 2010, y)
}

func TestTimeExtractor_OutOfRangeYears(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN GDP)) (PP (IN in) (NP (CD 1850))) (PP (IN in) (NP (CD 2030)))))`).
		MarkEntity(model.EntityDate, 2, 4)

	w := NewTimeExtractor(1900, 2020).Extract(s)
	assert.Nil(t, w.From)
	assert.Nil(t, w.To)
}

func TestTimeExtractor_LastDuration(t *testing.T) {
	tests := []struct {
		name   string
		tree   string
		dates  []int
		from   int
		to     int
		noSpan bool
	}{
		{
			name:  "count inside the date",
			tree:  `(ROOT (NP (NP (NNS Exports)) (PP (IN of) (NP (NNP Germany))) (PP (IN over) (NP (DT the) (JJ last) (CD two) (NNS decades)))))`,
			dates: []int{4, 5, 6, 7},
			from:  2000, to: 2020,
		},
		{
			name:  "count found in the phrase",
			tree:  `(ROOT (NP (NP (NNS Exports)) (PP (IN of) (NP (NNP Germany))) (PP (IN over) (NP (DT the) (JJ last) (CD 3) (NNS centuries)))))`,
			dates: []int{5, 7},
			from:  1720, to: 2020,
		},
		{
			name:  "plural unit without count",
			tree:  `(ROOT (NP (NP (NNS Exports)) (PP (IN over) (NP (DT the) (JJ last) (NNS decades)))))`,
			dates: []int{3, 4},
			from:  1970, to: 2020,
		},
		{
			name:  "singular unit",
			tree:  `(ROOT (NP (NP (NNS Exports)) (PP (IN over) (NP (DT the) (JJ last) (NN year)))))`,
			dates: []int{3, 4},
			from:  2019, to: 2020,
		},
		{
			name:   "no last",
			tree:   `(ROOT (NP (NP (NNS Exports)) (PP (IN in) (NP (DT the) (JJ next) (NN decade)))))`,
			dates:  []int{3, 4},
			noSpan: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sentence(t, tt.tree).MarkEntity(model.EntityDate, tt.dates...)
			w := NewTimeExtractor(1900, 2020).Extract(s)
			if tt.noSpan {
				assert.Nil(t, w.From)
				assert.Nil(t, w.To)
				return
			}
			assert.Equal(t, intp(tt.from), w.From)
			assert.Equal(t, intp(tt.to), w.To)
		})
	}
}

func TestTimeExtractor_NoDates(t *testing.T) {
	w := NewTimeExtractor(1900, 2020).Extract(&model.Sentence{Tokens: []string{"GDP", "of", "France"}})
	assert.Equal(t, model.TimeWindow{}, w)
}

func TestDateFigures(t *testing.T) {
	s := sentence(t, `(ROOT (NP (NP (NN population)) (PP (IN over) (NP (CD 50) (CD million))) (PP (IN in) (NP (CD 2010))) (PP (IN for) (NP (CD 5) (NNS years)))))`).
		MarkEntity(model.EntityDate, 5, 8).
		Link(8, "nummod", 7)

	figures := DateFigures(s)
	assert.Equal(t, map[int]bool{5: true, 7: true}, figures)
}

func TestIsYear(t *testing.T) {
	e := NewTimeExtractor(1900, 2020)
	assert.True(t, e.IsYear("2020"))
	assert.True(t, e.IsYear("1901"))
	assert.False(t, e.IsYear("1900"))
	assert.False(t, e.IsYear("2021"))
	assert.False(t, e.IsYear("decade"))
}
