package annotate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/nlquery/internal/cache"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/worker"
)

const franceResponse = `{"sentences":[{"index":0,
 "parse":"(ROOT (SBARQ (WHNP (WDT Which) (NNS countries)) (SQ (VBD were) (ADJP (JJR richer) (PP (IN than) (NP (NNP France))))) (. ?)))",
 "basicDependencies":[
  {"dep":"ROOT","governor":0,"governorGloss":"ROOT","dependent":4,"dependentGloss":"richer"},
  {"dep":"det","governor":2,"governorGloss":"countries","dependent":1,"dependentGloss":"Which"},
  {"dep":"nsubj","governor":4,"governorGloss":"richer","dependent":2,"dependentGloss":"countries"},
  {"dep":"case","governor":6,"governorGloss":"France","dependent":5,"dependentGloss":"than"}],
 "tokens":[
  {"index":1,"word":"Which","pos":"WDT","ner":"O"},
  {"index":2,"word":"countries","pos":"NNS","ner":"O"},
  {"index":3,"word":"were","pos":"VBD","ner":"O"},
  {"index":4,"word":"richer","pos":"JJR","ner":"O"},
  {"index":5,"word":"than","pos":"IN","ner":"O"},
  {"index":6,"word":"France","pos":"NNP","ner":"COUNTRY"},
  {"index":7,"word":"?","pos":".","ner":"O"}]}]}`

func newServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)

		var props map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("properties")), &props))
		assert.Equal(t, "json", props["outputFormat"])
		assert.Contains(t, props["annotators"], "depparse")

		body, _ := io.ReadAll(r.Body)
		if strings.TrimSpace(string(body)) == "boom" {
			http.Error(w, "annotator crashed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, franceResponse)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCoreNLP_Annotate(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c, err := NewCoreNLP(CoreNLPOptions{URL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	s, err := c.Annotate(context.Background(), "Which countries were richer than France?")
	require.NoError(t, err)

	assert.Equal(t, "Which countries were richer than France?", s.Text)
	assert.Equal(t, []string{"Which", "countries", "were", "richer", "than", "France", "?"}, s.Tokens)
	assert.Equal(t, "JJR", s.Tag(3))
	require.NotNil(t, s.Tree)
	assert.Equal(t, 5, s.Tree.Preterminals()[5].Index)
	require.Len(t, s.Deps, 4)
	assert.Equal(t, -1, s.Deps[0].HeadIndex, "governor 0 is the root")
	assert.Equal(t, 3, s.Deps[0].DependentIndex)
	assert.Equal(t, "countries", s.Deps[1].Head)
	assert.Equal(t, 1, s.Deps[1].HeadIndex)
}

func TestCoreNLP_CachesResponses(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c, err := NewCoreNLP(CoreNLPOptions{
		URL:     srv.URL,
		Timeout: 5 * time.Second,
		Cache:   cache.NewMemoryCache(time.Minute, time.Minute),
		Limiter: worker.NewLimiter(100, 5),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.Annotate(context.Background(), "Which countries were richer than France?")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = c.Annotate(context.Background(), "another question")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestCoreNLP_ServerError(t *testing.T) {
	var hits int32
	srv := newServer(t, &hits)

	c, err := NewCoreNLP(CoreNLPOptions{URL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	_, err = c.Annotate(context.Background(), "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "failures are not retried")
}

func TestCoreNLP_BadURL(t *testing.T) {
	_, err := NewCoreNLP(CoreNLPOptions{URL: "localhost:9000"})
	assert.Error(t, err)
}

func TestDecodeCoreNLP_Errors(t *testing.T) {
	_, err := decodeCoreNLP([]byte(`{"sentences":[]}`), "x")
	assert.Error(t, err)

	_, err = decodeCoreNLP([]byte(`not json`), "x")
	assert.Error(t, err)

	s, err := decodeCoreNLP([]byte(`{"sentences":[{"parse":"(ROOT (NP","tokens":[{"word":"a","pos":"DT","ner":"O"}]}]}`), "a")
	require.NoError(t, err)
	assert.Nil(t, s.Tree, "an unparsable tree is dropped")
	assert.Equal(t, []string{"a"}, s.Tokens)
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:3128", "http://secure-proxy:3128")

	req := httptest.NewRequest(http.MethodPost, "https://corenlp.example.org/", nil)
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "secure-proxy:3128", u.Host)

	req = httptest.NewRequest(http.MethodPost, "http://localhost:9000/", nil)
	u, err = proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", u.Host)
}

func TestReadSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"array", `[{"tokens":["a"]},{"tree":"(ROOT (NP (NN b)))"}]`, 2},
		{"object", `{"tokens":["a","b"]}`, 1},
		{"lines", "{\"tokens\":[\"a\"]}\n{\"tokens\":[\"b\"]}\n", 2},
		{"empty", "  \n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSentences(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := ReadSentences(strings.NewReader(`{"tokens":`))
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	st := NewStatic(&model.Sentence{Tokens: []string{"How", "many", "?"}})
	st.Add(&model.Sentence{Text: "Which countries?", Tokens: []string{"Which", "countries", "?"}})

	s, err := st.Annotate(context.Background(), "How  many ?")
	require.NoError(t, err)
	assert.Equal(t, "How", s.Tokens[0])

	_, err = st.Annotate(context.Background(), "Which   countries?")
	require.NoError(t, err)

	_, err = st.Annotate(context.Background(), "unknown")
	assert.Error(t, err)
	assert.Equal(t, "static", st.Name())
}
