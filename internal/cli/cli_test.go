package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/nlquery/internal/model"
)

const annotatedQuestion = `{"id":"q1","text":"Which countries had higher GDP than Germany in 2015?","tree":"(ROOT (SBARQ (WHNP (WDT Which) (NNS countries)) (SQ (VP (VBD had) (NP (NP (JJR higher) (NNP GDP)) (PP (IN than) (NP (NNP Germany))) (PP (IN in) (NP (CD 2015)))))) (. ?)))","ner":["O","O","O","O","O","O","LOCATION","O","DATE","O"],"deps":[{"head":"countries","head_index":1,"relation":"det","dependent":"Which","dependent_index":0}]}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	cfgFile, verbose = "", false
	outJSON, outMD, sentenceFile = "", "", ""
	evalJSON, evalFailures = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--no-cache", "--current-year", "2020"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnalyze_SentenceFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "q.json")
	require.NoError(t, os.WriteFile(in, []byte(annotatedQuestion), 0o644))
	jsonPath := filepath.Join(dir, "intent.json")

	out, err := run(t, "analyze", "--sentence", in, "--json", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Returns:      places")
	assert.Contains(t, out, "against_place")

	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var report struct {
		Intent struct {
			ID          string            `json:"id"`
			Comparisons []json.RawMessage `json:"comparisons"`
		} `json:"intent"`
	}
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, "q1", report.Intent.ID)
	assert.Len(t, report.Intent.Comparisons, 1)
}

func TestAnalyze_NeedsQuestion(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)
}

func TestEval_PreAnnotated(t *testing.T) {
	dir := t.TempDir()
	cases := filepath.Join(dir, "cases.jsonl")
	line := `{"sentence":` + annotatedQuestion + `,"expect":{"kind":"WH","returned":"places","comparison":true,"aggregation":false,"places_than":["Germany"]}}`
	require.NoError(t, os.WriteFile(cases, []byte(line+"\n"), 0o644))
	reportPath := filepath.Join(dir, "eval.json")

	out, err := run(t, "eval", cases, "--json", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Cases:   1 (0 could not be analysed)")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report model.EvalReport
	require.NoError(t, json.Unmarshal(raw, &report))
	require.NotEmpty(t, report.Metrics)
	for _, m := range report.Metrics {
		assert.Equal(t, 1.0, m.Accuracy, m.Name)
	}
}

func TestConfig_DefaultFileLoads(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writeDefaultConfig(&b))
	assert.True(t, strings.HasPrefix(b.String(), "# nlquery configuration"))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(b.Bytes(), &cfg))
	assert.Equal(t, model.DefaultConfig().Annotator.URL, cfg.Annotator.URL)
	assert.Equal(t, model.DefaultConfig().Annotator.Timeout, cfg.Annotator.Timeout)
}

func TestConfig_EnvOverride(t *testing.T) {
	t.Setenv("NLQUERY_ANNOTATOR_URL", "http://corenlp:9000")
	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "url: http://corenlp:9000")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nlquery ")
}

func TestNumbered(t *testing.T) {
	assert.Equal(t, "out/report-2.json", numbered("out/report.json", 1))
	assert.Equal(t, "out.d/report-1", numbered("out.d/report", 0))
	assert.Equal(t, "", numbered("", 3))
}
