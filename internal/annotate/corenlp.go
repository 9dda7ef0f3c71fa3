package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/nlquery/internal/cache"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/tree"
	"github.com/ppiankov/nlquery/internal/worker"
)

const maxResponseBytes = 8 << 20

// pipelineProperties asks the server for everything the extractors read
var pipelineProperties = mustJSON(map[string]string{
	"annotators":   "tokenize,ssplit,pos,ner,parse,depparse",
	"outputFormat": "json",
})

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// CoreNLPOptions configures a CoreNLP client
type CoreNLPOptions struct {
	URL        string
	Timeout    time.Duration
	UserAgent  string
	HTTPProxy  string
	HTTPSProxy string
	Limiter    *worker.Limiter // nil: unthrottled
	Cache      cache.Cache     // nil: no caching
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// CoreNLP annotates text through a Stanford CoreNLP server
type CoreNLP struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewCoreNLP creates a client for the server at opts.URL
func NewCoreNLP(opts CoreNLPOptions) (*CoreNLP, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse annotator url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("annotator url %q: scheme must be http or https", opts.URL)
	}
	q := u.Query()
	q.Set("properties", pipelineProperties)
	u.RawQuery = q.Encode()

	c := &CoreNLP{
		endpoint: u.String(),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &http.Transport{Proxy: NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy)},
		},
		userAgent: opts.UserAgent,
		limiter:   opts.Limiter,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    opts.Logger,
	}
	if c.cache == nil {
		c.cache = cache.Nop{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// Name identifies the annotator in reports
func (c *CoreNLP) Name() string {
	return c.endpoint
}

// Annotate sends text to the server and converts the first sentence of the
// response. Failures are not retried.
func (c *CoreNLP) Annotate(ctx context.Context, text string) (*model.Sentence, error) {
	key := cache.AnnotationKey(c.endpoint, pipelineProperties, text)
	if body, ok := c.cache.Get(key); ok {
		c.logger.Debug("annotation cache hit", "text", text)
		return decodeCoreNLP(body, text)
	}

	body, err := c.post(ctx, text)
	if err != nil {
		return nil, err
	}
	s, err := decodeCoreNLP(body, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
		c.logger.Warn("annotation cache write failed", "error", err)
	}
	return s, nil
}

func (c *CoreNLP) post(ctx context.Context, text string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

type corenlpDocument struct {
	Sentences []corenlpSentence `json:"sentences"`
}

type corenlpSentence struct {
	Parse        string              `json:"parse"`
	Dependencies []corenlpDependency `json:"basicDependencies"`
	Tokens       []corenlpToken      `json:"tokens"`
}

type corenlpDependency struct {
	Relation       string `json:"dep"`
	Governor       int    `json:"governor"`
	GovernorGloss  string `json:"governorGloss"`
	Dependent      int    `json:"dependent"`
	DependentGloss string `json:"dependentGloss"`
}

type corenlpToken struct {
	Word string `json:"word"`
	POS  string `json:"pos"`
	NER  string `json:"ner"`
}

// decodeCoreNLP converts a CoreNLP JSON document. Token indices are 1-based
// in the response; governor 0 is the root.
func decodeCoreNLP(body []byte, text string) (*model.Sentence, error) {
	var doc corenlpDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	if len(doc.Sentences) == 0 {
		return nil, fmt.Errorf("annotation of %q has no sentence", text)
	}
	cs := doc.Sentences[0]

	s := &model.Sentence{Text: text}
	for _, tok := range cs.Tokens {
		s.Tokens = append(s.Tokens, tok.Word)
		s.POS = append(s.POS, tok.POS)
		s.NER = append(s.NER, tok.NER)
	}
	for _, d := range cs.Dependencies {
		s.Deps = append(s.Deps, tree.Dependency{
			Head:           d.GovernorGloss,
			HeadIndex:      d.Governor - 1,
			Relation:       d.Relation,
			Dependent:      d.DependentGloss,
			DependentIndex: d.Dependent - 1,
		})
	}
	// An unparsable tree leaves the sentence without one.
	if cs.Parse != "" {
		if root, err := tree.Parse(cs.Parse); err == nil {
			s.Tree = root
		}
	}
	return s, nil
}
