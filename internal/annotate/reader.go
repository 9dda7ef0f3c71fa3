package annotate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/nlquery/internal/model"
)

// ReadSentences decodes annotated sentences from a JSON array, a single JSON
// object, or one object per line
func ReadSentences(r io.Reader) ([]*model.Sentence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sentences: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var out []*model.Sentence
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode sentences: %w", err)
		}
		return out, nil
	}

	var out []*model.Sentence
	dec := json.NewDecoder(bufio.NewReader(bytes.NewReader(trimmed)))
	for dec.More() {
		var s model.Sentence
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode sentence %d: %w", len(out)+1, err)
		}
		out = append(out, &s)
	}
	return out, nil
}

// ReadSentenceFile reads annotated sentences from path
func ReadSentenceFile(path string) ([]*model.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadSentences(f)
}
