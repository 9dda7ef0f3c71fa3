// Package lexicon holds the read-only dictionaries of the rule engine: the
// gazetteer of countries and regions, demonyms, abbreviations and number words.
package lexicon

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ppiankov/nlquery/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed gazetteer.yaml
var embeddedGazetteer []byte

// worldKey is the region whose members are all known countries
const worldKey = "World"

// Entry is what a recognised span resolves to
type Entry struct {
	Name       string          // canonical spelling
	Kind       model.PlaceKind // country or region
	Adjectival bool            // matched through a demonym ("Russian")
}

// Mention is a recognised place span in a token sequence
type Mention struct {
	Entry
	Surface string // text as written
	Start   int    // first token position
	End     int    // one past the last token position
}

// Gazetteer recognises place names in token sequences. It is immutable once
// built and safe for concurrent use.
type Gazetteer struct {
	countries     map[string]bool
	regions       map[string][]string
	abbreviations map[string]Entry // exact-case keys
	abbrevText    map[string]string

	complete map[string]Entry // lowercased full names
	partial  map[string]bool  // lowercased proper prefixes of multi-word names
}

type gazetteerFile struct {
	Regions       map[string][]string `yaml:"regions"`
	Demonyms      map[string]string   `yaml:"demonyms"`
	Abbreviations map[string]string   `yaml:"abbreviations"`
}

var (
	defaultOnce sync.Once
	defaultGaz  *Gazetteer
)

// Default returns the embedded gazetteer, built once per process
func Default() *Gazetteer {
	defaultOnce.Do(func() {
		g, err := Parse(embeddedGazetteer)
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded gazetteer: %v", err))
		}
		defaultGaz = g
	})
	return defaultGaz
}

// LoadFile reads a gazetteer YAML file
func LoadFile(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gazetteer: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads a gazetteer YAML document
func Load(r io.Reader) (*Gazetteer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return Parse(data)
}

// Parse builds a gazetteer from YAML bytes
func Parse(data []byte) (*Gazetteer, error) {
	var file gazetteerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode gazetteer: %w", err)
	}
	world, ok := file.Regions[worldKey]
	if !ok || len(world) == 0 {
		return nil, fmt.Errorf("gazetteer: region %q listing all countries is required", worldKey)
	}

	g := &Gazetteer{
		countries:     make(map[string]bool),
		regions:       make(map[string][]string),
		abbreviations: make(map[string]Entry),
		abbrevText:    make(map[string]string),
		complete:      make(map[string]Entry),
		partial:       make(map[string]bool),
	}
	for _, c := range world {
		g.countries[c] = true
	}
	for name, members := range file.Regions {
		for _, m := range members {
			if !g.countries[m] {
				return nil, fmt.Errorf("gazetteer: region %q lists unknown country %q", name, m)
			}
		}
		g.regions[name] = append([]string(nil), members...)
	}

	// Countries take precedence over regions, regions over demonyms.
	for _, c := range sortedKeys(g.countries) {
		g.add(c, Entry{Name: c, Kind: model.PlaceCountry})
	}
	for _, r := range sortedKeys(g.regions) {
		g.add(r, Entry{Name: r, Kind: model.PlaceRegion})
	}
	for _, adj := range sortedKeys(file.Demonyms) {
		kind, ok := g.Kind(file.Demonyms[adj])
		if !ok {
			return nil, fmt.Errorf("gazetteer: demonym %q points at unknown place %q", adj, file.Demonyms[adj])
		}
		g.add(adj, Entry{Name: file.Demonyms[adj], Kind: kind, Adjectival: true})
	}
	for abbr, full := range file.Abbreviations {
		kind, ok := g.Kind(full)
		if !ok {
			return nil, fmt.Errorf("gazetteer: abbreviation %q points at unknown place %q", abbr, full)
		}
		g.abbreviations[abbr] = Entry{Name: full, Kind: kind}
		g.abbrevText[abbr] = full
	}
	return g, nil
}

// add registers the complete name and its proper word prefixes
func (g *Gazetteer) add(name string, e Entry) {
	key := strings.ToLower(name)
	if _, exists := g.complete[key]; !exists {
		g.complete[key] = e
	}
	words := strings.Fields(key)
	for i := 1; i < len(words); i++ {
		g.partial[strings.Join(words[:i], " ")] = true
	}
}

// Kind reports whether name is a known country or region
func (g *Gazetteer) Kind(name string) (model.PlaceKind, bool) {
	if g.countries[name] {
		return model.PlaceCountry, true
	}
	if _, ok := g.regions[name]; ok {
		return model.PlaceRegion, true
	}
	return "", false
}

// Members returns the countries of a region (every country for "World")
func (g *Gazetteer) Members(region string) []string {
	return append([]string(nil), g.regions[region]...)
}

// Countries returns every known country, sorted
func (g *Gazetteer) Countries() []string {
	return sortedKeys(g.countries)
}

// Find scans tokens left to right and returns every place mention. At each
// position the longest complete name wins; a word that only starts a longer
// name ("South") is not a mention on its own.
func (g *Gazetteer) Find(tokens []string) []Mention {
	var found []Mention
	for i := 0; i < len(tokens); {
		if e, ok := g.abbreviations[tokens[i]]; ok {
			found = append(found, Mention{Entry: e, Surface: tokens[i], Start: i, End: i + 1})
			i++
			continue
		}

		span := strings.ToLower(tokens[i])
		best := 0
		var entry Entry
		if e, ok := g.complete[span]; ok {
			best, entry = 1, e
		}
		for j := i + 1; g.partial[span] && j < len(tokens); j++ {
			span += " " + strings.ToLower(tokens[j])
			if e, ok := g.complete[span]; ok {
				best, entry = j-i+1, e
			}
		}

		if best == 0 {
			i++
			continue
		}
		found = append(found, Mention{
			Entry:   entry,
			Surface: strings.Join(tokens[i:i+best], " "),
			Start:   i,
			End:     i + best,
		})
		i += best
	}
	return found
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}.]+`)

// ExpandAbbreviations replaces abbreviated place names in raw text with their
// full form ("UK" -> "United Kingdom") so annotators see the complete name.
// Only whole words are replaced; a trailing sentence period is preserved.
func (g *Gazetteer) ExpandAbbreviations(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range wordPattern.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		full, ok := g.abbrevText[word]
		suffix := ""
		if !ok && strings.HasSuffix(word, ".") {
			full, ok = g.abbrevText[strings.TrimSuffix(word, ".")]
			suffix = "."
		}
		if !ok {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(full)
		b.WriteString(suffix)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
