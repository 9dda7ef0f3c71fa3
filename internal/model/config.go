package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds every tunable of nlquery
type Config struct {
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Annotator   AnnotatorConfig   `yaml:"annotator" mapstructure:"annotator"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ExtractConfig tunes the rule engine
type ExtractConfig struct {
	CurrentYear  int    `yaml:"current_year" mapstructure:"current_year"`   // 0 = wall clock
	EarliestYear int    `yaml:"earliest_year" mapstructure:"earliest_year"` // years must be strictly after this
	Gazetteer    string `yaml:"gazetteer,omitempty" mapstructure:"gazetteer"`
}

// AnnotatorConfig points at the CoreNLP server
type AnnotatorConfig struct {
	URL               string        `yaml:"url" mapstructure:"url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig controls caching of annotator responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "nlquery-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".nlquery", "cache")
	}

	return &Config{
		Extract: ExtractConfig{
			CurrentYear:  0,
			EarliestYear: 1900,
		},
		Annotator: AnnotatorConfig{
			URL:               "http://localhost:9000",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

// Year returns the configured current year, or the wall-clock year
func (c ExtractConfig) Year() int {
	if c.CurrentYear > 0 {
		return c.CurrentYear
	}
	return time.Now().Year()
}
