package model

import "time"

// Config is the complete fabula configuration tree
type Config struct {
	Ingest      IngestConfig      `yaml:"ingest" mapstructure:"ingest"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Evaluation  EvaluationConfig  `yaml:"evaluation" mapstructure:"evaluation"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// IngestConfig controls narrative ingestion
type IngestConfig struct {
	BooksDir          string `yaml:"books_dir" mapstructure:"books_dir"`                   // Where <book_name>.txt files live
	OverlapParagraphs int    `yaml:"overlap_paragraphs" mapstructure:"overlap_paragraphs"` // Trailing paragraphs per passage
}

// StoreConfig selects the passage store backend
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path" mapstructure:"path"`       // SQLite database path
}

// RetrievalConfig controls evidence retrieval
type RetrievalConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"` // Passages returned per claim
}

// EvaluationConfig holds the evaluator thresholds. Defaults reproduce the
// documented pattern-matching behavior; they are exposed for tuning, not
// expected to change in normal use.
type EvaluationConfig struct {
	SupportOverlap       float64 `yaml:"support_overlap" mapstructure:"support_overlap"`             // Min token overlap ratio for support
	ContradictionOverlap float64 `yaml:"contradiction_overlap" mapstructure:"contradiction_overlap"` // Min overlap ratio for negation-based contradiction
	ContrastOverlap      float64 `yaml:"contrast_overlap" mapstructure:"contrast_overlap"`           // Min overlap ratio for contrast-keyword contradiction
	NegationWindow       int     `yaml:"negation_window" mapstructure:"negation_window"`             // Chars around an overlapping token
	MinSupport           int     `yaml:"min_support" mapstructure:"min_support"`                     // Supporting items required for PASS
}

// CacheConfig controls the ingested-passage cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers       int     `yaml:"workers" mapstructure:"workers"`
	RowsPerSecond float64 `yaml:"rows_per_second" mapstructure:"rows_per_second"` // 0 disables throttling
	RowsBurst     int     `yaml:"rows_burst" mapstructure:"rows_burst"`
}

// LLMConfig configures the optional explainer
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls rendering and batch output
type OutputConfig struct {
	Verbose    bool `yaml:"verbose" mapstructure:"verbose"`
	KeepFailed bool `yaml:"keep_failed" mapstructure:"keep_failed"` // Write failed rows with empty prediction
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			BooksDir:          ".",
			OverlapParagraphs: 1,
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "fabula.db",
		},
		Retrieval: RetrievalConfig{
			TopK: 6,
		},
		Evaluation: EvaluationConfig{
			SupportOverlap:       0.25,
			ContradictionOverlap: 0.2,
			ContrastOverlap:      0.15,
			NegationWindow:       50,
			MinSupport:           2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".fabula-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:          "", // Disabled by default
			Timeout:           30,
			MaxTokens:         500,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Output: OutputConfig{},
	}
}
