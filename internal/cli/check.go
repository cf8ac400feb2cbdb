package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/fabula/internal/model"
	"github.com/ppiankov/fabula/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	backstory     string
	backstoryFile string
	booksDir      string
	outJSON       string
	outMD         string
	topK          int
	overlapParas  int
	storeBackend  string
	storePath     string
	noCache       bool
	checkTimeout  time.Duration
	llmEnabled    bool
	llmProvider   string
	llmModel      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <book_name>",
	Short: "Check one backstory against one narrative",
	Long: `Check decomposes a backstory into atomic claims, retrieves relevant
passages from <books-dir>/<book_name>.txt (or .html), evaluates each claim
against the evidence, and prints the accept/reject decision.

Example:
  fabula check dune --backstory "He grew up on a desert planet."
  fabula check dune --backstory-file backstory.txt --json report.json --md report.md
  fabula check dune --backstory "..." --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Input flags
	checkCmd.Flags().StringVar(&backstory, "backstory", "", "backstory text to check")
	checkCmd.Flags().StringVar(&backstoryFile, "backstory-file", "", "file containing the backstory text")
	checkCmd.Flags().StringVar(&booksDir, "books-dir", ".", "directory containing narrative sources")

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON report path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown report path (optional)")

	// Pipeline flags
	checkCmd.Flags().IntVar(&topK, "top-k", 6, "passages retrieved per claim")
	checkCmd.Flags().IntVar(&overlapParas, "overlap", 1, "trailing paragraphs of overlap per passage")
	checkCmd.Flags().StringVar(&storeBackend, "store", "memory", "passage store backend (memory, sqlite)")
	checkCmd.Flags().StringVar(&storePath, "store-path", "fabula.db", "SQLite passage store path")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the ingested-passage cache")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM explanation of the decision")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	book := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	text := backstory
	if backstoryFile != "" {
		data, err := os.ReadFile(backstoryFile)
		if err != nil {
			return fmt.Errorf("read backstory file: %w", err)
		}
		text = string(data)
	}
	if text == "" {
		return fmt.Errorf("no backstory provided (use --backstory or --backstory-file)")
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking backstory against: %s\n", book)
		fmt.Fprintf(os.Stderr, "Books dir: %s\n", cfg.Ingest.BooksDir)
		fmt.Fprintln(os.Stderr)
	}

	report, err := p.CheckBackstory(ctx, book, text)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	renderer := pipeline.NewRenderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)
	return nil
}

// buildConfig assembles the pipeline configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Ingest.BooksDir = booksDir
	cfg.Ingest.OverlapParagraphs = overlapParas
	cfg.Retrieval.TopK = topK
	cfg.Store.Backend = storeBackend
	cfg.Store.Path = storePath
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
