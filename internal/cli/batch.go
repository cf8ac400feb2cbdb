package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ppiankov/fabula/internal/pipeline"
	"github.com/ppiankov/fabula/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputCSV    string
	batchTimeout time.Duration
	keepFailed   bool
	rowsPerSec   float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check multiple backstories from a CSV file in parallel",
	Long: `Batch processes a CSV input table concurrently:
- Read rows from the input file (columns: id, book_name, content)
- Locate each row's narrative under the books directory
- Check rows in parallel with a configurable worker count
- Write decisions to the output CSV (columns: id, prediction, rationale)

A row whose narrative is missing, or whose claims stay invalid after one
repair attempt, fails alone; the rest of the batch continues.

Example:
  fabula batch test.csv
  fabula batch test.csv --books-dir ./books --output results.csv
  fabula batch test.csv --concurrency 8 --keep-failed`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputCSV, "output", "results.csv", "output CSV path")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&rowsPerSec, "rate", 0, "per-book row starts per second (0 = unthrottled)")
	batchCmd.Flags().BoolVar(&keepFailed, "keep-failed", false, "write failed rows with empty prediction and the error as rationale")

	// Inherit pipeline flags from the check command
	batchCmd.Flags().StringVar(&booksDir, "books-dir", ".", "directory containing narrative sources")
	batchCmd.Flags().IntVar(&topK, "top-k", 6, "passages retrieved per claim")
	batchCmd.Flags().IntVar(&overlapParas, "overlap", 1, "trailing paragraphs of overlap per passage")
	batchCmd.Flags().StringVar(&storeBackend, "store", "memory", "passage store backend (memory, sqlite)")
	batchCmd.Flags().StringVar(&storePath, "store-path", "fabula.db", "SQLite passage store path")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the ingested-passage cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Fabula Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Books dir:    %s\n", booksDir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", outputCSV)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Concurrency.RowsPerSecond = rowsPerSec
	cfg.Output.KeepFailed = keepFailed

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	var limiter *worker.Limiter
	if rowsPerSec > 0 {
		limiter = worker.NewLimiter(rowsPerSec, cfg.Concurrency.RowsBurst)
	}

	processor := worker.NewBatchProcessor(p, concurrency, limiter)

	fmt.Fprintf(os.Stderr, "⚙️  Reading rows from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ row %s (%s): %v\n", result.Row.ID, result.Row.Book, result.Err)
			continue
		}
		successCount++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ row %s (%s): %d — %s\n",
				result.Row.ID, result.Row.Book, result.Decision.Label, result.Decision.Rationale)
		}
	}

	if err := worker.WriteResultsCSV(outputCSV, results, keepFailed); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d rows\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputCSV)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
