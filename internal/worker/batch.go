package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/ppiankov/fabula/internal/model"
)

// Checker decides one backstory against one book
type Checker interface {
	Check(ctx context.Context, book, backstory string) (model.Decision, error)
}

// Row is one record of the batch input table
type Row struct {
	ID        string
	Book      string
	Backstory string
	Line      int // Position in the input file, used to restore output order
}

// RowJob checks one row
type RowJob struct {
	Row     Row
	Checker Checker
	Limiter *Limiter // Optional per-book throttle
}

// Execute runs the check for the job's row
func (j *RowJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Row.Book); err != nil {
			return &RowResult{Row: j.Row, Err: err}
		}
	}

	decision, err := j.Checker.Check(ctx, j.Row.Book, j.Row.Backstory)
	return &RowResult{Row: j.Row, Decision: decision, Err: err}
}

// RowResult is the outcome of checking one row
type RowResult struct {
	Row      Row
	Decision model.Decision
	Err      error
}

// GetError returns the row's processing error, if any
func (r *RowResult) GetError() error {
	return r.Err
}

// BatchProcessor checks batch rows concurrently. Row failures never abort
// the batch; they surface in the row's result.
type BatchProcessor struct {
	checker     Checker
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a batch processor. limiter may be nil.
func NewBatchProcessor(checker Checker, concurrency int, limiter *Limiter) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// ProcessRows checks all rows and returns results in input order
func (b *BatchProcessor) ProcessRows(ctx context.Context, rows []Row) []*RowResult {
	if len(rows) == 0 {
		return []*RowResult{}
	}

	pool := NewPoolBuffered(b.concurrency, len(rows))
	pool.Start()

	for _, row := range rows {
		pool.Submit(&RowJob{Row: row, Checker: b.checker, Limiter: b.limiter})
	}

	collected := pool.Wait()
	results := make([]*RowResult, 0, len(collected))
	for _, r := range collected {
		results = append(results, r.(*RowResult))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Row.Line < results[j].Row.Line
	})

	return results
}

// ProcessFile reads rows from a CSV file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*RowResult, error) {
	rows, err := ReadRowsCSV(path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return b.ProcessRows(ctx, rows), nil
}

// ReadRowsCSV reads the batch input table. Expected header:
// id,book_name,content.
func ReadRowsCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty input file")
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, required := range []string{"id", "book_name", "content"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q in input header", required)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		get := func(name string) string {
			idx := cols[name]
			if idx >= len(record) {
				return ""
			}
			return record[idx]
		}
		rows = append(rows, Row{
			ID:        get("id"),
			Book:      get("book_name"),
			Backstory: get("content"),
			Line:      i,
		})
	}

	return rows, nil
}

// WriteResultsCSV writes the batch output table (id,prediction,rationale).
// Failed rows are skipped unless keepFailed is set, in which case they keep
// an empty prediction and carry the error as rationale.
func WriteResultsCSV(path string, results []*RowResult, keepFailed bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "prediction", "rationale"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range results {
		if r.Err != nil {
			if !keepFailed {
				continue
			}
			if err := w.Write([]string{r.Row.ID, "", "error: " + r.Err.Error()}); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			continue
		}
		record := []string{r.Row.ID, strconv.Itoa(int(r.Decision.Label)), r.Decision.Rationale}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
