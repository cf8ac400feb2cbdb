package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/fabula/internal/cache"
	"github.com/ppiankov/fabula/internal/decompose"
	"github.com/ppiankov/fabula/internal/evaluate"
	"github.com/ppiankov/fabula/internal/ingest"
	"github.com/ppiankov/fabula/internal/llm"
	"github.com/ppiankov/fabula/internal/model"
	"github.com/ppiankov/fabula/internal/retrieve"
	"github.com/ppiankov/fabula/internal/score"
	"github.com/ppiankov/fabula/internal/store"
	"github.com/ppiankov/fabula/internal/validate"
)

// Pipeline orchestrates the complete backstory check: decompose, validate
// (with one repair retry), weigh, retrieve and evaluate per claim, decide.
type Pipeline struct {
	decomposer *decompose.Decomposer
	validator  *validate.Validator
	retriever  *retrieve.Retriever
	evaluator  *evaluate.Evaluator
	store      store.Store
	passages   cache.Cache // nil when caching is disabled
	explainer  *llm.Explainer
	config     *model.Config
	log        *zap.Logger
}

// New creates a pipeline with the given configuration
func New(cfg *model.Config) (*Pipeline, error) {
	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	var passageCache cache.Cache
	if cfg.Cache.Enabled {
		passageCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	explainer, err := llm.NewExplainer(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create explainer: %w", err)
	}

	log := zap.NewNop()
	if cfg.Output.Verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
		}
	}

	return &Pipeline{
		decomposer: decompose.NewDecomposer(),
		validator:  validate.NewValidator(),
		retriever:  retrieve.NewRetriever(cfg.Retrieval.TopK),
		evaluator: evaluate.NewEvaluator(evaluate.Thresholds{
			SupportOverlap:       cfg.Evaluation.SupportOverlap,
			ContradictionOverlap: cfg.Evaluation.ContradictionOverlap,
			ContrastOverlap:      cfg.Evaluation.ContrastOverlap,
			NegationWindow:       cfg.Evaluation.NegationWindow,
			MinSupport:           cfg.Evaluation.MinSupport,
		}),
		store:     st,
		passages:  passageCache,
		explainer: explainer,
		config:    cfg,
		log:       log,
	}, nil
}

// Close releases the passage store
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// ResolveBook locates the narrative source for a book name under the books
// directory. A missing source is a fatal error for the row.
func (p *Pipeline) ResolveBook(book string) (string, error) {
	for _, ext := range []string{".txt", ".html", ".htm"} {
		path := filepath.Join(p.config.Ingest.BooksDir, book+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("narrative source not found for book %q in %s", book, p.config.Ingest.BooksDir)
}

// Check decides one backstory against one book. Implements worker.Checker.
func (p *Pipeline) Check(ctx context.Context, book, backstory string) (model.Decision, error) {
	report, err := p.CheckBackstory(ctx, book, backstory)
	if err != nil {
		return model.Decision{}, err
	}
	return report.Decision, nil
}

// CheckBackstory runs the full pipeline and returns the complete report
func (p *Pipeline) CheckBackstory(ctx context.Context, book, backstory string) (*model.Report, error) {
	source, err := p.ResolveBook(book)
	if err != nil {
		return nil, err
	}

	passages, err := p.loadPassages(ctx, book, source)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", source, err)
	}
	p.log.Debug("narrative loaded", zap.String("book", book), zap.Int("passages", len(passages)))

	// 1. Decompose
	claims := p.decomposer.Decompose(backstory)

	// 2. Validate, with one repair retry. A second failure is fatal.
	if err := p.validator.ValidateSet(claims); err != nil {
		p.log.Debug("claim validation failed, repairing", zap.Error(err))
		claims = validate.RepairSet(claims)
		if err := p.validator.ValidateSet(claims); err != nil {
			return nil, fmt.Errorf("claims invalid after repair: %w", err)
		}
	}

	// 3. Weigh
	score.AssignWeights(claims)

	// 4. Retrieve and evaluate per claim
	verdicts := make([]model.Verdict, len(claims))
	for i, claim := range claims {
		evidence := p.retriever.Retrieve(claim.Text, passages)
		verdicts[i] = p.evaluator.Evaluate(claim, evidence)
		p.log.Debug("claim evaluated",
			zap.String("claim_id", claim.ID),
			zap.String("status", string(verdicts[i].Status)),
			zap.Int("supporting", len(verdicts[i].Supporting)),
			zap.Int("contradicting", len(verdicts[i].Contradicting)))
	}

	// 5. Decide
	decision := score.Decide(verdicts)

	report := &model.Report{
		Book:      book,
		Source:    source,
		CheckedAt: time.Now().UTC(),
		Passages:  len(passages),
		Claims:    claims,
		Verdicts:  verdicts,
		Decision:  decision,
	}

	// 6. Optional explanation, generated AFTER the decision and never
	// affecting it.
	if p.explainer.IsEnabled() {
		summary, err := p.explainer.Explain(ctx, *report)
		if err != nil {
			p.log.Warn("explanation failed", zap.Error(err))
		} else {
			report.LLM = summary
		}
	}

	return report, nil
}

// loadPassages returns the passage set for a narrative. The store is the
// collection the retriever reads; the cache only short-circuits re-chunking
// of an unchanged source file.
func (p *Pipeline) loadPassages(ctx context.Context, book, source string) ([]model.Passage, error) {
	if stored, err := p.store.Passages(ctx, book); err != nil {
		return nil, fmt.Errorf("load passages: %w", err)
	} else if len(stored) > 0 {
		p.log.Debug("passage store hit", zap.String("book", book))
		return stored, nil
	}

	opts := ingest.Options{OverlapParagraphs: p.config.Ingest.OverlapParagraphs}

	var key string
	passages := []model.Passage(nil)
	if p.passages != nil {
		info, err := os.Stat(source)
		if err != nil {
			return nil, err
		}
		key = cache.Key(source, opts.OverlapParagraphs, info.ModTime().UnixNano())
		if data, found := p.passages.Get(key); found {
			if cached, err := cache.DecodePassages(data); err == nil {
				p.log.Debug("passage cache hit", zap.String("book", book))
				passages = cached
			}
		}
	}

	if passages == nil {
		ingested, err := ingest.File(source, opts)
		if err != nil {
			return nil, err
		}
		passages = ingested
		if p.passages != nil {
			if data, err := cache.EncodePassages(passages); err == nil {
				_ = p.passages.Set(key, data, 0)
			}
		}
	}

	if err := p.store.Put(ctx, book, passages); err != nil {
		return nil, fmt.Errorf("store passages: %w", err)
	}

	return passages, nil
}
