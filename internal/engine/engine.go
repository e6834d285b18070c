package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/knowledge-engine/textstats/internal/config"
	"github.com/knowledge-engine/textstats/internal/fetcher"
	"github.com/knowledge-engine/textstats/internal/storage"
	"github.com/knowledge-engine/textstats/internal/textstats"
)

var (
	ErrUnknownMode = errors.New("unknown mode")
	ErrEmptyName   = errors.New("corpus name is required")
	ErrEmptyCorpus = errors.New("corpus has no documents")
)

// DocumentFetcher loads the text of a remote document
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.FetchResult, error)
}

// Engine answers TF, IDF and TF-IDF requests and manages stored corpora
type Engine struct {
	Config  *config.Config
	Logger  *logrus.Entry
	Storage storage.CorpusStorage
	Fetcher DocumentFetcher

	options textstats.Options

	mu    sync.RWMutex
	stats EngineStats
}

type EngineStats struct {
	Computations int64
	CorporaSaved int64
	StartTime    time.Time
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, store storage.CorpusStorage) (*Engine, error) {
	match, err := textstats.ParseMatchMode(cfg.Stats.MatchMode)
	if err != nil {
		return nil, err
	}
	idf, err := textstats.ParseIDFMode(cfg.Stats.IDFMode)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"match_mode": match.String(),
		"idf_mode":   idf.String(),
	}).Info("Text statistics engine configured")

	return &Engine{
		Config:  cfg,
		Logger:  logger,
		Storage: store,
		Fetcher: fetcher.NewFetcher(cfg.Fetcher),
		options: textstats.Options{Match: match, IDF: idf},
		stats:   EngineStats{StartTime: time.Now()},
	}, nil
}

// Options returns the TF/IDF semantics in use
func (e *Engine) Options() textstats.Options {
	return e.options
}

// Stats returns a snapshot of the counters
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// TermFrequencies scores every distinct word of a single sentence
func (e *Engine) TermFrequencies(sentence string) *Report {
	stats := textstats.NewEngine(e.options)
	vocab := textstats.BuildVocabulary([]string{sentence})

	rows := make([]TermScore, len(vocab))
	for i, term := range vocab {
		rows[i] = TermScore{Term: term, Value: stats.TermFrequency(sentence, term)}
	}

	e.recordComputation(ModeTF, 1, len(vocab))
	return &Report{Mode: ModeTF, Vocabulary: vocab, Rows: rows}
}

// InverseDocumentFrequencies scores every vocabulary word of the corpus
func (e *Engine) InverseDocumentFrequencies(corpus []string) *Report {
	stats := textstats.NewEngine(e.options)
	vocab := textstats.BuildVocabulary(corpus)

	rows := make([]TermScore, len(vocab))
	for i, term := range vocab {
		rows[i] = TermScore{Term: term, Value: stats.InverseDocumentFrequency(corpus, term)}
	}

	e.recordComputation(ModeIDF, len(corpus), len(vocab))
	return &Report{Mode: ModeIDF, Vocabulary: vocab, Rows: rows}
}

// TFIDF vectorizes the corpus into a dense document-term matrix
func (e *Engine) TFIDF(corpus []string) *MatrixReport {
	v := textstats.NewVectorizer(e.options)
	matrix := v.FitTransform(corpus)

	e.recordComputation(ModeTFIDF, len(corpus), len(v.Vocabulary()))
	return &MatrixReport{
		Documents:  v.Corpus(),
		Vocabulary: v.Vocabulary(),
		IDF:        v.IDF(),
		Matrix:     matrix,
	}
}

// Compute runs one display mode on raw free-text input. TF treats the input
// as one document, IDF and TF-IDF split it on commas.
func (e *Engine) Compute(mode Mode, input string) (*Result, error) {
	switch mode {
	case ModeTF:
		return &Result{Mode: mode, Report: e.TermFrequencies(input)}, nil
	case ModeIDF:
		return &Result{Mode: mode, Report: e.InverseDocumentFrequencies(SplitCorpus(input))}, nil
	case ModeTFIDF:
		return &Result{Mode: mode, Matrix: e.TFIDF(SplitCorpus(input))}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// SaveCorpus stores documents under name. Each URL is fetched and its visible
// text appended after the inline documents, in URL order.
func (e *Engine) SaveCorpus(ctx context.Context, name string, documents []string, urls []string) (*storage.Corpus, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(documents) == 0 && len(urls) == 0 {
		return nil, ErrEmptyCorpus
	}

	fetched, err := e.fetchAll(ctx, urls)
	if err != nil {
		return nil, err
	}

	corpus := &storage.Corpus{
		Name:      name,
		Documents: append(append([]string{}, documents...), fetched...),
		Sources:   append([]string(nil), urls...),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.Storage.Save(corpus); err != nil {
		return nil, fmt.Errorf("failed to save corpus %q: %w", name, err)
	}

	e.mu.Lock()
	e.stats.CorporaSaved++
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"corpus":    name,
		"documents": len(corpus.Documents),
		"urls":      len(urls),
	}).Info("Corpus saved")
	return corpus, nil
}

// LoadCorpus returns a stored corpus
func (e *Engine) LoadCorpus(name string) (*storage.Corpus, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return e.Storage.Get(name)
}

// ListCorpora returns the names of the stored corpora
func (e *Engine) ListCorpora() ([]string, error) {
	return e.Storage.List()
}

func (e *Engine) fetchAll(ctx context.Context, urls []string) ([]string, error) {
	texts := make([]string, len(urls))
	if len(urls) == 0 {
		return texts, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit := e.Config.Fetcher.MaxConcurrency; limit > 0 {
		g.SetLimit(limit)
	}

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			res, err := e.Fetcher.Fetch(ctx, u)
			if err != nil {
				e.Logger.WithError(err).WithField("url", u).Warn("Failed to fetch document")
				return fmt.Errorf("fetch %s: %w", u, err)
			}
			texts[i] = res.Text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

func (e *Engine) recordComputation(mode Mode, documents, terms int) {
	e.mu.Lock()
	e.stats.Computations++
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"mode":      mode,
		"documents": documents,
		"terms":     terms,
	}).Debug("Computed statistics")
}
