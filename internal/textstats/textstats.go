package textstats

import (
	"fmt"
	"math"
	"strings"
)

// MatchMode controls how a term is located inside a document.
type MatchMode int

const (
	// MatchSubstring counts raw substring occurrences in the lowercased
	// document, so "cat" also matches inside "category".
	MatchSubstring MatchMode = iota
	// MatchToken counts only whole tokens equal to the term.
	MatchToken
)

func (m MatchMode) String() string {
	switch m {
	case MatchSubstring:
		return "substring"
	case MatchToken:
		return "token"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode maps a config value onto a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "substring":
		return MatchSubstring, nil
	case "token":
		return MatchToken, nil
	}
	return MatchSubstring, fmt.Errorf("unknown match mode %q", s)
}

// IDFMode selects the smoothing formula used once a term is known to occur
// in at least one document.
type IDFMode int

const (
	// IDFLiteral computes ln(n + 1/df + 1) + 1.
	IDFLiteral IDFMode = iota
	// IDFSmooth computes ln((n+1)/(df+1)) + 1.
	IDFSmooth
	// IDFClassic computes log10(n/df).
	IDFClassic
)

func (m IDFMode) String() string {
	switch m {
	case IDFLiteral:
		return "literal"
	case IDFSmooth:
		return "smooth"
	case IDFClassic:
		return "classic"
	default:
		return fmt.Sprintf("IDFMode(%d)", int(m))
	}
}

// ParseIDFMode maps a config value onto an IDFMode.
func ParseIDFMode(s string) (IDFMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return IDFLiteral, nil
	case "smooth":
		return IDFSmooth, nil
	case "classic":
		return IDFClassic, nil
	}
	return IDFLiteral, fmt.Errorf("unknown idf mode %q", s)
}

// Options configures an Engine. The zero value is the default behavior.
type Options struct {
	Match MatchMode
	IDF   IDFMode
}

// Matrix is a dense document-by-term table. Rows follow corpus order and
// columns follow vocabulary order.
type Matrix [][]float64

// Shape returns the number of rows and columns.
func (m Matrix) Shape() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Engine computes TF, IDF and TF-IDF. It holds no state besides its options
// and is safe to share between goroutines.
type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// TermFrequency returns occurrences of term in doc divided by the number of
// whitespace-delimited tokens in doc. A document without tokens yields 0.
func (e *Engine) TermFrequency(doc, term string) float64 {
	nTerms := len(strings.Fields(doc))
	if nTerms == 0 {
		return 0.0
	}
	freq := e.occurrences(doc, term)
	return float64(freq) / float64(nTerms)
}

// InverseDocumentFrequency measures how rare term is across corpus.
// A term found in no document yields 0.
func (e *Engine) InverseDocumentFrequency(corpus []string, term string) float64 {
	nDocsWithTerm := 0
	for _, doc := range corpus {
		if e.contains(doc, term) {
			nDocsWithTerm++
		}
	}
	if nDocsWithTerm == 0 {
		return 0
	}

	n := float64(len(corpus))
	df := float64(nDocsWithTerm)
	switch e.opts.IDF {
	case IDFSmooth:
		return math.Log((n+1)/(df+1)) + 1
	case IDFClassic:
		return math.Log10(n / df)
	default:
		return math.Log(n+1/df+1) + 1
	}
}

// TFIDF builds the len(corpus) x len(vocabulary) matrix where cell (i, j) is
// TF(corpus[i], vocabulary[j]) * IDF(vocabulary[j], corpus).
func (e *Engine) TFIDF(corpus []string, vocabulary []string) Matrix {
	idfs := e.idfs(corpus, vocabulary)

	matrix := make(Matrix, len(corpus))
	for i, doc := range corpus {
		matrix[i] = e.row(doc, vocabulary, idfs)
	}
	return matrix
}

// idfs computes one IDF value per vocabulary column.
func (e *Engine) idfs(corpus []string, vocabulary []string) []float64 {
	idfs := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		idfs[j] = e.InverseDocumentFrequency(corpus, term)
	}
	return idfs
}

func (e *Engine) row(doc string, vocabulary []string, idfs []float64) []float64 {
	row := make([]float64, len(vocabulary))
	for j, term := range vocabulary {
		row[j] = e.TermFrequency(doc, term) * idfs[j]
	}
	return row
}

func (e *Engine) occurrences(doc, term string) int {
	term = normalize(term)
	if term == "" {
		return 0
	}
	if e.opts.Match == MatchToken {
		count := 0
		for _, token := range Tokenize(doc) {
			if token == term {
				count++
			}
		}
		return count
	}
	return strings.Count(normalize(doc), term)
}

func (e *Engine) contains(doc, term string) bool {
	return e.occurrences(doc, term) > 0
}

var defaultEngine = NewEngine(Options{})

// TermFrequency uses the default options.
func TermFrequency(doc, term string) float64 {
	return defaultEngine.TermFrequency(doc, term)
}

// InverseDocumentFrequency uses the default options.
func InverseDocumentFrequency(corpus []string, term string) float64 {
	return defaultEngine.InverseDocumentFrequency(corpus, term)
}

// TFIDF uses the default options.
func TFIDF(corpus []string, vocabulary []string) Matrix {
	return defaultEngine.TFIDF(corpus, vocabulary)
}
