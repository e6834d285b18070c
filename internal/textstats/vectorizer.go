package textstats

// Vectorizer turns a corpus into a TF-IDF matrix and remembers what it was
// fitted on. It is not safe for concurrent use; give each caller its own.
type Vectorizer struct {
	engine     *Engine
	corpus     []string
	vocabulary []string
	idf        []float64
}

func NewVectorizer(opts Options) *Vectorizer {
	return &Vectorizer{engine: NewEngine(opts)}
}

// Fit derives the vocabulary and IDF values from corpus, replacing any
// previously fitted state.
func (v *Vectorizer) Fit(corpus []string) {
	// 1. Keep our own copy of the documents
	v.corpus = append([]string(nil), corpus...)

	// 2. Build Vocabulary
	v.vocabulary = BuildVocabulary(v.corpus)

	// 3. Calculate IDF
	v.idf = v.engine.idfs(v.corpus, v.vocabulary)
}

// FitTransform fits the corpus and returns its TF-IDF matrix.
func (v *Vectorizer) FitTransform(corpus []string) Matrix {
	v.Fit(corpus)
	matrix := make(Matrix, len(v.corpus))
	for i, doc := range v.corpus {
		matrix[i] = v.engine.row(doc, v.vocabulary, v.idf)
	}
	return matrix
}

// Transform converts text to a vector over the fitted vocabulary.
func (v *Vectorizer) Transform(text string) []float64 {
	return v.engine.row(text, v.vocabulary, v.idf)
}

// Corpus returns the documents of the last fit.
func (v *Vectorizer) Corpus() []string {
	return append([]string(nil), v.corpus...)
}

// Vocabulary returns the column order of the last fit.
func (v *Vectorizer) Vocabulary() []string {
	return append([]string(nil), v.vocabulary...)
}

// IDF returns the IDF value of each vocabulary term.
func (v *Vectorizer) IDF() []float64 {
	return append([]float64(nil), v.idf...)
}
