package textstats

import (
	"strings"
)

// Tokenize splits text on whitespace and lowercases every token.
// Punctuation is kept as part of the token.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, strings.ToLower(field))
	}
	return tokens
}

// BuildVocabulary returns the distinct lowercased terms of the corpus in
// order of first appearance.
func BuildVocabulary(corpus []string) []string {
	seen := make(map[string]bool)
	vocab := make([]string, 0)
	for _, doc := range corpus {
		for _, token := range Tokenize(doc) {
			if seen[token] {
				continue
			}
			seen[token] = true
			vocab = append(vocab, token)
		}
	}
	return vocab
}

// normalize applies the lowercasing rule shared by TF and IDF.
func normalize(text string) string {
	return strings.ToLower(text)
}
