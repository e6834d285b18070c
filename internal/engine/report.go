package engine

import (
	"fmt"
	"strings"

	"github.com/knowledge-engine/textstats/internal/textstats"
)

// Mode is one of the three statistics a user can ask for
type Mode string

const (
	ModeTF    Mode = "tf"
	ModeIDF   Mode = "idf"
	ModeTFIDF Mode = "tf-idf"
)

// ParseMode accepts "tf", "idf", "tf-idf" and "tfidf" in any case
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tf":
		return ModeTF, nil
	case "idf":
		return ModeIDF, nil
	case "tf-idf", "tfidf":
		return ModeTFIDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// TermScore is one row of a TF or IDF table
type TermScore struct {
	Term  string  `json:"word"`
	Value float64 `json:"value"`
}

// Report is a per-word table
type Report struct {
	Mode       Mode        `json:"mode"`
	Vocabulary []string    `json:"vocabulary"`
	Rows       []TermScore `json:"rows"`
}

// MatrixReport carries a TF-IDF matrix with the labels of its rows and columns
type MatrixReport struct {
	Documents  []string         `json:"documents"`
	Vocabulary []string         `json:"vocabulary"`
	IDF        []float64        `json:"idf"`
	Matrix     textstats.Matrix `json:"matrix"`
}

// Result holds the output of Compute; exactly one of Report and Matrix is set
type Result struct {
	Mode   Mode          `json:"mode"`
	Report *Report       `json:"report,omitempty"`
	Matrix *MatrixReport `json:"matrix,omitempty"`
}

// SplitCorpus splits free-text input on commas into documents. Documents
// are kept verbatim.
func SplitCorpus(input string) []string {
	return strings.Split(input, ",")
}
