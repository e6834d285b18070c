// Package report renders engine results as aligned text tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/knowledge-engine/textstats/internal/engine"
)

const precision = 4

func newWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// WriteTable writes a two-column word/value table.
func WriteTable(w io.Writer, r *engine.Report) error {
	tw := newWriter(w)
	fmt.Fprintf(tw, "WORD\t%s\n", strings.ToUpper(string(r.Mode)))
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row.Term, formatValue(row.Value))
	}
	return tw.Flush()
}

// WriteMatrix writes the IDF row followed by one row per document.
func WriteMatrix(w io.Writer, m *engine.MatrixReport) error {
	tw := newWriter(w)

	fmt.Fprint(tw, "DOCUMENT")
	for _, term := range m.Vocabulary {
		fmt.Fprintf(tw, "\t%s", term)
	}
	fmt.Fprintln(tw)

	fmt.Fprint(tw, "idf")
	for _, v := range m.IDF {
		fmt.Fprintf(tw, "\t%s", formatValue(v))
	}
	fmt.Fprintln(tw)

	for i, row := range m.Matrix {
		fmt.Fprintf(tw, "d%d", i)
		for _, v := range row {
			fmt.Fprintf(tw, "\t%s", formatValue(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Write renders whichever part of the result is set.
func Write(w io.Writer, res *engine.Result) error {
	if res.Matrix != nil {
		return WriteMatrix(w, res.Matrix)
	}
	if res.Report != nil {
		if _, err := fmt.Fprintf(w, "Vocab: %s\n", strings.Join(res.Report.Vocabulary, " ")); err != nil {
			return err
		}
		return WriteTable(w, res.Report)
	}
	return nil
}
