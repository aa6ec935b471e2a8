package export

import (
	"encoding/csv"
	"io"

	"quotegen/internal/domain"
	"quotegen/internal/format"
	"quotegen/internal/quote"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var columns = []string{
	"Table",
	"Description",
	"Local Currency",
	"Local Amount",
	"USD Amount",
	"Subtotal",
}

// CSVWriter wraps csv.Writer for exporting quotes.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteQuote writes every table row of the quote followed by the table totals.
func (w *CSVWriter) WriteQuote(q domain.QuoteData) error {
	for _, t := range quote.Tables(q) {
		for _, r := range t.Rows {
			if err := w.csv.Write(quoteRow(t.Title, r.Label, q.LocalCurrency, r.Local, r.USD, r.Emphasized)); err != nil {
				return err
			}
		}
		if t.Total != nil {
			if err := w.csv.Write(quoteRow(t.Title, "Total", q.LocalCurrency, t.Total.Local, t.Total.USD, true)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func quoteRow(table, label, currency string, local, usd float64, subtotal bool) []string {
	return []string{table, label, currency, format.Cents(local), format.Cents(usd), formatBool(subtotal)}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// WriteCSV writes a complete CSV document for q, BOM included.
func WriteCSV(out io.Writer, q domain.QuoteData) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewCSVWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteQuote(q); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
