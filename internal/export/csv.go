package export

import (
	"encoding/csv"
	"io"

	"docanalyzer/internal/domain"
)

// BOM is written first so spreadsheet tools detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting documents.
type CSVWriter struct {
	out io.Writer
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w, csv: csv.NewWriter(w)}
}

// WriteBOM writes the UTF-8 byte order mark. Call it before anything else.
func (w *CSVWriter) WriteBOM() error {
	_, err := w.out.Write(BOM)
	return err
}

// WriteHeader writes the column header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments writes one row per document.
func (w *CSVWriter) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		if err := w.csv.Write(documentToRow(&docs[i])); err != nil {
			return err
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

// WriteCSV writes a complete CSV export of docs to out.
func WriteCSV(out io.Writer, docs []domain.Document) error {
	w := NewCSVWriter(out)
	if err := w.WriteBOM(); err != nil {
		return err
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteDocuments(docs); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
