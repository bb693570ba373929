package report

import (
	"encoding/csv"
	"io"

	"github.com/sitereap/sitereap/internal/model"
)

// CSVWriter outputs records in CSV format, one row per page.
// Multi-valued fields are joined with model.CellSeparator inside their cell
// and the csv encoder quotes them as needed.
//
// Design decision: We use standard encoding/csv rather than a third-party
// CSV library because it handles quoting and escaping per RFC 4180 and is
// sufficient for a fixed five-column layout.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(output)}
}

// WriteHeader writes the fixed column header row.
func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(model.Header)
}

// WriteRecord writes one page record as a CSV row.
func (c *CSVWriter) WriteRecord(record *model.PageRecord) error {
	return c.w.Write(record.Row())
}

// Flush writes any buffered rows to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
