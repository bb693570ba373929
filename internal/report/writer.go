package report

import (
	"github.com/sitereap/sitereap/internal/model"
)

// RecordWriter defines the interface for crawl result output.
// Implementations write page records in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or a database
// with the same API.
type RecordWriter interface {
	// WriteHeader begins the output. It is called exactly once, before the
	// first record, and only when there is at least one URL to crawl.
	WriteHeader() error

	// WriteRecord outputs a single page record.
	WriteRecord(record *model.PageRecord) error

	// Flush finalizes the output. Buffering formats render here.
	Flush() error
}

// MultiWriter writes to multiple RecordWriters simultaneously.
// This is useful for outputting to both a file and the database archive.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our RecordWriter interface is different
// from io.Writer - we write records, not raw bytes.
type MultiWriter struct {
	writers []RecordWriter
}

// NewMultiWriter creates a RecordWriter that writes to all provided writers.
func NewMultiWriter(writers ...RecordWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteHeader begins the output on all configured writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteHeader() error {
	for _, w := range m.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord outputs the record to all configured writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteRecord(record *model.PageRecord) error {
	for _, w := range m.writers {
		if err := w.WriteRecord(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush finalizes the output on all configured writers.
// Stops on first error encountered.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
