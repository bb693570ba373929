package report

import (
	"encoding/json"
	"io"

	"github.com/sitereap/sitereap/internal/model"
)

// JSONWriter outputs records as a JSON array of page objects.
// This format is designed for tool integration and programmatic processing.
//
// Records are buffered and rendered on Flush so the output is a single
// valid JSON document rather than a stream of fragments.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	output io.Writer

	// records buffers everything written so far, rendered on Flush.
	records []*model.PageRecord

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		output:  output,
		records: make([]*model.PageRecord, 0),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteHeader is a no-op; the array brackets are emitted on Flush.
func (w *JSONWriter) WriteHeader() error {
	return nil
}

// WriteRecord buffers one page record for the final document.
func (w *JSONWriter) WriteRecord(record *model.PageRecord) error {
	w.records = append(w.records, record)
	return nil
}

// Flush marshals the buffered records and writes them to the output.
func (w *JSONWriter) Flush() error {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(w.records, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(w.records)
	}
	if err != nil {
		return err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	_, err = w.output.Write(data)
	return err
}
