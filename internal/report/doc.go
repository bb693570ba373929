// Package report provides output writers for crawl results.
//
// This package contains writers for different output formats:
//   - CSVWriter: Tabular output matching the default on-disk format
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Human-readable tables for documentation and sharing
//
// Design decision: We separate record writing from the record data
// structures (which are in the model package) to follow the single
// responsibility principle. This allows adding new output formats without
// modifying the core data structures.
//
// Writers implement the RecordWriter interface, allowing them to be used
// interchangeably and composed for multi-format output. Records arrive one
// at a time as the crawl progresses; formats that need the full result set
// before rendering buffer internally and emit on Flush.
package report
