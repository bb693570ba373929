package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/sitereap/sitereap/internal/model"
)

// MarkdownWriter outputs records in Markdown format.
// This format is designed for documentation and sharing.
//
// Records are buffered and rendered on Flush because the summary table
// needs the full result set.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	output  io.Writer
	records []*model.PageRecord
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		output:  output,
		records: make([]*model.PageRecord, 0),
	}
}

// WriteHeader is a no-op; the document is rendered on Flush.
func (w *MarkdownWriter) WriteHeader() error {
	return nil
}

// WriteRecord buffers one page record for the final document.
func (w *MarkdownWriter) WriteRecord(record *model.PageRecord) error {
	w.records = append(w.records, record)
	return nil
}

// Flush renders the buffered records as a Markdown document.
func (w *MarkdownWriter) Flush() error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")
	md.PlainTextf("Pages crawled: %d", len(w.records))
	md.PlainText("")

	w.writeSummaryTable(md)
	w.writePages(md)

	return md.Build()
}

// writeSummaryTable writes one row per crawled page.
func (w *MarkdownWriter) writeSummaryTable(md *markdown.Markdown) {
	md.H2("Pages")
	md.PlainText("")

	rows := make([][]string, len(w.records))
	for i, r := range w.records {
		rows[i] = []string{
			r.URL,
			truncateString(r.Title, 60),
			strconv.Itoa(len(r.Headings)),
			strconv.Itoa(len(r.Links)),
			strconv.Itoa(len(r.Images)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Headings", "Links", "Images"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes a detail section per page with its extracted lists.
func (w *MarkdownWriter) writePages(md *markdown.Markdown) {
	if len(w.records) == 0 {
		return
	}

	md.H2("Details")
	md.PlainText("")

	for _, r := range w.records {
		md.H3(r.Title)
		md.PlainText("")
		md.PlainTextf("Source: %s", r.URL)
		md.PlainText("")

		if len(r.Headings) > 0 {
			md.PlainText("Headings:")
			md.PlainText("")
			md.BulletList(r.Headings...)
			md.PlainText("")
		}
		if len(r.Links) > 0 {
			md.PlainText("Links:")
			md.PlainText("")
			md.BulletList(r.Links...)
			md.PlainText("")
		}
		if len(r.Images) > 0 {
			md.PlainText("Images:")
			md.PlainText("")
			md.BulletList(r.Images...)
			md.PlainText("")
		}
	}
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
