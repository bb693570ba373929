package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NoTitle is the sentinel title for documents without a <title> element.
// A present-but-empty title element yields an empty string, not this sentinel.
const NoTitle = "No Title"

// CellSeparator joins multi-valued fields into a single tabular cell.
const CellSeparator = ", "

// Header is the fixed column order for tabular output.
var Header = []string{"url", "title", "headings", "links", "images"}

// PageRecord is the structured extraction result for one fetched page.
//
// Headings preserve document order across all levels (h1 through h6) and are
// not deduplicated. Links and Images hold absolute URLs in document order;
// entries that fail URL validation are excluded at extraction time, duplicates
// are kept.
type PageRecord struct {
	// URL is the source URL the page was fetched from.
	URL string `json:"url"`

	// Title is the text of the document's title element, or NoTitle when the
	// element is absent.
	Title string `json:"title"`

	// Headings contains the trimmed text of every h1-h6 element in document order.
	Headings []string `json:"headings"`

	// Links contains resolved absolute anchor targets in document order.
	Links []string `json:"links"`

	// Images contains resolved absolute image sources in document order.
	Images []string `json:"images"`

	// Hash is the SHA-256 hash of the fetched body, hex encoded.
	// Used by the database archive for change detection across runs.
	Hash string `json:"hash,omitempty"`
}

// NewPageRecord creates a record for the given source URL with empty,
// non-nil collections.
func NewPageRecord(sourceURL string) *PageRecord {
	return &PageRecord{
		URL:      sourceURL,
		Title:    NoTitle,
		Headings: make([]string, 0),
		Links:    make([]string, 0),
		Images:   make([]string, 0),
	}
}

// ComputeHash calculates and sets the SHA-256 hash of the given page body.
func (r *PageRecord) ComputeHash(body string) {
	if body == "" {
		r.Hash = ""
		return
	}

	sum := sha256.Sum256([]byte(body))
	r.Hash = hex.EncodeToString(sum[:])
}

// Row returns the record as a tabular row in Header order.
// Multi-valued fields are joined with CellSeparator.
func (r *PageRecord) Row() []string {
	return []string{
		r.URL,
		r.Title,
		JoinCell(r.Headings),
		JoinCell(r.Links),
		JoinCell(r.Images),
	}
}

// JoinCell serializes a multi-valued field into a single cell.
func JoinCell(values []string) string {
	return strings.Join(values, CellSeparator)
}
