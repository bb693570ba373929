package crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sitereap/sitereap/internal/model"
)

// headingSelector matches every heading level in document order.
const headingSelector = "h1, h2, h3, h4, h5, h6"

// Parser extracts a PageRecord from fetched HTML.
//
// Design decision: We parse with goquery rather than walking x/net/html
// nodes by hand because the extraction here is pure selection (title,
// headings, attribute harvesting), and goquery keeps that declarative while
// inheriting x/net/html's tolerance for malformed markup.
type Parser struct {
	// base is the source URL of the page, used to resolve relative
	// link and image targets.
	base *url.URL
}

// NewParser creates a parser for a page fetched from sourceURL.
func NewParser(sourceURL string) (*Parser, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, err
	}
	return &Parser{base: u}, nil
}

// Parse extracts the structured record for the page body.
//
// Extraction is best-effort and deterministic: the same body and source URL
// always produce an identical record. Malformed markup never fails; absent
// elements simply contribute no entries.
func (p *Parser) Parse(body string) *model.PageRecord {
	record := model.NewPageRecord(p.base.String())
	record.ComputeHash(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// html.Parse absorbs malformed markup, so this only triggers on
		// reader failures, which cannot happen for an in-memory string.
		return record
	}

	if title := doc.Find("title"); title.Length() > 0 {
		record.Title = strings.TrimSpace(title.First().Text())
	}

	doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		record.Headings = append(record.Headings, strings.TrimSpace(s.Text()))
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			if resolved := p.resolve(href); IsValid(resolved) {
				record.Links = append(record.Links, resolved)
			}
		}
	})

	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			if resolved := p.resolve(src); IsValid(resolved) {
				record.Images = append(record.Images, resolved)
			}
		}
	})

	return record
}

// resolve makes a possibly-relative reference absolute against the source
// URL. Unparseable references resolve to the empty string, which IsValid
// then rejects.
func (p *Parser) resolve(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return p.base.ResolveReference(u).String()
}
