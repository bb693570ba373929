package sitemap

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// maxNesting bounds sitemap index recursion. Real-world index files are one
// level deep; the bound exists to stop reference cycles between indexes.
const maxNesting = 2

// PageFetcher is the fetch contract the resolver relies on. The resolver
// inherits whatever retry and timeout behavior the implementation carries.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Resolver fetches sitemap documents and extracts their listed locations.
type Resolver struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a sitemap resolver that fetches documents through fetcher.
func NewResolver(fetcher PageFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve fetches sitemapURL and returns every listed location in document
// order. Locations inside a <sitemap> element (a sitemap index entry) are
// resolved recursively; their page URLs splice into the result at the index
// entry's position. A fetch failure returns an empty list.
func (r *Resolver) Resolve(ctx context.Context, sitemapURL string) []string {
	return r.resolve(ctx, sitemapURL, 0)
}

// ProbeDefaults tries the conventional sitemap locations at the origin of
// baseURL and returns all locations found. The path of baseURL is ignored:
// a seed like https://a.com/page probes https://a.com/sitemap.xml. Origins
// without any sitemap, and unparseable base URLs, yield an empty list.
func (r *Resolver) ProbeDefaults(ctx context.Context, baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		r.logger.Warn("cannot derive origin for sitemap probing", "url", baseURL)
		return []string{}
	}
	origin := u.Scheme + "://" + u.Host

	urls := make([]string, 0)
	for _, location := range []string{origin + "/sitemap.xml", origin + "/sitemap_index.xml"} {
		urls = append(urls, r.Resolve(ctx, location)...)
	}
	return urls
}

func (r *Resolver) resolve(ctx context.Context, sitemapURL string, depth int) []string {
	if depth > maxNesting {
		r.logger.Warn("sitemap nesting too deep, skipping", "url", sitemapURL)
		return []string{}
	}

	body, err := r.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		r.logger.Warn("sitemap unreachable", "url", sitemapURL, "error", err)
		return []string{}
	}

	return r.extract(ctx, body, depth)
}

// extract walks the XML token stream collecting <loc> values in document
// order. Parsing is lenient: a syntax error ends extraction with whatever
// was collected so far rather than failing the resolution.
func (r *Resolver) extract(ctx context.Context, body string, depth int) []string {
	decoder := xml.NewDecoder(strings.NewReader(body))

	urls := make([]string, 0)
	var inLoc bool
	var inIndexEntry bool
	var loc strings.Builder

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.logger.Debug("sitemap parse stopped early", "error", err)
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sitemap":
				inIndexEntry = true
			case "loc":
				inLoc = true
				loc.Reset()
			}
		case xml.CharData:
			if inLoc {
				loc.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "sitemap":
				inIndexEntry = false
			case "loc":
				inLoc = false
				entry := strings.TrimSpace(loc.String())
				if entry == "" {
					continue
				}
				if inIndexEntry {
					urls = append(urls, r.resolve(ctx, entry, depth+1)...)
				} else {
					urls = append(urls, entry)
				}
			}
		}
	}

	return urls
}
