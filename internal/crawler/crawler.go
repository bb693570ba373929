package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/sitereap/sitereap/internal/config"
	"github.com/sitereap/sitereap/internal/model"
)

// PageFetcher retrieves the decoded body of a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// RobotsGate decides whether a URL may be crawled.
type RobotsGate interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// SitemapResolver expands a sitemap URL into the page URLs it lists.
type SitemapResolver interface {
	Resolve(ctx context.Context, sitemapURL string) []string
	ProbeDefaults(ctx context.Context, baseURL string) []string
}

// RecordSink receives extracted page records as the crawl progresses.
type RecordSink interface {
	WriteHeader() error
	WriteRecord(record *model.PageRecord) error
	Flush() error
}

// Stats summarizes a completed crawl run.
type Stats struct {
	// Resolved is the number of page URLs after sitemap expansion.
	Resolved int

	// Allowed is the number of URLs that passed the robots gate.
	Allowed int

	// Fetched is the number of pages successfully fetched and extracted.
	Fetched int

	// Failed is the number of pages whose fetch failed and was skipped.
	Failed int
}

// Crawler runs a sequential crawl over a list of seed URLs.
type Crawler struct {
	fetcher  PageFetcher
	gate     RobotsGate
	resolver SitemapResolver
	limiter  *rate.Limiter
	discover bool
	logger   *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDelay sets the pause enforced between consecutive page fetches.
// A non-positive delay disables pacing.
func WithDelay(delay time.Duration) Option {
	return func(c *Crawler) {
		if delay > 0 {
			c.limiter = rate.NewLimiter(rate.Every(delay), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithSitemapDiscovery enables probing well-known sitemap locations for
// seeds that are not themselves sitemap URLs.
func WithSitemapDiscovery(enabled bool) Option {
	return func(c *Crawler) {
		c.discover = enabled
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a crawler over the given collaborators.
func New(fetcher PageFetcher, gate RobotsGate, resolver SitemapResolver, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:  fetcher,
		gate:     gate,
		resolver: resolver,
		limiter:  rate.NewLimiter(rate.Every(config.DefaultCrawlDelay), 1),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one crawl: seeds are expanded through sitemaps, filtered
// through the robots gate, then fetched and extracted one at a time in
// order. An empty URL list after resolution or filtering is a normal
// terminal state, not an error.
//
// Individual fetch failures are logged and skipped; the run continues with
// the remaining URLs. Only sink write failures abort the run.
func (c *Crawler) Run(ctx context.Context, seeds []string, sink RecordSink) (*Stats, error) {
	stats := &Stats{}

	urls := c.resolveSeeds(ctx, seeds)
	stats.Resolved = len(urls)
	if len(urls) == 0 {
		c.logger.Info("no URLs to crawl")
		return stats, nil
	}

	allowed := make([]string, 0, len(urls))
	for _, u := range urls {
		if c.gate.Allowed(ctx, u) {
			allowed = append(allowed, u)
			continue
		}
		c.logger.Warn("blocked by robots.txt", "url", u)
	}
	stats.Allowed = len(allowed)
	if len(allowed) == 0 {
		c.logger.Info("all URLs blocked by robots.txt")
		return stats, nil
	}

	if err := sink.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	for _, u := range allowed {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return stats, err
			}
		}

		body, err := c.fetcher.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			c.logger.Warn("skipping page", "url", u, "error", err)
			stats.Failed++
			continue
		}

		record := c.extract(u, body)
		if err := sink.WriteRecord(record); err != nil {
			return stats, fmt.Errorf("write record for %s: %w", u, err)
		}
		stats.Fetched++
		c.logger.Debug("crawled page", "url", u, "title", record.Title)
	}

	if err := sink.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	return stats, nil
}

// resolveSeeds expands each seed into the page URLs to crawl. A seed that
// points at a sitemap is expanded through the resolver; other seeds are
// crawled directly, optionally probing well-known sitemap locations first.
func (c *Crawler) resolveSeeds(ctx context.Context, seeds []string) []string {
	urls := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		if !IsValid(seed) {
			c.logger.Warn("skipping invalid seed", "seed", seed)
			continue
		}

		if IsSitemapSeed(seed) {
			pages := c.resolver.Resolve(ctx, seed)
			c.logger.Debug("resolved sitemap", "seed", seed, "pages", len(pages))
			urls = append(urls, pages...)
			continue
		}

		if c.discover {
			if pages := c.resolver.ProbeDefaults(ctx, seed); len(pages) > 0 {
				c.logger.Debug("discovered sitemap", "seed", seed, "pages", len(pages))
				urls = append(urls, pages...)
				continue
			}
		}
		urls = append(urls, seed)
	}
	return urls
}

// extract parses the fetched body into a record. Parser construction only
// fails on an unparseable source URL, which validation has already ruled
// out, so a bare record is a safe fallback.
func (c *Crawler) extract(sourceURL, body string) *model.PageRecord {
	parser, err := NewParser(sourceURL)
	if err != nil {
		record := model.NewPageRecord(sourceURL)
		record.ComputeHash(body)
		return record
	}
	return parser.Parse(body)
}
