package robots

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// disallowAll is the substring that flips the verdict to denied.
const disallowAll = "Disallow: /"

// PageFetcher is the fetch contract the gate relies on. The gate inherits
// whatever retry and timeout behavior the implementation carries.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Gate decides whether an origin permits crawling.
//
// Decisions are computed per target URL at filter time and not cached, so
// URLs sharing an origin re-fetch robots.txt. The crawl is low-volume and
// sequential, and caching would change the observable request traffic.
type Gate struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger for robots fetch outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a robots gate that fetches policies through fetcher.
func NewGate(fetcher PageFetcher, opts ...Option) *Gate {
	g := &Gate{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Allowed reports whether the origin of rawURL permits crawling.
//
// The robots.txt location is derived as scheme://host/robots.txt. An
// unreachable or malformed robots.txt yields true (fail-open); retrieved
// content yields false only when it contains the literal "Disallow: /".
func (g *Gate) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		// An unparseable URL has no derivable policy; fail open and let
		// the fetch itself reject it.
		return true
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	body, err := g.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		g.logger.Debug("robots.txt unreachable, allowing", "url", rawURL, "error", err)
		return true
	}

	if strings.Contains(body, disallowAll) {
		g.logger.Debug("robots.txt disallows crawling", "url", rawURL)
		return false
	}

	return true
}
