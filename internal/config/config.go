package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The crawl tuning defaults follow the behavior this tool is replacing:
// generous per-request timeout, a small fixed retry budget, and conservative
// politeness delays suitable for low-volume sequential crawls.
const (
	// DefaultTimeout is the per-request timeout. 10 seconds is enough for
	// slow origin servers without letting a single dead host stall the crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultRetries is the number of retries after a failed fetch.
	// Combined with the initial attempt this gives 4 total tries per URL.
	DefaultRetries = 3

	// DefaultRetryWait is the fixed backoff between retry attempts.
	// The crawl is sequential and low-volume, so plain linear backoff
	// without jitter is sufficient.
	DefaultRetryWait = 2 * time.Second

	// DefaultCrawlDelay is the fixed delay between page requests.
	// This is a politeness setting protecting target servers.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for HTML pages and sitemaps while preventing
	// memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOutputFile is the default tabular output path.
	DefaultOutputFile = "scraped_data.csv"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitereap"
)

// Output format names accepted by the --format flag.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all configuration options for a crawl.
// It is populated from CLI flags and the optional config file, then passed
// through the application via dependency injection rather than global state.
type Config struct {
	// Seeds is the crawl seed: either a list of absolute URLs, or a single
	// absolute URL ending in .xml which is resolved as a sitemap.
	Seeds []string

	// Timeout is the per-request timeout. No timeout governs the whole crawl.
	Timeout time.Duration

	// Retries is the number of retries after a failed fetch.
	Retries int

	// RetryWait is the fixed backoff between retry attempts.
	RetryWait time.Duration

	// CrawlDelay is the fixed delay between page requests.
	CrawlDelay time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// UserAgent, when non-empty, pins every request to this User-Agent
	// instead of drawing a random browser identity per request.
	UserAgent string

	// OutputFile is the report destination. "-" writes to stdout.
	OutputFile string

	// Format selects the report format: csv (default), json, or markdown.
	Format string

	// SitemapDiscover probes default sitemap locations (/sitemap.xml,
	// /sitemap_index.xml) when a seed is a bare origin rather than a sitemap.
	SitemapDiscover bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .sitereap in the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory holding the SQLite crawl archive.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB archives page records to the database after each run.
	SaveToDB bool

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. This also documents what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		Retries:     DefaultRetries,
		RetryWait:   DefaultRetryWait,
		CrawlDelay:  DefaultCrawlDelay,
		MaxBodySize: DefaultMaxBodySize,
		OutputFile:  DefaultOutputFile,
		Format:      FormatCSV,
	}
}

// XDGDataDir returns the XDG data directory for sitereap.
// On Linux: ~/.local/share/sitereap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitereap.
// On Linux: ~/.config/sitereap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found; fixing one error often makes
// others irrelevant.
//
// A crawl without seeds is not a validation error: an empty seed list is a
// normal terminal state handled by the crawler, so Validate accepts it.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Retries < 0 {
		return ErrInvalidRetries
	}

	if c.RetryWait < 0 {
		return ErrInvalidRetryWait
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	switch c.Format {
	case FormatCSV, FormatJSON, FormatMarkdown:
	default:
		return ErrUnknownFormat
	}

	return nil
}
