package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances in Validate(). This allows callers to use errors.Is()
// for programmatic error handling while still providing human-readable
// messages.
var (
	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive. A zero timeout would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetries is returned when the retry budget is negative.
	// Use 0 to disable retries entirely.
	ErrInvalidRetries = errors.New("invalid retries: must be non-negative")

	// ErrInvalidRetryWait is returned when the retry backoff is negative.
	// Use 0 to retry immediately.
	ErrInvalidRetryWait = errors.New("invalid retry wait: must be non-negative")

	// ErrInvalidCrawlDelay is returned when the inter-request delay is
	// negative. Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownFormat is returned when the output format is not one of
	// csv, json, or markdown.
	ErrUnknownFormat = errors.New("unknown output format: must be csv, json, or markdown")
)
