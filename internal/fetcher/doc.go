// Package fetcher performs single-page HTTP fetches with a bounded
// retry-with-backoff budget.
//
// # Retry model
//
// Every network-level or HTTP-status-level failure consumes one attempt.
// With the default budget of 3 retries the client makes 4 total attempts,
// sleeping a fixed interval between them. Exhausting the budget returns an
// error; callers are expected to log it and skip the URL, never to abort
// the crawl. The retry loop is an explicit counter, not recursion, so the
// budget is a plain testable parameter.
//
// # Client identity
//
// Each request carries a User-Agent drawn from a fixed pool of common
// browser identities to reduce trivial blocking by identity fingerprinting.
// The pool is package-level, immutable after initialization, and safe for
// concurrent use.
package fetcher
