// Package crawler provides the fetch-and-extract pipeline at the heart of
// sitereap.
//
// # Architecture
//
// The Crawler type drives a strictly linear run: the seed is resolved into a
// URL list (directly, or through the sitemap resolver when the seed is a
// single sitemap URL), the robots gate filters the list, and each surviving
// URL is fetched and extracted sequentially with a fixed politeness delay
// between requests. Records flow downstream into the output sink; no
// component depends back on the Crawler.
//
// # Components
//
//   - Crawler: the orchestrator driving resolve, filter, and the fetch loop
//   - Parser: extracts a PageRecord (title, headings, links, images) from HTML
//   - IsValid: the URL validity check applied to seeds and extracted URLs
//
// # Failure behavior
//
// No per-URL failure aborts a run. Fetch failures are logged and skipped,
// malformed HTML is absorbed by lenient parsing, and an empty filtered URL
// set is a normal terminal state. Only sink write errors propagate: if the
// output cannot be written there is nothing useful left to do.
package crawler
