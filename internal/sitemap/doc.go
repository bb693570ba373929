// Package sitemap resolves XML sitemaps into ordered URL lists.
//
// A sitemap is consumed once: the resolver fetches it, extracts every listed
// location in document order, and discards the document. Sitemap index
// files are followed one level of nesting at a time up to a fixed bound.
// Fetch failures yield an empty list rather than an error; an unreachable
// sitemap simply produces a crawl with nothing to do.
package sitemap
