// Package main provides the entry point for the sitereap CLI.
//
// sitereap is a polite sequential web crawler. It expands sitemap seeds,
// honors a coarse robots.txt check, and extracts titles, headings, links
// and images from each page into CSV, JSON or Markdown output.
//
// Usage:
//
//	sitereap crawl https://example.com/sitemap.xml
//	sitereap crawl https://example.com/a https://example.com/b
//	sitereap history
//
// See --help for all available options.
package main

// main is the entry point for sitereap.
func main() {
	Execute()
}
