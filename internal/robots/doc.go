// Package robots makes coarse per-origin allow/deny decisions from a site's
// robots.txt.
//
// This is deliberately NOT a robots-exclusion-standard parser. The verdict
// is a literal substring check: a robots.txt containing "Disallow: /"
// anywhere denies the origin, any other content allows it. Per-user-agent
// groups, path rules, wildcards, and Crawl-delay are all ignored. Extending
// this into a real parser would change documented behavior; keep the check
// coarse.
//
// When robots.txt cannot be retrieved at all, the gate fails open and allows
// the URL, favoring crawl completion over strict compliance.
package robots
