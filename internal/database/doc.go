// Package database provides SQLite-based storage for crawl runs.
//
// Every crawl can optionally archive its extracted records so that past
// runs remain queryable from the history command. The database is a single
// file, created on first use under the XDG data directory.
//
// Design decision: We use modernc.org/sqlite (a pure Go SQLite port)
// rather than mattn/go-sqlite3 to avoid cgo, which keeps cross-compilation
// trivial.
package database
