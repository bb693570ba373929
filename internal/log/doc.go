// Package log provides logging for sitereap on top of the standard slog
// package, with automatic masking of request credentials.
//
// Per-site configuration may carry session cookies and authorization headers.
// Those values flow through the fetcher and would otherwise end up in debug
// logs, so the handler masks any attribute whose key looks credential-bearing
// before the record reaches the underlying handler.
package log
