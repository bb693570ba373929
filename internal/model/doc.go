// Package model defines the core data structures used throughout sitereap.
//
// The central type is PageRecord, the structured extraction result for one
// fetched page. Records are created once by the extractor, never mutated
// afterwards, and consumed exactly once by an output sink.
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need these types,
// so centralizing them prevents import cycles.
package model
