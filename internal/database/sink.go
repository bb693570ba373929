package database

import (
	"context"

	"github.com/sitereap/sitereap/internal/model"
)

// Sink adapts a CrawlDB to the crawl output writer interface so that a run
// can archive its records alongside the file output.
//
// The run row is created on WriteHeader, which means an empty crawl leaves
// no trace in the archive, matching the file writers that never open their
// destination for an empty crawl.
type Sink struct {
	ctx   context.Context
	db    *CrawlDB
	seeds []string

	runID int64
	pages int
}

// NewSink creates a sink that archives records for a crawl of the given seeds.
//
// The context is captured because the writer interface carries none; it
// bounds every database operation the sink performs.
func NewSink(ctx context.Context, db *CrawlDB, seeds []string) *Sink {
	return &Sink{
		ctx:   ctx,
		db:    db,
		seeds: seeds,
	}
}

// WriteHeader creates the run row.
func (s *Sink) WriteHeader() error {
	runID, err := s.db.InsertRun(s.ctx, s.seeds)
	if err != nil {
		return err
	}
	s.runID = runID
	return nil
}

// WriteRecord archives one page record under the current run.
func (s *Sink) WriteRecord(record *model.PageRecord) error {
	if err := s.db.InsertPageRecord(s.ctx, s.runID, record); err != nil {
		return err
	}
	s.pages++
	return nil
}

// Flush marks the run as finished with its final page count.
func (s *Sink) Flush() error {
	return s.db.FinishRun(s.ctx, s.runID, s.pages)
}

// RunID returns the database ID of the archived run.
// It is zero until WriteHeader has been called.
func (s *Sink) RunID() int64 {
	return s.runID
}
