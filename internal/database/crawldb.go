package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitereap/sitereap/internal/model"
)

// dbFileName is the SQLite file name inside the data directory.
const dbFileName = "sitereap.db"

// CrawlDB provides SQLite-based storage for crawl runs and their records.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all runs rather than
// one file per run. This keeps history queries simple and makes
// backup/restore a single-file operation.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a crawl first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style connection strings.
	// mode=rw prevents creating a new file when the archive must already exist.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and the crawl is sequential anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Runs record one crawl invocation each
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seeds TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		pages INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages store the extracted record for each fetched URL
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		title TEXT,
		headings TEXT,
		links TEXT,
		images TEXT,
		content_hash TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_hash ON pages(content_hash);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertRun creates a new run row for the given seed URLs and returns its ID.
func (cdb *CrawlDB) InsertRun(ctx context.Context, seeds []string) (int64, error) {
	result, err := cdb.db.ExecContext(ctx,
		`INSERT INTO runs (seeds) VALUES (?)`,
		strings.Join(seeds, " "),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun marks a run as completed with its final page count.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID int64, pages int) error {
	_, err := cdb.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = CURRENT_TIMESTAMP, pages = ? WHERE id = ?`,
		pages, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertPageRecord stores one extracted page record under the given run.
// Multi-valued fields are serialized as JSON arrays.
func (cdb *CrawlDB) InsertPageRecord(ctx context.Context, runID int64, record *model.PageRecord) error {
	headings, err := json.Marshal(record.Headings)
	if err != nil {
		return fmt.Errorf("failed to serialize headings: %w", err)
	}
	links, err := json.Marshal(record.Links)
	if err != nil {
		return fmt.Errorf("failed to serialize links: %w", err)
	}
	images, err := json.Marshal(record.Images)
	if err != nil {
		return fmt.Errorf("failed to serialize images: %w", err)
	}

	query := `
	INSERT INTO pages (run_id, url, title, headings, links, images, content_hash)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		runID,
		record.URL,
		record.Title,
		string(headings),
		string(links),
		string(images),
		record.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page record: %w", err)
	}
	return nil
}

// RunSummary contains summary information about a stored crawl run.
// This is used for displaying history without loading all page records.
type RunSummary struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Seeds is the space-joined seed URL list the run started from.
	Seeds string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed, or zero if it never finished.
	FinishedAt time.Time

	// Pages is the number of records written by the run.
	Pages int
}

// ListRuns returns the most recent runs, newest first.
// A non-positive limit returns all runs.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, seeds, started_at, finished_at, pages
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var run RunSummary
		var started string
		var finished sql.NullString

		if err := rows.Scan(&run.ID, &run.Seeds, &started, &finished, &run.Pages); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt = parseTimestamp(started)
		if finished.Valid {
			run.FinishedAt = parseTimestamp(finished.String)
		}
		results = append(results, run)
	}

	return results, rows.Err()
}

// ListPages returns the page records stored for a run, in fetch order.
func (cdb *CrawlDB) ListPages(ctx context.Context, runID int64) ([]*model.PageRecord, error) {
	query := `
	SELECT url, title, headings, links, images, content_hash
	FROM pages
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var records []*model.PageRecord
	for rows.Next() {
		var record model.PageRecord
		var headings, links, images string

		if err := rows.Scan(&record.URL, &record.Title, &headings, &links, &images, &record.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		if err := decodeCell(headings, &record.Headings); err != nil {
			return nil, fmt.Errorf("failed to parse headings: %w", err)
		}
		if err := decodeCell(links, &record.Links); err != nil {
			return nil, fmt.Errorf("failed to parse links: %w", err)
		}
		if err := decodeCell(images, &record.Images); err != nil {
			return nil, fmt.Errorf("failed to parse images: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// decodeCell parses a JSON array cell, treating empty cells as empty lists.
func decodeCell(cell string, dst *[]string) error {
	if cell == "" {
		*dst = make([]string, 0)
		return nil
	}
	return json.Unmarshal([]byte(cell), dst)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
