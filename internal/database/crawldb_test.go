package database

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sitereap/sitereap/internal/model"
)

func openTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

func testRecord(url string) *model.PageRecord {
	r := model.NewPageRecord(url)
	r.Title = "Test Page"
	r.Headings = []string{"One", "Two"}
	r.Links = []string{url + "/a"}
	r.ComputeHash("<html></html>")
	return r
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		db, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		runID, err := db.InsertRun(context.Background(), []string{"https://example.com"})
		if err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer reopened.Close()

		runs, err := reopened.ListRuns(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListRuns failed: %v", err)
		}
		if len(runs) != 1 || runs[0].ID != runID {
			t.Errorf("runs = %+v, want the run inserted before reopening", runs)
		}
	})
}

func TestCrawlDBRunLifecycle(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.InsertRun(ctx, []string{"https://example.com/sitemap.xml"})
	if err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	if err := db.InsertPageRecord(ctx, runID, testRecord("https://example.com/a")); err != nil {
		t.Fatalf("InsertPageRecord failed: %v", err)
	}
	if err := db.InsertPageRecord(ctx, runID, testRecord("https://example.com/b")); err != nil {
		t.Fatalf("InsertPageRecord failed: %v", err)
	}
	if err := db.FinishRun(ctx, runID, 2); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != runID {
		t.Errorf("run ID = %d, want %d", run.ID, runID)
	}
	if run.Seeds != "https://example.com/sitemap.xml" {
		t.Errorf("run seeds = %q", run.Seeds)
	}
	if run.Pages != 2 {
		t.Errorf("run pages = %d, want 2", run.Pages)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt is zero")
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt is zero after FinishRun")
	}
}

func TestCrawlDBListPages(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	runID, err := db.InsertRun(ctx, []string{"https://example.com"})
	if err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	first := testRecord("https://example.com/first")
	second := model.NewPageRecord("https://example.com/second")
	if err := db.InsertPageRecord(ctx, runID, first); err != nil {
		t.Fatalf("InsertPageRecord failed: %v", err)
	}
	if err := db.InsertPageRecord(ctx, runID, second); err != nil {
		t.Fatalf("InsertPageRecord failed: %v", err)
	}

	pages, err := db.ListPages(ctx, runID)
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	if pages[0].URL != first.URL || pages[1].URL != second.URL {
		t.Errorf("page order = %q, %q; want fetch order", pages[0].URL, pages[1].URL)
	}
	if !reflect.DeepEqual(pages[0].Headings, first.Headings) {
		t.Errorf("headings = %v, want %v", pages[0].Headings, first.Headings)
	}
	if !reflect.DeepEqual(pages[0].Links, first.Links) {
		t.Errorf("links = %v, want %v", pages[0].Links, first.Links)
	}
	if pages[0].Hash != first.Hash {
		t.Errorf("hash = %q, want %q", pages[0].Hash, first.Hash)
	}
	if pages[1].Title != model.NoTitle {
		t.Errorf("title = %q, want sentinel", pages[1].Title)
	}
	if pages[1].Headings == nil || pages[1].Links == nil || pages[1].Images == nil {
		t.Error("collections must round-trip as non-nil empty slices")
	}
}

func TestCrawlDBListRunsLimit(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := db.InsertRun(ctx, []string{"https://example.com"}); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}

	runs, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID < runs[1].ID {
		t.Errorf("runs not ordered newest first: %d before %d", runs[0].ID, runs[1].ID)
	}
}

func TestSink(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	sink := NewSink(ctx, db, []string{"https://example.com"})
	if sink.RunID() != 0 {
		t.Error("RunID must be zero before WriteHeader")
	}

	if err := sink.WriteHeader(); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if sink.RunID() == 0 {
		t.Fatal("RunID is zero after WriteHeader")
	}

	if err := sink.WriteRecord(testRecord("https://example.com/a")); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if err := sink.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Pages != 1 {
		t.Fatalf("runs = %+v, want one run with one page", runs)
	}

	pages, err := db.ListPages(ctx, sink.RunID())
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "sqlite default format",
			input: "2026-01-02 15:04:05",
			want:  time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "iso 8601 with Z",
			input: "2026-01-02T15:04:05Z",
			want:  time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "unparseable returns zero time",
			input: "not a timestamp",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
