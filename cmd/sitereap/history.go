package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sitereap/sitereap/internal/config"
	"github.com/sitereap/sitereap/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived crawl runs",
		Long: `History lists past crawl runs stored in the local database, newest first.

With --run, the pages of a single run are printed instead.

Examples:
  # Show the ten most recent runs
  sitereap history

  # Show every archived run
  sitereap history --limit 0

  # Show the pages of run 3
  sitereap history --run 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of runs to show (0 shows all)")
	cmd.Flags().Int64("run", 0, "Show the pages of this run instead of the run list")
	cmd.Flags().String("db-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	// The history command never creates a database; an empty archive is
	// reported as an error rather than silently materialized.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	if runID > 0 {
		return printRunPages(cmd, db, runID)
	}
	return printRuns(cmd, db, limit)
}

// printRuns lists archived runs, newest first.
func printRuns(cmd *cobra.Command, db *database.CrawlDB, limit int) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tPAGES\tSEEDS")
	for _, run := range runs {
		started := "unknown"
		if !run.StartedAt.IsZero() {
			started = run.StartedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", run.ID, started, run.Pages, run.Seeds)
	}
	return w.Flush()
}

// printRunPages lists the page records of one run in fetch order.
func printRunPages(cmd *cobra.Command, db *database.CrawlDB, runID int64) error {
	pages, err := db.ListPages(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No pages archived for run %d.\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tTITLE\tHEADINGS\tLINKS\tIMAGES")
	for _, page := range pages {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			page.URL,
			page.Title,
			strconv.Itoa(len(page.Headings)),
			strconv.Itoa(len(page.Links)),
			strconv.Itoa(len(page.Images)),
		)
	}
	return w.Flush()
}
