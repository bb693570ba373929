package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sitereap/sitereap/internal/config"
	"github.com/sitereap/sitereap/internal/crawler"
	"github.com/sitereap/sitereap/internal/database"
	"github.com/sitereap/sitereap/internal/fetcher"
	"github.com/sitereap/sitereap/internal/log"
	"github.com/sitereap/sitereap/internal/report"
	"github.com/sitereap/sitereap/internal/robots"
	"github.com/sitereap/sitereap/internal/sitemap"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl pages or a sitemap and extract their contents",
		Long: `Crawl fetches every given URL sequentially and extracts the title,
headings, links and images of each page.

A single URL ending in .xml is treated as a sitemap and expanded into the
page URLs it lists, in order. Sites whose robots.txt forbids all crawling
are skipped. An empty URL list after expansion and filtering is not an
error; the crawl simply produces no output file.

Examples:
  # Crawl every page listed in a sitemap
  sitereap crawl https://example.com/sitemap.xml

  # Crawl explicit pages into JSON on stdout
  sitereap crawl -f json -o - https://example.com/a https://example.com/b

  # Slow down and pin the browser identity
  sitereap crawl --delay 5s --user-agent "mybot/1.0" https://example.com/page

Configuration file (.sitereap) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries,
		"Number of retries after a failed fetch")
	cmd.Flags().Duration("retry-wait", config.DefaultRetryWait,
		"Fixed wait between retry attempts")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between page requests")
	cmd.Flags().String("user-agent", "",
		"Pin every request to this User-Agent instead of a random browser identity")
	cmd.Flags().Bool("sitemap-discover", false,
		"Probe /sitemap.xml and /sitemap_index.xml for seeds that are not sitemaps")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitereap in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		`Output file path ("-" writes to stdout)`)
	cmd.Flags().StringP("format", "f", config.FormatCSV,
		"Output format: csv, json, or markdown")

	// Archive flags
	cmd.Flags().Bool("no-db", false,
		"Skip archiving the run to the local database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Retries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryWait, err = cmd.Flags().GetDuration("retry-wait")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.SitemapDiscover, err = cmd.Flags().GetBool("sitemap-discover")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Format, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Seeds = args

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"format", cfg.Format,
		"delay", cfg.CrawlDelay,
		"saveToDB", cfg.SaveToDB,
	)

	client := fetcher.NewClient(
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithRetries(cfg.Retries),
		fetcher.WithRetryWait(cfg.RetryWait),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithSiteConfigs(cfg.SiteConfigs),
		fetcher.WithLogger(logger),
	)

	c := crawler.New(
		client,
		robots.NewGate(client, robots.WithLogger(logger)),
		sitemap.NewResolver(client, sitemap.WithLogger(logger)),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithSitemapDiscovery(cfg.SitemapDiscover),
		crawler.WithLogger(logger),
	)

	// The output file is opened lazily on first write so an empty crawl
	// leaves no file behind.
	out := newLazyFile(cfg.OutputFile)
	defer out.Close()

	fileWriter, err := newRecordWriter(cfg.Format, out)
	if err != nil {
		return err
	}

	writers := []report.RecordWriter{fileWriter}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "dir", cfg.DBDir)

		writers = append(writers, database.NewSink(ctx, db, cfg.Seeds))
	}

	stats, err := c.Run(ctx, cfg.Seeds, report.NewMultiWriter(writers...))
	if err != nil {
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	if stats.Resolved == 0 {
		fmt.Println("No URLs to crawl.")
		return nil
	}
	if stats.Allowed == 0 {
		fmt.Println("All URLs are blocked by robots.txt.")
		return nil
	}

	fmt.Printf("Crawled %d of %d pages", stats.Fetched, stats.Allowed)
	if stats.Failed > 0 {
		fmt.Printf(" (%d failed)", stats.Failed)
	}
	if out.opened && cfg.OutputFile != "-" {
		fmt.Printf(", output written to %s", cfg.OutputFile)
	}
	fmt.Println()

	return nil
}

// newRecordWriter creates the writer for the requested output format.
func newRecordWriter(format string, out io.Writer) (report.RecordWriter, error) {
	switch format {
	case config.FormatCSV:
		return report.NewCSVWriter(out), nil
	case config.FormatJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case config.FormatMarkdown:
		return report.NewMarkdownWriter(out), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// lazyFile is an io.Writer that opens its destination on first write.
// A crawl that produces no output therefore creates no file.
// The path "-" writes to stdout without opening anything.
type lazyFile struct {
	path   string
	file   *os.File
	opened bool
}

// newLazyFile creates a lazily-opened writer for the given path.
func newLazyFile(path string) *lazyFile {
	return &lazyFile{path: path}
}

// Write opens the destination on first use and appends to it afterwards.
func (l *lazyFile) Write(p []byte) (int, error) {
	if l.path == "-" {
		l.opened = true
		return os.Stdout.Write(p)
	}
	if l.file == nil {
		if dir := filepath.Dir(l.path); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return 0, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(l.path)
		if err != nil {
			return 0, fmt.Errorf("failed to create output file: %w", err)
		}
		l.file = f
		l.opened = true
	}
	return l.file.Write(p)
}

// Close closes the destination if it was opened. Safe to call twice.
func (l *lazyFile) Close() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	return f.Close()
}
