// Package main provides the entry point for the sitereap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitereap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitereap",
		Short: "Polite sequential web crawler",
		Long: `sitereap crawls a list of page URLs or a sitemap and extracts the title,
headings, links and images of every page into CSV, JSON or Markdown.

Crawling is sequential by design: one request at a time with a fixed
politeness delay between pages. Pages whose site forbids all crawling
via robots.txt are skipped.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
