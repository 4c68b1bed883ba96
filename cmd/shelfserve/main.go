package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "shelfserve",
	Short:   "EPUB-aware content server",
	Long: `Shelfserve serves a directory tree over HTTP and renders EPUB
e-books in place: tables of contents, chapter navigation, and
archive-internal resources, without extracting archives to disk.`,
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path (default: ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
