package config

import (
	"flag"
	"os"
)

// parses CLI flags for the ingester's url subcommand
func ParseURLFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("url", flag.ExitOnError)
	url := fs.String("url", "", "URL to crawl and ingest")
	source := fs.String("source", "", "optional source name override")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{URL: *url, Source: *source}
}

// parses CLI flags for the ingester's file subcommand
func ParseFileFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("file", flag.ExitOnError)
	path := fs.String("path", "./urls.txt", "path to a newline-separated URL list")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{Path: *path}
}

// parses CLI flags for the ingester's clear subcommand
func ParseClearFlags() Flags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	url := fs.String("url", "", "source URL to delete (ignored with -all)")
	all := fs.Bool("all", false, "delete every indexed source")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return Flags{URL: *url, All: *all}
}
