package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/scraper"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Scraper scrape.PageScraper
	Writer  scrape.ResultWriter

	// Runs records extraction history. Nil when no database is configured.
	Runs scrape.RunService

	// Sleep replaces the batch delay timer in tests.
	Sleep scraper.SleepFunc
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB        string        `env:"SCRAPE_DB" help:"SQLite database recording scrape runs (disabled when empty)"`
	Timeout   time.Duration `default:"10s" env:"SCRAPE_TIMEOUT" help:"HTTP request timeout"`
	Retries   int           `default:"0" env:"SCRAPE_RETRIES" help:"Retry transient fetch failures this many times with 1s, 2s, 4s... backoff (default 0: each page is fetched once)"`
	UserAgent string        `default:"Mozilla/5.0" env:"SCRAPE_USER_AGENT" help:"User-Agent header sent with every request"`
	LogLevel  string        `default:"warn" enum:"debug,info,warn,error" env:"SCRAPE_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`

	Page    PageCmd    `cmd:"" help:"Extract records from a single page"`
	Batch   BatchCmd   `cmd:"" help:"Extract records from several pages with the same selectors"`
	Serve   ServeCmd   `cmd:"" help:"Serve the extraction form and JSON API"`
	History HistoryCmd `cmd:"" help:"List recorded scrape runs"`
}

// PageCmd is the "page" subcommand.
type PageCmd struct {
	URL       string   `arg:"" optional:"" help:"Page URL"`
	Container string   `short:"c" help:"CSS selector for repeating items (one record per page when empty)"`
	Select    []string `short:"s" sep:"none" placeholder:"FIELD=QUERY[@ATTR]" help:"Field selector (repeatable)"`
	Out       string   `short:"o" help:"Output file (default stdout)"`
	OmitNull  bool     `help:"Drop fields that matched nothing"`
	Job       string   `short:"j" help:"YAML job file; flags override its values"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs      []string       `arg:"" optional:"" name:"url" help:"Page URLs"`
	Container string         `short:"c" help:"CSS selector for repeating items (one record per page when empty)"`
	Select    []string       `short:"s" sep:"none" placeholder:"FIELD=QUERY[@ATTR]" help:"Field selector (repeatable)"`
	Delay     *time.Duration `short:"d" env:"SCRAPE_DELAY" help:"Pause between requests, overriding the job file when set (0 means the 1s default, negative disables)"`
	Out       string         `short:"o" help:"Output file (default stdout)"`
	OmitNull  bool           `help:"Drop fields that matched nothing"`
	Job       string         `short:"j" help:"YAML job file; flags override its values"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string        `default:":5000" env:"SCRAPE_ADDR" help:"Listen address"`
	RateLimit time.Duration `default:"1s" help:"Minimum interval between requests to the same host"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID    string `arg:"" optional:"" help:"Print the records of one run"`
	URL   string `help:"Only list runs of this source URL"`
	Limit int    `short:"n" default:"20" help:"Maximum number of runs to list"`
}
