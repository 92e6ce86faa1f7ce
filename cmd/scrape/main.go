package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scrape/fs"
	"github.com/fwojciec/scrape/goquery"
	scrapehttp "github.com/fwojciec/scrape/http"
	"github.com/fwojciec/scrape/scraper"
	scrapeslog "github.com/fwojciec/scrape/slog"
	"github.com/fwojciec/scrape/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database recording runs. Opened only when a path is configured.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrape"),
		kong.Description("Extract structured records from web pages with CSS selectors"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scrape --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.LogLevel, err)
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SCRAPE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	fetcher := &scraper.RetryFetcher{
		Fetcher: scrapeslog.NewLoggingFetcher(
			scrapehttp.NewFetcher(
				scrapehttp.WithTimeout(cli.Timeout),
				scrapehttp.WithUserAgent(cli.UserAgent),
			),
			deps.Logger,
		),
		Delays:    scraper.BackoffDelays(cli.Retries),
		Retryable: scrapehttp.Retryable,
		Logger:    deps.Logger,
	}
	defer fetcher.Close()

	s := &scraper.Scraper{
		Fetcher:   fetcher,
		Extractor: scrapeslog.NewLoggingExtractor(goquery.NewExtractor(), deps.Logger),
	}
	if cmd == "serve" {
		s.RateLimiter = scraper.NewDomainLimiter(cli.Serve.RateLimit)
	}
	deps.Scraper = s

	opts := []fs.Option{fs.WithStdout(stdout)}
	if (cmd == "page" && cli.Page.OmitNull) || (cmd == "batch" && cli.Batch.OmitNull) {
		opts = append(opts, fs.WithOmitNull())
	}
	deps.Writer = fs.NewWriter(opts...)

	return kongCtx.Run(deps)
}
