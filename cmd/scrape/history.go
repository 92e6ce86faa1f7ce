package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/fs"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		err := scrape.Errorf(scrape.EINVALID, "history requires a database; set --db or SCRAPE_DB")
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	if c.ID != "" {
		return c.show(deps)
	}

	filter := scrape.RunFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet. Use 'scrape page' or 'scrape batch' with --db.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d items  %s\n", r.ID, r.ScrapedAt.Format(time.RFC3339), r.Count, r.SourceURL)
	}
	return nil
}

func (c *HistoryCmd) show(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	b, err := fs.Encode(&scrape.Output{SourceURL: run.SourceURL, Data: run.Records})
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(b)
	return err
}
