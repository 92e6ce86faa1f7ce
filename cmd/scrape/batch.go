package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/scraper"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	flags := &Job{URLs: c.URLs, Container: c.Container, Delay: c.Delay, Output: c.Out}
	job, err := resolveJob(c.Job, flags, c.Select)
	if err == nil && len(job.URLs) == 0 {
		err = scrape.Errorf(scrape.EINVALID, "at least one URL is required")
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	var delay time.Duration
	if job.Delay != nil {
		delay = *job.Delay
	}
	runner := &scraper.Runner{
		Scraper: deps.Scraper,
		Delay:   delay,
		Sleep:   deps.Sleep,
	}

	results, err := runner.Run(deps.Ctx, job.URLs, scrape.SelectorMap(job.Selectors), job.Container, func(e scraper.ProgressEvent) {
		switch {
		case e.Skipped():
			fmt.Fprintf(deps.Stderr, "[%d/%d] skip %s: %s\n", e.Completed, e.Total, e.URL, scrape.ErrorMessage(e.Error))
		case e.Error != nil:
			fmt.Fprintf(deps.Stderr, "[%d/%d] No data was found on %s\n", e.Completed, e.Total, e.URL)
		default:
			fmt.Fprintf(deps.Stderr, "[%d/%d] Found %d items on %s\n", e.Completed, e.Total, e.Count, e.URL)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		if len(results) == 0 {
			return err
		}
	}

	total := 0
	for _, rs := range results {
		total += rs.Count
		if !rs.Empty() {
			recordRun(deps, rs, job.Container)
		}
	}
	fmt.Fprintf(deps.Stderr, "Scraped %d items from %d of %d URLs\n", total, len(results), len(job.URLs))

	saveOutput(deps, strings.Join(job.URLs, ", "), results, job.Output)
	return err
}
