package main

import (
	"fmt"

	"github.com/fwojciec/scrape"
)

// Run executes the page command.
func (c *PageCmd) Run(deps *Dependencies) error {
	flags := &Job{Container: c.Container, Output: c.Out}
	if c.URL != "" {
		flags.URLs = []string{c.URL}
	}
	job, err := resolveJob(c.Job, flags, c.Select)
	if err == nil && len(job.URLs) != 1 {
		err = scrape.Errorf(scrape.EINVALID, "page takes exactly one URL, got %d; use batch for more", len(job.URLs))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	url := job.URLs[0]

	rs, err := deps.Scraper.ScrapePage(deps.Ctx, url, job.Container, scrape.SelectorMap(job.Selectors))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	if rs.Empty() {
		fmt.Fprintf(deps.Stderr, "No data was found on %s. Maybe input error?\n", url)
		return nil
	}
	fmt.Fprintf(deps.Stderr, "Found %d items on %s\n", rs.Count, url)

	recordRun(deps, rs, job.Container)
	saveOutput(deps, url, rs.Records, job.Output)
	return nil
}

// recordRun stores rs in the history when a database is configured.
// A failure is reported and otherwise ignored.
func recordRun(deps *Dependencies, rs *scrape.ResultSet, container string) {
	if deps.Runs == nil {
		return
	}
	run := &scrape.Run{SourceURL: rs.URL, Container: container, Records: rs.Records}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "warning: could not record run: %s\n", scrape.ErrorMessage(err))
	}
}

// saveOutput writes data to path, or to standard output when path is
// empty or "-". A failure is reported and otherwise ignored.
func saveOutput(deps *Dependencies, sourceURL string, data any, path string) {
	if path == "" {
		path = "-"
	}
	if err := deps.Writer.Save(sourceURL, data, path); err != nil {
		fmt.Fprintf(deps.Stderr, "error: could not save results: %v\n", err)
		return
	}
	if path != "-" {
		fmt.Fprintf(deps.Stderr, "Saved to %s\n", path)
	}
}
