package main

import (
	"fmt"

	scrapehttp "github.com/fwojciec/scrape/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := scrapehttp.NewServer(deps.Scraper, deps.Logger)
	srv.Addr = c.Addr

	fmt.Fprintf(deps.Stderr, "Listening on %s\n", c.Addr)
	if err := srv.Run(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
