package scraper

import (
	"context"
	"time"

	"bookscraper/logger"
)

// Driver walks the pagination chain: fetch a page, extract its records, emit
// them to the sink, advance to the next page. The cursor is loop-local; each
// run starts fresh from its start URL.
type Driver struct {
	fetcher   Fetcher
	extractor *Extractor
	sink      Sink
	wait      func(ctx context.Context, delay time.Duration) error
	log       *logger.Logger
}

// NewDriver creates a new pagination driver
func NewDriver(fetcher Fetcher, extractor *Extractor, sink Sink) *Driver {
	return &Driver{
		fetcher:   fetcher,
		extractor: extractor,
		sink:      sink,
		wait:      waitDelay,
		log:       logger.ForDriver(),
	}
}

// Run scrapes up to pages pages starting from startURL and returns the total
// number of emitted records. Records are appended to the sink page by page,
// so an aborted run leaves the pages written so far intact. A fetch or sink
// failure terminates the run immediately; a missing next-link ends it
// normally. The inter-page delay is skipped after the final planned page.
func (d *Driver) Run(ctx context.Context, startURL string, pages int, maxPrice *float64, delay time.Duration) (int, error) {
	total := 0
	cursor := startURL

	for page := 1; page <= pages; page++ {
		body, err := d.fetcher.Fetch(cursor)
		if err != nil {
			return total, err
		}

		records, nextURL, err := d.extractor.ExtractPage(body, cursor, maxPrice)
		if err != nil {
			return total, err
		}

		if err := d.sink.Append(records); err != nil {
			return total, err
		}
		total += len(records)

		d.log.Info().
			Int("page", page).
			Int("rows", len(records)).
			Str("url", cursor).
			Msg("Scraped page")

		if nextURL == "" {
			break
		}
		if page < pages {
			if err := d.wait(ctx, delay); err != nil {
				return total, err
			}
		}
		cursor = nextURL
	}

	return total, nil
}

// waitDelay sleeps for the inter-page delay, honoring context cancellation
func waitDelay(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
