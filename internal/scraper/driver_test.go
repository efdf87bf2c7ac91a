package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockFetcher serves canned markup per URL and records every fetch
type mockFetcher struct {
	pages   map[string]string
	fetched []string
}

func (m *mockFetcher) Fetch(url string) ([]byte, error) {
	m.fetched = append(m.fetched, url)
	body, ok := m.pages[url]
	if !ok {
		return nil, errors.New("unexpected status code: 404 for " + url)
	}
	return []byte(body), nil
}

// mockSink collects appended records per page
type mockSink struct {
	pages   [][]Record
	failOn  int // page index (1-based) whose Append fails; 0 disables
	appends int
}

func (m *mockSink) Append(records []Record) error {
	m.appends++
	if m.failOn > 0 && m.appends == m.failOn {
		return errors.New("sink write failed")
	}
	m.pages = append(m.pages, records)
	return nil
}

func (m *mockSink) all() []Record {
	var out []Record
	for _, page := range m.pages {
		out = append(out, page...)
	}
	return out
}

const (
	page1URL = "https://example.com/catalogue/page-1.html"
	page2URL = "https://example.com/catalogue/page-2.html"
)

// twoPageFixture is the scenario from the end-to-end contract: page 1 has
// three cards (10.00, 25.50, 60.00) and a next-link, page 2 has two cards
// (5.00, 15.00) and none.
func twoPageFixture() map[string]string {
	return map[string]string{
		page1URL: listingPage("page-2.html",
			card("One", "one.html", "£10.00", "In stock"),
			card("Two", "two.html", "£25.50", "In stock"),
			card("Three", "three.html", "£60.00", "In stock"),
		),
		page2URL: listingPage("",
			card("Four", "four.html", "£5.00", "In stock"),
			card("Five", "five.html", "£15.00", "In stock"),
		),
	}
}

func newTestDriver(fetcher Fetcher, sink Sink) *Driver {
	return NewDriver(fetcher, NewExtractor(DefaultSelectors()), sink)
}

func TestDriverRunEndToEnd(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	total, err := newTestDriver(fetcher, out).Run(context.Background(), page1URL, 5, ptr(20.00), 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, total)

	// Exactly two fetches despite the budget of five
	assert.Equal(t, []string{page1URL, page2URL}, fetcher.fetched)

	records := out.all()
	assert.Len(t, records, 3)
	assert.Equal(t, 10.00, *records[0].PriceValue)
	assert.Equal(t, 5.00, *records[1].PriceValue)
	assert.Equal(t, 15.00, *records[2].PriceValue)
}

func TestDriverRunBudgetStopsBeforeNextLink(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	total, err := newTestDriver(fetcher, out).Run(context.Background(), page1URL, 1, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{page1URL}, fetcher.fetched)
}

func TestDriverRunZeroBudget(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	total, err := newTestDriver(fetcher, out).Run(context.Background(), page1URL, 0, nil, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, fetcher.fetched)
}

func TestDriverRunFetchFailureKeepsEarlierPages(t *testing.T) {
	pages := twoPageFixture()
	delete(pages, page2URL) // page 2 now fails
	fetcher := &mockFetcher{pages: pages}
	out := &mockSink{}

	total, err := newTestDriver(fetcher, out).Run(context.Background(), page1URL, 5, nil, 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), page2URL)

	// Page 1 rows were already emitted and stay emitted
	assert.Equal(t, 3, total)
	assert.Len(t, out.all(), 3)
}

func TestDriverRunSinkFailureAborts(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{failOn: 2}

	total, err := newTestDriver(fetcher, out).Run(context.Background(), page1URL, 5, nil, 0)
	assert.Error(t, err)
	assert.Equal(t, 3, total)
}

func TestDriverRunDelaySkippedAfterFinalPage(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	driver := newTestDriver(fetcher, out)
	waits := 0
	driver.wait = func(ctx context.Context, delay time.Duration) error {
		waits++
		assert.Equal(t, 50*time.Millisecond, delay)
		return nil
	}

	// Budget equals the page count, so the only delay is between page 1 and
	// page 2; nothing follows page 2.
	total, err := driver.Run(context.Background(), page1URL, 2, nil, 50*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 1, waits)
}

func TestDriverRunNoDelayAfterLastExistingPage(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	driver := newTestDriver(fetcher, out)
	waits := 0
	driver.wait = func(ctx context.Context, delay time.Duration) error {
		waits++
		return nil
	}

	// The budget allows five pages but the chain ends at page 2, so the only
	// wait is the one before page 2.
	_, err := driver.Run(context.Background(), page1URL, 5, nil, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, []string{page1URL, page2URL}, fetcher.fetched)
	assert.Equal(t, 1, waits)
}

func TestDriverRunContextCancelsDelay(t *testing.T) {
	fetcher := &mockFetcher{pages: twoPageFixture()}
	out := &mockSink{}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	total, err := newTestDriver(fetcher, out).Run(ctx, page1URL, 5, nil, 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	// Page 1 was emitted before the cancellation hit the wait
	assert.Equal(t, 3, total)
}
