package helpers

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"bookscraper/logger"
	apperr "bookscraper/pkg/errors"

	"golang.org/x/net/html/charset"
)

// userAgent identifies the scraper to the target site.
const userAgent = "bookscraper/1.0 (+https://books.toscrape.com; catalog research)"

// Client performs HTTP GET requests with a bounded timeout and decodes
// response bodies to UTF-8 using the encoding the document declares.
type Client struct {
	client *http.Client
	log    *logger.Logger
}

// NewClient creates a new HTTP client with the given per-request timeout
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger.ForFetcher(),
	}
}

// Fetch sends an HTTP GET request, checks the status code, and returns the
// response body converted to UTF-8 (if needed).
func (c *Client) Fetch(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, apperr.NewNetwork(url, "failed to create request", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	c.log.Debug().Str("url", url).Msg("GET")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.NewNetwork(url, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewNetwork(url, "unexpected status code: "+resp.Status, nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewNetwork(url, "failed to read response body", err)
	}

	// Determine the encoding from the Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return bodyBytes, nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	decoded, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, apperr.NewNetwork(url, "failed to read converted UTF-8 body", err)
	}

	return decoded, nil
}
