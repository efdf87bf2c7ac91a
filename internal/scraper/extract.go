package scraper

import (
	"bytes"
	"net/url"
	"strings"

	"bookscraper/logger"
	apperr "bookscraper/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns one page of listing markup into records plus the URL of
// the following page.
type Extractor struct {
	Selectors Selectors

	// Strict makes a card with a missing price or availability element
	// abort the whole page instead of being skipped with a warning.
	Strict bool
}

// NewExtractor creates an extractor for the given selector configuration
func NewExtractor(selectors Selectors) *Extractor {
	return &Extractor{Selectors: selectors}
}

// ExtractPage parses the markup, walks every card in document order, applies
// the optional max-price filter, and locates the next-page link. The returned
// next URL is empty when pagination ends.
func (e *Extractor) ExtractPage(body []byte, pageURL string, maxPrice *float64) ([]Record, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, "", apperr.NewParsing(pageURL, "failed to parse HTML", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", apperr.NewParsing(pageURL, "invalid page URL", err)
	}

	var records []Record
	var cardErr error
	doc.Find(e.Selectors.Card).EachWithBreak(func(i int, s *goquery.Selection) bool {
		record, err := e.processCard(s, base)
		if err != nil {
			if e.Strict {
				cardErr = err
				return false
			}
			logger.Warn("skipping malformed card %d on %s: %v", i, pageURL, err)
			return true
		}
		if matchesFilter(record, maxPrice) {
			records = append(records, *record)
		}
		return true
	})
	if cardErr != nil {
		return nil, "", cardErr
	}

	nextURL := ""
	if nextSel := doc.Find(e.Selectors.NextLink).First(); nextSel.Length() > 0 {
		if href, exists := nextSel.Attr("href"); exists {
			nextURL = resolveURL(base, href)
		}
	}

	return records, nextURL, nil
}

// processCard extracts one record from a card selection. A missing title
// attribute yields an empty title; a missing price or availability element is
// a structural violation reported as a parsing error.
func (e *Extractor) processCard(s *goquery.Selection, base *url.URL) (*Record, error) {
	anchor := s.Find(e.Selectors.TitleLink).First()
	if anchor.Length() == 0 {
		return nil, apperr.NewParsing(base.String(), "card has no title link ("+e.Selectors.TitleLink+")", nil)
	}
	title := strings.TrimSpace(anchor.AttrOr("title", ""))

	priceSel := s.Find(e.Selectors.Price).First()
	if priceSel.Length() == 0 {
		return nil, apperr.NewParsing(base.String(), "card has no price element ("+e.Selectors.Price+")", nil)
	}
	priceRaw := RepairCurrency(strings.TrimSpace(priceSel.Text()))

	stockSel := s.Find(e.Selectors.Stock).First()
	if stockSel.Length() == 0 {
		return nil, apperr.NewParsing(base.String(), "card has no availability element ("+e.Selectors.Stock+")", nil)
	}
	stock := strings.TrimSpace(stockSel.Text())

	record := &Record{
		Title:    title,
		PriceRaw: priceRaw,
		Stock:    stock,
		URL:      resolveURL(base, anchor.AttrOr("href", "")),
	}
	if value, ok := NormalizePrice(priceRaw); ok {
		record.PriceValue = &value
	}
	return record, nil
}

// matchesFilter reports whether a record passes the optional max-price
// filter. With no filter every record passes; with a filter active, a record
// whose price failed to normalize can never match.
func matchesFilter(r *Record, maxPrice *float64) bool {
	if maxPrice == nil {
		return true
	}
	return r.PriceValue != nil && *r.PriceValue <= *maxPrice
}

// resolveURL resolves an href against the page URL. Relative paths,
// scheme-relative references, and absolute URLs all resolve correctly.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
