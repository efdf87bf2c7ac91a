package scraper

// Record represents one normalized catalog item
type Record struct {
	Title      string   `json:"title"`
	PriceRaw   string   `json:"price_raw"`
	PriceValue *float64 `json:"price_value,omitempty"`
	Stock      string   `json:"stock"`
	URL        string   `json:"url"`
}

// Fetcher retrieves the markup for a page URL as UTF-8 bytes
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

// Sink receives each page's records as they are produced
type Sink interface {
	Append(records []Record) error
}

// Selectors contains CSS selectors for the structural elements of a listing
// page. The markup class names are an external contract of the source site;
// when the site drifts, only this configuration changes.
type Selectors struct {
	// Card matches the repeated unit representing one catalog item
	Card string
	// TitleLink matches the anchor carrying the title attribute and href
	TitleLink string
	// Price matches the element holding the displayed price text
	Price string
	// Stock matches the element holding the availability text
	Stock string
	// NextLink matches the anchor pointing at the following page
	NextLink string
}

// DefaultSelectors returns the selectors for the books.toscrape.com catalogue
func DefaultSelectors() Selectors {
	return Selectors{
		Card:      "article.product_pod",
		TitleLink: "h3 a",
		Price:     ".price_color",
		Stock:     ".instock.availability",
		NextLink:  "li.next a",
	}
}
