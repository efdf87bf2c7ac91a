package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	apperr "bookscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Scrape configuration
	StartURL   string
	Pages      int
	MaxPrice   float64 // negative disables the price filter
	OutputPath string
	Delay      time.Duration
	Separator  string

	// HTTP configuration
	HTTPTimeout time.Duration

	// Optional page cache (memcache); empty address disables it
	CacheAddr string
	CacheTTL  time.Duration

	// Optional record publisher (Redis stream); empty address disables it
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	pages, _ := strconv.Atoi(getEnv("SCRAPE_PAGES", "3"))
	maxPrice, err := strconv.ParseFloat(getEnv("SCRAPE_MAX_PRICE", ""), 64)
	if err != nil {
		maxPrice = -1
	}
	delay, _ := strconv.ParseFloat(getEnv("SCRAPE_DELAY_SECONDS", "1.0"), 64)
	timeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "15"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "300"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		StartURL:    getEnv("SCRAPE_START_URL", "https://books.toscrape.com/catalogue/page-1.html"),
		Pages:       pages,
		MaxPrice:    maxPrice,
		OutputPath:  getEnv("SCRAPE_OUT", "books.csv"),
		Delay:       time.Duration(delay * float64(time.Second)),
		Separator:   getEnv("SCRAPE_SEPARATOR", ";"),
		HTTPTimeout: time.Duration(timeout) * time.Second,
		CacheAddr:   getEnv("CACHE_ADDR", ""),
		CacheTTL:    time.Duration(cacheTTL) * time.Second,
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		RedisDB:     redisDB,
		RedisStream: getEnv("REDIS_STREAM", "books"),
		Environment: getEnv("BOOKSCRAPER_ENVIRONMENT", "development"),
	}
}

// MaxPriceFilter returns the active price filter, or nil when filtering is disabled
func (c *Config) MaxPriceFilter() *float64 {
	if c.MaxPrice < 0 {
		return nil
	}
	v := c.MaxPrice
	return &v
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return apperr.NewConfiguration("start URL is empty", nil)
	}
	u, err := url.Parse(c.StartURL)
	if err != nil || !u.IsAbs() {
		return apperr.NewConfiguration("start URL must be absolute: "+c.StartURL, err)
	}
	if c.Pages < 0 {
		return apperr.NewConfiguration("page count must be >= 0", nil)
	}
	if c.Delay < 0 {
		return apperr.NewConfiguration("delay must be >= 0", nil)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return apperr.NewConfiguration("separator must be a single character", nil)
	}
	if c.OutputPath == "" {
		return apperr.NewConfiguration("output path is empty", nil)
	}
	return nil
}

// SeparatorRune returns the output delimiter as a rune
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
