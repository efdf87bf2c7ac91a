package scraper

import (
	"time"

	"bookscraper/logger"
	"bookscraper/services/cache"
)

// CachingFetcher wraps a Fetcher with a page cache. Fetched bodies are stored
// under their URL for the configured TTL; a cache hit skips the network
// round trip entirely. Cache failures are never fatal, the wrapped fetcher
// is the source of truth.
type CachingFetcher struct {
	inner    Fetcher
	cacheSvc cache.CacheService
	ttl      time.Duration
}

// NewCachingFetcher creates a caching fetcher around inner
func NewCachingFetcher(inner Fetcher, cacheSvc cache.CacheService, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{
		inner:    inner,
		cacheSvc: cacheSvc,
		ttl:      ttl,
	}
}

// Fetch returns the cached body for url when present, otherwise fetches and
// caches it.
func (c *CachingFetcher) Fetch(url string) ([]byte, error) {
	if body, err := c.cacheSvc.Get(url); err == nil {
		logger.Debug("page cache hit for %s", url)
		return body, nil
	}

	body, err := c.inner.Fetch(url)
	if err != nil {
		return nil, err
	}

	if err := c.cacheSvc.Set(url, body, c.ttl); err != nil {
		logger.Warn("failed to cache page %s: %v", url, err)
	}
	return body, nil
}
