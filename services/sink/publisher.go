package sink

import (
	"encoding/json"

	"bookscraper/internal/scraper"
	apperr "bookscraper/pkg/errors"
	"bookscraper/services/publisher"
)

// PublisherSink adapts a publisher.Publisher into a record sink: each record
// is marshaled to JSON and published individually.
type PublisherSink struct {
	pub publisher.Publisher
}

// NewPublisherSink creates a sink publishing records through pub
func NewPublisherSink(pub publisher.Publisher) *PublisherSink {
	return &PublisherSink{pub: pub}
}

// Append publishes each record in order
func (s *PublisherSink) Append(records []scraper.Record) error {
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return apperr.NewSink(r.URL, "failed to marshal record", err)
		}
		if err := s.pub.Publish(data); err != nil {
			return apperr.NewSink(r.URL, "failed to publish record", err)
		}
	}
	return nil
}

// Close closes the underlying publisher
func (s *PublisherSink) Close() error {
	return s.pub.Close()
}
