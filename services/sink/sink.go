package sink

import (
	"bookscraper/internal/scraper"
)

// RecordSink is a closable destination for scraped records. The driver only
// needs Append (scraper.Sink); Close belongs to whoever opened the sink.
type RecordSink interface {
	// Append emits one page of records
	Append(records []scraper.Record) error

	// Close releases the underlying resource
	Close() error
}

// Fanout forwards every page of records to all wrapped sinks in order.
// The first sink is the primary one; an error from any sink aborts the append.
type Fanout struct {
	sinks []RecordSink
}

// NewFanout creates a fan-out sink over the given sinks
func NewFanout(sinks ...RecordSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Append forwards the records to every sink
func (f *Fanout) Append(records []scraper.Record) error {
	for _, s := range f.sinks {
		if err := s.Append(records); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered
func (f *Fanout) Close() error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
