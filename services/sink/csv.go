package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"bookscraper/internal/scraper"
	"bookscraper/logger"
	apperr "bookscraper/pkg/errors"
)

// utf8BOM is prepended so spreadsheet tools pick up the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// header lists the output columns in order
var header = []string{"title", "price_raw", "price_value", "stock", "url"}

// CSVSink writes records to a delimited file, one row per record, flushing
// after every page so partial results survive an aborted run.
type CSVSink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	log    *logger.Logger
}

// NewCSVSink opens the output file, creating missing parent directories, and
// writes the BOM and the header row before returning a sink ready for
// appending.
func NewCSVSink(path string, separator rune) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, apperr.NewSink(path, "failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, apperr.NewSink(path, "failed to create output file", err)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, apperr.NewSink(path, "failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	writer.Comma = separator

	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, apperr.NewSink(path, "failed to write header", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, apperr.NewSink(path, "failed to flush header", err)
	}

	return &CSVSink{
		path:   path,
		file:   file,
		writer: writer,
		log:    logger.ForSink(),
	}, nil
}

// Append writes one page of records and flushes them to disk
func (s *CSVSink) Append(records []scraper.Record) error {
	for _, r := range records {
		priceValue := ""
		if r.PriceValue != nil {
			priceValue = strconv.FormatFloat(*r.PriceValue, 'f', 2, 64)
		}
		row := []string{r.Title, r.PriceRaw, priceValue, r.Stock, r.URL}
		if err := s.writer.Write(row); err != nil {
			return apperr.NewSink(s.path, "failed to write record", err)
		}
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return apperr.NewSink(s.path, "failed to flush records", err)
	}

	s.log.Debug().Int("rows", len(records)).Str("path", s.path).Msg("Appended records")
	return nil
}

// Path returns the output file path
func (s *CSVSink) Path() string {
	return s.path
}

// Close flushes pending rows and closes the file
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return apperr.NewSink(s.path, "failed to flush on close", err)
	}
	if err := s.file.Close(); err != nil {
		return apperr.NewSink(s.path, "failed to close output file", err)
	}
	return nil
}
