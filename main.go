package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookscraper/config"
	"bookscraper/helpers"
	"bookscraper/internal/scraper"
	"bookscraper/logger"
	"bookscraper/services/cache"
	"bookscraper/services/publisher"
	"bookscraper/services/sink"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Environment variables provide the defaults, flags override them
	cfg := config.LoadConfig()
	flag.IntVar(&cfg.Pages, "pages", cfg.Pages, "how many catalogue pages to scrape")
	flag.Float64Var(&cfg.MaxPrice, "max-price", cfg.MaxPrice, "keep only items with price <= this value; negative disables the filter")
	flag.StringVar(&cfg.OutputPath, "out", cfg.OutputPath, "output CSV filename")
	delaySeconds := flag.Float64("delay", cfg.Delay.Seconds(), "delay in seconds between page requests")
	flag.StringVar(&cfg.StartURL, "start-url", cfg.StartURL, "starting catalogue URL")
	flag.StringVar(&cfg.Separator, "sep", cfg.Separator, "output field delimiter")
	flag.Parse()
	cfg.Delay = time.Duration(*delaySeconds * float64(time.Second))

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("start_url", cfg.StartURL).
		Int("pages", cfg.Pages).
		Dur("delay", cfg.Delay).
		Msg("Starting scrape")

	// Cancel the run on SIGINT/SIGTERM; the driver's inter-page wait honors it
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Set up the fetcher, optionally backed by a page cache
	var fetcher scraper.Fetcher = helpers.NewClient(cfg.HTTPTimeout)
	if cfg.CacheAddr != "" {
		fetcher = scraper.NewCachingFetcher(fetcher, cache.NewMemcacheService(cfg.CacheAddr), cfg.CacheTTL)
		log.Info().Str("addr", cfg.CacheAddr).Dur("ttl", cfg.CacheTTL).Msg("Page cache enabled")
	}

	// Set up the sinks: the CSV file is primary, Redis publishing is optional
	csvSink, err := sink.NewCSVSink(cfg.OutputPath, cfg.SeparatorRune())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open output sink")
	}
	sinks := []sink.RecordSink{csvSink}
	if cfg.RedisAddr != "" {
		pub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		sinks = append(sinks, sink.NewPublisherSink(pub))
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Record publishing enabled")
	}
	out := sink.NewFanout(sinks...)

	driver := scraper.NewDriver(fetcher, scraper.NewExtractor(scraper.DefaultSelectors()), out)
	total, runErr := driver.Run(ctx, cfg.StartURL, cfg.Pages, cfg.MaxPriceFilter(), cfg.Delay)

	// Close before deciding the exit code so already-written pages stay valid
	if err := out.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close sinks")
	}

	if runErr != nil {
		log.Error().Err(runErr).Int("rows", total).Msg("Scrape aborted")
		os.Exit(1)
	}

	log.Info().
		Int("rows", total).
		Str("path", cfg.OutputPath).
		Msg("Scrape finished")
}
