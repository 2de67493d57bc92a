package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/pipeline"
)

// Scraper walks the configured catalog targets one at a time.
type Scraper struct {
	cfg        *config.Config
	fetcher    *Fetcher
	extractors []Extractor
	pipeline   *pipeline.Pipeline
	Metrics    *Metrics

	failedURLs   []string
	errorsByType map[string]int
}

// NewScraper builds a scraper instance configured from cfg. sessions opens
// the browser used for dynamic pages.
func NewScraper(cfg *config.Config, sessions SessionFactory) (*Scraper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	metrics := NewMetrics()
	renderer := NewRenderer(sessions, cfg.MaxLoadMoreClicks, metrics)

	return &Scraper{
		cfg:     cfg,
		fetcher: NewFetcher(cfg, metrics),
		extractors: []Extractor{
			&DynamicExtractor{Renderer: renderer},
			StaticExtractor{},
		},
		pipeline: pipeline.NewPipeline(func(name string) (pipeline.OutputWriter, error) {
			return pipeline.NewWriter(cfg.OutputFormat, cfg.OutputDir, name)
		}),
		Metrics:      metrics,
		errorsByType: make(map[string]int),
	}, nil
}

// Run processes every target in order. Unless ContinueOnError is set the
// first failure stops the batch; files already written are left in place.
func (s *Scraper) Run(ctx context.Context) (*models.ScraperResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s.resetFailures()
	requestsBefore := s.fetcher.Requests()

	result := &models.ScraperResult{StartTime: time.Now()}
	finish := func() *models.ScraperResult {
		result.EndTime = time.Now()
		result.FailedURLs = s.snapshotFailedURLs()
		result.ErrorsByType = s.snapshotErrors()
		result.ErrorCount = len(result.FailedURLs)
		result.RequestCount = s.fetcher.Requests() - requestsBefore

		stats := s.pipeline.Stats()
		slog.Debug("pipeline totals",
			slog.Int("pages", stats.Pages),
			slog.Int("products", stats.Products),
			slog.Int("invalid_pages", stats.InvalidPages),
		)
		return result
	}

	for _, target := range s.cfg.Targets {
		page, err := s.scrapeTarget(ctx, target)
		result.Pages = append(result.Pages, page)
		if err != nil {
			s.recordFailure(target.URL, err)
			slog.Error("target failed",
				slog.String("url", target.URL),
				slog.String("category", errorTypeLabel(err)),
				slog.Any("error", err),
			)
			if !s.cfg.ContinueOnError || ctx.Err() != nil {
				return finish(), fmt.Errorf("scrape %s: %w", target.URL, err)
			}
			continue
		}
		result.TotalCount += page.Products
	}

	return finish(), nil
}

func (s *Scraper) scrapeTarget(ctx context.Context, target config.Target) (models.PageResult, error) {
	start := time.Now()
	page := models.PageResult{URL: target.URL}
	fail := func(err error) (models.PageResult, error) {
		page.Duration = time.Since(start)
		page.Err = err.Error()
		return page, err
	}

	doc, err := s.fetcher.Fetch(ctx, target.URL)
	if err != nil {
		return fail(err)
	}

	extractor, err := SelectExtractor(doc, s.extractors...)
	if err != nil {
		return fail(err)
	}
	page.Mode = extractor.Mode()
	slog.Debug("extraction mode selected", slog.String("url", target.URL), slog.String("mode", string(page.Mode)))

	extraction, err := extractor.Extract(ctx, Source{URL: target.URL, Document: doc})
	if err != nil {
		return fail(err)
	}
	page.Clicks = extraction.Clicks

	written, err := s.pipeline.Run(target.OutputName, extraction.Products)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidRecords) {
			err = ErrNormalize{Err: err}
		}
		return fail(err)
	}

	page.Outputs = written.Outputs
	page.Products = len(written.Products)
	page.Duration = time.Since(start)
	s.Metrics.AddPage(page.Mode, page.Products)

	slog.Info("page scraped",
		slog.String("url", target.URL),
		slog.String("mode", string(page.Mode)),
		slog.Int("products", page.Products),
		slog.Int("clicks", page.Clicks),
		slog.Any("outputs", written.Outputs),
	)
	return page, nil
}

func (s *Scraper) recordFailure(url string, err error) {
	category := errorTypeLabel(err)
	s.Metrics.IncError(category)

	s.failedURLs = append(s.failedURLs, url)
	s.errorsByType[category]++
}

func (s *Scraper) resetFailures() {
	s.failedURLs = nil
	s.errorsByType = make(map[string]int)
}

func (s *Scraper) snapshotFailedURLs() []string {
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}

func (s *Scraper) snapshotErrors() map[string]int {
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}
