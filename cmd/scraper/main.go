package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-scrape-catalog/browser"
	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()

	baseDefault := defaultCfg.BaseURL
	if value, ok := config.EnvString("SCRAPER_BASE_URL"); ok {
		baseDefault = value
	}
	outputDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("SCRAPER_OUTPUT_DIR"); ok {
		outputDefault = value
	}
	formatDefault := defaultCfg.OutputFormat
	if value, ok := config.EnvString("SCRAPER_FORMAT"); ok {
		formatDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}
	binDefault := defaultCfg.BrowserBin
	if value, ok := config.EnvString("SCRAPER_BROWSER_BIN"); ok {
		binDefault = value
	}
	headlessDefault := defaultCfg.Headless
	if value, ok, err := config.EnvBool("SCRAPER_HEADLESS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_HEADLESS: %v\n", err)
		os.Exit(1)
	} else if ok {
		headlessDefault = value
	}
	clicksDefault := defaultCfg.MaxLoadMoreClicks
	if value, ok, err := config.EnvInt("SCRAPER_MAX_CLICKS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_MAX_CLICKS: %v\n", err)
		os.Exit(1)
	} else if ok {
		clicksDefault = value
	}

	baseURL := flag.String("base-url", baseDefault, "Catalog listing root")
	outputDir := flag.String("output-dir", outputDefault, "Directory for output files")
	outputFormat := flag.String("format", formatDefault, "Output format: csv, json, or dual")
	timeoutMs := flag.Int("timeout", int(defaultCfg.Timeout/time.Millisecond), "Request timeout (milliseconds)")
	maxClicks := flag.Int("max-clicks", clicksDefault, "Maximum load-more clicks per page (0 = unlimited)")
	settleMs := flag.Int("settle", int(defaultCfg.SettleDelay/time.Millisecond), "Wait for the page to settle after each click (milliseconds)")
	headless := flag.Bool("headless", headlessDefault, "Run the browser headless")
	noSandbox := flag.Bool("no-sandbox", defaultCfg.NoSandbox, "Disable the Chrome sandbox")
	browserBin := flag.String("browser-bin", binDefault, "Chrome/Chromium binary (empty = auto-download)")
	continueOnError := flag.Bool("continue-on-error", false, "Keep going when a page fails")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.Targets = config.DefaultTargets(*baseURL)
	cfg.OutputDir = *outputDir
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.Timeout = time.Duration(*timeoutMs) * time.Millisecond
	cfg.MaxLoadMoreClicks = *maxClicks
	cfg.SettleDelay = time.Duration(*settleMs) * time.Millisecond
	cfg.Headless = *headless
	cfg.NoSandbox = *noSandbox
	cfg.BrowserBin = *browserBin
	cfg.ContinueOnError = *continueOnError
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("targets", len(cfg.Targets)),
		slog.String("output_dir", cfg.OutputDir),
		slog.String("format", cfg.OutputFormat),
	)

	launcher := browser.NewLauncher(browser.Options{
		Headless:    cfg.Headless,
		NoSandbox:   cfg.NoSandbox,
		Bin:         cfg.BrowserBin,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.Timeout,
		SettleDelay: cfg.SettleDelay,
	})
	sessions := func(ctx context.Context) (scraper.Session, error) {
		sess, err := launcher.NewSession(ctx)
		if err != nil {
			return nil, err
		}
		return sess, nil
	}

	s, err := scraper.NewScraper(cfg, sessions)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	result, runErr := s.Run(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	if result != nil {
		printSummary(result)
	}
	if runErr != nil {
		slog.Error("scraping failed", slog.Any("error", runErr))
		stop()
		os.Exit(1)
	}
}

func printSummary(result *models.ScraperResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")

	for _, page := range result.Pages {
		status := "ok"
		if page.Err != "" {
			status = "failed"
		}
		fmt.Printf("  %-8s %-7s %4d products %3d clicks  %s\n", status, page.Mode, page.Products, page.Clicks, page.URL)
		for _, out := range page.Outputs {
			fmt.Printf("           -> %s\n", out)
		}
	}

	fmt.Printf("  Total items:   %d\n", result.TotalCount)
	fmt.Printf("  Requests:      %d\n", result.RequestCount)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
