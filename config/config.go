package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Target pairs a catalog URL with the base name of its output file.
type Target struct {
	URL        string
	OutputName string
}

// catalogPaths lists the demo catalog pages relative to the listing root.
// The root itself is written as "home".
var catalogPaths = []struct {
	path string
	name string
}{
	{path: "", name: "home"},
	{path: "computers", name: "computers"},
	{path: "computers/laptops", name: "laptops"},
	{path: "computers/tablets", name: "tablets"},
	{path: "phones", name: "phones"},
	{path: "phones/touch", name: "touch"},
}

// Config holds scraper configuration.
type Config struct {
	BaseURL           string
	Targets           []Target
	OutputDir         string
	OutputFormat      string // csv, json, or dual
	Timeout           time.Duration
	UserAgent         string
	Headless          bool
	NoSandbox         bool
	BrowserBin        string
	MaxLoadMoreClicks int
	SettleDelay       time.Duration
	ContinueOnError   bool
	Verbose           bool
	MetricsAddr       string
}

// DefaultConfig returns defaults for the demo target.
func DefaultConfig() *Config {
	base := "https://webscraper.io/test-sites/e-commerce/more"
	return &Config{
		BaseURL:           base,
		Targets:           DefaultTargets(base),
		OutputDir:         ".",
		OutputFormat:      "csv",
		Timeout:           10 * time.Second,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Headless:          true,
		NoSandbox:         false,
		MaxLoadMoreClicks: 100,
		SettleDelay:       300 * time.Millisecond,
	}
}

// DefaultTargets builds the six catalog targets under baseURL.
func DefaultTargets(baseURL string) []Target {
	root := strings.TrimSuffix(baseURL, "/")
	targets := make([]Target, 0, len(catalogPaths))
	for _, p := range catalogPaths {
		u := root
		if p.path != "" {
			u = root + "/" + p.path
		}
		targets = append(targets, Target{URL: u, OutputName: p.name})
	}
	return targets
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("targets cannot be empty")
	}
	seen := make(map[string]struct{}, len(c.Targets))
	for i, t := range c.Targets {
		if t.URL == "" {
			return fmt.Errorf("target %d: url cannot be empty", i)
		}
		if t.OutputName == "" {
			return fmt.Errorf("target %d: output name cannot be empty", i)
		}
		if strings.ContainsAny(t.OutputName, `/\`) {
			return fmt.Errorf("target %d: output name %q must not contain path separators", i, t.OutputName)
		}
		if _, dup := seen[t.OutputName]; dup {
			return fmt.Errorf("target %d: duplicate output name %q", i, t.OutputName)
		}
		seen[t.OutputName] = struct{}{}
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.MaxLoadMoreClicks < 0 {
		return fmt.Errorf("max load-more clicks cannot be negative")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}

	return nil
}
