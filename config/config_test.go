package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "no targets",
			mutate: func(cfg *Config) {
				cfg.Targets = nil
			},
			wantErr: "targets",
		},
		{
			name: "duplicate output name",
			mutate: func(cfg *Config) {
				cfg.Targets = append(cfg.Targets, Target{URL: "http://example.test/x", OutputName: "home"})
			},
			wantErr: "duplicate",
		},
		{
			name: "output name with separator",
			mutate: func(cfg *Config) {
				cfg.Targets[0].OutputName = "../home"
			},
			wantErr: "path separators",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "negative click cap",
			mutate: func(cfg *Config) {
				cfg.MaxLoadMoreClicks = -1
			},
			wantErr: "load-more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestDefaultTargets(t *testing.T) {
	targets := DefaultTargets("http://example.test/test-sites/e-commerce/more/")

	want := []Target{
		{URL: "http://example.test/test-sites/e-commerce/more", OutputName: "home"},
		{URL: "http://example.test/test-sites/e-commerce/more/computers", OutputName: "computers"},
		{URL: "http://example.test/test-sites/e-commerce/more/computers/laptops", OutputName: "laptops"},
		{URL: "http://example.test/test-sites/e-commerce/more/computers/tablets", OutputName: "tablets"},
		{URL: "http://example.test/test-sites/e-commerce/more/phones", OutputName: "phones"},
		{URL: "http://example.test/test-sites/e-commerce/more/phones/touch", OutputName: "touch"},
	}
	if len(targets) != len(want) {
		t.Fatalf("targets=%d, want %d", len(targets), len(want))
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("target %d = %+v, want %+v", i, targets[i], want[i])
		}
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SCRAPER_TEST_STRING", "  out  ")
	t.Setenv("SCRAPER_TEST_INT", "42")
	t.Setenv("SCRAPER_TEST_BAD_INT", "many")
	t.Setenv("SCRAPER_TEST_BOOL", "false")

	if v, ok := EnvString("SCRAPER_TEST_STRING"); !ok || v != "out" {
		t.Fatalf("EnvString = %q/%v, want out/true", v, ok)
	}
	if _, ok := EnvString("SCRAPER_TEST_UNSET"); ok {
		t.Fatalf("unset variable reported as set")
	}
	if v, ok, err := EnvInt("SCRAPER_TEST_INT"); err != nil || !ok || v != 42 {
		t.Fatalf("EnvInt = %d/%v/%v, want 42/true/nil", v, ok, err)
	}
	if _, _, err := EnvInt("SCRAPER_TEST_BAD_INT"); err == nil {
		t.Fatalf("expected error for non-numeric int")
	}
	if v, ok, err := EnvBool("SCRAPER_TEST_BOOL"); err != nil || !ok || v {
		t.Fatalf("EnvBool = %v/%v/%v, want false/true/nil", v, ok, err)
	}
}
