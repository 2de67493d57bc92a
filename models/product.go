// Package models defines data structures for the scraper.
package models

import "time"

// Mode identifies how products were pulled out of a page.
type Mode string

const (
	// ModeStatic reads products straight from the HTTP response body.
	ModeStatic Mode = "static"
	// ModeDynamic drives a browser through the "load more" control first.
	ModeDynamic Mode = "dynamic"
)

// RawProduct is the untyped field mapping of one product container,
// exactly as found in the DOM.
type RawProduct struct {
	Title       string
	Description string
	Price       string
	Rating      string
	Reviews     string
}

// Product is a normalized catalog listing.
type Product struct {
	Title        string  `csv:"title" json:"title"`
	Description  string  `csv:"description" json:"description"`
	Price        float64 `csv:"price" json:"price"`
	Rating       int     `csv:"rating" json:"rating"`
	NumOfReviews int     `csv:"num_of_reviews" json:"num_of_reviews"`
}

// PageResult describes the outcome for one catalog target.
type PageResult struct {
	URL      string
	Outputs  []string
	Mode     Mode
	Products int
	Clicks   int
	Duration time.Duration
	Err      string
}

// ScraperResult holds the overall result of a scraping operation
type ScraperResult struct {
	Pages        []PageResult
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RequestCount int
}
