package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/config"
	"github.com/gocolly/colly/v2"
)

// Fetcher issues plain GET requests and parses the response into a DOM.
type Fetcher struct {
	collector *colly.Collector
	metrics   *Metrics
	requests  int
}

// NewFetcher builds a synchronous collector configured from cfg.
func NewFetcher(cfg *config.Config, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Fetcher{collector: collector, metrics: metrics}
}

// Requests returns the number of requests issued so far.
func (f *Fetcher) Requests() int {
	return f.requests
}

// Fetch retrieves url and parses the body. Transport failures and HTTP
// error statuses are returned classified; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.collector.Clone()

	var (
		body    []byte
		status  int
		started time.Time
	)
	c.OnRequest(func(r *colly.Request) {
		started = time.Now()
		f.requests++
		f.metrics.IncRequest("started")
		slog.Debug("fetching page", slog.String("url", r.URL.String()))
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
		f.metrics.ObserveDuration(time.Since(started))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		f.metrics.IncRequest("failed")
	})

	if err := c.Visit(url); err != nil {
		classified := classifyError(err, status)
		return nil, fmt.Errorf("fetch %s: %w", url, classified)
	}
	f.metrics.IncRequest("completed")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		}
	}

	if err == nil {
		return nil
	}
	return err
}
