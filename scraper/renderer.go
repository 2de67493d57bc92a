package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/browser"
)

// loadMoreTrigger is the pagination control on dynamic catalog pages.
const loadMoreTrigger = "a.btn.btn-lg.btn-block.btn-primary.ecomerce-items-scroll-more"

// Session is a scripted browser page.
type Session interface {
	Open(ctx context.Context, url string) error
	// TriggerState reports whether selector matches and its style attribute.
	TriggerState(ctx context.Context, selector string) (present bool, style string, err error)
	ScrollToBottom(ctx context.Context) error
	Click(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// SessionFactory opens a fresh browser session.
type SessionFactory func(ctx context.Context) (Session, error)

// Renderer loads a dynamic catalog page and clicks its load-more control
// until the catalog is exhausted.
type Renderer struct {
	NewSession SessionFactory
	Trigger    string
	MaxClicks  int
	Metrics    *Metrics
}

// NewRenderer returns a renderer for the catalog's load-more control.
func NewRenderer(factory SessionFactory, maxClicks int, metrics *Metrics) *Renderer {
	return &Renderer{
		NewSession: factory,
		Trigger:    loadMoreTrigger,
		MaxClicks:  maxClicks,
		Metrics:    metrics,
	}
}

// Render returns the fully expanded document and the number of clicks.
// The session is closed on every return path.
func (r *Renderer) Render(ctx context.Context, url string) (doc *goquery.Document, clicks int, err error) {
	if r.NewSession == nil {
		return nil, 0, fmt.Errorf("render %s: no session factory", url)
	}
	sess, err := r.NewSession(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("render %s: open session: %w", url, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			slog.Warn("close browser session", slog.String("url", url), slog.Any("error", cerr))
		}
	}()

	if err := sess.Open(ctx, url); err != nil {
		return nil, 0, fmt.Errorf("render %s: %w", url, err)
	}

	clicks, err = r.paginate(ctx, sess, url)
	if err != nil {
		return nil, clicks, fmt.Errorf("render %s: %w", url, err)
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, clicks, fmt.Errorf("render %s: %w", url, err)
	}
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, clicks, fmt.Errorf("render %s: parse html: %w", url, err)
	}
	return doc, clicks, nil
}

func (r *Renderer) paginate(ctx context.Context, sess Session, url string) (int, error) {
	trigger := r.Trigger
	if trigger == "" {
		trigger = loadMoreTrigger
	}

	clicks := 0
	for {
		if err := ctx.Err(); err != nil {
			return clicks, err
		}

		present, style, err := sess.TriggerState(ctx, trigger)
		if err != nil {
			if stop, reason := endOfPagination(err); stop {
				slog.Info(reason, slog.String("url", url), slog.Int("clicks", clicks))
				return clicks, nil
			}
			return clicks, err
		}
		if !present {
			slog.Info("load-more control not found", slog.String("url", url), slog.Int("clicks", clicks))
			return clicks, nil
		}
		if style != "" {
			slog.Debug("load-more control disabled", slog.String("url", url), slog.Int("clicks", clicks))
			return clicks, nil
		}
		if r.MaxClicks > 0 && clicks >= r.MaxClicks {
			slog.Warn("load-more click limit reached", slog.String("url", url), slog.Int("clicks", clicks))
			return clicks, nil
		}

		if err := sess.ScrollToBottom(ctx); err != nil {
			if stop, reason := endOfPagination(err); stop {
				slog.Info(reason, slog.String("url", url), slog.Int("clicks", clicks))
				return clicks, nil
			}
			return clicks, err
		}
		if err := sess.Click(ctx, trigger); err != nil {
			if stop, reason := endOfPagination(err); stop {
				slog.Info(reason, slog.String("url", url), slog.Int("clicks", clicks))
				return clicks, nil
			}
			return clicks, err
		}
		clicks++
		r.Metrics.IncClicks()
	}
}

// endOfPagination reports whether err means there is nothing more to load.
func endOfPagination(err error) (bool, string) {
	switch {
	case errors.Is(err, browser.ErrScript):
		return true, "last page"
	case errors.Is(err, browser.ErrNoElement):
		return true, "load-more control not found"
	default:
		return false, ""
	}
}
