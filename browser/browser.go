// Package browser drives a headless Chrome through go-rod for pages that
// only reveal their full catalog after scripted interaction.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var (
	// ErrScript reports a failed in-page script evaluation.
	ErrScript = errors.New("browser: script execution failed")
	// ErrNoElement reports that a selector matched nothing.
	ErrNoElement = errors.New("browser: no such element")
)

// Options configures browser launches.
type Options struct {
	Headless    bool
	NoSandbox   bool
	Bin         string
	UserAgent   string
	Timeout     time.Duration
	SettleDelay time.Duration
}

// Launcher starts one browser process per session.
type Launcher struct {
	opts Options
}

// NewLauncher returns a launcher for opts.
func NewLauncher(opts Options) *Launcher {
	return &Launcher{opts: opts}
}

// Session is a single browser process with one page. It must be closed.
type Session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
}

// NewSession launches a browser and opens a blank page.
func (l *Launcher) NewSession(ctx context.Context) (*Session, error) {
	ln := launcher.New().
		Headless(l.opts.Headless).
		NoSandbox(l.opts.NoSandbox)
	if l.opts.Bin != "" {
		ln = ln.Bin(l.opts.Bin)
	}

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		ln.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		ln.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if l.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: l.opts.UserAgent}); err != nil {
			slog.Debug("set user agent failed", slog.Any("error", err))
		}
	}

	slog.Debug("browser session opened", slog.String("control_url", controlURL))
	return &Session{launcher: ln, browser: b, page: page, opts: l.opts}, nil
}

// pageFor binds the page to ctx and the per-operation timeout. The
// returned func releases the timeout and must be called when the operation
// is done.
func (s *Session) pageFor(ctx context.Context) (*rod.Page, func()) {
	p := s.page.Context(ctx)
	if s.opts.Timeout <= 0 {
		return p, func() {}
	}
	p = p.Timeout(s.opts.Timeout)
	return p, func() { p.CancelTimeout() }
}

// Open navigates to url and waits for the load event.
func (s *Session) Open(ctx context.Context, url string) error {
	p, done := s.pageFor(ctx)
	defer done()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// TriggerState reports whether selector matches and the element's style
// attribute.
func (s *Session) TriggerState(ctx context.Context, selector string) (bool, string, error) {
	p, done := s.pageFor(ctx)
	defer done()

	has, el, err := p.Has(selector)
	if err != nil {
		return false, "", translate(err)
	}
	if !has {
		return false, "", nil
	}
	style, err := el.Attribute("style")
	if err != nil {
		return true, "", translate(err)
	}
	if style == nil {
		return true, "", nil
	}
	return true, *style, nil
}

// ScrollToBottom scrolls the window to the end of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	p, done := s.pageFor(ctx)
	defer done()

	_, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
	return translate(err)
}

// Click clicks the first element matching selector, then waits for the
// page to settle. A control that is gone or hidden by the time of the
// click reports ErrNoElement.
func (s *Session) Click(ctx context.Context, selector string) error {
	p, done := s.pageFor(ctx)
	defer done()

	has, el, err := p.Has(selector)
	if err != nil {
		return translate(err)
	}
	if !has {
		return fmt.Errorf("click %q: %w", selector, ErrNoElement)
	}
	visible, err := el.Visible()
	if err != nil {
		return translate(err)
	}
	if !visible {
		return fmt.Errorf("click %q: hidden: %w", selector, ErrNoElement)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return translate(err)
	}
	if s.opts.SettleDelay > 0 {
		if err := p.WaitStable(s.opts.SettleDelay); err != nil {
			return translate(err)
		}
	}
	return nil
}

// HTML returns the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	p, done := s.pageFor(ctx)
	defer done()

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read html: %w", translate(err))
	}
	return html, nil
}

// Close tears down the page, the browser and its process.
func (s *Session) Close() error {
	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	slog.Debug("browser session closed")
	return errors.Join(errs...)
}

// translate maps rod errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var (
		evalErr        *rod.EvalError
		notFound       *rod.ElementNotFoundError
		objNotFound    *rod.ObjectNotFoundError
		notInteractive *rod.NotInteractableError
	)
	switch {
	case errors.As(err, &evalErr):
		return fmt.Errorf("%w: %v", ErrScript, err)
	case errors.As(err, &notFound), errors.As(err, &objNotFound):
		return fmt.Errorf("%w: %v", ErrNoElement, err)
	case errors.As(err, &notInteractive):
		// Covered and invisible-shape errors unwrap to this one.
		return fmt.Errorf("%w: %v", ErrNoElement, err)
	}
	return err
}
