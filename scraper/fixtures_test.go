package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/browser"
)

type card struct {
	title   string
	desc    string
	price   string
	rating  int // data-rating attribute
	icons   int // rendered star icons
	reviews string
}

func buildCard(c card) string {
	var b strings.Builder
	b.WriteString(`<div class="col-md-4 col-xl-4 col-lg-4"><div class="card thumbnail"><div class="card-body">`)
	fmt.Fprintf(&b, `<h4 class="price float-end card-title pull-right">%s</h4>`, c.price)
	fmt.Fprintf(&b, `<h4><a href="/product/1" class="title" title="%s">%s</a></h4>`, c.title, c.title)
	fmt.Fprintf(&b, `<p class="description card-text">%s</p>`, c.desc)
	b.WriteString(`</div><div class="ratings">`)
	fmt.Fprintf(&b, `<p class="review-count float-end">%s</p>`, c.reviews)
	fmt.Fprintf(&b, `<p data-rating="%d">`, c.rating)
	for i := 0; i < c.icons; i++ {
		b.WriteString(`<span class="ws-icon ws-icon-star"></span>`)
	}
	b.WriteString(`</p></div></div></div>`)
	return b.String()
}

func buildPage(cards []card, trigger string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="container test-site"><div class="row">`)
	for _, c := range cards {
		b.WriteString(buildCard(c))
	}
	b.WriteString(`</div>`)
	b.WriteString(trigger)
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func triggerHTML(style string) string {
	attr := ""
	if style != "" {
		attr = fmt.Sprintf(` style="%s"`, style)
	}
	return fmt.Sprintf(`<a href="javascript:void(0)" class="btn btn-lg btn-block btn-primary ecomerce-items-scroll-more"%s>More</a>`, attr)
}

func mustDoc(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		panic(err)
	}
	return doc
}

func makeCards(from, n int) []card {
	out := make([]card, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, card{
			title:   fmt.Sprintf("Item %d", i),
			desc:    fmt.Sprintf("Description %d", i),
			price:   fmt.Sprintf("$%d.99", i),
			rating:  i % 6,
			icons:   i % 6,
			reviews: fmt.Sprintf("%d reviews", i),
		})
	}
	return out
}

// fakeSession simulates the load-more catalog: every click reveals
// perClick more cards until disabledAfter clicks, when the trigger gets a
// style attribute.
type fakeSession struct {
	initial       int
	perClick      int
	disabledAfter int
	noTrigger     bool
	scrollErrAt   int // click index at which ScrollToBottom fails, 0 = never
	scrollErr     error
	clickErrAt    int // click index at which Click fails, 0 = never
	clickErr      error
	htmlErr       error

	opened string
	clicks int
	closed bool
}

func (f *fakeSession) Open(_ context.Context, url string) error {
	f.opened = url
	return nil
}

func (f *fakeSession) TriggerState(context.Context, string) (bool, string, error) {
	if f.noTrigger {
		return false, "", nil
	}
	if f.disabledAfter > 0 && f.clicks >= f.disabledAfter {
		return true, "display: none;", nil
	}
	return true, "", nil
}

func (f *fakeSession) ScrollToBottom(context.Context) error {
	if f.scrollErrAt > 0 && f.clicks+1 == f.scrollErrAt {
		return f.scrollErr
	}
	return nil
}

func (f *fakeSession) Click(_ context.Context, selector string) error {
	if selector != loadMoreTrigger {
		return fmt.Errorf("click %q: %w", selector, browser.ErrNoElement)
	}
	if f.clickErrAt > 0 && f.clicks+1 == f.clickErrAt {
		return f.clickErr
	}
	f.clicks++
	return nil
}

func (f *fakeSession) HTML(context.Context) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	cards := makeCards(1, f.initial+f.clicks*f.perClick)
	trigger := ""
	if !f.noTrigger {
		style := ""
		if f.disabledAfter > 0 && f.clicks >= f.disabledAfter {
			style = "display: none;"
		}
		trigger = triggerHTML(style)
	}
	return buildPage(cards, trigger), nil
}

func (f *fakeSession) Close() error {
	if f.closed {
		return errors.New("session closed twice")
	}
	f.closed = true
	return nil
}

func factoryFor(sess *fakeSession) SessionFactory {
	return func(context.Context) (Session, error) {
		return sess, nil
	}
}
