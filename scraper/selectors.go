package scraper

import (
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
)

const selectorCacheSize = 64

// selectorCache keeps compiled cascadia selectors keyed by their source.
type selectorCache struct {
	once  sync.Once
	cache *lru.Cache[string, cascadia.Selector]
	err   error
}

var selectors selectorCache

func (c *selectorCache) compile(css string) (cascadia.Selector, error) {
	c.once.Do(func() {
		c.cache, c.err = lru.New[string, cascadia.Selector](selectorCacheSize)
	})
	if c.err != nil {
		return nil, fmt.Errorf("selector cache: %w", c.err)
	}
	if sel, ok := c.cache.Get(css); ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", css, err)
	}
	c.cache.Add(css, sel)
	return sel, nil
}

// find returns the descendants of s matching css.
func find(s *goquery.Selection, css string) (*goquery.Selection, error) {
	sel, err := selectors.compile(css)
	if err != nil {
		return nil, err
	}
	return s.FindMatcher(sel), nil
}

// first returns the first descendant of s matching css, or an
// ErrMissingElement when there is none.
func first(s *goquery.Selection, index int, css string) (*goquery.Selection, error) {
	found, err := find(s, css)
	if err != nil {
		return nil, err
	}
	if found.Length() == 0 {
		return nil, ErrMissingElement{Index: index, Selector: css}
	}
	return found.First(), nil
}

// attr returns the named attribute of the first match of css.
func attr(s *goquery.Selection, index int, css, name string) (string, error) {
	el, err := first(s, index, css)
	if err != nil {
		return "", err
	}
	value, ok := el.Attr(name)
	if !ok {
		return "", ErrMissingElement{Index: index, Selector: css, Attr: name}
	}
	return value, nil
}

// text returns the text content of the first match of css.
func text(s *goquery.Selection, index int, css string) (string, error) {
	el, err := first(s, index, css)
	if err != nil {
		return "", err
	}
	return el.Text(), nil
}
