package scraper

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/models"
)

// Source is a fetched catalog page.
type Source struct {
	URL      string
	Document *goquery.Document
}

// Extraction is the raw output of one page.
type Extraction struct {
	Mode     models.Mode
	Products []models.RawProduct
	Clicks   int
}

// Extractor pulls raw product mappings out of a catalog page.
type Extractor interface {
	Mode() models.Mode
	// Detect reports whether this extractor handles the statically
	// fetched document.
	Detect(doc *goquery.Document) bool
	Extract(ctx context.Context, src Source) (*Extraction, error)
}

// SelectExtractor returns the first extractor whose Detect accepts doc.
func SelectExtractor(doc *goquery.Document, extractors ...Extractor) (Extractor, error) {
	for _, e := range extractors {
		if e.Detect(doc) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor accepts the document")
}

// fieldSelectors names where each raw field lives inside a product card.
// RatingAttr set means the rating is read from that attribute of Rating,
// otherwise the rating is the number of Rating matches.
type fieldSelectors struct {
	Container   string
	Title       string
	TitleAttr   string
	Description string
	Price       string
	Rating      string
	RatingAttr  string
	Reviews     string
}

func (f fieldSelectors) extract(doc *goquery.Document) ([]models.RawProduct, error) {
	cards, err := find(doc.Selection, f.Container)
	if err != nil {
		return nil, err
	}

	products := make([]models.RawProduct, 0, cards.Length())
	var extractErr error
	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		raw, err := f.extractCard(i, card)
		if err != nil {
			extractErr = err
			return false
		}
		products = append(products, raw)
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}
	return products, nil
}

func (f fieldSelectors) extractCard(i int, card *goquery.Selection) (models.RawProduct, error) {
	var raw models.RawProduct
	var err error

	if raw.Title, err = attr(card, i, f.Title, f.TitleAttr); err != nil {
		return raw, err
	}
	if raw.Description, err = text(card, i, f.Description); err != nil {
		return raw, err
	}
	if raw.Price, err = text(card, i, f.Price); err != nil {
		return raw, err
	}
	if f.RatingAttr != "" {
		if raw.Rating, err = attr(card, i, f.Rating, f.RatingAttr); err != nil {
			return raw, err
		}
	} else {
		icons, err := find(card, f.Rating)
		if err != nil {
			return raw, err
		}
		raw.Rating = strconv.Itoa(icons.Length())
	}
	if raw.Reviews, err = text(card, i, f.Reviews); err != nil {
		return raw, err
	}
	return raw, nil
}
