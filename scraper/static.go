package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/models"
)

var staticFields = fieldSelectors{
	Container:   ".card",
	Title:       "a.title",
	TitleAttr:   "title",
	Description: ".description",
	Price:       ".price",
	Rating:      "p[data-rating]",
	RatingAttr:  "data-rating",
	Reviews:     "p.review-count",
}

// StaticExtractor reads products from the HTTP response body.
type StaticExtractor struct{}

func (StaticExtractor) Mode() models.Mode { return models.ModeStatic }

// Detect always accepts; the static extractor is the fallback.
func (StaticExtractor) Detect(*goquery.Document) bool { return true }

func (StaticExtractor) Extract(_ context.Context, src Source) (*Extraction, error) {
	products, err := staticFields.extract(src.Document)
	if err != nil {
		return nil, err
	}
	return &Extraction{Mode: models.ModeStatic, Products: products}, nil
}
