package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-catalog/models"
)

// loadMoreSignature is the generic control class whose presence in the
// static document means the catalog needs scripted pagination.
const loadMoreSignature = ".btn"

var dynamicFields = fieldSelectors{
	Container:   ".card",
	Title:       ".title",
	TitleAttr:   "title",
	Description: ".description",
	Price:       ".price",
	Rating:      ".ws-icon",
	Reviews:     ".review-count",
}

// DynamicExtractor renders the page in a browser, exhausting the
// load-more control, and counts rating icons.
type DynamicExtractor struct {
	Renderer *Renderer
}

func (d *DynamicExtractor) Mode() models.Mode { return models.ModeDynamic }

func (d *DynamicExtractor) Detect(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	found, err := find(doc.Selection, loadMoreSignature)
	return err == nil && found.Length() > 0
}

func (d *DynamicExtractor) Extract(ctx context.Context, src Source) (*Extraction, error) {
	if d.Renderer == nil {
		return nil, fmt.Errorf("dynamic extraction for %s: no renderer configured", src.URL)
	}
	doc, clicks, err := d.Renderer.Render(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	products, err := dynamicFields.extract(doc)
	if err != nil {
		return nil, err
	}
	return &Extraction{Mode: models.ModeDynamic, Products: products, Clicks: clicks}, nil
}
