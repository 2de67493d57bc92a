// Package parser turns raw DOM text into typed product fields.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// MaxRating is the number of rating icons a listing can show.
const MaxRating = 5

// ValidateProduct ensures a normalized product is fully populated.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product missing title")
	}
	if p.Price < 0 {
		return fmt.Errorf("product %q has negative price %v", p.Title, p.Price)
	}
	if p.Rating < 0 || p.Rating > MaxRating {
		return fmt.Errorf("product %q rating %d outside [0, %d]", p.Title, p.Rating, MaxRating)
	}
	if p.NumOfReviews < 0 {
		return fmt.Errorf("product %q has negative review count %d", p.Title, p.NumOfReviews)
	}
	return nil
}

// ParsePrice strips the leading currency symbol and parses the amount.
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", text, err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("parse price %q: not a finite amount", text)
	}
	if price < 0 {
		return 0, fmt.Errorf("parse price %q: negative amount", text)
	}
	return price, nil
}

// ParseReviewCount parses strings such as " 10 reviews ".
func ParseReviewCount(text string) (int, error) {
	s := strings.TrimSpace(text)
	if trimmed, ok := strings.CutSuffix(s, "reviews"); ok {
		s = trimmed
	} else {
		s = strings.TrimSuffix(s, "review")
	}
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse review count %q: %w", text, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse review count %q: negative count", text)
	}
	return n, nil
}

// ParseRating parses the numeric rating value.
func ParseRating(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("parse rating %q: %w", text, err)
	}
	return n, nil
}

// NormalizeProduct converts one raw mapping into a validated product.
func NormalizeProduct(raw models.RawProduct) (*models.Product, error) {
	price, err := ParsePrice(raw.Price)
	if err != nil {
		return nil, err
	}
	rating, err := ParseRating(raw.Rating)
	if err != nil {
		return nil, err
	}
	reviews, err := ParseReviewCount(raw.Reviews)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Title:        strings.TrimSpace(raw.Title),
		Description:  strings.TrimSpace(raw.Description),
		Price:        price,
		Rating:       rating,
		NumOfReviews: reviews,
	}
	if err := ValidateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// NormalizeProducts converts a whole page. Any failure discards the page.
func NormalizeProducts(raws []models.RawProduct) ([]*models.Product, error) {
	out := make([]*models.Product, 0, len(raws))
	for i, raw := range raws {
		p, err := NormalizeProduct(raw)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
