package parser

import (
	"strings"
	"testing"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		wantErr bool
	}{
		{
			name: "valid product",
			product: &models.Product{
				Title:        "Asus VivoBook",
				Description:  "15.6\", Core i5",
				Price:        295.99,
				Rating:       3,
				NumOfReviews: 14,
			},
			wantErr: false,
		},
		{
			name: "empty description allowed",
			product: &models.Product{
				Title: "Nokia 123",
				Price: 24.99,
			},
			wantErr: false,
		},
		{
			name:    "missing title",
			product: &models.Product{Title: "  ", Price: 1, Rating: 1},
			wantErr: true,
		},
		{
			name:    "negative price",
			product: &models.Product{Title: "Tab", Price: -1},
			wantErr: true,
		},
		{
			name:    "rating above range",
			product: &models.Product{Title: "Tab", Rating: MaxRating + 1},
			wantErr: true,
		},
		{
			name:    "negative reviews",
			product: &models.Product{Title: "Tab", NumOfReviews: -3},
			wantErr: true,
		},
		{
			name:    "nil",
			product: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProduct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "with currency symbol", input: "$19.99", expected: 19.99},
		{name: "whole amount", input: "$5.00", expected: 5},
		{name: "comma decimal", input: "  $1,0 ", wantErr: true},
		{name: "surrounding whitespace", input: "\n  $1178.99  ", expected: 1178.99},
		{name: "already clean", input: "25.99", expected: 25.99},
		{name: "empty string", input: "", wantErr: true},
		{name: "not a number", input: "$free", wantErr: true},
		{name: "negative", input: "$-3.00", wantErr: true},
		{name: "nan", input: "$NaN", wantErr: true},
		{name: "infinity", input: "$Inf", wantErr: true},
		{name: "negative infinity", input: "-Infinity", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseReviewCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "plural", input: "3 reviews", expected: 3},
		{name: "surrounding whitespace", input: "\n\t 10 reviews \n", expected: 10},
		{name: "singular", input: "1 review", expected: 1},
		{name: "zero", input: "0 reviews", expected: 0},
		{name: "bare number", input: "7", expected: 7},
		{name: "missing number", input: "reviews", wantErr: true},
		{name: "garbage", input: "many reviews", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReviewCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseReviewCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	if got, err := ParseRating(" 4 "); err != nil || got != 4 {
		t.Fatalf("ParseRating = %d/%v, want 4/nil", got, err)
	}
	if _, err := ParseRating("four"); err == nil {
		t.Fatalf("expected error for non-numeric rating")
	}
}

func TestNormalizeProduct(t *testing.T) {
	raw := models.RawProduct{
		Title:       "Lenovo ThinkPad",
		Description: "  14\", Core i7  ",
		Price:       "$1099.00",
		Rating:      "4",
		Reviews:     " 12 reviews",
	}

	p, err := NormalizeProduct(raw)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Title != "Lenovo ThinkPad" || p.Description != "14\", Core i7" {
		t.Fatalf("unexpected text fields: %+v", p)
	}
	if p.Price != 1099 || p.Rating != 4 || p.NumOfReviews != 12 {
		t.Fatalf("unexpected numeric fields: %+v", p)
	}
}

func TestNormalizeProductsAllOrNothing(t *testing.T) {
	raws := []models.RawProduct{
		{Title: "ok", Price: "$1.00", Rating: "1", Reviews: "1 reviews"},
		{Title: "bad", Price: "$oops", Rating: "1", Reviews: "1 reviews"},
	}

	products, err := NormalizeProducts(raws)
	if err == nil {
		t.Fatalf("expected error, got %d products", len(products))
	}
	if products != nil {
		t.Fatalf("partial page returned: %v", products)
	}
	if !strings.Contains(err.Error(), "product 1") {
		t.Fatalf("error should name the failing container, got %v", err)
	}
}
