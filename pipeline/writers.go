package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// Header is the fixed CSV column order.
var Header = []string{"title", "description", "price", "rating", "num_of_reviews"}

// CSVWriter writes one catalog page as CSV. The file appears at its path
// only once Close succeeds and it always replaces what was there.
type CSVWriter struct {
	out    *stagedFile
	writer *csv.Writer
	rows   int
}

// NewCSVWriter stages filename and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	out, err := stage(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(out.file)
	if err := writer.Write(Header); err != nil {
		out.discard()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		out.discard()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{out: out, writer: writer}, nil
}

// Write appends one row per product.
func (cw *CSVWriter) Write(products []*models.Product) error {
	for _, p := range products {
		record := []string{
			p.Title,
			p.Description,
			FormatPrice(p.Price),
			strconv.Itoa(p.Rating),
			strconv.Itoa(p.NumOfReviews),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
		cw.rows++
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Validate checks that at least the header reached the staged file.
func (cw *CSVWriter) Validate() error {
	size, err := cw.out.size()
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("csv file %s is empty", cw.out.path)
	}
	return nil
}

// Close flushes and publishes the file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.out.discard()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.out.commit()
}

// Discard drops the staged file.
func (cw *CSVWriter) Discard() error {
	return cw.out.discard()
}

// Paths returns the final file name.
func (cw *CSVWriter) Paths() []string {
	return []string{cw.out.path}
}

// FormatPrice renders the shortest decimal form, keeping at least one
// fractional digit (5 -> "5.0", 19.99 -> "19.99").
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// JSONWriter writes one catalog page as JSON lines, one product per line.
type JSONWriter struct {
	out     *stagedFile
	buf     *bufio.Writer
	encoder *json.Encoder
	records int
}

// NewJSONWriter stages filename for JSON lines output.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	out, err := stage(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}
	buf := bufio.NewWriter(out.file)
	return &JSONWriter{out: out, buf: buf, encoder: json.NewEncoder(buf)}, nil
}

func (jw *JSONWriter) Write(products []*models.Product) error {
	for _, p := range products {
		if err := jw.encoder.Encode(p); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
		jw.records++
	}
	if err := jw.buf.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Validate accepts an empty file for an empty page but not for a page
// that had records.
func (jw *JSONWriter) Validate() error {
	size, err := jw.out.size()
	if err != nil {
		return err
	}
	if jw.records > 0 && size == 0 {
		return fmt.Errorf("json file %s is empty after %d records", jw.out.path, jw.records)
	}
	return nil
}

func (jw *JSONWriter) Close() error {
	if err := jw.buf.Flush(); err != nil {
		jw.out.discard()
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.out.commit()
}

func (jw *JSONWriter) Discard() error {
	return jw.out.discard()
}

func (jw *JSONWriter) Paths() []string {
	return []string{jw.out.path}
}
