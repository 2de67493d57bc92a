package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/aluiziolira/go-scrape-catalog/parser"
)

// ErrInvalidRecords wraps normalization failures of a page.
var ErrInvalidRecords = errors.New("pipeline: invalid records")

// OutputWriter receives the typed records of one page.
type OutputWriter interface {
	Write(products []*models.Product) error
	Validate() error
	// Close publishes the output under its final paths.
	Close() error
	// Discard drops the output. Nothing new appears at the final paths.
	Discard() error
	Paths() []string
}

// OpenFunc opens a single writer.
type OpenFunc func() (OutputWriter, error)

// WriterFactory opens the writer for the page called name. It is only
// invoked once the page's records are known to be valid.
type WriterFactory func(name string) (OutputWriter, error)

// Stats counts what a pipeline has handled so far.
type Stats struct {
	Pages        int
	Products     int
	InvalidPages int
}

// Result is what Run wrote for one page.
type Result struct {
	Products []*models.Product
	Outputs  []string
}

// Pipeline turns the raw mappings of a page into typed records and hands
// them to a writer.
type Pipeline struct {
	open  WriterFactory
	stats Stats
}

func NewPipeline(open WriterFactory) *Pipeline {
	return &Pipeline{open: open}
}

// Run converts raws and writes them as the page called name. Either every
// record is published or the page fails and its output is dropped.
func (p *Pipeline) Run(name string, raws []models.RawProduct) (*Result, error) {
	products, err := parser.NormalizeProducts(raws)
	if err != nil {
		p.stats.InvalidPages++
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecords, err)
	}

	writer, err := p.open(name)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	if err := writer.Write(products); err != nil {
		return nil, errors.Join(fmt.Errorf("write products: %w", err), writer.Discard())
	}
	if err := writer.Validate(); err != nil {
		return nil, errors.Join(fmt.Errorf("validate output: %w", err), writer.Discard())
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	p.stats.Pages++
	p.stats.Products += len(products)
	return &Result{Products: products, Outputs: writer.Paths()}, nil
}

// Stats returns the counters accumulated over every Run.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

func outputPaths(format, dir, name string) ([]string, error) {
	csvPath := filepath.Join(dir, name+".csv")
	jsonPath := filepath.Join(dir, name+".jsonl")
	switch format {
	case "csv":
		return []string{csvPath}, nil
	case "json":
		return []string{jsonPath}, nil
	case "dual":
		return []string{csvPath, jsonPath}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// NewWriter creates the writer for format under dir: <name>.csv,
// <name>.jsonl or both.
func NewWriter(format, dir, name string) (OutputWriter, error) {
	paths, err := outputPaths(format, dir, name)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return openJSON(paths[0])()
	case "dual":
		mw, err := NewMultiWriter(openCSV(paths[0]), openJSON(paths[1]))
		if err != nil {
			return nil, err
		}
		return mw, nil
	default:
		return openCSV(paths[0])()
	}
}

func openCSV(path string) OpenFunc {
	return func() (OutputWriter, error) {
		w, err := NewCSVWriter(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}

func openJSON(path string) OpenFunc {
	return func() (OutputWriter, error) {
		w, err := NewJSONWriter(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}
