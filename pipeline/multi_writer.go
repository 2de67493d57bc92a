package pipeline

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-scrape-catalog/models"
)

// MultiWriter fans a page out to several writers. They are published or
// dropped together.
type MultiWriter struct {
	writers []OutputWriter
}

// NewMultiWriter opens every writer in order. If one fails, the writers
// opened before it are discarded.
func NewMultiWriter(opens ...OpenFunc) (*MultiWriter, error) {
	mw := &MultiWriter{writers: make([]OutputWriter, 0, len(opens))}
	for _, open := range opens {
		w, err := open()
		if err != nil {
			return nil, errors.Join(err, mw.Discard())
		}
		mw.writers = append(mw.writers, w)
	}
	return mw, nil
}

func (mw *MultiWriter) Write(products []*models.Product) error {
	for _, w := range mw.writers {
		if err := w.Write(products); err != nil {
			return fmt.Errorf("write %v: %w", w.Paths(), err)
		}
	}
	return nil
}

func (mw *MultiWriter) Validate() error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("validate %v: %w", w.Paths(), err))
		}
	}
	return errors.Join(errs...)
}

// Close publishes each writer in order. After the first failure the
// remaining writers are discarded.
func (mw *MultiWriter) Close() error {
	for i, w := range mw.writers {
		if err := w.Close(); err != nil {
			rest := &MultiWriter{writers: mw.writers[i+1:]}
			return errors.Join(fmt.Errorf("close %v: %w", w.Paths(), err), rest.Discard())
		}
	}
	return nil
}

func (mw *MultiWriter) Discard() error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Discard(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (mw *MultiWriter) Paths() []string {
	var paths []string
	for _, w := range mw.writers {
		paths = append(paths, w.Paths()...)
	}
	return paths
}
