package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// stagedFile buffers a page's output in a hidden sibling of its final path.
// Commit renames it into place; discard removes it. Until commit, whatever
// was at the final path before is left untouched.
type stagedFile struct {
	file *os.File
	path string
	done bool
}

func stage(path string) (*stagedFile, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	return &stagedFile{file: f, path: path}, nil
}

func (s *stagedFile) size() (int64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.Size(), nil
}

func (s *stagedFile) commit() error {
	if s.done {
		return nil
	}
	s.done = true

	tmp := s.file.Name()
	if err := s.file.Chmod(0o644); err != nil {
		s.file.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", s.path, err)
	}
	return nil
}

func (s *stagedFile) discard() error {
	if s.done {
		return nil
	}
	s.done = true

	s.file.Close()
	if err := os.Remove(s.file.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard %s: %w", s.path, err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
