// Package envstore persists key/value bindings in a dotenv file, so the
// fine-tuned model ids survive between runs and stay readable by any tool
// that loads the same file.
package envstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// Store reads and writes a single dotenv file. A missing file behaves like an
// empty one; the first Upsert creates it.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Get returns the value for key, or domain.ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	values, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("envstore: %s: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

// All returns every binding in the file.
func (s *Store) All() (map[string]string, error) {
	return s.read()
}

// Upsert sets key to value and rewrites the file. Other keys are preserved.
func (s *Store) Upsert(key, value string) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("envstore: create dir: %w", err)
		}
	}
	if err := godotenv.Write(values, s.path); err != nil {
		return fmt.Errorf("envstore: write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("envstore: read %s: %w", s.path, err)
	}
	return values, nil
}
