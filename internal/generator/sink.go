package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// JSONLWriter appends QA pairs to a newline-delimited JSON file, one object
// per line, non-ASCII unescaped. Each Append is synced to disk before
// returning so a saved batch survives a crash.
type JSONLWriter struct {
	f *os.File
}

// NewJSONLWriter creates (or truncates) the output file. The parent directory
// is created if needed.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &JSONLWriter{f: f}, nil
}

// Append writes one batch of pairs.
func (w *JSONLWriter) Append(pairs []domain.QAPair) error {
	enc := json.NewEncoder(w.f)
	enc.SetEscapeHTML(false)
	for _, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode pair: %w", err)
		}
	}
	return w.f.Sync()
}

// Close closes the underlying file.
func (w *JSONLWriter) Close() error { return w.f.Close() }
