// Package dictionary loads per-dialect wordlists.
//
// A dialect dictionary is a JSON array of entry objects stored as
// <Dialect>Dictionary.json inside the dictionary directory. Entries must carry
// a non-blank "translation" to be usable for generation; anything else in the
// object (glosses, speaker notes, categories) is preserved verbatim for prompt
// embedding.
package dictionary

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

const fileSuffix = "Dictionary.json"

// Discover returns the dialect names found in dir, sorted, derived from
// <Dialect>Dictionary.json filenames.
func Discover(dir string) ([]string, error) {
	pattern := filepath.Join(dir, "*"+fileSuffix)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("dictionary: glob %s: %w", pattern, err)
	}

	dialects := make([]string, 0, len(files))
	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), fileSuffix)
		if name != "" {
			dialects = append(dialects, name)
		}
	}
	sort.Strings(dialects)
	return dialects, nil
}

// Path returns the dictionary file path for a dialect.
func Path(dir, dialect string) string {
	return filepath.Join(dir, dialect+fileSuffix)
}

// entryProbe pulls the fields the loader validates; the full object is kept
// as raw JSON alongside.
type entryProbe struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// Load reads a dialect dictionary and drops entries without a usable
// translation. A missing file is a configuration error and is returned as is.
func Load(path string, log *slog.Logger) ([]domain.DictionaryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: read %s: %w", path, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("dictionary: decode %s: %w", path, err)
	}

	entries := make([]domain.DictionaryEntry, 0, len(raws))
	dropped := 0
	for i, raw := range raws {
		var probe entryProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			log.Warn("skipping malformed dictionary entry",
				slog.Int("index", i), slog.String("error", err.Error()))
			dropped++
			continue
		}
		entry := domain.DictionaryEntry{
			Word:        probe.Word,
			Translation: probe.Translation,
			Raw:         raw,
		}
		if !entry.HasTranslation() {
			dropped++
			continue
		}
		entries = append(entries, entry)
	}

	log.Info("dictionary loaded",
		slog.String("path", path),
		slog.Int("total", len(raws)),
		slog.Int("usable", len(entries)),
		slog.Int("dropped", dropped),
	)
	return entries, nil
}
