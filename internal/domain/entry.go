package domain

import (
	"encoding/json"
	"strings"
)

// DictionaryEntry is one row of a dialect wordlist. Raw preserves the original
// JSON object so prompts can embed the entry verbatim, including annotation
// fields the loader does not model (glosses, speaker notes, categories).
type DictionaryEntry struct {
	Word        string
	Translation string
	Raw         json.RawMessage
}

// HasTranslation reports whether the entry carries a usable translation.
// Entries failing this check are dropped before generation.
func (e DictionaryEntry) HasTranslation() bool {
	return strings.TrimSpace(e.Translation) != ""
}
