package generator

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

func TestBuildPrompt_embedsEntriesVerbatim(t *testing.T) {
	batch := []domain.DictionaryEntry{
		{Word: "Father", Translation: "ēsh", Raw: json.RawMessage(`{"word":"Father","translation":"ēsh","note":"(said by son)"}`)},
		{Word: "Mother", Translation: "tlā", Raw: json.RawMessage(`{"word":"Mother","translation":"tlā"}`)},
	}

	prompt := BuildPrompt("Thlinkit_Skutkwan", batch)

	if !strings.Contains(prompt, "Thlinkit_Skutkwan dialect") {
		t.Error("prompt missing dialect name")
	}
	// Entries must appear byte-for-byte, annotations included.
	for _, e := range batch {
		if !strings.Contains(prompt, string(e.Raw)) {
			t.Errorf("prompt missing verbatim entry %s", e.Raw)
		}
	}
	for _, guideline := range []string{
		"Source Fidelity", "Output Format", "Question Diversity",
		"Direct Translation", "Contextual Usage", "Semantic Relationships",
		"Categorization", "Component Analysis",
	} {
		if !strings.Contains(prompt, guideline) {
			t.Errorf("prompt missing guideline %q", guideline)
		}
	}
	if !strings.Contains(prompt, `"question"`) || !strings.Contains(prompt, `"answer"`) {
		t.Error("prompt must mandate question/answer keys")
	}
}

func TestJSONLWriter_appendsAndPreservesUnicode(t *testing.T) {
	path := t.TempDir() + "/qa.jsonl"
	w, err := NewJSONLWriter(path)
	if err != nil {
		t.Fatalf("NewJSONLWriter() error: %v", err)
	}
	defer w.Close()

	if err := w.Append([]domain.QAPair{{Question: "How do you say 'sun'?", Answer: "gagān"}}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := w.Append([]domain.QAPair{{Question: "q2", Answer: "a2"}}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "gagān") {
		t.Errorf("non-ASCII was escaped: %s", lines[0])
	}
}
