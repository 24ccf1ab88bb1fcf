package pipeline

import (
	"fmt"
	"path/filepath"
)

// Artifacts computes the per-dialect file locations under the output
// directory. The dialect is the dictionary filename stem, used verbatim.
type Artifacts struct {
	OutputDir string
}

// QAPath is the synthetic QA accumulation file.
func (a Artifacts) QAPath(dialect string) string {
	return filepath.Join(a.OutputDir, fmt.Sprintf("synthetic_qa_%s.jsonl", dialect))
}

// TrainPath is the chat-format training split.
func (a Artifacts) TrainPath(dialect string) string {
	return filepath.Join(a.OutputDir, fmt.Sprintf("finetune_qa_%s_train.jsonl", dialect))
}

// ValidPath is the chat-format validation split.
func (a Artifacts) ValidPath(dialect string) string {
	return filepath.Join(a.OutputDir, fmt.Sprintf("finetune_qa_%s_valid.jsonl", dialect))
}
