package domain

import "fmt"

// QAPair is a single question/answer record produced by the generative-text
// service. Pairs are never synthesized locally; the pipeline only validates
// and passes them through.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Message roles in the canonical chat schema.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged message of a chat record.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is the canonical fine-tuning unit: exactly one system, one user
// and one assistant message, in that order.
type ChatRecord struct {
	Messages []Message `json:"messages"`
}

// SystemPrompt returns the fixed per-dialect system instruction shared by
// every converted record of one dialect.
func SystemPrompt(dialect string) string {
	return fmt.Sprintf(
		"You are an assistant expert in the %s dialect. Provide concise answers or explanations in %s.",
		dialect, dialect,
	)
}

// NewChatRecord adapts a QA pair into the canonical three-message shape.
func NewChatRecord(dialect string, qa QAPair) ChatRecord {
	return ChatRecord{Messages: []Message{
		{Role: RoleSystem, Content: SystemPrompt(dialect)},
		{Role: RoleUser, Content: qa.Question},
		{Role: RoleAssistant, Content: qa.Answer},
	}}
}
