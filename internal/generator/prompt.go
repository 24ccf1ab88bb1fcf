package generator

import (
	"strings"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// BuildPrompt renders the generation instruction for one batch. The entries
// are embedded verbatim as JSON — the model must not see paraphrased data —
// and the instruction pins the response to a bare JSON array of
// {question, answer} objects so the caller can parse it strictly.
func BuildPrompt(dialect string, batch []domain.DictionaryEntry) string {
	var b strings.Builder
	b.Grow(1024 + len(batch)*128)

	b.WriteString("You are a linguist and an expert in generating educational material for the ")
	b.WriteString(dialect)
	b.WriteString(" dialect, based on a historical wordlist.\n")
	b.WriteString("Your task is to create a diverse set of natural question-answer pairs using ONLY the information from the provided dictionary entries. ")
	b.WriteString("The output MUST be a valid JSON array of objects, where each object has a \"question\" key and an \"answer\" key.\n\n")

	b.WriteString("**CRITICAL GUIDELINES:**\n")
	b.WriteString("1.  **Source Fidelity:** Adhere strictly to the provided data. DO NOT invent new words, alternate spellings, or information not present. Use the exact phonetic spelling from the 'translation' field.\n")
	b.WriteString("2.  **Output Format:** Your entire response must be a single JSON array `[...]` containing `{ \"question\": \"...\", \"answer\": \"...\" }` objects. Do not include any text or explanations outside of this JSON structure.\n")
	b.WriteString("3.  **Question Diversity:** For the given batch of words, generate multiple QA pairs covering different angles:\n")
	b.WriteString("    - **Direct Translation:** (e.g., \"What is the English for '...'?\", \"How do you say '...' in ")
	b.WriteString(dialect)
	b.WriteString("?\")\n")
	b.WriteString("    - **Contextual Usage:** Look for hints like \"(said by son)\" or \"(black)\" and create scenario questions. (e.g., \"If a son is talking about his father, what word does he use?\")\n")
	b.WriteString("    - **Semantic Relationships:** If the batch contains related words (e.g., 'Man'/'Woman', 'Day'/'Night', 'Alive'/'Dead'), ask comparative or relational questions.\n")
	b.WriteString("    - **Categorization:** Ask questions that require identifying a word's category. (e.g., \"Which of these words is a type of animal?\")\n")
	b.WriteString("    - **Component Analysis (if obvious):** If a word seems to be a compound of another word in the list, create a question about it.\n")

	b.WriteString("\n**DICTIONARY ENTRIES (Ground Truth):**\n")
	for _, entry := range batch {
		b.WriteByte('\n')
		b.Write(entry.Raw)
	}

	b.WriteString("\n\nNow, generate the JSON array of question-answer pairs based on these entries and the guidelines.")
	return b.String()
}
