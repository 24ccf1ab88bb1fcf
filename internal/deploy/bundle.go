// Package deploy publishes a chat interface for a fine-tuned model as a
// Hugging Face Space: it renders a small Gradio app bundle and pushes it
// through the hub HTTP API.
package deploy

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
)

//go:embed templates/app.py
var appTemplate string

const requirements = `gradio>=4.0.0
openai>=1.0.0
`

// File is one bundle entry, addressed by its path inside the Space repo.
type File struct {
	Path    string
	Content []byte
}

// SpaceName folds a dialect name into a valid Space repo name.
func SpaceName(dialect string) string {
	name := strings.ToLower(strings.TrimSpace(dialect))
	return strings.Join(strings.Fields(name), "-")
}

// BuildBundle renders the app, README and requirements files for one Space.
func BuildBundle(dialect, modelID, owner, spaceName string, now time.Time) []File {
	app := strings.NewReplacer(
		"{{MODEL_NAME}}", modelID,
		"{{TITLE}}", fmt.Sprintf("Chat in %s", dialect),
		"{{DIALECT}}", dialect,
	).Replace(appTemplate)

	return []File{
		{Path: "app.py", Content: []byte(app)},
		{Path: "requirements.txt", Content: []byte(requirements)},
		{Path: "README.md", Content: []byte(buildReadme(dialect, modelID, owner, spaceName, now))},
	}
}

// buildReadme emits the Space front matter followed immediately by the
// markdown body; the hub rejects a blank line between them.
func buildReadme(dialect, modelID, owner, spaceName string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "title: %q\n", fmt.Sprintf("Chat in %s", dialect))
	fmt.Fprintf(&b, "emoji: \"💬\"\n")
	fmt.Fprintf(&b, "colorFrom: \"blue\"\n")
	fmt.Fprintf(&b, "colorTo: \"indigo\"\n")
	fmt.Fprintf(&b, "sdk: gradio\n")
	fmt.Fprintf(&b, "sdk_version: \"4.0.0\"\n")
	fmt.Fprintf(&b, "app_file: app.py\n")
	fmt.Fprintf(&b, "pinned: false\n")
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "# %s Chat Interface\n\n", dialect)
	fmt.Fprintf(&b, "A Gradio chat interface backed by a model fine-tuned for the %s dialect.\n\n", dialect)
	fmt.Fprintf(&b, "## Model\n\n- Model ID: `%s`\n- Deployed: %s\n\n", modelID, now.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "## Setup\n\n")
	fmt.Fprintf(&b, "1. Add `OPENAI_API_KEY` as a secret in the Space settings.\n")
	fmt.Fprintf(&b, "2. The app uses the fine-tuned model automatically.\n\n")
	fmt.Fprintf(&b, "## Local development\n\n```bash\ngit clone https://huggingface.co/spaces/%s/%s\ncd %s\npip install -r requirements.txt\npython app.py\n```\n", owner, spaceName, spaceName)
	return b.String()
}
