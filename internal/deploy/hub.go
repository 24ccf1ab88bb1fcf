package deploy

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultHubURL = "https://huggingface.co"

// SpaceClient talks to the Hugging Face hub HTTP API.
type SpaceClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSpaceClient creates a client against the public hub.
func NewSpaceClient(token string, logger *slog.Logger) *SpaceClient {
	return NewSpaceClientWithURL(defaultHubURL, token, logger)
}

// NewSpaceClientWithURL creates a client with a custom base URL (for testing).
func NewSpaceClientWithURL(baseURL, token string, logger *slog.Logger) *SpaceClient {
	return &SpaceClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logger.With("adapter", "hfhub"),
	}
}

// Whoami resolves the username owning the token.
func (c *SpaceClient) Whoami(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/whoami-v2", nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("hfhub: whoami: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("hfhub: whoami: decode json: %w", err)
	}
	return body.Name, nil
}

// SpaceExists reports whether owner/name is already a Space on the hub.
func (c *SpaceClient) SpaceExists(ctx context.Context, owner, name string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/spaces/"+owner+"/"+name, nil, "")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("hfhub: space info: unexpected status %d", resp.StatusCode)
	}
}

// CreateSpace creates a Gradio Space. An already existing repo is not an
// error; the hub is asked to tolerate it.
func (c *SpaceClient) CreateSpace(ctx context.Context, owner, name string, private bool) error {
	payload, err := json.Marshal(map[string]any{
		"name":         name,
		"organization": owner,
		"type":         "space",
		"sdk":          "gradio",
		"private":      private,
	})
	if err != nil {
		return fmt.Errorf("hfhub: encode create request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/repos/create", bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("hfhub: create space: unexpected status %d: %s", resp.StatusCode, body)
	}
	c.log.Info("space created", slog.String("owner", owner), slog.String("name", name))
	return nil
}

// CommitFiles pushes the bundle as a single commit on main. The commit API
// takes newline-delimited JSON: a header line, then one line per file with
// base64 content.
func (c *SpaceClient) CommitFiles(ctx context.Context, owner, name, message string, files []File) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(commitLine{Key: "header", Value: map[string]any{"summary": message}}); err != nil {
		return fmt.Errorf("hfhub: encode commit header: %w", err)
	}
	for _, f := range files {
		line := commitLine{Key: "file", Value: map[string]any{
			"path":     f.Path,
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString(f.Content),
		}}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("hfhub: encode commit file %s: %w", f.Path, err)
		}
	}

	path := "/api/spaces/" + owner + "/" + name + "/commit/main"
	resp, err := c.do(ctx, http.MethodPost, path, &buf, "application/x-ndjson")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("hfhub: commit: unexpected status %d: %s", resp.StatusCode, body)
	}
	c.log.Info("bundle committed",
		slog.String("owner", owner),
		slog.String("name", name),
		slog.Int("files", len(files)),
	)
	return nil
}

type commitLine struct {
	Key   string         `json:"key"`
	Value map[string]any `json:"value"`
}

func (c *SpaceClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("hfhub: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hfhub: request failed: %w", err)
	}
	return resp, nil
}
