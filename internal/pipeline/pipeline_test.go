package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
	"github.com/heartmarshall/dialect-tuner/internal/finetune"
)

type scriptedGenerator struct {
	response string
	calls    int
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.response, nil
}

// happyTrainingClient accepts uploads and reports immediate success.
type happyTrainingClient struct {
	uploads int
	jobs    int
}

func (c *happyTrainingClient) UploadTrainingFile(context.Context, string) (string, error) {
	c.uploads++
	return "file-1", nil
}

func (c *happyTrainingClient) CreateJob(_ context.Context, req finetune.JobRequest) (domain.FineTuneJob, error) {
	c.jobs++
	return domain.FineTuneJob{ID: "ftjob-1", Status: domain.JobStatusCreated}, nil
}

func (c *happyTrainingClient) GetJob(context.Context, string) (domain.FineTuneJob, error) {
	return domain.FineTuneJob{
		ID:             "ftjob-1",
		Status:         domain.JobStatusSucceeded,
		FineTunedModel: "ft:base:acme::1",
	}, nil
}

type mapStore struct {
	bindings map[string]string
}

func (s *mapStore) Upsert(key, value string) error {
	if s.bindings == nil {
		s.bindings = map[string]string{}
	}
	s.bindings[key] = value
	return nil
}

func writeDictionary(t *testing.T, dir, dialect string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := `[
		{"word": "aa", "translation": "water"},
		{"word": "bb", "translation": "fire"},
		{"word": "cc", "translation": "stone"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, dialect+"Dictionary.json"), []byte(content), 0o644))
}

func testConfig(t *testing.T) config.Config {
	root := t.TempDir()
	return config.Config{
		Paths: config.PathsConfig{
			DictionaryDir: filepath.Join(root, "Dictionary"),
			OutputDir:     filepath.Join(root, "Output"),
		},
		OpenAI:    config.OpenAIConfig{BaseModel: "base"},
		Generator: config.GeneratorConfig{BatchSize: 2, TargetQA: 3},
		Dataset:   config.DatasetConfig{TrainRatio: 0.8},
		FineTune: config.FineTuneConfig{
			Epochs:                 3,
			BatchSize:              4,
			LearningRateMultiplier: 2.0,
			PollInterval:           time.Millisecond,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func TestRunDialect_endToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeDictionary(t, cfg.Paths.DictionaryDir, "Alpha")

	gen := &scriptedGenerator{response: `[{"question":"q1","answer":"a1"},{"question":"q2","answer":"a2"}]`}
	client := &happyTrainingClient{}
	store := &mapStore{}

	p := New(cfg, gen, client, store, testLogger())
	require.NoError(t, p.RunDialect(context.Background(), "Alpha"))

	// Target 3 with 2 pairs per batch: two calls, four pairs kept.
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, 4, countLines(t, p.art.QAPath("Alpha")))
	assert.Equal(t, 3, countLines(t, p.art.TrainPath("Alpha")))
	assert.Equal(t, 1, countLines(t, p.art.ValidPath("Alpha")))

	assert.Equal(t, 2, client.uploads)
	assert.Equal(t, 1, client.jobs)
	assert.Equal(t, "ft:base:acme::1", store.bindings["FINE_TUNED_MODEL_ALPHA"])
}

func TestRun_discoversDialects(t *testing.T) {
	cfg := testConfig(t)
	writeDictionary(t, cfg.Paths.DictionaryDir, "Alpha")
	writeDictionary(t, cfg.Paths.DictionaryDir, "Beta")

	gen := &scriptedGenerator{response: `[{"question":"q","answer":"a"},{"question":"q2","answer":"a2"}]`}
	store := &mapStore{}

	p := New(cfg, gen, &happyTrainingClient{}, store, testLogger())
	require.NoError(t, p.Run(context.Background(), nil))

	assert.Contains(t, store.bindings, "FINE_TUNED_MODEL_ALPHA")
	assert.Contains(t, store.bindings, "FINE_TUNED_MODEL_BETA")
}

func TestRun_oneDialectFailingDoesNotStopTheOthers(t *testing.T) {
	cfg := testConfig(t)
	writeDictionary(t, cfg.Paths.DictionaryDir, "Alpha")

	gen := &scriptedGenerator{response: `[{"question":"q","answer":"a"},{"question":"q2","answer":"a2"}]`}
	store := &mapStore{}

	p := New(cfg, gen, &happyTrainingClient{}, store, testLogger())
	// Ghost has no dictionary file; Alpha comes after it and must still run.
	err := p.Run(context.Background(), []string{"Ghost", "Alpha"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 dialects failed")
	assert.Contains(t, store.bindings, "FINE_TUNED_MODEL_ALPHA")
}

func TestRun_noDictionaries(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Paths.DictionaryDir, 0o755))

	p := New(cfg, &scriptedGenerator{}, &happyTrainingClient{}, &mapStore{}, testLogger())
	err := p.Run(context.Background(), nil)
	assert.ErrorContains(t, err, "no dictionaries")
}

func TestRunDialect_terminalFailureIsAnError(t *testing.T) {
	cfg := testConfig(t)
	writeDictionary(t, cfg.Paths.DictionaryDir, "Alpha")

	gen := &scriptedGenerator{response: `[{"question":"q","answer":"a"},{"question":"q2","answer":"a2"}]`}
	client := &failingTrainingClient{}

	p := New(cfg, gen, client, &mapStore{}, testLogger())
	err := p.RunDialect(context.Background(), "Alpha")
	assert.ErrorContains(t, err, "fine-tuning ended in state failed")
}

type failingTrainingClient struct{}

func (failingTrainingClient) UploadTrainingFile(context.Context, string) (string, error) {
	return "file-1", nil
}

func (failingTrainingClient) CreateJob(context.Context, finetune.JobRequest) (domain.FineTuneJob, error) {
	return domain.FineTuneJob{ID: "ftjob-1", Status: domain.JobStatusCreated}, nil
}

func (failingTrainingClient) GetJob(context.Context, string) (domain.FineTuneJob, error) {
	return domain.FineTuneJob{ID: "ftjob-1", Status: domain.JobStatusFailed, Error: "boom"}, nil
}
