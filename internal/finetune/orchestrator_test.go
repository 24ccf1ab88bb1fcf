package finetune

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// fakeClient scripts the remote service: uploads hand out sequential file ids
// and every GetJob call pops the next snapshot from the script.
type fakeClient struct {
	uploads   []string
	uploadErr error
	created   *JobRequest
	createErr error
	script    []pollStep
	pollCalls int
}

type pollStep struct {
	job domain.FineTuneJob
	err error
}

func (c *fakeClient) UploadTrainingFile(_ context.Context, path string) (string, error) {
	if c.uploadErr != nil {
		return "", c.uploadErr
	}
	c.uploads = append(c.uploads, path)
	return "file-" + path, nil
}

func (c *fakeClient) CreateJob(_ context.Context, req JobRequest) (domain.FineTuneJob, error) {
	if c.createErr != nil {
		return domain.FineTuneJob{}, c.createErr
	}
	c.created = &req
	return domain.FineTuneJob{ID: "ftjob-1", Status: domain.JobStatusCreated}, nil
}

func (c *fakeClient) GetJob(_ context.Context, jobID string) (domain.FineTuneJob, error) {
	step := c.script[min(c.pollCalls, len(c.script)-1)]
	c.pollCalls++
	job := step.job
	job.ID = jobID
	return job, step.err
}

type fakeStore struct {
	bindings map[string]string
	err      error
}

func (s *fakeStore) Upsert(key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.bindings == nil {
		s.bindings = map[string]string{}
	}
	s.bindings[key] = value
	return nil
}

func newTestOrchestrator(client TrainingClient, store BindingStore) *Orchestrator {
	cfg := config.FineTuneConfig{
		Epochs:                 3,
		BatchSize:              4,
		LearningRateMultiplier: 2.0,
		PollInterval:           time.Millisecond,
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	o := New(client, store, "base-model", cfg, log)
	o.newBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
	}
	return o
}

func TestRun_succeededJobBindsModel(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusCreated}},
		{job: domain.FineTuneJob{Status: domain.JobStatusRunning, Metrics: domain.JobMetrics{TrainedTokens: 1200}}},
		{job: domain.FineTuneJob{Status: domain.JobStatusSucceeded, FineTunedModel: "ft:base-model:acme::abc123"}},
	}}
	store := &fakeStore{}

	job, err := newTestOrchestrator(client, store).Run(context.Background(), "Thlinkit Skutkwan", "train.jsonl", "valid.jsonl")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusSucceeded, job.Status)
	assert.Equal(t, "Thlinkit Skutkwan", job.Dialect)
	assert.Equal(t, []string{"train.jsonl", "valid.jsonl"}, client.uploads)
	assert.Equal(t, "ft:base-model:acme::abc123", store.bindings["FINE_TUNED_MODEL_THLINKIT_SKUTKWAN"])
}

func TestRun_submissionCarriesHyperparametersAndMetadata(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusSucceeded, FineTunedModel: "ft:m"}},
	}}

	_, err := newTestOrchestrator(client, &fakeStore{}).Run(context.Background(), "X", "t.jsonl", "v.jsonl")
	require.NoError(t, err)

	req := client.created
	require.NotNil(t, req)
	assert.Equal(t, "base-model", req.BaseModel)
	assert.Equal(t, "file-t.jsonl", req.TrainingFileID)
	assert.Equal(t, "file-v.jsonl", req.ValidationFileID)
	assert.Equal(t, 3, req.Epochs)
	assert.Equal(t, 4, req.BatchSize)
	assert.Equal(t, 2.0, req.LearningRateMultiplier)
	assert.Equal(t, "X", req.Metadata["dialect"])
	assert.NotEmpty(t, req.Metadata["run_id"])
}

func TestRun_failedJobIsAResultNotAnError(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusRunning}},
		{job: domain.FineTuneJob{Status: domain.JobStatusFailed, Error: "insufficient training data"}},
	}}
	store := &fakeStore{}

	job, err := newTestOrchestrator(client, store).Run(context.Background(), "X", "t.jsonl", "v.jsonl")
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusFailed, job.Status)
	assert.Equal(t, "insufficient training data", job.Error)
	assert.Empty(t, store.bindings, "no binding may be written for a failed job")
}

func TestRun_succeededWithoutModelIDWritesNoBinding(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusSucceeded}},
	}}
	store := &fakeStore{}

	job, err := newTestOrchestrator(client, store).Run(context.Background(), "X", "t.jsonl", "v.jsonl")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, job.Status)
	assert.Empty(t, store.bindings)
}

func TestRun_bindingWriteFailureDoesNotFailTheRun(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusSucceeded, FineTunedModel: "ft:m"}},
	}}
	store := &fakeStore{err: errors.New("disk full")}

	job, err := newTestOrchestrator(client, store).Run(context.Background(), "X", "t.jsonl", "v.jsonl")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, job.Status)
}

func TestRun_uploadFailureIsFatal(t *testing.T) {
	client := &fakeClient{uploadErr: errors.New("service unavailable")}

	_, err := newTestOrchestrator(client, &fakeStore{}).Run(context.Background(), "X", "t.jsonl", "v.jsonl")
	assert.ErrorContains(t, err, "upload training file")
}

func TestPoll_transientLookupFailureIsRetried(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{err: errors.New("gateway timeout")},
		{job: domain.FineTuneJob{Status: domain.JobStatusSucceeded, FineTunedModel: "ft:m"}},
	}}

	job, err := newTestOrchestrator(client, &fakeStore{}).Poll(context.Background(), "ftjob-1", "X")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, job.Status)
	assert.Equal(t, 2, client.pollCalls)
}

func TestPoll_persistentLookupFailureAborts(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{err: errors.New("gateway timeout")},
	}}

	_, err := newTestOrchestrator(client, &fakeStore{}).Poll(context.Background(), "ftjob-1", "X")
	assert.ErrorContains(t, err, "poll job")
	assert.Equal(t, 3, client.pollCalls, "one attempt plus two retries")
}

func TestPoll_cancellationStopsPolling(t *testing.T) {
	client := &fakeClient{script: []pollStep{
		{job: domain.FineTuneJob{Status: domain.JobStatusRunning}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOrchestrator(client, &fakeStore{}).Poll(ctx, "ftjob-1", "X")
	assert.ErrorIs(t, err, context.Canceled)
}
