// Package finetune drives a remote fine-tuning job from dataset upload to a
// persisted model binding: upload the train/valid files, submit the job,
// poll until a terminal state, then record the resulting model id.
package finetune

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// JobRequest describes a fine-tuning job submission.
type JobRequest struct {
	Dialect                string
	BaseModel              string
	TrainingFileID         string
	ValidationFileID       string
	Epochs                 int
	BatchSize              int
	LearningRateMultiplier float64
	Metadata               map[string]string
}

// TrainingClient is the remote fine-tuning service surface the orchestrator
// needs. Implementations live in internal/adapter.
type TrainingClient interface {
	UploadTrainingFile(ctx context.Context, path string) (fileID string, err error)
	CreateJob(ctx context.Context, req JobRequest) (domain.FineTuneJob, error)
	GetJob(ctx context.Context, jobID string) (domain.FineTuneJob, error)
}

// BindingStore persists the dialect -> fine-tuned model mapping.
type BindingStore interface {
	Upsert(key, value string) error
}

// Orchestrator runs one fine-tuning job per invocation.
type Orchestrator struct {
	client    TrainingClient
	store     BindingStore
	baseModel string
	cfg       config.FineTuneConfig
	log       *slog.Logger

	// newBackoff builds a fresh backoff per lookup; go-retry backoffs are
	// stateful and cannot be shared between retry.Do calls.
	newBackoff func() retry.Backoff
}

func New(client TrainingClient, store BindingStore, baseModel string, cfg config.FineTuneConfig, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client:    client,
		store:     store,
		baseModel: baseModel,
		cfg:       cfg,
		log:       log.With("component", "finetune"),
		newBackoff: func() retry.Backoff {
			return retry.WithMaxRetries(4, retry.NewExponential(2*time.Second))
		},
	}
}

// Run uploads the datasets, submits the job and polls it to completion.
// The returned job carries the terminal state; a non-succeeded terminal state
// is a result, not an error, so callers can report it and move on. Errors are
// reserved for uploads, submission and polling that could not complete.
func (o *Orchestrator) Run(ctx context.Context, dialect, trainPath, validPath string) (domain.FineTuneJob, error) {
	log := o.log.With("dialect", dialect)

	trainID, err := o.client.UploadTrainingFile(ctx, trainPath)
	if err != nil {
		return domain.FineTuneJob{}, fmt.Errorf("finetune: upload training file: %w", err)
	}
	log.Info("training file uploaded", slog.String("file_id", trainID))

	validID, err := o.client.UploadTrainingFile(ctx, validPath)
	if err != nil {
		return domain.FineTuneJob{}, fmt.Errorf("finetune: upload validation file: %w", err)
	}
	log.Info("validation file uploaded", slog.String("file_id", validID))

	runID := uuid.NewString()
	job, err := o.client.CreateJob(ctx, JobRequest{
		Dialect:                dialect,
		BaseModel:              o.baseModel,
		TrainingFileID:         trainID,
		ValidationFileID:       validID,
		Epochs:                 o.cfg.Epochs,
		BatchSize:              o.cfg.BatchSize,
		LearningRateMultiplier: o.cfg.LearningRateMultiplier,
		Metadata: map[string]string{
			"dialect": dialect,
			"run_id":  runID,
		},
	})
	if err != nil {
		return domain.FineTuneJob{}, fmt.Errorf("finetune: create job: %w", err)
	}
	log.Info("fine-tuning job submitted",
		slog.String("job_id", job.ID),
		slog.String("base_model", o.baseModel),
		slog.String("run_id", runID),
	)

	job, err = o.Poll(ctx, job.ID, dialect)
	if err != nil {
		return job, err
	}

	if job.Status == domain.JobStatusSucceeded && job.FineTunedModel != "" {
		key := domain.BindingKey(dialect)
		if err := o.store.Upsert(key, job.FineTunedModel); err != nil {
			// The model exists remotely either way; losing the local binding
			// is recoverable by hand, so it must not fail the run.
			log.Error("failed to persist model binding",
				slog.String("key", key),
				slog.String("model", job.FineTunedModel),
				slog.String("error", err.Error()),
			)
		} else {
			log.Info("model binding saved", slog.String("key", key), slog.String("model", job.FineTunedModel))
		}
	}

	return job, nil
}

// Poll queries the job until it reaches a terminal state or ctx is cancelled.
// Transient lookup failures are retried with backoff before giving up.
func (o *Orchestrator) Poll(ctx context.Context, jobID, dialect string) (domain.FineTuneJob, error) {
	log := o.log.With("dialect", dialect, "job_id", jobID)

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	var lastStatus domain.JobStatus
	for {
		job, err := o.getJob(ctx, jobID)
		if err != nil {
			return domain.FineTuneJob{ID: jobID, Dialect: dialect}, fmt.Errorf("finetune: poll job: %w", err)
		}
		job.Dialect = dialect

		if job.Status != lastStatus {
			log.Info("job status changed", slog.String("status", job.Status.String()))
			lastStatus = job.Status
		}
		if job.Metrics.TrainedTokens > 0 {
			log.Info("training progress",
				slog.Int64("trained_tokens", job.Metrics.TrainedTokens),
				slog.Float64("training_accuracy", job.Metrics.TrainingAccuracy),
				slog.Float64("validation_loss", job.Metrics.ValidationLoss),
			)
		}

		if job.Status.IsTerminal() {
			if job.Status == domain.JobStatusFailed && job.Error != "" {
				log.Error("job failed", slog.String("error", job.Error))
			}
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, fmt.Errorf("finetune: poll job: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// getJob wraps the remote lookup with bounded exponential backoff so a single
// flaky poll does not abandon a long-running job.
func (o *Orchestrator) getJob(ctx context.Context, jobID string) (domain.FineTuneJob, error) {
	var job domain.FineTuneJob
	err := retry.Do(ctx, o.newBackoff(), func(ctx context.Context) error {
		var err error
		job, err = o.client.GetJob(ctx, jobID)
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	return job, err
}
