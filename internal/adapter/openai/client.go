// Package openai adapts the OpenAI API to the pipeline's generation and
// fine-tuning interfaces.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
	"github.com/heartmarshall/dialect-tuner/internal/finetune"
)

// Client talks to OpenAI for both QA generation (chat completions) and
// fine-tuning (files + jobs).
type Client struct {
	api             openai.Client
	generationModel string
}

func New(apiKey, generationModel string) *Client {
	return &Client{
		api:             openai.NewClient(option.WithAPIKey(apiKey)),
		generationModel: generationModel,
	}
}

// Generate sends a single-turn chat completion and returns the raw text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.generationModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// UploadTrainingFile uploads a JSONL dataset with the fine-tune purpose.
func (c *Client) UploadTrainingFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("openai: open %s: %w", path, err)
	}
	defer f.Close()

	uploaded, err := c.api.Files.New(ctx, openai.FileNewParams{
		File:    f,
		Purpose: openai.FilePurposeFineTune,
	})
	if err != nil {
		return "", fmt.Errorf("openai: upload %s: %w", path, err)
	}
	if uploaded == nil || uploaded.ID == "" {
		return "", fmt.Errorf("openai: upload %s: empty file id in response", path)
	}
	return uploaded.ID, nil
}

// CreateJob submits a supervised fine-tuning job.
func (c *Client) CreateJob(ctx context.Context, req finetune.JobRequest) (domain.FineTuneJob, error) {
	params := openai.FineTuningJobNewParams{
		Model:          openai.FineTuningJobNewParamsModel(req.BaseModel),
		TrainingFile:   req.TrainingFileID,
		ValidationFile: openai.String(req.ValidationFileID),
		Method: openai.FineTuningJobNewParamsMethod{
			Type: "supervised",
			Supervised: openai.SupervisedMethodParam{
				Hyperparameters: openai.SupervisedHyperparameters{
					BatchSize: openai.SupervisedHyperparametersBatchSizeUnion{
						OfInt: openai.Int(int64(req.BatchSize)),
					},
					LearningRateMultiplier: openai.SupervisedHyperparametersLearningRateMultiplierUnion{
						OfFloat: openai.Float(req.LearningRateMultiplier),
					},
					NEpochs: openai.SupervisedHyperparametersNEpochsUnion{
						OfInt: openai.Int(int64(req.Epochs)),
					},
				},
			},
		},
	}
	if len(req.Metadata) > 0 {
		params.Metadata = req.Metadata
	}

	job, err := c.api.FineTuning.Jobs.New(ctx, params)
	if err != nil {
		return domain.FineTuneJob{}, fmt.Errorf("openai: create fine-tuning job: %w", err)
	}
	return toDomainJob(job), nil
}

// GetJob fetches the job state. Checkpoint metrics are best effort: a failed
// checkpoint lookup never fails the poll.
func (c *Client) GetJob(ctx context.Context, jobID string) (domain.FineTuneJob, error) {
	job, err := c.api.FineTuning.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.FineTuneJob{}, fmt.Errorf("openai: get fine-tuning job: %w", err)
	}

	out := toDomainJob(job)
	if cp, err := c.api.FineTuning.Jobs.Checkpoints.List(ctx, jobID, openai.FineTuningJobCheckpointListParams{}); err == nil && len(cp.Data) > 0 {
		latest := cp.Data[0]
		out.Metrics.ValidationLoss = latest.Metrics.FullValidLoss
		out.Metrics.TrainingAccuracy = latest.Metrics.FullValidMeanTokenAccuracy
	}
	return out, nil
}

func toDomainJob(job *openai.FineTuningJob) domain.FineTuneJob {
	out := domain.FineTuneJob{
		ID:             job.ID,
		Status:         domain.ParseJobStatus(string(job.Status)),
		FineTunedModel: job.FineTunedModel,
		Metrics:        domain.JobMetrics{TrainedTokens: job.TrainedTokens},
	}
	if job.Error.Message != "" {
		out.Error = job.Error.Message
		if job.Error.Code != "" {
			out.Error = job.Error.Code + ": " + job.Error.Message
		}
	}
	return out
}
