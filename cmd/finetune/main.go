// Command finetune uploads a dialect's train/valid datasets, submits a
// supervised fine-tuning job and polls it until it finishes. On success the
// resulting model id is written to the dotenv binding store under
// FINE_TUNED_MODEL_<DIALECT>.
//
// Exit codes: 0 = all jobs succeeded, 1 = error or any job ended badly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	openaiadapter "github.com/heartmarshall/dialect-tuner/internal/adapter/openai"
	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/dictionary"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
	"github.com/heartmarshall/dialect-tuner/internal/envstore"
	"github.com/heartmarshall/dialect-tuner/internal/finetune"
	"github.com/heartmarshall/dialect-tuner/internal/logging"
	"github.com/heartmarshall/dialect-tuner/internal/pipeline"
)

func main() {
	dialect := flag.String("dialect", "", "dialect to fine-tune (default: all discovered)")
	flag.Parse()

	bootLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if err := cfg.RequireFineTuning(); err != nil {
		logger.Error("missing credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dialects, err := resolveDialects(cfg, *dialect)
	if err != nil {
		logger.Error("resolve dialects", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := openaiadapter.New(cfg.OpenAI.APIKey, cfg.OpenAI.GenerationModel)
	store := envstore.New(cfg.Paths.EnvFile)
	orch := finetune.New(client, store, cfg.OpenAI.BaseModel, cfg.FineTune, logger)
	art := pipeline.Artifacts{OutputDir: cfg.Paths.OutputDir}

	failed := 0
	for _, d := range dialects {
		job, err := orch.Run(ctx, d, art.TrainPath(d), art.ValidPath(d))
		if err != nil {
			if ctx.Err() != nil {
				logger.Error("interrupted", slog.String("dialect", d))
				os.Exit(1)
			}
			logger.Error("fine-tuning failed", slog.String("dialect", d), slog.String("error", err.Error()))
			failed++
			continue
		}
		if job.Status != domain.JobStatusSucceeded {
			logger.Error("job ended without success",
				slog.String("dialect", d),
				slog.String("status", job.Status.String()),
				slog.String("detail", job.Error),
			)
			failed++
			continue
		}
		logger.Info("fine-tuning succeeded",
			slog.String("dialect", d),
			slog.String("model", job.FineTunedModel),
			slog.Int64("trained_tokens", job.Metrics.TrainedTokens),
		)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func resolveDialects(cfg *config.Config, dialect string) ([]string, error) {
	if dialect != "" {
		return []string{dialect}, nil
	}
	dialects, err := dictionary.Discover(cfg.Paths.DictionaryDir)
	if err != nil {
		return nil, err
	}
	if len(dialects) == 0 {
		return nil, fmt.Errorf("no dictionaries found in %s", cfg.Paths.DictionaryDir)
	}
	return dialects, nil
}
