// Command qa-generate produces synthetic QA pairs for one dialect or for
// every dictionary discovered in the dictionary directory. Output goes to
// synthetic_qa_<dialect>.jsonl in the output directory, appended batch by
// batch.
//
// Exit codes: 0 = success, 1 = error or any dialect failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	anthropicadapter "github.com/heartmarshall/dialect-tuner/internal/adapter/anthropic"
	openaiadapter "github.com/heartmarshall/dialect-tuner/internal/adapter/openai"
	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/dictionary"
	"github.com/heartmarshall/dialect-tuner/internal/generator"
	"github.com/heartmarshall/dialect-tuner/internal/logging"
	"github.com/heartmarshall/dialect-tuner/internal/pipeline"
)

func main() {
	dialect := flag.String("dialect", "", "dialect to process (default: all discovered)")
	flag.Parse()

	bootLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if err := cfg.RequireGeneration(); err != nil {
		logger.Error("missing credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var textGen generator.TextGenerator
	switch cfg.Generator.Provider {
	case "anthropic":
		textGen = anthropicadapter.New(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	default:
		textGen = openaiadapter.New(cfg.OpenAI.APIKey, cfg.OpenAI.GenerationModel)
	}

	dialects, err := resolveDialects(cfg, *dialect)
	if err != nil {
		logger.Error("resolve dialects", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	art := pipeline.Artifacts{OutputDir: cfg.Paths.OutputDir}
	failed := 0
	for _, d := range dialects {
		if err := runDialect(ctx, cfg, textGen, art, d, logger); err != nil {
			if ctx.Err() != nil {
				logger.Error("interrupted", slog.String("dialect", d))
				os.Exit(1)
			}
			logger.Error("generation failed", slog.String("dialect", d), slog.String("error", err.Error()))
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func runDialect(ctx context.Context, cfg *config.Config, textGen generator.TextGenerator, art pipeline.Artifacts, dialect string, logger *slog.Logger) error {
	entries, err := dictionary.Load(dictionary.Path(cfg.Paths.DictionaryDir, dialect), logger)
	if err != nil {
		return err
	}

	sink, err := generator.NewJSONLWriter(art.QAPath(dialect))
	if err != nil {
		return err
	}
	defer sink.Close()

	gen := generator.New(dialect, textGen, cfg.Generator.BatchSize, cfg.Generator.TargetQA, logger)
	result, err := gen.Run(ctx, entries, sink)
	if err != nil {
		return err
	}
	logger.Info("dialect done",
		slog.String("dialect", dialect),
		slog.Int("generated", result.Generated),
		slog.Int("skipped_batches", result.SkippedBatches),
		slog.String("output", art.QAPath(dialect)),
	)
	return nil
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
