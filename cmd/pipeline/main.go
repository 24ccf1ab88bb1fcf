// Command pipeline runs the full workflow per dialect: synthetic QA
// generation, dataset conversion and fine-tuning. A failing dialect is
// reported and the remaining dialects still run.
//
// Exit codes: 0 = all dialects succeeded, 1 = error or any dialect failed.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	anthropicadapter "github.com/heartmarshall/dialect-tuner/internal/adapter/anthropic"
	openaiadapter "github.com/heartmarshall/dialect-tuner/internal/adapter/openai"
	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/envstore"
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
	if err := cfg.RequireFineTuning(); err != nil {
		logger.Error("missing credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	openaiClient := openaiadapter.New(cfg.OpenAI.APIKey, cfg.OpenAI.GenerationModel)

	var textGen generator.TextGenerator = openaiClient
	if cfg.Generator.Provider == "anthropic" {
		textGen = anthropicadapter.New(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	}

	store := envstore.New(cfg.Paths.EnvFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var dialects []string
	if *dialect != "" {
		dialects = []string{*dialect}
	}

	p := pipeline.New(*cfg, textGen, openaiClient, store, logger)
	if err := p.Run(ctx, dialects); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
