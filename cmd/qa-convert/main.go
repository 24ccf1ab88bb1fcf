// Command qa-convert turns synthetic QA files into the chat fine-tuning
// format and splits each into train/valid sets. It needs no API credentials.
//
// Exit codes: 0 = success, 1 = error or any dialect failed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/dictionary"
	"github.com/heartmarshall/dialect-tuner/internal/logging"
	"github.com/heartmarshall/dialect-tuner/internal/pipeline"
	"github.com/heartmarshall/dialect-tuner/internal/transformer"
)

func main() {
	dialect := flag.String("dialect", "", "dialect to process (default: all discovered)")
	input := flag.String("input", "", "input QA JSONL (default: output dir convention, single dialect only)")
	flag.Parse()

	bootLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if *input != "" && *dialect == "" {
		logger.Error("-input requires -dialect")
		os.Exit(1)
	}

	dialects, err := resolveDialects(cfg, *dialect)
	if err != nil {
		logger.Error("resolve dialects", slog.String("error", err.Error()))
		os.Exit(1)
	}

	art := pipeline.Artifacts{OutputDir: cfg.Paths.OutputDir}
	failed := 0
	for _, d := range dialects {
		in := art.QAPath(d)
		if *input != "" {
			in = *input
		}

		tr := transformer.New(d, cfg.Dataset.TrainRatio, logger)
		result, err := tr.Run(in, art.TrainPath(d), art.ValidPath(d))
		if err != nil {
			logger.Error("conversion failed", slog.String("dialect", d), slog.String("error", err.Error()))
			failed++
			continue
		}
		logger.Info("dialect done",
			slog.String("dialect", d),
			slog.Int("train", result.Train),
			slog.Int("valid", result.Valid),
			slog.Int("skipped", result.Skipped),
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
