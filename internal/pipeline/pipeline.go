// Package pipeline chains the per-dialect stages end to end: dictionary
// load, synthetic QA generation, dataset conversion and fine-tuning. One
// dialect failing is logged and the next dialect still runs; only
// cancellation stops the whole sweep.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"

	"github.com/heartmarshall/dialect-tuner/internal/config"
	"github.com/heartmarshall/dialect-tuner/internal/dictionary"
	"github.com/heartmarshall/dialect-tuner/internal/domain"
	"github.com/heartmarshall/dialect-tuner/internal/finetune"
	"github.com/heartmarshall/dialect-tuner/internal/generator"
	"github.com/heartmarshall/dialect-tuner/internal/transformer"
)

var (
	bannerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
)

// Pipeline drives the full workflow for one or more dialects.
type Pipeline struct {
	cfg      config.Config
	gen      generator.TextGenerator
	training finetune.TrainingClient
	store    finetune.BindingStore
	art      Artifacts
	log      *slog.Logger
}

func New(cfg config.Config, gen generator.TextGenerator, training finetune.TrainingClient, store finetune.BindingStore, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		gen:      gen,
		training: training,
		store:    store,
		art:      Artifacts{OutputDir: cfg.Paths.OutputDir},
		log:      log.With("component", "pipeline"),
	}
}

// Run processes the given dialects, or every discovered dialect when the
// list is empty. It returns an error if any dialect failed, after all of
// them had their chance.
func (p *Pipeline) Run(ctx context.Context, dialects []string) error {
	if len(dialects) == 0 {
		discovered, err := dictionary.Discover(p.cfg.Paths.DictionaryDir)
		if err != nil {
			return fmt.Errorf("pipeline: discover dialects: %w", err)
		}
		if len(discovered) == 0 {
			return fmt.Errorf("pipeline: no dictionaries found in %s", p.cfg.Paths.DictionaryDir)
		}
		dialects = discovered
	}

	var failed []string
	for _, dialect := range dialects {
		if err := p.RunDialect(ctx, dialect); err != nil {
			if ctx.Err() != nil {
				return err
			}
			failureColor.Printf("✗ %s failed\n", dialect)
			p.log.Error("dialect failed", slog.String("dialect", dialect), slog.String("error", err.Error()))
			failed = append(failed, dialect)
			continue
		}
		successColor.Printf("✓ %s complete\n", dialect)
	}

	if len(failed) > 0 {
		return fmt.Errorf("pipeline: %d of %d dialects failed: %v", len(failed), len(dialects), failed)
	}
	return nil
}

// RunDialect runs generate, convert and fine-tune for a single dialect.
func (p *Pipeline) RunDialect(ctx context.Context, dialect string) error {
	log := p.log.With("dialect", dialect)

	bannerColor.Printf("\n=== %s: step 1/3 generate synthetic QA ===\n", dialect)
	entries, err := dictionary.Load(dictionary.Path(p.cfg.Paths.DictionaryDir, dialect), log)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}

	sink, err := generator.NewJSONLWriter(p.art.QAPath(dialect))
	if err != nil {
		return fmt.Errorf("open qa sink: %w", err)
	}
	gen := generator.New(dialect, p.gen, p.cfg.Generator.BatchSize, p.cfg.Generator.TargetQA, log)
	genResult, err := gen.Run(ctx, entries, sink)
	sink.Close()
	if err != nil {
		return fmt.Errorf("generate qa: %w", err)
	}
	log.Info("generation finished",
		slog.Int("generated", genResult.Generated),
		slog.Int("batches", genResult.Batches),
		slog.Int("skipped_batches", genResult.SkippedBatches),
	)

	bannerColor.Printf("=== %s: step 2/3 convert to fine-tuning format ===\n", dialect)
	tr := transformer.New(dialect, p.cfg.Dataset.TrainRatio, log)
	trResult, err := tr.Run(p.art.QAPath(dialect), p.art.TrainPath(dialect), p.art.ValidPath(dialect))
	if err != nil {
		return fmt.Errorf("convert dataset: %w", err)
	}
	log.Info("conversion finished",
		slog.Int("train", trResult.Train),
		slog.Int("valid", trResult.Valid),
	)

	bannerColor.Printf("=== %s: step 3/3 fine-tune model ===\n", dialect)
	orch := finetune.New(p.training, p.store, p.cfg.OpenAI.BaseModel, p.cfg.FineTune, log)
	job, err := orch.Run(ctx, dialect, p.art.TrainPath(dialect), p.art.ValidPath(dialect))
	if err != nil {
		return fmt.Errorf("fine-tune: %w", err)
	}
	if job.Status != domain.JobStatusSucceeded {
		return fmt.Errorf("fine-tuning ended in state %s: %s", job.Status, job.Error)
	}

	log.Info("dialect pipeline complete", slog.String("model", job.FineTunedModel))
	return nil
}
