// Package generator drives synthetic QA generation for one dialect.
//
// The accumulation loop shuffles the filtered wordlist, walks it in rotating
// fixed-size windows, asks the generative-text service for QA pairs per window
// and appends every accepted batch to the output sink immediately, so a crash
// never loses a saved batch. The loop stops once the running total reaches the
// target; the last batch may overshoot and is kept whole.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// TextGenerator is the generative-text collaborator: one prompt in, raw model
// text out. Implementations live in internal/adapter.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BatchSink persists one batch of QA pairs durably before the next batch is
// requested.
type BatchSink interface {
	Append(pairs []domain.QAPair) error
}

// Result holds generation statistics for one run.
type Result struct {
	Batches        int
	SkippedBatches int
	Generated      int
}

// Generator accumulates QA pairs for a single dialect.
type Generator struct {
	dialect   string
	gen       TextGenerator
	batchSize int
	target    int
	rng       *rand.Rand
	log       *slog.Logger
}

// New creates a Generator. Shuffling is deliberately unseeded by the caller:
// reruns produce different batches.
func New(dialect string, gen TextGenerator, batchSize, target int, log *slog.Logger) *Generator {
	return &Generator{
		dialect:   dialect,
		gen:       gen,
		batchSize: batchSize,
		target:    target,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       log.With("component", "generator", "dialect", dialect),
	}
}

// Run executes the accumulation loop until at least g.target pairs have been
// written to sink. An empty entry list terminates immediately with
// domain.ErrEmptyDictionary; this is the guard that keeps the reshuffle branch
// below from spinning forever.
func (g *Generator) Run(ctx context.Context, entries []domain.DictionaryEntry, sink BatchSink) (Result, error) {
	var result Result
	if len(entries) == 0 {
		return result, domain.ErrEmptyDictionary
	}

	shuffled := make([]domain.DictionaryEntry, len(entries))
	copy(shuffled, entries)
	g.shuffle(shuffled)

	batchIndex := 0
	for result.Generated < g.target {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		start := (batchIndex * g.batchSize) % len(shuffled)
		end := min(start+g.batchSize, len(shuffled))
		batch := shuffled[start:end]
		if len(batch) == 0 {
			g.shuffle(shuffled)
			continue
		}
		batchIndex++

		g.log.Info("processing batch",
			slog.Int("batch", batchIndex),
			slog.Int("entries", len(batch)),
			slog.Int("total_so_far", result.Generated),
		)

		raw, err := g.gen.Generate(ctx, BuildPrompt(g.dialect, batch))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			g.log.Warn("generation call failed, skipping batch",
				slog.Int("batch", batchIndex), slog.String("error", err.Error()))
			result.SkippedBatches++
			continue
		}

		pairs, err := parsePairs(raw)
		if err != nil {
			g.log.Warn("discarding unparseable batch response",
				slog.Int("batch", batchIndex), slog.String("error", err.Error()))
			result.SkippedBatches++
			continue
		}

		if err := sink.Append(pairs); err != nil {
			return result, fmt.Errorf("generator: append batch %d: %w", batchIndex, err)
		}
		result.Batches++
		result.Generated += len(pairs)

		g.log.Info("batch saved",
			slog.Int("batch", batchIndex),
			slog.Int("pairs", len(pairs)),
			slog.Int("total", result.Generated),
		)
	}

	g.log.Info("generation complete",
		slog.Int("generated", result.Generated),
		slog.Int("batches", result.Batches),
		slog.Int("skipped_batches", result.SkippedBatches),
	)
	return result, nil
}

func (g *Generator) shuffle(entries []domain.DictionaryEntry) {
	g.rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

// parsePairs decodes a model response as a JSON array of {question, answer}
// objects. Anything else fails whole: no partial record salvage from a
// malformed batch.
func parsePairs(raw string) ([]domain.QAPair, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("response is not a JSON array")
	}
	var pairs []domain.QAPair
	if err := json.Unmarshal([]byte(trimmed), &pairs); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return pairs, nil
}
