// Package transformer normalizes raw QA records into the canonical chat
// schema and splits the result into training and validation subsets.
//
// Inputs are newline-delimited JSON: a mix of {question, answer} pairs and
// records already in canonical {"messages": [...]} form. Canonical records
// pass through byte-for-byte; QA pairs are wrapped with the dialect's fixed
// system instruction. A malformed line is skipped with a warning, never
// aborting the surrounding file.
package transformer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartmarshall/dialect-tuner/internal/domain"
)

// Result holds conversion statistics.
type Result struct {
	Converted     int
	PassedThrough int
	Skipped       int
	Train         int
	Valid         int
}

// Transformer converts one dialect's records.
type Transformer struct {
	dialect string
	ratio   float64
	rng     *rand.Rand
	log     *slog.Logger
}

// New creates a Transformer with the given train ratio.
func New(dialect string, ratio float64, log *slog.Logger) *Transformer {
	return &Transformer{
		dialect: dialect,
		ratio:   ratio,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log.With("component", "transformer", "dialect", dialect),
	}
}

// Run reads inputPath and writes the shuffled train/valid split. A missing
// input file or a conversion yielding zero valid records aborts the stage
// before any output file is created.
func (t *Transformer) Run(inputPath, trainPath, validPath string) (Result, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return Result{}, fmt.Errorf("transformer: open input: %w", err)
	}
	defer f.Close()

	records, result := t.Convert(f)
	if len(records) == 0 {
		return result, fmt.Errorf("transformer: %s: %w", inputPath, domain.ErrNoRecords)
	}

	train, valid := t.Split(records)
	result.Train, result.Valid = len(train), len(valid)

	if err := writeJSONL(trainPath, train); err != nil {
		return result, fmt.Errorf("transformer: write train set: %w", err)
	}
	if err := writeJSONL(validPath, valid); err != nil {
		return result, fmt.Errorf("transformer: write valid set: %w", err)
	}

	t.log.Info("dataset split written",
		slog.Int("train", result.Train),
		slog.Int("valid", result.Valid),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

// recordProbe distinguishes canonical records from QA pairs.
type recordProbe struct {
	Messages json.RawMessage `json:"messages"`
	Question *string         `json:"question"`
	Answer   *string         `json:"answer"`
}

// Convert reads newline-delimited records and returns the canonical lines.
// Canonical input lines are kept verbatim; everything else must be a QA pair
// with non-empty question and answer.
func (t *Transformer) Convert(r io.Reader) ([]json.RawMessage, Result) {
	var (
		records []json.RawMessage
		result  Result
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var probe recordProbe
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			t.log.Warn("skipping invalid JSON line", slog.Int("line", lineNum), slog.String("error", err.Error()))
			result.Skipped++
			continue
		}

		if probe.Messages != nil {
			// Already chat-formatted: no re-validation, no re-encoding.
			records = append(records, json.RawMessage(line))
			result.PassedThrough++
			continue
		}

		if probe.Question == nil || probe.Answer == nil {
			t.log.Warn("skipping record without question/answer", slog.Int("line", lineNum))
			result.Skipped++
			continue
		}
		if *probe.Question == "" || *probe.Answer == "" {
			t.log.Warn("skipping record with empty question/answer", slog.Int("line", lineNum))
			result.Skipped++
			continue
		}

		rec := domain.NewChatRecord(t.dialect, domain.QAPair{Question: *probe.Question, Answer: *probe.Answer})
		encoded, err := marshalCompact(rec)
		if err != nil {
			t.log.Warn("skipping unencodable record", slog.Int("line", lineNum), slog.String("error", err.Error()))
			result.Skipped++
			continue
		}
		records = append(records, encoded)
		result.Converted++
	}
	if err := scanner.Err(); err != nil {
		t.log.Error("input scan aborted", slog.Int("line", lineNum), slog.String("error", err.Error()))
	}

	return records, result
}

// Split shuffles the records and slices them at floor(len * ratio).
// The shuffle is randomized per run, not derived from record content.
func (t *Transformer) Split(records []json.RawMessage) (train, valid []json.RawMessage) {
	shuffled := make([]json.RawMessage, len(records))
	copy(shuffled, records)
	t.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	splitIdx := int(float64(len(shuffled)) * t.ratio)
	return shuffled[:splitIdx], shuffled[splitIdx:]
}

// marshalCompact encodes v compactly without escaping HTML or non-ASCII.
func marshalCompact(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func writeJSONL(path string, records []json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
