package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Processor handles one input source, a local path or a URL
type Processor[T any] interface {
	Process(ctx context.Context, source string) (T, error)
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc[T any] func(ctx context.Context, source string) (T, error)

// Process calls f(ctx, source)
func (f ProcessorFunc[T]) Process(ctx context.Context, source string) (T, error) {
	return f(ctx, source)
}

// SourceJob processes a single source
type SourceJob[T any] struct {
	Index     int
	Source    string
	Processor Processor[T]
}

// Execute executes the job
func (j *SourceJob[T]) Execute(ctx context.Context) Result {
	value, err := j.Processor.Process(ctx, j.Source)
	return &SourceResult[T]{
		Index:  j.Index,
		Source: j.Source,
		Value:  value,
		Error:  err,
	}
}

// SourceResult is the outcome for one source
type SourceResult[T any] struct {
	Index  int
	Source string
	Value  T
	Error  error
}

// GetError returns the error from the result
func (r *SourceResult[T]) GetError() error {
	return r.Error
}

// BatchProcessor fans sources out over a worker pool
type BatchProcessor[T any] struct {
	processor   Processor[T]
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor[T any](processor Processor[T], concurrency int) *BatchProcessor[T] {
	return &BatchProcessor[T]{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessSources processes every source and returns one result per source
// in input order. Sources never started because ctx was cancelled carry ctx.Err().
func (b *BatchProcessor[T]) ProcessSources(ctx context.Context, sources []string) []*SourceResult[T] {
	if len(sources) == 0 {
		return []*SourceResult[T]{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for i, source := range sources {
		pool.Submit(&SourceJob[T]{
			Index:     i,
			Source:    source,
			Processor: b.processor,
		})
	}

	out := make([]*SourceResult[T], len(sources))
	for _, result := range pool.Wait() {
		r := result.(*SourceResult[T])
		out[r.Index] = r
	}

	for i, r := range out {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &SourceResult[T]{Index: i, Source: sources[i], Error: err}
		}
	}

	return out
}

// ProcessFile reads sources from a list file and processes them
func (b *BatchProcessor[T]) ProcessFile(ctx context.Context, listPath string) ([]*SourceResult[T], error) {
	sources, err := ReadSourcesFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one path or URL per line. Blank lines and
// lines starting with # are skipped; repeated entries are kept once.
func ReadSourcesFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
