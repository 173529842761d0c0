package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/wrangle/internal/model"
	"github.com/ppiankov/wrangle/internal/normalize"
	"github.com/ppiankov/wrangle/internal/osm"
	"github.com/ppiankov/wrangle/internal/store"
)

// OSMOptions configures a map extract run
type OSMOptions struct {
	Suffix string     // Output path is the input path plus this suffix
	Pretty bool       // Indent each document
	Extra  store.Sink // Optional sink receiving every record as well
}

// OSMResult summarizes one processed extract
type OSMResult struct {
	Input    string
	Output   string
	Records  int
	Elements int
	Skipped  int
	Counters normalize.Counters
}

// OutputPath returns where the records of input are written
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = model.DefaultConfig().OSM.Suffix
	}
	return input + suffix
}

// ProcessOSMFile reshapes one extract into its line-oriented output file.
// Each call owns its normalizer, so concurrent calls never share counters.
// The output is closed even when the run fails, so every record produced
// before the failure reaches the file.
func ProcessOSMFile(ctx context.Context, input string, opts OSMOptions) (*OSMResult, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	output := OutputPath(input, opts.Suffix)
	lines, err := store.CreateLineSink(output, opts.Pretty)
	if err != nil {
		return nil, err
	}

	var sink store.Sink = lines
	if opts.Extra != nil {
		sink = store.MultiSink{lines, nopCloser{opts.Extra}}
	}

	norm := normalize.NewDefault()
	result, err := ProcessOSM(ctx, f, osm.NewShaper(norm), sink)
	closeErr := sink.Close()
	if result != nil {
		result.Input = input
		result.Output = output
	}
	if err != nil {
		return result, err
	}
	if closeErr != nil {
		return result, fmt.Errorf("close output: %w", closeErr)
	}
	return result, nil
}

// ProcessOSM streams r through shaper and hands every record to sink in
// document order as soon as it is produced. Sinks may buffer; a record is
// only durable once the sink is closed. A malformed document aborts the run
// and records already handed to sink stay there.
func ProcessOSM(ctx context.Context, r io.Reader, shaper *osm.Shaper, sink store.Sink) (*OSMResult, error) {
	walker, err := osm.NewWalker(r, shaper)
	if err != nil {
		return nil, err
	}

	result := &OSMResult{}
	defer func() {
		result.Elements = walker.Elements()
		result.Skipped = walker.Skipped()
		result.Counters = shaper.Normalizer().Counters()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := walker.Next()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return result, err
		}

		if err := sink.Put(ctx, rec); err != nil {
			return result, fmt.Errorf("store record: %w", err)
		}
		result.Records++
	}
}

// nopCloser keeps a shared sink open when a per-file sink set is closed
type nopCloser struct {
	store.Sink
}

func (nopCloser) Close() error { return nil }
