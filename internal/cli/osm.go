package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/wrangle/internal/model"
	"github.com/ppiankov/wrangle/internal/normalize"
	"github.com/ppiankov/wrangle/internal/pipeline"
	"github.com/ppiankov/wrangle/internal/report"
	"github.com/ppiankov/wrangle/internal/store"
	"github.com/ppiankov/wrangle/internal/worker"
	"github.com/spf13/cobra"
)

var (
	osmPretty      bool
	osmSuffix      string
	osmDSN         string
	osmTable       string
	osmReport      bool
	osmConcurrency int
)

// osmCmd represents the osm command
var osmCmd = &cobra.Command{
	Use:   "osm <file.osm>...",
	Short: "Reshape OpenStreetMap XML extracts into JSON documents",
	Long: `Osm streams each extract and writes one JSON document per node or way
to <file><suffix>. Each document is followed by ",\n".

Street names have their trailing suffix expanded (St. -> Street), venue
names are corrected, and addr:* tags are folded into an address object.
Tags whose keys contain problem characters are dropped.

Example:
  wrangle osm chicago.osm
  wrangle osm a.osm b.osm --concurrency 2 --report
  wrangle osm chicago.osm --dsn postgres://localhost/osm?sslmode=disable`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOSM,
}

func init() {
	rootCmd.AddCommand(osmCmd)

	osmCmd.Flags().BoolVar(&osmPretty, "pretty", false, "indent each JSON document")
	osmCmd.Flags().StringVar(&osmSuffix, "suffix", ".json", "output file suffix")
	osmCmd.Flags().StringVar(&osmDSN, "dsn", "", "also insert records into PostgreSQL")
	osmCmd.Flags().StringVar(&osmTable, "table", "osm_records", "PostgreSQL table")
	osmCmd.Flags().BoolVar(&osmReport, "report", false, "print rewrite counters when done")
	osmCmd.Flags().IntVar(&osmConcurrency, "concurrency", 1, "number of files processed at once")
}

func runOSM(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyOSMFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := reshapeFiles(ctx, cfg, args)
	if summary != nil && (cfg.OSM.Report || verbose) {
		out := cmd.OutOrStdout()
		if rerr := report.RenderFiles(out, summary.Files); rerr != nil {
			return rerr
		}
		fmt.Fprintln(out)
		if rerr := report.RenderCounters(out, summary.Counters, 20); rerr != nil {
			return rerr
		}
	}
	return err
}

func applyOSMFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("pretty") {
		cfg.OSM.Pretty = osmPretty
	}
	if flags.Changed("suffix") {
		cfg.OSM.Suffix = osmSuffix
	}
	if flags.Changed("report") {
		cfg.OSM.Report = osmReport
	}
	if flags.Changed("dsn") {
		cfg.Store.DSN = osmDSN
	}
	if flags.Changed("table") {
		cfg.Store.Table = osmTable
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency.Workers = osmConcurrency
	}
}

// osmSummary aggregates a multi-file run
type osmSummary struct {
	Files    []report.FileSummary
	Counters normalize.Counters
	Failed   int
}

// reshapeFiles shards inputs over the worker pool. Every file has its own
// normalizer; counters are summed once all files finish.
func reshapeFiles(ctx context.Context, cfg *model.Config, inputs []string) (*osmSummary, error) {
	var extra store.Sink
	if cfg.Store.DSN != "" {
		pg, err := store.NewPostgresSink(ctx, cfg.Store.DSN, cfg.Store.Table)
		if err != nil {
			return nil, err
		}
		defer func() { _ = pg.Close() }()
		extra = pg
	}

	opts := pipeline.OSMOptions{
		Suffix: cfg.OSM.Suffix,
		Pretty: cfg.OSM.Pretty,
		Extra:  extra,
	}

	batch := worker.NewBatchProcessor[*pipeline.OSMResult](worker.ProcessorFunc[*pipeline.OSMResult](
		func(ctx context.Context, input string) (*pipeline.OSMResult, error) {
			log.Debug("reshaping", "input", input)
			return pipeline.ProcessOSMFile(ctx, input, opts)
		}), cfg.Concurrency.Workers)

	summary := &osmSummary{Counters: normalize.NewCounters()}
	for _, res := range batch.ProcessSources(ctx, inputs) {
		fs := report.FileSummary{Input: res.Source, Output: pipeline.OutputPath(res.Source, cfg.OSM.Suffix), Err: res.Error}
		if r := res.Value; r != nil {
			fs.Records, fs.Elements, fs.Skipped = r.Records, r.Elements, r.Skipped
			summary.Counters.Merge(r.Counters)
		}
		summary.Files = append(summary.Files, fs)

		if res.Error != nil {
			summary.Failed++
			log.Error("reshape failed", "input", res.Source, "records_written", fs.Records, "error", res.Error)
			continue
		}
		log.Info("reshaped", "input", res.Source, "output", fs.Output, "records", fs.Records, "skipped", fs.Skipped)
	}

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d files failed", summary.Failed, len(inputs))
	}
	return summary, nil
}
