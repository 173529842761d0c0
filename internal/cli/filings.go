package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/ppiankov/wrangle/internal/cache"
	"github.com/ppiankov/wrangle/internal/filings"
	"github.com/ppiankov/wrangle/internal/model"
	"github.com/ppiankov/wrangle/internal/pipeline"
	"github.com/ppiankov/wrangle/internal/reference"
	"github.com/ppiankov/wrangle/internal/util"
	"github.com/ppiankov/wrangle/internal/worker"
	"github.com/spf13/cobra"
)

var (
	companiesPath   string
	ciksPath        string
	filingsOut      string
	intermediateOut string
	filingsPattern  string
	filingsWorkers  int
	cacheDir        string
	noCache         bool
	userAgent       string
	insecureTLS     bool
	ignoreRobots    bool
	requestsPerSec  float64
)

// filingsCmd represents the filings command
var filingsCmd = &cobra.Command{
	Use:   "filings <dir|list-file>",
	Short: "Extract stock holdings from N-Q filings",
	Long: `Filings reads every filing in a directory (or every path/URL listed in
a file, one per line) and pulls the (company, shares) rows out of its
tables. Filing names follow CIK_FORM_YYYY-MM-DD.txt; remote entries may be
written as "URL NAME" to supply that name.

Holdings are written to the intermediate CSV, then fuzzy-matched against
the company list and written with symbol, sector, industry and market cap.
A filing that cannot be parsed is logged and skipped.

Example:
  wrangle filings filings_sample/ --companies companylist.csv --ciks CIKs.csv
  wrangle filings urls.txt --concurrency 4 --out holdings.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runFilings,
}

func init() {
	rootCmd.AddCommand(filingsCmd)

	filingsCmd.Flags().StringVar(&companiesPath, "companies", "companylist.csv", "listed-company CSV")
	filingsCmd.Flags().StringVar(&ciksPath, "ciks", "CIKs.csv", "CIK to fund name CSV")
	filingsCmd.Flags().StringVar(&filingsOut, "out", "output.csv", "enriched output CSV")
	filingsCmd.Flags().StringVar(&intermediateOut, "intermediate", "df_master_intermediate.csv", "CSV written before matching")
	filingsCmd.Flags().StringVar(&filingsPattern, "pattern", "*.txt", "filing glob inside a directory")
	filingsCmd.Flags().IntVar(&filingsWorkers, "concurrency", 1, "number of filings processed at once")
	filingsCmd.Flags().StringVar(&cacheDir, "cache-dir", ".wrangle-cache", "cache directory for matches and remote filings")
	filingsCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache")
	filingsCmd.Flags().StringVar(&userAgent, "ua", "wrangle/0.1 (+https://github.com/ppiankov/wrangle)", "HTTP User-Agent for remote filings")
	filingsCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification")
	filingsCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "do not consult robots.txt")
	filingsCmd.Flags().Float64Var(&requestsPerSec, "rps", 5, "requests per second per host")
}

func applyFilingsFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("companies", func() { cfg.Filings.CompaniesPath = companiesPath })
	set("ciks", func() { cfg.Filings.CIKsPath = ciksPath })
	set("out", func() { cfg.Filings.OutputPath = filingsOut })
	set("intermediate", func() { cfg.Filings.IntermediatePath = intermediateOut })
	set("pattern", func() { cfg.Filings.Pattern = filingsPattern })
	set("concurrency", func() { cfg.Concurrency.Workers = filingsWorkers })
	set("cache-dir", func() { cfg.Cache.Dir = cacheDir })
	set("no-cache", func() { cfg.Cache.Enabled = !noCache })
	set("ua", func() { cfg.HTTP.UserAgent = userAgent })
	set("insecure", func() { cfg.HTTP.InsecureTLS = insecureTLS })
	set("ignore-robots", func() { cfg.HTTP.RespectRobots = !ignoreRobots })
	set("rps", func() { cfg.HTTP.RequestsPerSecond = requestsPerSec })
}

func runFilings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFilingsFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Wrangle N-Q Holdings\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", args[0])
	fmt.Fprintf(os.Stderr, "  Companies:    %s\n", cfg.Filings.CompaniesPath)
	fmt.Fprintf(os.Stderr, "  CIKs:         %s\n", cfg.Filings.CIKsPath)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "\n")

	stats, err := extractHoldings(ctx, cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Filings Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Filings:      %d\n", stats.Filings)
	fmt.Fprintf(os.Stderr, "  Failures:     %d\n", stats.Failed)
	fmt.Fprintf(os.Stderr, "  Holdings:     %d\n", stats.Holdings)
	fmt.Fprintf(os.Stderr, "  Matched:      %d\n", stats.Matched)
	fmt.Fprintf(os.Stderr, "  Output:       %s\n", cfg.Filings.OutputPath)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

type filingStats struct {
	Filings  int
	Failed   int
	Holdings int
	Matched  int
}

// extractHoldings runs every filing, writes the intermediate CSV, then
// enriches and writes the final CSV. Per-filing failures are logged and
// skipped; only setup and output errors abort.
func extractHoldings(ctx context.Context, cfg *model.Config, input string) (*filingStats, error) {
	dir, err := reference.LoadCompanies(cfg.Filings.CompaniesPath)
	if err != nil {
		return nil, err
	}
	funds, err := reference.LoadCIKs(cfg.Filings.CIKsPath)
	if err != nil {
		return nil, err
	}
	log.Debug("reference loaded", "companies", dir.Len(), "funds", len(funds))

	sources, err := collectSources(input, cfg.Filings.Pattern)
	if err != nil {
		return nil, err
	}

	memo := newCache(cfg)
	matcher := reference.NewMatcher(dir, memo)
	processor := filings.NewProcessor(dir, funds, matcher, newFetcher(cfg), memo)

	batch := worker.NewBatchProcessor[[]model.Holding](processor, cfg.Concurrency.Workers)

	stats := &filingStats{Filings: len(sources)}
	var holdings []model.Holding
	for i, res := range batch.ProcessSources(ctx, sources) {
		if res.Error != nil {
			stats.Failed++
			log.Warn("failed attempt", "n", i+1, "source", res.Source, "error", res.Error)
			continue
		}
		log.Info("parsed", "n", i+1, "source", res.Source, "holdings", len(res.Value))
		holdings = append(holdings, res.Value...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats.Holdings = len(holdings)

	if cfg.Filings.IntermediatePath != "" {
		if err := filings.WriteCSVFile(cfg.Filings.IntermediatePath, holdings, false); err != nil {
			return nil, err
		}
		log.Info("intermediate results written", "path", cfg.Filings.IntermediatePath)
	}

	enriched := processor.Enrich(holdings)
	for _, h := range enriched {
		if h.MatchedName != "" {
			stats.Matched++
		}
	}
	if err := filings.WriteCSVFile(cfg.Filings.OutputPath, enriched, true); err != nil {
		return nil, err
	}

	calls, hits := matcher.Stats()
	log.Debug("fuzzy matching done", "lookups", calls, "memo_hits", hits)
	return stats, nil
}

// collectSources lists the filings of a directory matching pattern, or
// reads a list file with one path or URL per line
func collectSources(input, pattern string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if !info.IsDir() {
		return worker.ReadSourcesFromFile(input)
	}

	matches, err := filepath.Glob(filepath.Join(input, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func newCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.Nop{}
	}
	return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
}

func newFetcher(cfg *model.Config) *pipeline.Fetcher {
	h := cfg.HTTP
	fetcher := pipeline.NewFetcher(h.Timeout, h.UserAgent, h.MaxBodyBytes, h.InsecureTLS, h.HTTPProxy, h.HTTPSProxy, h.NoProxy).
		WithLimiter(worker.NewLimiter(h.RequestsPerSecond, h.BurstSize))
	if h.RespectRobots {
		proxy := util.NewProxyFunc(h.HTTPProxy, h.HTTPSProxy, h.NoProxy)
		fetcher = fetcher.WithRobots(util.NewRobotsChecker(h.UserAgent, h.Timeout, proxy))
	}
	return fetcher
}
