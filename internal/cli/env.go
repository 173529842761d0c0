package cli

import (
	"strings"

	"github.com/ppiankov/wrangle/internal/model"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// registerDefaults makes every config key known to v so AutomaticEnv
// overrides reach Unmarshal even when no config file sets them.
func registerDefaults(v *viper.Viper, cfg *model.Config) {
	defaults := map[string]any{
		"osm.suffix":                cfg.OSM.Suffix,
		"osm.pretty":                cfg.OSM.Pretty,
		"osm.report":                cfg.OSM.Report,
		"filings.companies_path":    cfg.Filings.CompaniesPath,
		"filings.ciks_path":         cfg.Filings.CIKsPath,
		"filings.pattern":           cfg.Filings.Pattern,
		"filings.output_path":       cfg.Filings.OutputPath,
		"filings.intermediate_path": cfg.Filings.IntermediatePath,
		"http.timeout":              cfg.HTTP.Timeout,
		"http.user_agent":           cfg.HTTP.UserAgent,
		"http.max_body_bytes":       cfg.HTTP.MaxBodyBytes,
		"http.insecure_tls":         cfg.HTTP.InsecureTLS,
		"http.http_proxy":           cfg.HTTP.HTTPProxy,
		"http.https_proxy":          cfg.HTTP.HTTPSProxy,
		"http.no_proxy":             cfg.HTTP.NoProxy,
		"http.requests_per_second":  cfg.HTTP.RequestsPerSecond,
		"http.burst_size":           cfg.HTTP.BurstSize,
		"http.respect_robots":       cfg.HTTP.RespectRobots,
		"cache.enabled":             cfg.Cache.Enabled,
		"cache.dir":                 cfg.Cache.Dir,
		"cache.memory_ttl":          cfg.Cache.MemoryTTL,
		"cache.disk_ttl":            cfg.Cache.DiskTTL,
		"store.dsn":                 cfg.Store.DSN,
		"store.table":               cfg.Store.Table,
		"concurrency.workers":       cfg.Concurrency.Workers,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if !v.IsSet("logging.level") {
		v.SetDefault("logging.level", cfg.Logging.Level)
	}
}
