package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Validation errors
var (
	ErrEmptySuffix       = errors.New("osm.suffix must not be empty")
	ErrInvalidWorkers    = errors.New("concurrency.workers must be at least 1")
	ErrInvalidTimeout    = errors.New("http.timeout must be positive")
	ErrInvalidMaxBytes   = errors.New("http.max_body_bytes must be positive")
	ErrInvalidRate       = errors.New("http.requests_per_second must be non-negative")
	ErrInvalidTable      = errors.New("store.table must be a plain SQL identifier")
	ErrMissingOutputPath = errors.New("filings.output_path is required")
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Config holds every tunable of a wrangle run
type Config struct {
	OSM         OSMConfig         `yaml:"osm" mapstructure:"osm"`
	Filings     FilingsConfig     `yaml:"filings" mapstructure:"filings"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// OSMConfig controls the map-data reshaping run
type OSMConfig struct {
	Suffix string `yaml:"suffix" mapstructure:"suffix"` // Appended to the input file name
	Pretty bool   `yaml:"pretty" mapstructure:"pretty"` // Indent each JSON document
	Report bool   `yaml:"report" mapstructure:"report"` // Print the rewrite counters at the end
}

// FilingsConfig controls the N-Q holdings run
type FilingsConfig struct {
	CompaniesPath    string `yaml:"companies_path" mapstructure:"companies_path"`       // Exchange company list CSV
	CIKsPath         string `yaml:"ciks_path" mapstructure:"ciks_path"`                 // CIK -> fund name CSV
	Pattern          string `yaml:"pattern" mapstructure:"pattern"`                     // Glob for filings inside a directory
	OutputPath       string `yaml:"output_path" mapstructure:"output_path"`             // Final enriched CSV
	IntermediatePath string `yaml:"intermediate_path" mapstructure:"intermediate_path"` // CSV written before fuzzy matching
}

// HTTPConfig is used when filings are fetched from remote URLs
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS       bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// CacheConfig controls memoization of fuzzy company matches
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig points at an optional PostgreSQL sink
type StoreConfig struct {
	DSN   string `yaml:"dsn,omitempty" mapstructure:"dsn"`
	Table string `yaml:"table" mapstructure:"table"`
}

// ConcurrencyConfig sets how many files are processed at once
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig sets the structured log level
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		OSM: OSMConfig{
			Suffix: ".json",
		},
		Filings: FilingsConfig{
			CompaniesPath:    "companylist.csv",
			CIKsPath:         "CIKs.csv",
			Pattern:          "*.txt",
			OutputPath:       "output.csv",
			IntermediatePath: "df_master_intermediate.csv",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "wrangle/0.1 (+https://github.com/ppiankov/wrangle)",
			MaxBodyBytes:      20_000_000,
			RequestsPerSecond: 5,
			BurstSize:         5,
			RespectRobots:     true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".wrangle-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Table: "osm_records",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the values a run cannot proceed without
func (c *Config) Validate() error {
	if c.OSM.Suffix == "" {
		return ErrEmptySuffix
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Concurrency.Workers)
	}
	if c.HTTP.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return ErrInvalidMaxBytes
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if !tableName.MatchString(c.Store.Table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, c.Store.Table)
	}
	if c.Filings.OutputPath == "" {
		return ErrMissingOutputPath
	}
	return nil
}
