package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "RUGBY_"
	envConfigFile = "RUGBY_CONFIG"

	defaultResultsURL = "http://stats.espnscrum.com/statsguru/rugby/" +
		"stats/index.html?class=1;spanmin1=1+Jan+2013;" +
		"spanval1=span;template=results;type=team;view=results"
	defaultSiteHost   = "http://stats.espnscrum.com"
	defaultRankingURL = "https://cmsapi.pulselive.com/rugby/rankings/mru"
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
)

// Config holds everything a run needs. With no overrides a run scrapes the
// 2013 results listing and writes both CSV files to the working directory.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the listen address for serve mode.
	Addr string `koanf:"addr"`

	// ResultsURL is the first results listing page.
	ResultsURL string `koanf:"results_url"`

	// SiteHost is prefixed to the relative pagination links.
	SiteHost string `koanf:"site_host"`

	RankingURL    string `koanf:"ranking_url"`
	RankingClient string `koanf:"ranking_client"`

	MatchesOut  string `koanf:"matches_out"`
	RankingsOut string `koanf:"rankings_out"`

	// RequestTimeout bounds each upstream request. Zero means no timeout.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// RankingWorkers is the number of ranking requests kept in flight.
	RankingWorkers int `koanf:"ranking_workers"`

	// MaxPages stops pagination after this many listing pages. Zero means unlimited.
	MaxPages int `koanf:"max_pages"`

	UserAgent string `koanf:"user_agent"`

	// DebugHTMLDir, when set, receives a copy of every listing page fetched.
	DebugHTMLDir string `koanf:"debug_html_dir"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		ResultsURL:     defaultResultsURL,
		SiteHost:       defaultSiteHost,
		RankingURL:     defaultRankingURL,
		RankingClient:  "pulse",
		MatchesOut:     "rugby_data.csv",
		RankingsOut:    "rankings_data.csv",
		RankingWorkers: 1,
		UserAgent:      defaultUserAgent,
	}
}

// loadConfig layers, lowest precedence first: defaults, the YAML file named
// by RUGBY_CONFIG, then RUGBY_* environment variables.
func loadConfig() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// RUGBY_RANKING_WORKERS -> ranking_workers
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := defaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.ResultsURL) == "" {
		return fmt.Errorf("%w: results_url must not be empty", ErrInvalidConfig)
	}
	if u, err := url.Parse(c.SiteHost); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: site_host %q is not an absolute URL", ErrInvalidConfig, c.SiteHost)
	}
	if u, err := url.Parse(c.RankingURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: ranking_url %q is not an absolute URL", ErrInvalidConfig, c.RankingURL)
	}
	if c.MatchesOut == "" || c.RankingsOut == "" {
		return fmt.Errorf("%w: output paths must not be empty", ErrInvalidConfig)
	}
	if c.RankingWorkers < 1 {
		return fmt.Errorf("%w: ranking_workers must be at least 1, got %d", ErrInvalidConfig, c.RankingWorkers)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("%w: max_pages must not be negative", ErrInvalidConfig)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalidConfig)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
