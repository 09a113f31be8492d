package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptJSON = "application/json"
)

// Scraper fetches listing pages and ranking snapshots. Requests are made one
// at a time unless Config.RankingWorkers allows parallel ranking lookups.
type Scraper struct {
	cfg      *Config
	http     *resty.Client
	log      *slog.Logger
	metrics  *scrapeMetrics
	siteHost *url.URL

	savedPages atomic.Int64
}

// NewScraper builds a Scraper from a validated Config and registers its
// metrics on reg.
func NewScraper(cfg *Config, log *slog.Logger, reg prometheus.Registerer) (*Scraper, error) {
	host, err := url.Parse(cfg.SiteHost)
	if err != nil {
		return nil, fmt.Errorf("%w: site_host: %v", ErrInvalidConfig, err)
	}

	client := resty.New()
	// Browser-like headers; the stats site serves a reduced page to unknown agents.
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept-Language", "en-GB,en;q=0.9")
	if cfg.RequestTimeout > 0 {
		client.SetTimeout(cfg.RequestTimeout)
	}

	return &Scraper{
		cfg:      cfg,
		http:     client,
		log:      log,
		metrics:  newScrapeMetrics(reg),
		siteHost: host,
	}, nil
}

// get retrieves rawURL and returns the body of a 200 response. Anything else
// is a *FetchError; there is no retry.
func (s *Scraper) get(ctx context.Context, kind, rawURL, accept string) ([]byte, error) {
	start := time.Now()
	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("Accept", accept).
		Get(rawURL)
	s.metrics.fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.fetchErrors.WithLabelValues(kind).Inc()
		return nil, &FetchError{URL: rawURL, Message: "request failed", Cause: err}
	}
	if res.StatusCode() != http.StatusOK {
		s.metrics.fetchErrors.WithLabelValues(kind).Inc()
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: res.StatusCode(),
			Message:    fmt.Sprintf("status %d", res.StatusCode()),
			Cause:      ErrUnexpectedStatus,
		}
	}
	return res.Body(), nil
}

// saveDebugHTML keeps a copy of a listing page when debug_html_dir is set.
// Failures are logged and never stop the run.
func (s *Scraper) saveDebugHTML(ctx context.Context, pageURL string, body []byte) {
	if s.cfg.DebugHTMLDir == "" {
		return
	}
	n := s.savedPages.Add(1)
	fname := filepath.Join(s.cfg.DebugHTMLDir, fmt.Sprintf("listing_%d.html", n))
	if err := os.MkdirAll(s.cfg.DebugHTMLDir, 0o755); err != nil {
		s.log.WarnContext(ctx, "failed creating debug HTML dir", "dir", s.cfg.DebugHTMLDir, "err", err)
		return
	}
	if err := os.WriteFile(fname, body, 0o644); err != nil {
		s.log.WarnContext(ctx, "failed writing debug HTML", "file", fname, "err", err)
		return
	}
	s.log.DebugContext(ctx, "saved debug HTML", "file", fname, "url", pageURL)
}
