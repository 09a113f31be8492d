package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "rugby"
	metricsSubsystem = "scraper"
)

// Request kinds used as the "kind" label on fetch metrics.
const (
	kindListing    = "listing"
	kindPagination = "pagination"
	kindRanking    = "ranking"
)

type scrapeMetrics struct {
	pagesScraped      prometheus.Counter
	fixturesParsed    prometheus.Counter
	fixturesMalformed prometheus.Counter
	rankingDates      prometheus.Counter
	fetchErrors       *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
}

func newScrapeMetrics(reg prometheus.Registerer) *scrapeMetrics {
	auto := promauto.With(reg)
	return &scrapeMetrics{
		pagesScraped: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "listing_pages_total",
			Help:      "Results listing pages scraped",
		}),
		fixturesParsed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fixtures_total",
			Help:      "Fixture rows found on listing pages",
		}),
		fixturesMalformed: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fixtures_malformed_total",
			Help:      "Fixture rows that could not be parsed",
		}),
		rankingDates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "ranking_dates_total",
			Help:      "Dates queried against the ranking feed",
		}),
		fetchErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fetch_errors_total",
			Help:      "Failed upstream requests by kind",
		}, []string{"kind"}),
		fetchDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream request latency by kind",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}
