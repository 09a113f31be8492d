package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// runScrape is the batch workflow. The match file is written before the
// ranking phase starts, so a ranking failure leaves it on disk.
func runScrape(ctx context.Context, cfg *Config, log *slog.Logger, reg prometheus.Registerer, out io.Writer) error {
	s, err := NewScraper(cfg, log, reg)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "scraping results", "url", cfg.ResultsURL)
	raw, err := s.ScrapeAllPages(ctx, cfg.ResultsURL)
	if err != nil {
		return err
	}
	filtered := DropMalformed(raw)
	matches := EveryOther(filtered)

	if err := writeFile(cfg.MatchesOut, func(w io.Writer) error {
		return writeMatchesCSV(w, matches)
	}); err != nil {
		return err
	}
	log.InfoContext(ctx, "wrote matches", "file", cfg.MatchesOut, "rows", len(matches))

	dates := DistinctDates(filtered)
	log.InfoContext(ctx, "fetching rankings", "dates", len(dates), "workers", cfg.RankingWorkers)
	rankings, err := s.BuildRankingsTable(ctx, dates)
	if err != nil {
		return err
	}
	if err := writeFile(cfg.RankingsOut, func(w io.Writer) error {
		return writeRankingsCSV(w, rankings)
	}); err != nil {
		return err
	}
	log.InfoContext(ctx, "wrote rankings", "file", cfg.RankingsOut, "dates", len(rankings.Rows), "teams", len(rankings.Teams))

	printSummary(out, runStats{
		Fixtures:  len(raw),
		Malformed: len(raw) - len(filtered),
		Matches:   len(matches),
		Dates:     len(rankings.Rows),
		Teams:     len(rankings.Teams),
	})
	return nil
}
