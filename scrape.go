package main

import (
	"context"
	"time"
)

// ScrapeAllPages walks the results listing from initialURL until the pager
// runs out, returning every page's records in page order.
func (s *Scraper) ScrapeAllPages(ctx context.Context, initialURL string) ([]MatchRecord, error) {
	var all []MatchRecord
	pageURL := initialURL
	for page := 1; ; page++ {
		records, err := s.ScrapePage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		s.log.InfoContext(ctx, "scraped listing page", "page", page, "fixtures", len(records), "total", len(all))

		if s.cfg.MaxPages > 0 && page >= s.cfg.MaxPages {
			s.log.WarnContext(ctx, "stopping at max_pages", "max_pages", s.cfg.MaxPages)
			break
		}
		next, ok, err := s.NextPageURL(ctx, pageURL, page)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		pageURL = next
	}
	return all, nil
}

// DropMalformed removes parse-failure sentinels and keeps the rest in order.
func DropMalformed(records []MatchRecord) []MatchRecord {
	kept := make([]MatchRecord, 0, len(records))
	for _, r := range records {
		if !r.Malformed() {
			kept = append(kept, r)
		}
	}
	return kept
}

// EveryOther keeps rows 0, 2, 4, ... The listing shows each match twice in a
// row, once from either team's side, so this leaves one row per match. It
// depends on the duplicates being adjacent.
func EveryOther(records []MatchRecord) []MatchRecord {
	kept := make([]MatchRecord, 0, (len(records)+1)/2)
	for i := 0; i < len(records); i += 2 {
		kept = append(kept, records[i])
	}
	return kept
}

// DistinctDates returns each match date once, in first-seen order.
func DistinctDates(records []MatchRecord) []time.Time {
	seen := make(map[string]struct{}, len(records))
	var dates []time.Time
	for _, r := range records {
		key := r.Date.Format(time.DateOnly)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, r.Date)
	}
	return dates
}
