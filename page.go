package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fixtureSelector matches the table cells the results listing uses for fixture rows.
const fixtureSelector = ".data1"

// fetchListing retrieves a listing page and parses it.
func (s *Scraper) fetchListing(ctx context.Context, kind, pageURL string) (*goquery.Document, error) {
	body, err := s.get(ctx, kind, pageURL, acceptHTML)
	if err != nil {
		return nil, err
	}
	if kind == kindListing {
		s.saveDebugHTML(ctx, pageURL, body)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", pageURL, err)
	}
	return doc, nil
}

// ScrapePage returns one record per fixture row on the page, including
// sentinel records for rows that failed to parse. A page with no fixture
// rows yields an empty slice.
func (s *Scraper) ScrapePage(ctx context.Context, pageURL string) ([]MatchRecord, error) {
	doc, err := s.fetchListing(ctx, kindListing, pageURL)
	if err != nil {
		return nil, err
	}
	s.metrics.pagesScraped.Inc()

	rows := doc.Find(fixtureSelector)
	records := make([]MatchRecord, 0, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		rec := ParseFixture(row)
		if rec.Malformed() {
			s.metrics.fixturesMalformed.Inc()
			s.log.DebugContext(ctx, "malformed fixture", "url", pageURL, "row", i, "tokens", strings.Count(row.Text(), "\n")+1)
		}
		records = append(records, rec)
	})
	s.metrics.fixturesParsed.Add(float64(len(records)))
	return records, nil
}
