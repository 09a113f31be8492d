package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// rankingFeed is the part of the ranking response we read. Entries come
// back best-ranked first.
type rankingFeed struct {
	Entries []struct {
		Team struct {
			Name string `json:"name"`
		} `json:"team"`
	} `json:"entries"`
}

// RankEntry is one team's position on one date.
type RankEntry struct {
	Team string    `json:"team"`
	Date time.Time `json:"date"`
	Rank int       `json:"rank"`
}

// rankingURL builds the feed query for a single day.
func (s *Scraper) rankingURL(date time.Time) (string, error) {
	u, err := url.Parse(s.cfg.RankingURL)
	if err != nil {
		return "", fmt.Errorf("parse ranking_url: %w", err)
	}
	q := u.Query()
	q.Set("date", date.Format(time.DateOnly))
	q.Set("client", s.cfg.RankingClient)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchRankings maps each team in the feed to its 1-based position on date.
// A date with no entries gives an empty map.
func (s *Scraper) FetchRankings(ctx context.Context, date time.Time) (map[string]int, error) {
	entries, err := s.FetchRankEntries(ctx, date)
	if err != nil {
		return nil, err
	}
	ranks := make(map[string]int, len(entries))
	for _, e := range entries {
		ranks[e.Team] = e.Rank
	}
	return ranks, nil
}

// FetchRankEntries returns the feed for date in rank order.
func (s *Scraper) FetchRankEntries(ctx context.Context, date time.Time) ([]RankEntry, error) {
	feedURL, err := s.rankingURL(date)
	if err != nil {
		return nil, err
	}
	body, err := s.get(ctx, kindRanking, feedURL, acceptJSON)
	if err != nil {
		return nil, err
	}
	s.metrics.rankingDates.Inc()

	var feed rankingFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeRankings, feedURL, err)
	}
	entries := make([]RankEntry, 0, len(feed.Entries))
	for i, e := range feed.Entries {
		entries = append(entries, RankEntry{Team: e.Team.Name, Date: date, Rank: i + 1})
	}
	return entries, nil
}

// RankingsRow is one date of the rankings table.
type RankingsRow struct {
	Date  time.Time
	Ranks map[string]int
}

// RankingsTable has a row per queried date and a column per team seen on
// any of them. Teams missing from a date have no cell.
type RankingsTable struct {
	Teams []string
	Rows  []RankingsRow
}

// Rank looks up a team's position on row i.
func (t *RankingsTable) Rank(i int, team string) (int, bool) {
	r, ok := t.Rows[i].Ranks[team]
	return r, ok
}

// BuildRankingsTable queries the feed once per date. Up to
// Config.RankingWorkers requests run at a time; the table does not depend
// on the order they finish in.
func (s *Scraper) BuildRankingsTable(ctx context.Context, dates []time.Time) (*RankingsTable, error) {
	perDate := make([]map[string]int, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.RankingWorkers)
	for i, d := range dates {
		g.Go(func() error {
			ranks, err := s.FetchRankings(gctx, d)
			if err != nil {
				return err
			}
			s.log.DebugContext(gctx, "fetched rankings", "date", d.Format(time.DateOnly), "teams", len(ranks))
			perDate[i] = ranks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newRankingsTable(dates, perDate), nil
}

func newRankingsTable(dates []time.Time, perDate []map[string]int) *RankingsTable {
	seen := make(map[string]struct{})
	t := &RankingsTable{Rows: make([]RankingsRow, len(dates))}
	for i, d := range dates {
		t.Rows[i] = RankingsRow{Date: d, Ranks: perDate[i]}
		for team := range perDate[i] {
			if _, ok := seen[team]; !ok {
				seen[team] = struct{}{}
				t.Teams = append(t.Teams, team)
			}
		}
	}
	sort.Strings(t.Teams)
	return t
}
