package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
)

// Token positions inside a fixture row's text once it is split on newlines.
// The listing markup puts one cell per line, so these move whenever the
// site adds or drops a column.
const (
	homeTeamToken   = 1
	homePointsToken = 3
	awayPointsToken = 4
	awayTeamFromEnd = 5 // counted back from the last token
	dateFromEnd     = 3

	// The opposition cell reads "v Scotland".
	awayTeamPrefixWidth = 2

	minFixtureTokens = awayTeamFromEnd
)

// Accepted match date layouts, tried before the loose parser.
var matchDateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
}

// malformedDate marks a fixture that could not be parsed.
var malformedDate = time.Date(1800, time.January, 1, 0, 0, 0, 0, time.UTC)

// MatchRecord is one fixture from the results listing.
type MatchRecord struct {
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	HomePoints int       `json:"home_points"`
	AwayPoints int       `json:"away_points"`
	Date       time.Time `json:"date"`
}

// Malformed reports whether the record is the parse-failure sentinel.
// An empty team name on either side is what marks it.
func (m MatchRecord) Malformed() bool {
	return m.HomeTeam == "" || m.AwayTeam == ""
}

func malformedFixture() MatchRecord {
	return MatchRecord{Date: malformedDate}
}

// ParseFixture extracts a MatchRecord from one fixture row. It never fails:
// rows that do not fit the expected layout come back as the sentinel record.
func ParseFixture(row *goquery.Selection) MatchRecord {
	return parseFixtureText(row.Text())
}

func parseFixtureText(text string) MatchRecord {
	tokens := strings.Split(text, "\n")
	if len(tokens) < minFixtureTokens {
		return malformedFixture()
	}

	homePoints, ok := parsePoints(tokens[homePointsToken])
	if !ok {
		return malformedFixture()
	}
	awayPoints, ok := parsePoints(tokens[awayPointsToken])
	if !ok {
		return malformedFixture()
	}

	away := []rune(strings.TrimRight(tokens[len(tokens)-awayTeamFromEnd], "\r"))
	if len(away) < awayTeamPrefixWidth {
		return malformedFixture()
	}

	date, err := parseMatchDate(tokens[len(tokens)-dateFromEnd])
	if err != nil {
		return malformedFixture()
	}

	rec := MatchRecord{
		HomeTeam:   strings.TrimSpace(tokens[homeTeamToken]),
		AwayTeam:   strings.TrimSpace(string(away[awayTeamPrefixWidth:])),
		HomePoints: homePoints,
		AwayPoints: awayPoints,
		Date:       date,
	}
	if rec.Malformed() {
		return malformedFixture()
	}
	return rec
}

func parsePoints(tok string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseMatchDate returns the day the match was played, at midnight UTC.
func parseMatchDate(tok string) (time.Time, error) {
	tok = strings.TrimSpace(tok)
	if !strings.ContainsAny(tok, "0123456789") {
		return time.Time{}, fmt.Errorf("no date in %q", tok)
	}
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, tok); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(tok, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
