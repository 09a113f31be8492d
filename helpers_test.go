package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	home, away string
	hp, ap     int
	date       string
}

// fixtureRow renders a results row the way the statsguru listing does,
// one cell per line.
func fixtureRow(f fixture) string {
	cells := []string{
		f.home,
		"won",
		fmt.Sprint(f.hp),
		fmt.Sprint(f.ap),
		fmt.Sprintf("%+d", f.hp-f.ap),
		"v " + f.away,
		"Twickenham",
		f.date,
		"Test # 1234",
	}
	var b strings.Builder
	b.WriteString(`<tr class="data1">` + "\n")
	for _, c := range cells {
		b.WriteString("<td>" + c + "</td>\n")
	}
	b.WriteString("</tr>\n")
	return b.String()
}

func pagerLink(href string, page int) string {
	return fmt.Sprintf(`<a href="%s" title="go to page %d">%d</a>`, href, page, page)
}

func listingPage(rows []string, links ...string) string {
	return "<html><body>\n" + strings.Join(links, " ") +
		"\n<table>\n<tbody>\n" + strings.Join(rows, "") + "</tbody>\n</table>\n" +
		strings.Join(links, " ") + "\n</body></html>"
}

// upstream fakes both the results site and the ranking feed.
type upstream struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[string]string // page query value -> HTML
	rankings map[string]string // date -> JSON body
	hits     map[string]int
	failFeed bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{
		pages:    map[string]string{},
		rankings: map[string]string{},
		hits:     map[string]int{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		u.mu.Lock()
		u.hits["page "+page]++
		body, ok := u.pages[page]
		u.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/rankings", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		u.mu.Lock()
		u.hits["rankings "+date]++
		body, ok := u.rankings[date]
		fail := u.failFeed
		u.mu.Unlock()
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if r.URL.Query().Get("client") != "pulse" {
			http.Error(w, "missing client", http.StatusBadRequest)
			return
		}
		if !ok {
			body = `{"entries":[]}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) hitCount(key string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[key]
}

func rankingJSON(teams ...string) string {
	entries := make([]string, len(teams))
	for i, team := range teams {
		entries[i] = fmt.Sprintf(`{"pos":%d,"pts":90.5,"team":{"id":%d,"name":%q,"abbreviation":"XXX"}}`, i+1, i+10, team)
	}
	return `{"label":"Mens Rugby Union","entries":[` + strings.Join(entries, ",") + `]}`
}

func (u *upstream) config(t *testing.T) *Config {
	t.Helper()
	cfg := defaultConfig()
	cfg.ResultsURL = u.URL + "/results?page=1"
	cfg.SiteHost = u.URL
	cfg.RankingURL = u.URL + "/rankings"
	dir := t.TempDir()
	cfg.MatchesOut = dir + "/rugby_data.csv"
	cfg.RankingsOut = dir + "/rankings_data.csv"
	require.NoError(t, cfg.validate())
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScraper(t *testing.T, cfg *Config) *Scraper {
	t.Helper()
	s, err := NewScraper(cfg, discardLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	return s
}
