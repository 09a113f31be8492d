package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type api struct {
	scraper    *Scraper
	resultsURL string
	log        *slog.Logger
}

func newRouter(s *Scraper, resultsURL string, log *slog.Logger, gatherer prometheus.Gatherer) *mux.Router {
	a := &api{scraper: s, resultsURL: resultsURL, log: log}
	r := mux.NewRouter()
	r.HandleFunc("/results", a.getResults).Methods("GET")
	r.HandleFunc("/results.csv", a.getResultsCSV).Methods("GET")
	r.HandleFunc("/rankings/{date}", a.getRankings).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/", docsHandler)
	return r
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, cfg *Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	s, err := NewScraper(cfg, log, reg)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(s, cfg.ResultsURL, log, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "server running", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// scrapeMatches runs the full listing walk and the post-filter for one request.
func (a *api) scrapeMatches(ctx context.Context) ([]MatchRecord, error) {
	raw, err := a.scraper.ScrapeAllPages(ctx, a.resultsURL)
	if err != nil {
		return nil, err
	}
	return EveryOther(DropMalformed(raw)), nil
}

func (a *api) getResults(w http.ResponseWriter, r *http.Request) {
	matches, err := a.scrapeMatches(r.Context())
	if err != nil {
		a.upstreamError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"count":   len(matches),
		"results": matches,
	})
}

func (a *api) getResultsCSV(w http.ResponseWriter, r *http.Request) {
	matches, err := a.scrapeMatches(r.Context())
	if err != nil {
		a.upstreamError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := writeMatchesCSV(w, matches); err != nil {
		a.log.ErrorContext(r.Context(), "writing csv response", "err", err)
	}
}

func (a *api) getRankings(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid date %q, use YYYY-MM-DD", raw), http.StatusBadRequest)
		return
	}
	entries, err := a.scraper.FetchRankEntries(r.Context(), date)
	if err != nil {
		a.upstreamError(w, r, err)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

	type rankRow struct {
		Team string `json:"team"`
		Rank int    `json:"rank"`
	}
	rows := make([]rankRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, rankRow{Team: e.Team, Rank: e.Rank})
	}
	writeJSON(w, map[string]any{
		"date":     date.Format(time.DateOnly),
		"count":    len(rows),
		"rankings": rows,
	})
}

func (a *api) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	a.log.ErrorContext(r.Context(), "upstream request failed", "path", r.URL.Path, "err", err)
	status := http.StatusBadGateway
	var fe *FetchError
	if !errors.As(err, &fe) && !errors.Is(err, ErrDecodeRankings) {
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// docsHandler serves a short HTML page listing the endpoints.
func docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Rugby Scraper API Docs</title>
  <style>
    :root { color-scheme: light dark; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; margin: 0; padding: 24px; line-height: 1.5; }
    code, pre { background: rgba(127,127,127,.15); padding: .2em .4em; border-radius: 4px; }
    pre { padding: 12px; overflow: auto; }
    .ep { margin: 18px 0; padding: 16px; border-left: 4px solid #4f46e5; background: rgba(79,70,229,.08); border-radius: 6px; }
    h1 { margin: 0 0 8px; font-size: 1.6rem; }
    h2 { margin: 22px 0 8px; font-size: 1.2rem; }
  </style>
  <link rel="icon" href="data:," />
  <meta name="robots" content="noindex" />
</head>
<body>
  <header>
    <h1>Rugby Scraper API</h1>
    <p>Status: <code>ok</code></p>
  </header>

  <section class="ep">
    <h2>Match Results</h2>
    <p><strong>GET</strong> <code>/results</code> or <code>/results.csv</code></p>
    <p>Scrapes every results listing page, drops unparseable rows and keeps one row per match.</p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "count": 1,
  "results": [
    {
      "home_team": "England",
      "away_team": "Scotland",
      "home_points": 38,
      "away_points": 18,
      "date": "2013-02-02T00:00:00Z"
    }
  ]
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>World Rankings</h2>
    <p><strong>GET</strong> <code>/rankings/{date}</code> with <code>{date}</code> as <code>YYYY-MM-DD</code></p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "date": "2013-02-02",
  "count": 2,
  "rankings": [
    { "team": "New Zealand", "rank": 1 },
    { "team": "South Africa", "rank": 2 }
  ]
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>Metrics</h2>
    <p><strong>GET</strong> <code>/metrics</code> (Prometheus text format)</p>
  </section>

  <footer>
    <p>Every request scrapes the upstream sites again, so results pages are slow.</p>
  </footer>
</body>
</html>`)
}
