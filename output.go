package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

var matchesHeader = []string{"home_team", "away_team", "home_points", "away_points", "date"}

// writeMatchesCSV writes one row per match, no index column.
func writeMatchesCSV(w io.Writer, matches []MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchesHeader); err != nil {
		return err
	}
	for _, m := range matches {
		row := []string{
			m.HomeTeam,
			m.AwayTeam,
			strconv.Itoa(m.HomePoints),
			strconv.Itoa(m.AwayPoints),
			m.Date.Format(time.DateOnly),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeRankingsCSV writes the date index as the first column (with a blank
// header) and one column per team. Missing ranks are left empty.
func writeRankingsCSV(w io.Writer, t *RankingsTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{""}, t.Teams...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, r := range t.Rows {
		row := make([]string, 0, len(header))
		row = append(row, r.Date.Format(time.DateOnly))
		for _, team := range t.Teams {
			if rank, ok := t.Rank(i, team); ok {
				row = append(row, strconv.Itoa(rank))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeFile creates path and hands it to write, closing it either way.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// runStats are the row counts shown after a batch run.
type runStats struct {
	Fixtures  int
	Malformed int
	Matches   int
	Dates     int
	Teams     int
}

func printSummary(w io.Writer, st runStats) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Stage", "Rows"})
	t.AppendRows([]table.Row{
		{"fixtures scraped", st.Fixtures},
		{"malformed dropped", st.Malformed},
		{"matches written", st.Matches},
		{"ranking dates", st.Dates},
		{"ranked teams", st.Teams},
	})
	t.Render()
}
