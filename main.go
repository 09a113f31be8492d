// Command rugby-scraper collects men's international rugby results from
// 1 January 2013 onwards, along with the world ranking of every team on each
// match date, and writes them to rugby_data.csv and rankings_data.csv.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rugby-scraper",
	Short:         "Scrape international rugby results and world rankings",
	Long:          "Walks the statsguru results listing, writes one row per match to rugby_data.csv, then looks up the world rankings for every match date and writes rankings_data.csv.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}
		log = log.With("run_id", uuid.NewString())
		return runScrape(cmd.Context(), cfg, log, prometheus.NewRegistry(), cmd.OutOrStdout())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve results and rankings over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(os.Stderr, cfg.LogLevel)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
