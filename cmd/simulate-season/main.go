package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/bakeoff/internal/simulate"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players     = flag.Int("players", simulate.DefaultPlayers, "Number of fantasy players")
		contestants = flag.Int("contestants", simulate.DefaultContestants, "Number of contestants")
		weeks       = flag.Int("weeks", simulate.DefaultWeeks, "Number of weeks to play")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Plan seed")
		workers     = flag.Int("workers", simulate.DefaultWorkers, "Number of concurrent score submitters")
		timeout     = flag.Duration("timeout", simulate.DefaultTimeout, "HTTP request timeout")
		reset       = flag.Bool("reset", false, "Empty the league before seeding it")
		outputFile  = flag.String("output", "", "Write the season plan as JSON to this file")
		logFile     = flag.String("log", "", "Also write logs to this file")
		verbose     = flag.Bool("verbose", false, "Log every submission")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	closeLog, err := simulate.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:     *baseURL,
		Players:     *players,
		Contestants: *contestants,
		Weeks:       *weeks,
		Seed:        *seed,
		Workers:     *workers,
		Timeout:     *timeout,
		Reset:       *reset,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}
	if _, err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called above
	}
}
