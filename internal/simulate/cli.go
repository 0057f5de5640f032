package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/bakeoff/pkg/logger"
)

// SetupLogging initializes the global logger on stdout and, when logFile is
// set, on that file as well. The returned close func releases the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	var (
		w       io.Writer = os.Stdout
		closeFn           = func() error { return nil }
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closeFn = file.Close
	}
	if err := logger.InitWithWriter(w, logger.FormatText); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closeFn, nil
}

// ShowHelp prints usage information for the season simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Bake Off League Season Simulator
================================

Plays a generated season against a running league service, probing the
admission rules along the way, and checks the leaderboards against the plan.

Usage:
  go run ./cmd/simulate-season [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of fantasy players (default 8)
  -contestants int
        Number of contestants (default 12)
  -weeks int
        Number of weeks to play (default 10)
  -seed uint
        Plan seed; equal seeds give equal seasons (default: current time)
  -workers int
        Number of concurrent score submitters (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -reset
        Empty the league before seeding it
  -output string
        Write the season plan as JSON to this file
  -log string
        Also write logs to this file
  -verbose
        Log every submission
  -help
        Show this help message

Examples:
  # Fresh season on a local service
  go run ./cmd/simulate-season -reset

  # Reproducible six week season
  go run ./cmd/simulate-season -reset -weeks 6 -seed 42 -output season.json
`)
}
