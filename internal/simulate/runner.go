// Package simulate plays a generated season against a running league API
// and checks the resulting leaderboards against the plan.
package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/bakeoff/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete simulated season.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}
	runID := uuid.NewString()

	log.Info(ctx, "starting season simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("runID", runID),
		logger.Int("players", cfg.Players),
		logger.Int("contestants", cfg.Contestants),
		logger.Int("weeks", cfg.Weeks),
		logger.Any("seed", cfg.Seed),
		logger.Int("workers", cfg.Workers))

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health and season length
	if err := checkService(ctx, c, cfg); err != nil {
		return stats, fmt.Errorf("service check failed: %w", err)
	}

	// Step 2: Optionally start from an empty league
	if cfg.Reset {
		if err := c.expect(ctx, http.StatusNoContent, http.MethodDelete, "/league", nil, nil); err != nil {
			return stats, fmt.Errorf("league reset failed: %w", err)
		}
		log.Info(ctx, "league reset")
	}

	// Step 3: Plan and seed the league
	plan := generatePlan(cfg)
	stats.ScoresPlanned = len(plan.Scores)
	ids, err := seedLeague(ctx, c, plan)
	if err != nil {
		return stats, fmt.Errorf("seeding failed: %w", err)
	}

	// Step 4: Play the season week by week
	for w := 1; w <= plan.Weeks; w++ {
		if err := playWeek(ctx, cfg, c, plan, ids, w, runID, stats); err != nil {
			return stats, fmt.Errorf("week %d: %w", w, err)
		}
	}

	// Step 5: Rebuild and verify
	if err := c.expect(ctx, http.StatusOK, http.MethodPost, "/season-totals/recalculate", nil, nil); err != nil {
		return stats, fmt.Errorf("recalculation failed: %w", err)
	}
	if err := verifyResults(ctx, c, plan, ids); err != nil {
		return stats, fmt.Errorf("verification failed: %w", err)
	}

	// Step 6: Save the plan
	if cfg.OutputFile != "" {
		if err := savePlan(cfg.OutputFile, plan); err != nil {
			log.Warn(ctx, "failed to save plan", logger.Error(err))
		} else {
			log.Info(ctx, "plan saved", logger.String("file", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func playWeek(ctx context.Context, cfg *Config, c *client, plan *Plan, ids *leagueIDs, w int, runID string, stats *Stats) error {
	week := plan.ScoresForWeek(w)
	subs := make([]submission, len(week))
	for i, s := range week {
		subs[i] = submission{key: fmt.Sprintf("%s/%d/%d", runID, w, i), score: s}
	}

	scoreIDs, err := submitScores(ctx, cfg, c, ids, subs, stats)
	if err != nil {
		return err
	}
	if err := probeDuplicateWinner(ctx, c, ids, week); err != nil {
		return err
	}
	stats.ProbesPassed++
	if len(subs) > 0 {
		if err := probeReplay(ctx, c, ids, subs[0], scoreIDs[0]); err != nil {
			return err
		}
		stats.ProbesPassed++
	}

	if err := eliminate(ctx, c, plan, ids, w, stats); err != nil {
		return err
	}
	if w < plan.Weeks {
		passed, err := probeEliminated(ctx, c, plan, ids, w)
		stats.ProbesPassed += passed
		if err != nil {
			return err
		}
	}
	return nil
}

// checkService verifies the service is up and its season covers cfg.Weeks.
func checkService(ctx context.Context, c *client, cfg *Config) error {
	// Any 200 from /healthz counts: it serves the Prometheus exposition.
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "/healthz", nil, nil); err != nil {
		return err
	}
	var stats map[string]any
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "/stats", nil, &stats); err != nil {
		return err
	}
	if weeks, ok := stats["seasonWeeks"].(float64); ok && int(weeks) < cfg.Weeks {
		return fmt.Errorf("service season has %d weeks, simulation needs %d", int(weeks), cfg.Weeks)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePlan writes plan as indented JSON to filename.
func savePlan(filename string, plan *Plan) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var scoresPerSecond float64
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresAdmitted) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("scoresPlanned", stats.ScoresPlanned),
		logger.Int("scoresAdmitted", stats.ScoresAdmitted),
		logger.Int("scoresReplayed", stats.ScoresReplayed),
		logger.Int("scoresRejected", stats.ScoresRejected),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("eliminations", stats.Eliminations),
		logger.Int("probesPassed", stats.ProbesPassed),
		logger.Duration("duration", stats.Duration),
		logger.Any("scoresPerSecond", scoresPerSecond))
}
