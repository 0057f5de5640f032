package simulate

import (
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultPlayers     = 8
	DefaultContestants = 12
	DefaultWeeks       = 10
	DefaultWorkers     = 4
	DefaultTimeout     = 10 * time.Second

	rosterSize = 3
)

// Config holds configuration for a simulated season.
type Config struct {
	BaseURL     string        // Base URL of the service
	Players     int           // Number of fantasy players to register
	Contestants int           // Number of contestants on the show
	Weeks       int           // Number of weeks to play
	Seed        uint64        // Seed for the season plan; equal seeds give equal plans
	Workers     int           // Number of concurrent score submitters
	Timeout     time.Duration // HTTP request timeout
	Reset       bool          // Empty the league before seeding it
	OutputFile  string        // Optional JSON dump of the plan
	Verbose     bool          // Log every request outcome
}

func (c *Config) withDefaults() {
	if c.Players <= 0 {
		c.Players = DefaultPlayers
	}
	if c.Contestants <= 0 {
		c.Contestants = DefaultContestants
	}
	if c.Weeks <= 0 {
		c.Weeks = DefaultWeeks
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("base url is required")
	case c.Contestants < rosterSize:
		return fmt.Errorf("need at least %d contestants, got %d", rosterSize, c.Contestants)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	ScoresPlanned  int
	ScoresAdmitted int
	ScoresReplayed int
	ScoresRejected int
	ScoresFailed   int
	Eliminations   int
	ProbesPassed   int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
