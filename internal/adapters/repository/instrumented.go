package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/pkg/metrics"
)

// Instrumented wraps a Store and records latency per operation. Only storage
// failures count as errors; lookups of missing rows do not.
type Instrumented struct {
	next Store
}

var _ Store = (*Instrumented)(nil)

// Instrument decorates next with repository metrics.
func Instrument(next Store) *Instrumented {
	return &Instrumented{next: next}
}

func observe(op string, start time.Time, err error) {
	metrics.RecordRepositoryQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if errors.Is(err, errs.ErrStorage) {
		metrics.RecordRepositoryError(op)
	}
}

func (s *Instrumented) CreatePlayer(ctx context.Context, p *model.Player) error {
	start := time.Now()
	err := s.next.CreatePlayer(ctx, p)
	observe("create_player", start, err)
	return err
}

func (s *Instrumented) GetPlayer(ctx context.Context, id uint) (model.Player, error) {
	start := time.Now()
	out, err := s.next.GetPlayer(ctx, id)
	observe("get_player", start, err)
	return out, err
}

func (s *Instrumented) ListPlayers(ctx context.Context) ([]model.Player, error) {
	start := time.Now()
	out, err := s.next.ListPlayers(ctx)
	observe("list_players", start, err)
	return out, err
}

func (s *Instrumented) UpdatePlayer(ctx context.Context, p *model.Player) error {
	start := time.Now()
	err := s.next.UpdatePlayer(ctx, p)
	observe("update_player", start, err)
	return err
}

func (s *Instrumented) DeletePlayer(ctx context.Context, id uint) error {
	start := time.Now()
	err := s.next.DeletePlayer(ctx, id)
	observe("delete_player", start, err)
	return err
}

func (s *Instrumented) CreateContestant(ctx context.Context, c *model.Contestant) error {
	start := time.Now()
	err := s.next.CreateContestant(ctx, c)
	observe("create_contestant", start, err)
	return err
}

func (s *Instrumented) GetContestant(ctx context.Context, id uint) (model.Contestant, error) {
	start := time.Now()
	out, err := s.next.GetContestant(ctx, id)
	observe("get_contestant", start, err)
	return out, err
}

func (s *Instrumented) ListContestants(ctx context.Context) ([]model.Contestant, error) {
	start := time.Now()
	out, err := s.next.ListContestants(ctx)
	observe("list_contestants", start, err)
	return out, err
}

func (s *Instrumented) UpdateContestant(ctx context.Context, c *model.Contestant) error {
	start := time.Now()
	err := s.next.UpdateContestant(ctx, c)
	observe("update_contestant", start, err)
	return err
}

func (s *Instrumented) DeleteContestant(ctx context.Context, id uint) error {
	start := time.Now()
	err := s.next.DeleteContestant(ctx, id)
	observe("delete_contestant", start, err)
	return err
}

func (s *Instrumented) ListTeams(ctx context.Context) ([]model.Team, error) {
	start := time.Now()
	out, err := s.next.ListTeams(ctx)
	observe("list_teams", start, err)
	return out, err
}

func (s *Instrumented) ListTeamsByPlayer(ctx context.Context, playerID uint) ([]model.Team, error) {
	start := time.Now()
	out, err := s.next.ListTeamsByPlayer(ctx, playerID)
	observe("list_teams_by_player", start, err)
	return out, err
}

func (s *Instrumented) ReplaceRoster(ctx context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error) {
	start := time.Now()
	out, err := s.next.ReplaceRoster(ctx, playerID, contestantIDs)
	observe("replace_roster", start, err)
	return out, err
}

func (s *Instrumented) CreateScore(ctx context.Context, w *model.WeeklyScore) error {
	start := time.Now()
	err := s.next.CreateScore(ctx, w)
	observe("create_score", start, err)
	return err
}

func (s *Instrumented) GetScore(ctx context.Context, id uint) (model.WeeklyScore, error) {
	start := time.Now()
	out, err := s.next.GetScore(ctx, id)
	observe("get_score", start, err)
	return out, err
}

func (s *Instrumented) ListScores(ctx context.Context, f ScoreFilter) ([]model.WeeklyScore, error) {
	start := time.Now()
	out, err := s.next.ListScores(ctx, f)
	observe("list_scores", start, err)
	return out, err
}

func (s *Instrumented) UpdateScore(ctx context.Context, w *model.WeeklyScore) error {
	start := time.Now()
	err := s.next.UpdateScore(ctx, w)
	observe("update_score", start, err)
	return err
}

func (s *Instrumented) DeleteScore(ctx context.Context, id uint) error {
	start := time.Now()
	err := s.next.DeleteScore(ctx, id)
	observe("delete_score", start, err)
	return err
}

func (s *Instrumented) ListSeasonTotals(ctx context.Context) ([]model.SeasonTotal, error) {
	start := time.Now()
	out, err := s.next.ListSeasonTotals(ctx)
	observe("list_season_totals", start, err)
	return out, err
}

func (s *Instrumented) ReplaceSeasonTotals(ctx context.Context, rows []model.SeasonTotal) error {
	start := time.Now()
	err := s.next.ReplaceSeasonTotals(ctx, rows)
	observe("replace_season_totals", start, err)
	return err
}

func (s *Instrumented) Counts(ctx context.Context) (Counts, error) {
	start := time.Now()
	out, err := s.next.Counts(ctx)
	observe("counts", start, err)
	return out, err
}

func (s *Instrumented) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	observe("clear", start, err)
	return err
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}
