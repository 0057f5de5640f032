package service

import (
	"context"
	"strings"

	repository "github.com/okian/bakeoff/internal/adapters/repository"
	"github.com/okian/bakeoff/internal/domain/errs"
	"github.com/okian/bakeoff/internal/domain/model"
	"github.com/okian/bakeoff/pkg/logger"
)

func required(op, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.Newf(op, errs.ErrValidation, "%s is required", field)
	}
	return nil
}

// CreatePlayer registers a player with an empty roster.
func (s *Service) CreatePlayer(ctx context.Context, name, teamName string) (model.Player, error) {
	const op = "service.create_player"
	if err := required(op, "name", name); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}
	if err := required(op, "team_name", teamName); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	p := model.Player{Name: strings.TrimSpace(name), TeamName: strings.TrimSpace(teamName)}
	if err := s.store.CreatePlayer(ctx, &p); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "player created", logger.Uint("playerID", p.ID), logger.String("name", p.Name))
	return p, nil
}

// GetPlayer returns one player.
func (s *Service) GetPlayer(ctx context.Context, id uint) (model.Player, error) {
	p, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return model.Player{}, s.fail(ctx, "service.get_player", err)
	}
	return p, nil
}

// ListPlayers returns every player in registration order.
func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, s.fail(ctx, "service.list_players", err)
	}
	return players, nil
}

// UpdatePlayer renames a player or their team.
func (s *Service) UpdatePlayer(ctx context.Context, id uint, name, teamName string) (model.Player, error) {
	const op = "service.update_player"
	if err := required(op, "name", name); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}
	if err := required(op, "team_name", teamName); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	p := model.Player{ID: id, Name: strings.TrimSpace(name), TeamName: strings.TrimSpace(teamName)}
	if err := s.store.UpdatePlayer(ctx, &p); err != nil {
		return model.Player{}, s.fail(ctx, op, err)
	}
	return p, nil
}

// DeletePlayer removes a player along with their roster and season totals.
func (s *Service) DeletePlayer(ctx context.Context, id uint) error {
	const op = "service.delete_player"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "player deleted", logger.Uint("playerID", id))
	return nil
}

func (s *Service) validElimination(op string, week *int) error {
	if week != nil && (*week < 1 || *week > s.seasonWeeks) {
		return errs.Newf(op, errs.ErrValidation, "eliminated_week must be in 1..%d, got %d", s.seasonWeeks, *week)
	}
	return nil
}

// CreateContestant registers a contestant. eliminatedWeek nil means active.
func (s *Service) CreateContestant(ctx context.Context, name string, eliminatedWeek *int) (model.Contestant, error) {
	const op = "service.create_contestant"
	if err := required(op, "name", name); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}
	if err := s.validElimination(op, eliminatedWeek); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	c := model.Contestant{Name: strings.TrimSpace(name), EliminatedWeek: eliminatedWeek}
	if err := s.store.CreateContestant(ctx, &c); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "contestant created", logger.Uint("contestantID", c.ID), logger.String("name", c.Name))
	return c, nil
}

// GetContestant returns one contestant.
func (s *Service) GetContestant(ctx context.Context, id uint) (model.Contestant, error) {
	c, err := s.store.GetContestant(ctx, id)
	if err != nil {
		return model.Contestant{}, s.fail(ctx, "service.get_contestant", err)
	}
	return c, nil
}

// ListContestants returns every contestant in registration order.
func (s *Service) ListContestants(ctx context.Context) ([]model.Contestant, error) {
	out, err := s.store.ListContestants(ctx)
	if err != nil {
		return nil, s.fail(ctx, "service.list_contestants", err)
	}
	return out, nil
}

// UpdateContestant renames a contestant or sets their elimination week.
// Existing scores are left untouched.
func (s *Service) UpdateContestant(ctx context.Context, id uint, name string, eliminatedWeek *int) (model.Contestant, error) {
	const op = "service.update_contestant"
	if err := required(op, "name", name); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}
	if err := s.validElimination(op, eliminatedWeek); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	c := model.Contestant{ID: id, Name: strings.TrimSpace(name), EliminatedWeek: eliminatedWeek}
	if err := s.store.UpdateContestant(ctx, &c); err != nil {
		return model.Contestant{}, s.fail(ctx, op, err)
	}
	return c, nil
}

// DeleteContestant removes a contestant with their roster links and scores,
// then rebuilds the season.
func (s *Service) DeleteContestant(ctx context.Context, id uint) error {
	const op = "service.delete_contestant"
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	scores, err := s.store.ListScores(ctx, repository.ScoreFilter{})
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if err := s.store.DeleteContestant(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	for _, w := range scores {
		if w.ContestantID == id {
			s.deduper.Forget(ctx, w.ID)
		}
	}
	s.logger.Info(ctx, "contestant deleted", logger.Uint("contestantID", id))

	_, err = s.recalculateLocked(ctx)
	return err
}

// GetRoster returns the player's contestants in roster order.
func (s *Service) GetRoster(ctx context.Context, playerID uint) ([]model.Contestant, error) {
	const op = "service.get_roster"
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	teams, err := s.store.ListTeamsByPlayer(ctx, playerID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	out := make([]model.Contestant, 0, len(teams))
	for _, t := range teams {
		c, err := s.store.GetContestant(ctx, t.ContestantID)
		if err != nil {
			return nil, s.fail(ctx, op, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// SetRoster replaces the player's roster with exactly RosterSize distinct,
// existing contestants, then rebuilds the season.
func (s *Service) SetRoster(ctx context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error) {
	const op = "service.set_roster"
	if len(contestantIDs) != RosterSize {
		return nil, s.fail(ctx, op, errs.Newf(op, errs.ErrValidation,
			"roster needs exactly %d contestants, got %d", RosterSize, len(contestantIDs)))
	}
	seen := make(map[uint]struct{}, len(contestantIDs))
	for _, id := range contestantIDs {
		if _, dup := seen[id]; dup {
			return nil, s.fail(ctx, op, errs.Newf(op, errs.ErrValidation, "contestant %d listed twice", id))
		}
		seen[id] = struct{}{}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.store.GetPlayer(ctx, playerID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	for _, id := range contestantIDs {
		if _, err := s.store.GetContestant(ctx, id); err != nil {
			return nil, s.fail(ctx, op, err)
		}
	}
	teams, err := s.store.ReplaceRoster(ctx, playerID, contestantIDs)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "roster replaced", logger.Uint("playerID", playerID), logger.Any("contestants", contestantIDs))

	if _, err := s.recalculateLocked(ctx); err != nil {
		return teams, err
	}
	return teams, nil
}
