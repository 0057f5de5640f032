package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/bakeoff/internal/domain/model"
)

// MemStore keeps every table in process memory. Rows are copied on the way in
// and out so callers never share state with the store.
type MemStore struct {
	mu sync.RWMutex

	players     []model.Player
	contestants []model.Contestant
	teams       []model.Team
	scores      []model.WeeklyScore
	totals      []model.SeasonTotal

	nextPlayer     uint
	nextContestant uint
	nextTeam       uint
	nextScore      uint

	now func() time.Time
}

// NewMemStore returns an empty in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	o := newOptions(opts...)
	return &MemStore{now: o.clock}
}

var _ Store = (*MemStore)(nil)

func copyContestant(c model.Contestant) model.Contestant {
	if c.EliminatedWeek != nil {
		w := *c.EliminatedWeek
		c.EliminatedWeek = &w
	}
	return c
}

func (s *MemStore) CreatePlayer(_ context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPlayer++
	now := s.now()
	p.ID, p.CreatedAt, p.UpdatedAt = s.nextPlayer, now, now
	s.players = append(s.players, *p)
	return nil
}

func (s *MemStore) GetPlayer(_ context.Context, id uint) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Player{}, notFound("repository.get_player", "player", id)
}

func (s *MemStore) ListPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Player{}, s.players...), nil
}

func (s *MemStore) UpdatePlayer(_ context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == p.ID {
			s.players[i].Name = p.Name
			s.players[i].TeamName = p.TeamName
			s.players[i].UpdatedAt = s.now()
			*p = s.players[i]
			return nil
		}
	}
	return notFound("repository.update_player", "player", p.ID)
}

func (s *MemStore) DeletePlayer(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, p := range s.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("repository.delete_player", "player", id)
	}
	s.players = append(s.players[:idx:idx], s.players[idx+1:]...)
	s.teams = filter(s.teams, func(t model.Team) bool { return t.PlayerID != id })
	s.totals = filter(s.totals, func(t model.SeasonTotal) bool { return t.PlayerID != id })
	return nil
}

func (s *MemStore) nameTaken(name string, except uint) bool {
	for _, c := range s.contestants {
		if c.ID != except && c.Name == name {
			return true
		}
	}
	return false
}

func (s *MemStore) CreateContestant(_ context.Context, c *model.Contestant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c.Name, 0) {
		return duplicateName("repository.create_contestant", c.Name)
	}
	s.nextContestant++
	now := s.now()
	c.ID, c.CreatedAt, c.UpdatedAt = s.nextContestant, now, now
	s.contestants = append(s.contestants, copyContestant(*c))
	return nil
}

func (s *MemStore) GetContestant(_ context.Context, id uint) (model.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contestants {
		if c.ID == id {
			return copyContestant(c), nil
		}
	}
	return model.Contestant{}, notFound("repository.get_contestant", "contestant", id)
}

func (s *MemStore) ListContestants(_ context.Context) ([]model.Contestant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Contestant, len(s.contestants))
	for i, c := range s.contestants {
		out[i] = copyContestant(c)
	}
	return out, nil
}

func (s *MemStore) UpdateContestant(_ context.Context, c *model.Contestant) error {
	const op = "repository.update_contestant"
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contestants {
		if s.contestants[i].ID != c.ID {
			continue
		}
		if s.nameTaken(c.Name, c.ID) {
			return duplicateName(op, c.Name)
		}
		cur := copyContestant(*c)
		cur.CreatedAt = s.contestants[i].CreatedAt
		cur.UpdatedAt = s.now()
		s.contestants[i] = cur
		*c = copyContestant(cur)
		return nil
	}
	return notFound(op, "contestant", c.ID)
}

func (s *MemStore) DeleteContestant(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.contestants {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("repository.delete_contestant", "contestant", id)
	}
	s.contestants = append(s.contestants[:idx:idx], s.contestants[idx+1:]...)
	s.teams = filter(s.teams, func(t model.Team) bool { return t.ContestantID != id })
	s.scores = filter(s.scores, func(w model.WeeklyScore) bool { return w.ContestantID != id })
	return nil
}

func (s *MemStore) ListTeams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Team{}, s.teams...), nil
}

func (s *MemStore) ListTeamsByPlayer(_ context.Context, playerID uint) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.teams, func(t model.Team) bool { return t.PlayerID == playerID }), nil
}

func (s *MemStore) ReplaceRoster(_ context.Context, playerID uint, contestantIDs []uint) ([]model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := filter(s.teams, func(t model.Team) bool { return t.PlayerID != playerID })
	added := make([]model.Team, 0, len(contestantIDs))
	for _, cid := range contestantIDs {
		s.nextTeam++
		added = append(added, model.Team{ID: s.nextTeam, PlayerID: playerID, ContestantID: cid})
	}
	s.teams = append(kept, added...)
	return append([]model.Team{}, added...), nil
}

func (s *MemStore) CreateScore(_ context.Context, w *model.WeeklyScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextScore++
	now := s.now()
	w.ID, w.CreatedAt, w.UpdatedAt = s.nextScore, now, now
	s.scores = append(s.scores, *w)
	return nil
}

func (s *MemStore) GetScore(_ context.Context, id uint) (model.WeeklyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.scores {
		if w.ID == id {
			return w, nil
		}
	}
	return model.WeeklyScore{}, notFound("repository.get_score", "score", id)
}

func (s *MemStore) ListScores(_ context.Context, f ScoreFilter) ([]model.WeeklyScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter(s.scores, func(w model.WeeklyScore) bool {
		return (f.Week == 0 || w.Week == f.Week) && (f.Category == "" || w.Category == f.Category)
	}), nil
}

func (s *MemStore) UpdateScore(_ context.Context, w *model.WeeklyScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.scores {
		if s.scores[i].ID == w.ID {
			w.CreatedAt = s.scores[i].CreatedAt
			w.UpdatedAt = s.now()
			s.scores[i] = *w
			return nil
		}
	}
	return notFound("repository.update_score", "score", w.ID)
}

func (s *MemStore) DeleteScore(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.scores)
	s.scores = filter(s.scores, func(w model.WeeklyScore) bool { return w.ID != id })
	if len(s.scores) == n {
		return notFound("repository.delete_score", "score", id)
	}
	return nil
}

func (s *MemStore) ListSeasonTotals(_ context.Context) ([]model.SeasonTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SeasonTotal{}, s.totals...), nil
}

func (s *MemStore) ReplaceSeasonTotals(_ context.Context, rows []model.SeasonTotal) error {
	fresh := make([]model.SeasonTotal, len(rows))
	for i, r := range rows {
		r.ID = uint(i + 1) //nolint:gosec // index is never negative
		fresh[i] = r
	}
	s.mu.Lock()
	s.totals = fresh
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Counts(_ context.Context) (Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Players:      len(s.players),
		Contestants:  len(s.contestants),
		Teams:        len(s.teams),
		WeeklyScores: len(s.scores),
		SeasonTotals: len(s.totals),
	}, nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players, s.contestants, s.teams, s.scores, s.totals = nil, nil, nil, nil, nil
	return nil
}

func (s *MemStore) Close() error { return nil }

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
